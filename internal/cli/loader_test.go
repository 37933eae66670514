package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanvale/inkwell/internal/project"
)

const validProjectYAML = `chapters:
  - id: ch-1
    title: One
    scenes: [sc-1, sc-2]
scenes:
  - id: sc-1
    title: Opening
    content: It began.
  - id: sc-2
    title: Middle
notes:
  - id: note-1
    title: Tone
compendium:
  - id: comp-1
    name: Mara
    category: character
    aliases: [M]
settings:
  - key: theme
    value: dark
workshop:
  - id: ws-1
    title: Brainstorm
    messages:
      - role: user
        content: Ideas?
      - role: assistant
        content: Three.
scene_context:
  - scene: sc-1
    compendium: [comp-1]
`

func writeProjectFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProject_Valid(t *testing.T) {
	p, err := LoadProject(writeProjectFile(t, validProjectYAML))
	require.NoError(t, err)

	ch, ok := p.ReadCategory(project.KindText)["ch-1"].(*project.Chapter)
	require.True(t, ok)
	assert.Equal(t, []string{"sc-1", "sc-2"}, ch.SceneIDs)

	setting, ok := p.ReadCategory(project.KindSettings)["theme"].(*project.Setting)
	require.True(t, ok)
	assert.Equal(t, "dark", setting.Value)

	cctx, ok := p.ReadCategory(project.KindSceneContext)["sc-1"].(*project.SceneContext)
	require.True(t, ok)
	assert.Equal(t, []string{"comp-1"}, cctx.CompendiumIDs)
}

func TestLoadProject_MissingFile(t *testing.T) {
	_, err := LoadProject(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read project file")
}

func TestLoadProject_EmptyFile(t *testing.T) {
	// An empty document is a valid, empty project.
	p, err := LoadProject(writeProjectFile(t, "{}\n"))
	require.NoError(t, err)
	for _, kind := range project.Kinds() {
		assert.Zero(t, p.Len(kind))
	}
}

func TestLoadProject_SchemaRejectsEmptyID(t *testing.T) {
	_, err := LoadProject(writeProjectFile(t, `scenes:
  - id: ""
    title: Anonymous
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema violation")
}

func TestLoadProject_SchemaRejectsBadRole(t *testing.T) {
	_, err := LoadProject(writeProjectFile(t, `workshop:
  - id: ws-1
    messages:
      - role: narrator
        content: hm
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema violation")
}

func TestLoadProject_SchemaRejectsUnknownField(t *testing.T) {
	_, err := LoadProject(writeProjectFile(t, `chapterz:
  - id: ch-1
`))
	require.Error(t, err)
}

func TestLoadProject_StructuralViolation(t *testing.T) {
	// Schema-clean but structurally broken: the chapter references a scene
	// that does not exist.
	_, err := LoadProject(writeProjectFile(t, `chapters:
  - id: ch-1
    scenes: [sc-9]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing scene sc-9")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	original, err := LoadProject(writeProjectFile(t, validProjectYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, SaveProject(path, original))

	reloaded, err := LoadProject(path)
	require.NoError(t, err)
	for _, kind := range project.Kinds() {
		require.Equal(t, project.SortedIDs(original.ReadCategory(kind)), project.SortedIDs(reloaded.ReadCategory(kind)), "ids in %s", kind)
		for id, e := range original.ReadCategory(kind) {
			assert.Equal(t, e, reloaded.ReadCategory(kind)[id], "%s/%s", kind, id)
		}
	}

	// Saving again must reproduce the file byte for byte.
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, SaveProject(path, reloaded))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
