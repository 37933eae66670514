package cli

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/rowanvale/inkwell/internal/project"
)

//go:embed schema.cue
var schemaCUE string

// projectFile is the YAML document layout for a project on disk. Entity
// lists are sorted by id when saving so files diff cleanly.
type projectFile struct {
	Chapters     []chapterDoc    `yaml:"chapters,omitempty"`
	Scenes       []sceneDoc      `yaml:"scenes,omitempty"`
	Summaries    []summaryDoc    `yaml:"summaries,omitempty"`
	Notes        []noteDoc       `yaml:"notes,omitempty"`
	Compendium   []compendiumDoc `yaml:"compendium,omitempty"`
	Templates    []templateDoc   `yaml:"templates,omitempty"`
	Settings     []settingDoc    `yaml:"settings,omitempty"`
	Workshop     []workshopDoc   `yaml:"workshop,omitempty"`
	InputHistory []historyDoc    `yaml:"input_history,omitempty"`
	SceneContext []contextDoc    `yaml:"scene_context,omitempty"`
}

type chapterDoc struct {
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title,omitempty"`
	Scenes []string `yaml:"scenes,omitempty"`
}

type sceneDoc struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title,omitempty"`
	Content string `yaml:"content,omitempty"`
}

type summaryDoc struct {
	ID      string `yaml:"id"`
	Content string `yaml:"content,omitempty"`
}

type noteDoc struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title,omitempty"`
	Content string `yaml:"content,omitempty"`
}

type compendiumDoc struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name,omitempty"`
	Category    string   `yaml:"category,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty"`
}

type templateDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
	Text string `yaml:"text,omitempty"`
}

type settingDoc struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value,omitempty"`
}

type messageDoc struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content,omitempty"`
}

type workshopDoc struct {
	ID       string       `yaml:"id"`
	Title    string       `yaml:"title,omitempty"`
	Messages []messageDoc `yaml:"messages,omitempty"`
}

type historyDoc struct {
	ID      string   `yaml:"id"`
	Entries []string `yaml:"entries,omitempty"`
}

type contextDoc struct {
	Scene      string   `yaml:"scene"`
	Compendium []string `yaml:"compendium,omitempty"`
}

// LoadProject reads, validates and converts a YAML project file into live
// project state. Validation happens in two stages: the embedded CUE schema
// checks shape and field types, then project.Validate checks structural
// invariants (scene membership, context references).
func LoadProject(path string) (*project.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	if err := validateAgainstSchema(data); err != nil {
		return nil, fmt.Errorf("project file %s: %w", path, err)
	}

	var doc projectFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse project file %s: %w", path, err)
	}

	p := doc.toProject()
	if err := project.Validate(p); err != nil {
		return nil, fmt.Errorf("project file %s: %w", path, err)
	}
	return p, nil
}

// validateAgainstSchema unifies the decoded YAML document with the embedded
// CUE schema and reports the first constraint violation.
func validateAgainstSchema(data []byte) error {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if tree == nil {
		tree = map[string]any{}
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Project"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("schema lookup: %w", err)
	}

	unified := def.Unify(cctx.Encode(tree))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema violation: %w", err)
	}
	return nil
}

func (doc *projectFile) toProject() *project.Project {
	p := project.New()
	for _, c := range doc.Chapters {
		p.Put(project.KindText, &project.Chapter{ID: c.ID, Title: c.Title, SceneIDs: c.Scenes})
	}
	for _, s := range doc.Scenes {
		p.Put(project.KindText, &project.Scene{ID: s.ID, Title: s.Title, Content: s.Content})
	}
	for _, s := range doc.Summaries {
		p.Put(project.KindSummaries, &project.Summary{ID: s.ID, Content: s.Content})
	}
	for _, n := range doc.Notes {
		p.Put(project.KindNotes, &project.Note{ID: n.ID, Title: n.Title, Content: n.Content})
	}
	for _, e := range doc.Compendium {
		p.Put(project.KindCompendium, &project.CompendiumEntry{
			ID: e.ID, Name: e.Name, Category: e.Category,
			Description: e.Description, Aliases: e.Aliases,
		})
	}
	for _, t := range doc.Templates {
		p.Put(project.KindTemplates, &project.Template{ID: t.ID, Name: t.Name, Text: t.Text})
	}
	for _, s := range doc.Settings {
		p.Put(project.KindSettings, &project.Setting{ID: s.Key, Value: s.Value})
	}
	for _, w := range doc.Workshop {
		msgs := make([]project.Message, len(w.Messages))
		for i, m := range w.Messages {
			msgs[i] = project.Message{Role: m.Role, Content: m.Content}
		}
		p.Put(project.KindWorkshop, &project.WorkshopSession{ID: w.ID, Title: w.Title, Messages: msgs})
	}
	for _, h := range doc.InputHistory {
		p.Put(project.KindInputHistory, &project.InputHistory{ID: h.ID, Entries: h.Entries})
	}
	for _, c := range doc.SceneContext {
		p.Put(project.KindSceneContext, &project.SceneContext{
			ID: c.Scene, SceneID: c.Scene, CompendiumIDs: c.Compendium,
		})
	}
	return p
}
