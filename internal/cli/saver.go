package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rowanvale/inkwell/internal/project"
)

// SaveProject writes live project state back to a YAML project file. Entity
// lists are emitted in ascending id order so a save after an identical load
// produces an identical file.
func SaveProject(path string, p *project.Project) error {
	doc := fromProject(p)
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode project file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}

func fromProject(p *project.Project) *projectFile {
	doc := &projectFile{}

	text := p.ReadCategory(project.KindText)
	for _, id := range project.SortedIDs(text) {
		switch e := text[id].(type) {
		case *project.Chapter:
			doc.Chapters = append(doc.Chapters, chapterDoc{ID: e.ID, Title: e.Title, Scenes: e.SceneIDs})
		case *project.Scene:
			doc.Scenes = append(doc.Scenes, sceneDoc{ID: e.ID, Title: e.Title, Content: e.Content})
		}
	}

	summaries := p.ReadCategory(project.KindSummaries)
	for _, id := range project.SortedIDs(summaries) {
		e := summaries[id].(*project.Summary)
		doc.Summaries = append(doc.Summaries, summaryDoc{ID: e.ID, Content: e.Content})
	}

	notes := p.ReadCategory(project.KindNotes)
	for _, id := range project.SortedIDs(notes) {
		e := notes[id].(*project.Note)
		doc.Notes = append(doc.Notes, noteDoc{ID: e.ID, Title: e.Title, Content: e.Content})
	}

	compendium := p.ReadCategory(project.KindCompendium)
	for _, id := range project.SortedIDs(compendium) {
		e := compendium[id].(*project.CompendiumEntry)
		doc.Compendium = append(doc.Compendium, compendiumDoc{
			ID: e.ID, Name: e.Name, Category: e.Category,
			Description: e.Description, Aliases: e.Aliases,
		})
	}

	templates := p.ReadCategory(project.KindTemplates)
	for _, id := range project.SortedIDs(templates) {
		e := templates[id].(*project.Template)
		doc.Templates = append(doc.Templates, templateDoc{ID: e.ID, Name: e.Name, Text: e.Text})
	}

	settings := p.ReadCategory(project.KindSettings)
	for _, id := range project.SortedIDs(settings) {
		e := settings[id].(*project.Setting)
		doc.Settings = append(doc.Settings, settingDoc{Key: e.ID, Value: e.Value})
	}

	workshop := p.ReadCategory(project.KindWorkshop)
	for _, id := range project.SortedIDs(workshop) {
		e := workshop[id].(*project.WorkshopSession)
		msgs := make([]messageDoc, len(e.Messages))
		for i, m := range e.Messages {
			msgs[i] = messageDoc{Role: m.Role, Content: m.Content}
		}
		doc.Workshop = append(doc.Workshop, workshopDoc{ID: e.ID, Title: e.Title, Messages: msgs})
	}

	history := p.ReadCategory(project.KindInputHistory)
	for _, id := range project.SortedIDs(history) {
		e := history[id].(*project.InputHistory)
		doc.InputHistory = append(doc.InputHistory, historyDoc{ID: e.ID, Entries: e.Entries})
	}

	contexts := p.ReadCategory(project.KindSceneContext)
	for _, id := range project.SortedIDs(contexts) {
		e := contexts[id].(*project.SceneContext)
		doc.SceneContext = append(doc.SceneContext, contextDoc{Scene: e.SceneID, Compendium: e.CompendiumIDs})
	}

	return doc
}
