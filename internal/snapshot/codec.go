package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rowanvale/inkwell/internal/project"
)

// snapshotVersion is bumped when the payload layout changes incompatibly.
const snapshotVersion = 1

// Encode serializes a snapshot to deterministic JSON bytes. Encoding the
// same captured state twice yields byte-identical output, so payloads can be
// compared or content-hashed directly.
func Encode(s *Snapshot) ([]byte, error) {
	cats := make(map[string]any, len(s.Categories))
	for _, kind := range project.Kinds() {
		entities := make(map[string]any)
		for id, e := range s.Category(kind) {
			w, err := encodeEntity(kind, e)
			if err != nil {
				return nil, fmt.Errorf("encode %s/%s: %w", kind, id, err)
			}
			entities[id] = w
		}
		cats[string(kind)] = entities
	}
	root := map[string]any{
		"version":    snapshotVersion,
		"id":         s.ID,
		"created_at": s.CreatedAt.UnixMilli(),
		"label":      s.Label,
		"categories": cats,
	}
	return marshalDeterministic(root)
}

// Decode parses snapshot bytes produced by Encode. Unknown categories in the
// payload are ignored so newer payloads degrade instead of failing.
func Decode(data []byte) (*Snapshot, error) {
	var wire struct {
		Version    int                                   `json:"version"`
		ID         string                                `json:"id"`
		CreatedAt  int64                                 `json:"created_at"`
		Label      string                                `json:"label"`
		Categories map[string]map[string]json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if wire.Version != snapshotVersion {
		return nil, fmt.Errorf("decode snapshot: unsupported version %d", wire.Version)
	}
	if wire.ID == "" {
		return nil, fmt.Errorf("decode snapshot: missing id")
	}

	s := &Snapshot{
		ID:         wire.ID,
		CreatedAt:  time.UnixMilli(wire.CreatedAt).UTC(),
		Label:      wire.Label,
		Categories: make(map[project.Kind]map[string]project.Entity),
	}
	for _, kind := range project.Kinds() {
		entities := make(map[string]project.Entity)
		for id, raw := range wire.Categories[string(kind)] {
			e, err := decodeEntity(kind, id, raw)
			if err != nil {
				return nil, fmt.Errorf("decode %s/%s: %w", kind, id, err)
			}
			entities[id] = e
		}
		s.Categories[kind] = entities
	}
	return s, nil
}

func encodeEntity(kind project.Kind, e project.Entity) (map[string]any, error) {
	switch v := e.(type) {
	case *project.Chapter:
		if kind != project.KindText {
			return nil, fmt.Errorf("chapter in category %s", kind)
		}
		return map[string]any{
			"type":   "chapter",
			"title":  v.Title,
			"scenes": strList(v.SceneIDs),
		}, nil
	case *project.Scene:
		if kind != project.KindText {
			return nil, fmt.Errorf("scene in category %s", kind)
		}
		return map[string]any{
			"type":    "scene",
			"title":   v.Title,
			"content": v.Content,
		}, nil
	case *project.Summary:
		return map[string]any{"content": v.Content}, nil
	case *project.Note:
		return map[string]any{"title": v.Title, "content": v.Content}, nil
	case *project.CompendiumEntry:
		return map[string]any{
			"name":        v.Name,
			"category":    v.Category,
			"description": v.Description,
			"aliases":     strList(v.Aliases),
		}, nil
	case *project.Template:
		return map[string]any{"name": v.Name, "text": v.Text}, nil
	case *project.Setting:
		return map[string]any{"value": v.Value}, nil
	case *project.WorkshopSession:
		msgs := make([]any, len(v.Messages))
		for i, m := range v.Messages {
			msgs[i] = map[string]any{"role": m.Role, "content": m.Content}
		}
		return map[string]any{"title": v.Title, "messages": msgs}, nil
	case *project.InputHistory:
		return map[string]any{"entries": strList(v.Entries)}, nil
	case *project.SceneContext:
		return map[string]any{
			"scene":      v.SceneID,
			"compendium": strList(v.CompendiumIDs),
		}, nil
	default:
		return nil, fmt.Errorf("unknown entity type %T", e)
	}
}

func decodeEntity(kind project.Kind, id string, raw json.RawMessage) (project.Entity, error) {
	switch kind {
	case project.KindText:
		var w struct {
			Type    string   `json:"type"`
			Title   string   `json:"title"`
			Content string   `json:"content"`
			Scenes  []string `json:"scenes"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		switch w.Type {
		case "chapter":
			return &project.Chapter{ID: id, Title: w.Title, SceneIDs: w.Scenes}, nil
		case "scene":
			return &project.Scene{ID: id, Title: w.Title, Content: w.Content}, nil
		default:
			return nil, fmt.Errorf("unknown text entity type %q", w.Type)
		}
	case project.KindSummaries:
		var w struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &project.Summary{ID: id, Content: w.Content}, nil
	case project.KindNotes:
		var w struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &project.Note{ID: id, Title: w.Title, Content: w.Content}, nil
	case project.KindCompendium:
		var w struct {
			Name        string   `json:"name"`
			Category    string   `json:"category"`
			Description string   `json:"description"`
			Aliases     []string `json:"aliases"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &project.CompendiumEntry{
			ID: id, Name: w.Name, Category: w.Category,
			Description: w.Description, Aliases: w.Aliases,
		}, nil
	case project.KindTemplates:
		var w struct {
			Name string `json:"name"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &project.Template{ID: id, Name: w.Name, Text: w.Text}, nil
	case project.KindSettings:
		var w struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &project.Setting{ID: id, Value: w.Value}, nil
	case project.KindWorkshop:
		var w struct {
			Title    string `json:"title"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		msgs := make([]project.Message, len(w.Messages))
		for i, m := range w.Messages {
			msgs[i] = project.Message{Role: m.Role, Content: m.Content}
		}
		return &project.WorkshopSession{ID: id, Title: w.Title, Messages: msgs}, nil
	case project.KindInputHistory:
		var w struct {
			Entries []string `json:"entries"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &project.InputHistory{ID: id, Entries: w.Entries}, nil
	case project.KindSceneContext:
		var w struct {
			Scene      string   `json:"scene"`
			Compendium []string `json:"compendium"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &project.SceneContext{ID: id, SceneID: w.Scene, CompendiumIDs: w.Compendium}, nil
	default:
		return nil, fmt.Errorf("unknown category %s", kind)
	}
}

func strList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
