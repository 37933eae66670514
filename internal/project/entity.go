package project

// Entity is a single identity-bearing value within a category.
//
// Identity is the opaque id string: two entities with the same id in the
// same category are versions of the same thing. Clone must return a deep
// copy sharing no mutable state with the receiver.
type Entity interface {
	EntityID() string
	Clone() Entity
}

// Chapter is an ordered container of scenes. Scene membership lives only in
// SceneIDs; a Scene carries no back-reference to its chapter.
type Chapter struct {
	ID       string
	Title    string
	SceneIDs []string
}

func (c *Chapter) EntityID() string { return c.ID }

func (c *Chapter) Clone() Entity {
	out := *c
	out.SceneIDs = append([]string(nil), c.SceneIDs...)
	return &out
}

// Scene is one unit of manuscript text.
type Scene struct {
	ID      string
	Title   string
	Content string
}

func (s *Scene) EntityID() string { return s.ID }

func (s *Scene) Clone() Entity {
	out := *s
	return &out
}

// Summary is a condensed description of a scene or chapter, keyed by its own
// id rather than the summarized entity's.
type Summary struct {
	ID      string
	Content string
}

func (s *Summary) EntityID() string { return s.ID }

func (s *Summary) Clone() Entity {
	out := *s
	return &out
}

// Note is a freeform project note.
type Note struct {
	ID      string
	Title   string
	Content string
}

func (n *Note) EntityID() string { return n.ID }

func (n *Note) Clone() Entity {
	out := *n
	return &out
}

// CompendiumEntry is a worldbuilding record: a character, place, item or
// piece of lore referenced from scenes.
type CompendiumEntry struct {
	ID          string
	Name        string
	Category    string
	Description string
	Aliases     []string
}

func (e *CompendiumEntry) EntityID() string { return e.ID }

func (e *CompendiumEntry) Clone() Entity {
	out := *e
	out.Aliases = append([]string(nil), e.Aliases...)
	return &out
}

// Template is a reusable prompt template.
type Template struct {
	ID   string
	Name string
	Text string
}

func (t *Template) EntityID() string { return t.ID }

func (t *Template) Clone() Entity {
	out := *t
	return &out
}

// Setting is one project setting; the id is the setting key.
type Setting struct {
	ID    string
	Value string
}

func (s *Setting) EntityID() string { return s.ID }

func (s *Setting) Clone() Entity {
	out := *s
	return &out
}

// Message is one turn in a workshop session.
type Message struct {
	Role    string
	Content string
}

// WorkshopSession is a saved workshop conversation.
type WorkshopSession struct {
	ID       string
	Title    string
	Messages []Message
}

func (w *WorkshopSession) EntityID() string { return w.ID }

func (w *WorkshopSession) Clone() Entity {
	out := *w
	out.Messages = append([]Message(nil), w.Messages...)
	return &out
}

// InputHistory is the recent-input list for one input surface.
type InputHistory struct {
	ID      string
	Entries []string
}

func (h *InputHistory) EntityID() string { return h.ID }

func (h *InputHistory) Clone() Entity {
	out := *h
	out.Entries = append([]string(nil), h.Entries...)
	return &out
}

// SceneContext associates a scene with the compendium entries that should be
// in context while editing it.
type SceneContext struct {
	ID            string
	SceneID       string
	CompendiumIDs []string
}

func (c *SceneContext) EntityID() string { return c.ID }

func (c *SceneContext) Clone() Entity {
	out := *c
	out.CompendiumIDs = append([]string(nil), c.CompendiumIDs...)
	return &out
}
