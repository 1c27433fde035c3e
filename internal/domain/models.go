package domain

import "time"

// Option is one selectable answer of a question. Archetypes lists the
// archetype ids the option awards a point to.
type Option struct {
	Label      string   `json:"label"`
	Value      string   `json:"value"`
	Archetypes []string `json:"archetypes"`
}

// Question models a multiple-choice persona question.
type Question struct {
	ID       string   `json:"id"`
	Position int      `json:"position"`
	Prompt   string   `json:"prompt"`
	Options  []Option `json:"options"`
}

// Option returns the option carrying value, if any.
func (q Question) Option(value string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// Validate checks the option invariants of a single question.
func (q Question) Validate() error {
	if q.ID == "" {
		return ErrInvalidQuestion
	}
	if len(q.Options) == 0 {
		return ErrInvalidQuestion
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := seen[opt.Value]; dup {
			return ErrInvalidQuestion
		}
		seen[opt.Value] = struct{}{}
	}
	return nil
}

// QuestionBank is the ordered question set of one quiz instance.
type QuestionBank []Question

// Validate checks every question plus position and id uniqueness.
func (b QuestionBank) Validate() error {
	if len(b) == 0 {
		return ErrEmptyCatalog
	}
	positions := make(map[int]struct{}, len(b))
	ids := make(map[string]struct{}, len(b))
	for _, q := range b {
		if err := q.Validate(); err != nil {
			return err
		}
		if _, dup := positions[q.Position]; dup {
			return ErrInvalidQuestion
		}
		if _, dup := ids[q.ID]; dup {
			return ErrInvalidQuestion
		}
		positions[q.Position] = struct{}{}
		ids[q.ID] = struct{}{}
	}
	return nil
}

// ScoringMap flattens the bank into value token -> archetype ids.
// Value tokens shared across questions merge into one entry.
func (b QuestionBank) ScoringMap() map[string][]string {
	out := make(map[string][]string)
	for _, q := range b {
		for _, opt := range q.Options {
			out[opt.Value] = append(out[opt.Value], opt.Archetypes...)
		}
	}
	return out
}

// Archetype is a research persona with its recommended reading order.
type Archetype struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	RecommendedPath []string `json:"recommendedPath"`
	Icon            string   `json:"icon,omitempty"`
	Interests       string   `json:"interests,omitempty"`
}

// Catalog is the ordered archetype set. Order is the tie-break order for ranking.
type Catalog []Archetype

// Validate checks id uniqueness.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(c))
	for _, a := range c {
		if a.ID == "" {
			return ErrUnknownArchetype
		}
		if _, dup := seen[a.ID]; dup {
			return ErrDuplicateArchetype
		}
		seen[a.ID] = struct{}{}
	}
	return nil
}

// Find returns the archetype with id.
func (c Catalog) Find(id string) (Archetype, bool) {
	for _, a := range c {
		if a.ID == id {
			return a, true
		}
	}
	return Archetype{}, false
}

// Content bundles everything a quiz needs.
type Content struct {
	Questions  QuestionBank `json:"questions"`
	Archetypes Catalog      `json:"archetypes"`
}

// AnswerSet maps question id to the chosen option value.
type AnswerSet map[string]string

// ScoreTally maps archetype id to points.
type ScoreTally map[string]int

// Result is the finalized outcome of a quiz.
type Result struct {
	Primary     *Archetype `json:"primary"`
	Secondary   *Archetype `json:"secondary,omitempty"`
	Scores      ScoreTally `json:"scores"`
	CompletedAt time.Time  `json:"completedAt"`
}

// PathState is the persisted guided-walkthrough position.
type PathState struct {
	ArchetypeID   string   `json:"archetypeId"`
	ArchetypeName string   `json:"archetypeName"`
	Path          []string `json:"path"`
	Cursor        int      `json:"cursor"`
}

// Empty reports whether there is no active path.
func (p PathState) Empty() bool {
	return len(p.Path) == 0
}

// Current returns the section the cursor points at.
func (p PathState) Current() (string, bool) {
	if p.Cursor < 0 || p.Cursor >= len(p.Path) {
		return "", false
	}
	return p.Path[p.Cursor], true
}

// Next returns the section after the cursor, if there is one.
func (p PathState) Next() (string, bool) {
	i := p.Cursor + 1
	if i < 0 || i >= len(p.Path) {
		return "", false
	}
	return p.Path[i], true
}

// ProgressRecord is one (user, content type, content id) status row.
type ProgressRecord struct {
	UserID      string        `json:"userId"`
	ContentType ContentType   `json:"contentType"`
	ContentID   string        `json:"contentId"`
	Status      ContentStatus `json:"status"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// StorageChanged is broadcast after every write to a device's local store.
type StorageChanged struct {
	Scope string    `json:"scope"`
	Keys  []string  `json:"keys"`
	At    time.Time `json:"at"`
}
