package domain

import (
	"errors"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name string
		q    Question
		ok   bool
	}{
		{"valid", Question{ID: "q", Options: []Option{{Value: "a"}, {Value: "b"}}}, true},
		{"no options", Question{ID: "q"}, false},
		{"duplicate value", Question{ID: "q", Options: []Option{{Value: "a"}, {Value: "a"}}}, false},
		{"missing id", Question{Options: []Option{{Value: "a"}}}, false},
	}
	for _, tt := range tests {
		err := tt.q.Validate()
		if (err == nil) != tt.ok {
			t.Fatalf("%s: unexpected error %v", tt.name, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidQuestion) {
			t.Fatalf("%s: expected ErrInvalidQuestion, got %v", tt.name, err)
		}
	}
}

func TestQuestionBankRejectsDuplicatePositions(t *testing.T) {
	bank := QuestionBank{
		{ID: "q1", Position: 1, Options: []Option{{Value: "a"}}},
		{ID: "q2", Position: 1, Options: []Option{{Value: "a"}}},
	}
	if err := bank.Validate(); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected duplicate position to fail, got %v", err)
	}
}

func TestScoringMapMergesSharedTokens(t *testing.T) {
	bank := QuestionBank{
		{ID: "q1", Position: 1, Options: []Option{{Value: "yes", Archetypes: []string{"a"}}, {Value: "no"}}},
		{ID: "q2", Position: 2, Options: []Option{{Value: "yes", Archetypes: []string{"b", "c"}}}},
	}
	m := bank.ScoringMap()
	if got := m["yes"]; len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("unexpected yes mapping %v", got)
	}
	if got, ok := m["no"]; !ok || len(got) != 0 {
		t.Fatalf("expected empty mapping for no, got %v ok=%v", got, ok)
	}
}

func TestCatalogValidateAndFind(t *testing.T) {
	c := Catalog{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if a, ok := c.Find("b"); !ok || a.Name != "B" {
		t.Fatalf("find b: %+v ok=%v", a, ok)
	}
	if _, ok := c.Find("z"); ok {
		t.Fatalf("expected z to be missing")
	}
	dup := append(c, Archetype{ID: "a"})
	if err := dup.Validate(); !errors.Is(err, ErrDuplicateArchetype) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestPathStateCursorHelpers(t *testing.T) {
	p := PathState{Path: []string{"s1", "s2"}}
	if cur, _ := p.Current(); cur != "s1" {
		t.Fatalf("current = %q", cur)
	}
	if next, _ := p.Next(); next != "s2" {
		t.Fatalf("next = %q", next)
	}
	p.Cursor = 1
	if _, ok := p.Next(); ok {
		t.Fatalf("expected no next section at the end")
	}
	if !(PathState{}).Empty() {
		t.Fatalf("zero state must be empty")
	}
}

func TestKeys(t *testing.T) {
	k := NewKeys("")
	if k.Path() != "uap_path" || k.PathIndex() != "uap_path_index" || k.UserID() != "uap_user_id" {
		t.Fatalf("unexpected default keys %+v", k)
	}
	if got := k.Progress(ContentJourneyStep, "7"); got != "uap_progress_journey_step_7" {
		t.Fatalf("progress key = %q", got)
	}
	if got := NewKeys("beta").ArchetypeName(); got != "beta_archetype_name" {
		t.Fatalf("namespaced key = %q", got)
	}
	if n := len(k.PathKeys()); n != 5 {
		t.Fatalf("expected 5 path keys, got %d", n)
	}
}

func TestParseEnums(t *testing.T) {
	if ct, err := ParseContentType("Journey-Step"); err != nil || ct != ContentJourneyStep {
		t.Fatalf("journey-step: %v %v", ct, err)
	}
	if _, err := ParseContentType("podcast"); !errors.Is(err, ErrInvalidContentType) {
		t.Fatalf("expected invalid type, got %v", err)
	}
	if st, err := ParseContentStatus("saved"); err != nil || st != StatusLater {
		t.Fatalf("saved: %v %v", st, err)
	}
	if _, err := ParseContentStatus("liked"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}
