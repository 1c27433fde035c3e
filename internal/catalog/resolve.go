package catalog

import (
	"sort"

	"uap-profile-service/internal/domain"
)

// Normalize orders questions by position and reports whether the content is
// usable as a quiz. Questions that fail validation are dropped rather than
// failing the whole bank.
func Normalize(in domain.Content) (domain.Content, bool) {
	qs := make(domain.QuestionBank, 0, len(in.Questions))
	for _, q := range in.Questions {
		if q.Validate() == nil {
			qs = append(qs, q)
		}
	}
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Position < qs[j].Position })

	out := domain.Content{Questions: qs, Archetypes: in.Archetypes}
	if out.Questions.Validate() != nil || out.Archetypes.Validate() != nil {
		return out, false
	}
	return out, true
}

// Resolve picks loaded content when it is usable and the built-in defaults otherwise.
// Questions and archetypes fall back independently. The second return value
// reports whether any part came from the defaults.
func Resolve(loaded domain.Content, err error) (domain.Content, bool) {
	out := Builtin()
	if err != nil {
		return out, true
	}
	fallback := false
	if n, _ := Normalize(loaded); n.Questions.Validate() == nil {
		out.Questions = n.Questions
	} else {
		fallback = true
	}
	if loaded.Archetypes.Validate() == nil {
		out.Archetypes = loaded.Archetypes
	} else {
		fallback = true
	}
	return out, fallback
}
