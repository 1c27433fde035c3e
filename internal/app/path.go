package app

import (
	"uap-profile-service/internal/catalog"
	"uap-profile-service/internal/domain"
)

// MaterializePath turns an archetype into a fresh walkthrough. The recommended
// path is copied verbatim; an empty one is replaced by the default brief.
func MaterializePath(a domain.Archetype) domain.PathState {
	path := append([]string(nil), a.RecommendedPath...)
	if len(path) == 0 {
		path = catalog.DefaultPath()
	}
	return domain.PathState{
		ArchetypeID:   a.ID,
		ArchetypeName: a.Name,
		Path:          path,
		Cursor:        0,
	}
}

// AdvanceCursor moves the cursor onto sectionID when it is the next section
// in sequence. Any other section leaves the state unchanged.
func AdvanceCursor(state domain.PathState, sectionID string) (domain.PathState, bool) {
	next, ok := state.Next()
	if !ok || next != sectionID {
		return state, false
	}
	state.Cursor++
	return state, true
}
