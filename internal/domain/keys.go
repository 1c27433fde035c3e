package domain

// DefaultNamespace prefixes every local storage key.
const DefaultNamespace = "uap"

// Keys names the flat local storage entries of one namespace.
type Keys struct {
	Namespace string
}

// NewKeys falls back to DefaultNamespace when ns is empty.
func NewKeys(ns string) Keys {
	if ns == "" {
		ns = DefaultNamespace
	}
	return Keys{Namespace: ns}
}

func (k Keys) Path() string          { return k.Namespace + "_path" }
func (k Keys) PathIndex() string     { return k.Namespace + "_path_index" }
func (k Keys) ArchetypeID() string   { return k.Namespace + "_archetype_id" }
func (k Keys) ArchetypeName() string { return k.Namespace + "_archetype_name" }
func (k Keys) UserID() string        { return k.Namespace + "_user_id" }

// QuizResult is the legacy combined blob written by older clients.
func (k Keys) QuizResult() string { return k.Namespace + "_quiz_result" }

// Progress is the local mirror of one content status.
func (k Keys) Progress(ct ContentType, contentID string) string {
	return k.Namespace + "_progress_" + string(ct) + "_" + contentID
}

// PathKeys lists every key cleared by a path reset.
func (k Keys) PathKeys() []string {
	return []string{k.Path(), k.PathIndex(), k.ArchetypeID(), k.ArchetypeName(), k.QuizResult()}
}
