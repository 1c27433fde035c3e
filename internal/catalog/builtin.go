// Package catalog holds the built-in question bank and archetype catalog used
// whenever the backend is unreachable or returns nothing usable.
package catalog

import "uap-profile-service/internal/domain"

// defaultPath is substituted for archetypes without a recommended path.
var defaultPath = []string{"executive-summary", "key-claims", "evidence-tiers", "open-questions"}

// DefaultPath returns a fresh copy of the executive brief ordering.
func DefaultPath() []string {
	return append([]string(nil), defaultPath...)
}

var archetypes = domain.Catalog{
	{
		ID:              "empiricist",
		Name:            "The Empiricist",
		Description:     "Wants sensor data, chain of custody and measurements before anything else.",
		RecommendedPath: []string{"sensor-data", "evidence-tiers", "key-claims", "open-questions"},
		Icon:            "radar",
		Interests:       "Radar tracks, infrared footage, instrument readings",
	},
	{
		ID:              "skeptic",
		Name:            "The Skeptic",
		Description:     "Starts from prosaic explanations and looks for where they break down.",
		RecommendedPath: []string{"skeptical-analysis", "evidence-tiers", "key-claims", "sensor-data"},
		Icon:            "magnifier",
		Interests:       "Misidentification, balloons, parallax, debunks",
	},
	{
		ID:              "historian",
		Name:            "The Historian",
		Description:     "Reads the subject through decades of programs, reports and public statements.",
		RecommendedPath: []string{"historical-timeline", "government-disclosure", "key-claims", "testimony"},
		Icon:            "scroll",
		Interests:       "Project Blue Book, AATIP, hearings, archival documents",
	},
	{
		ID:              "policy",
		Name:            "The Policy Watcher",
		Description:     "Follows legislation, oversight and what officials have said on the record.",
		RecommendedPath: []string{"government-disclosure", "testimony", "executive-summary", "open-questions"},
		Icon:            "capitol",
		Interests:       "NDAA provisions, AARO reports, congressional testimony",
	},
	{
		ID:          "newcomer",
		Name:        "The Newcomer",
		Description: "Just arrived and wants the shortest trustworthy overview.",
		Icon:        "compass",
		Interests:   "A general overview",
	},
}

var questions = domain.QuestionBank{
	{
		ID:       "q-motivation",
		Position: 1,
		Prompt:   "What brings you to this topic?",
		Options: []domain.Option{
			{Label: "I want to see the data", Value: "see-data", Archetypes: []string{"empiricist"}},
			{Label: "I suspect most of it has a mundane explanation", Value: "mundane", Archetypes: []string{"skeptic"}},
			{Label: "I'm curious how we got here", Value: "how-we-got-here", Archetypes: []string{"historian"}},
			{Label: "Recent hearings and news", Value: "hearings", Archetypes: []string{"policy"}},
			{Label: "Just browsing", Value: "browsing", Archetypes: []string{"newcomer"}},
		},
	},
	{
		ID:       "q-evidence",
		Position: 2,
		Prompt:   "Which kind of evidence do you find most convincing?",
		Options: []domain.Option{
			{Label: "Multi-sensor recordings", Value: "multi-sensor", Archetypes: []string{"empiricist"}},
			{Label: "None so far", Value: "none-so-far", Archetypes: []string{"skeptic"}},
			{Label: "Declassified documents", Value: "documents", Archetypes: []string{"historian", "policy"}},
			{Label: "Sworn testimony", Value: "testimony", Archetypes: []string{"policy"}},
		},
	},
	{
		ID:       "q-depth",
		Position: 3,
		Prompt:   "How deep do you want to go?",
		Options: []domain.Option{
			{Label: "Raw files and technical detail", Value: "raw", Archetypes: []string{"empiricist", "skeptic"}},
			{Label: "A long read with context", Value: "long-read", Archetypes: []string{"historian"}},
			{Label: "The key points only", Value: "key-points", Archetypes: []string{"newcomer", "policy"}},
		},
	},
	{
		ID:       "q-claims",
		Position: 4,
		Prompt:   "When you read an extraordinary claim, your first move is to...",
		Options: []domain.Option{
			{Label: "Look for the source data", Value: "source-data", Archetypes: []string{"empiricist"}},
			{Label: "Look for the simplest explanation", Value: "simplest", Archetypes: []string{"skeptic"}},
			{Label: "Check who said it before", Value: "precedent", Archetypes: []string{"historian"}},
			{Label: "Check who is accountable", Value: "accountable", Archetypes: []string{"policy"}},
			{Label: "Not sure yet", Value: "unsure", Archetypes: nil},
		},
	},
	{
		ID:       "q-outcome",
		Position: 5,
		Prompt:   "What would you like to leave with?",
		Options: []domain.Option{
			{Label: "A ranked view of the strongest cases", Value: "strongest-cases", Archetypes: []string{"empiricist"}},
			{Label: "A list of what has been explained", Value: "explained", Archetypes: []string{"skeptic"}},
			{Label: "A timeline I can share", Value: "timeline", Archetypes: []string{"historian"}},
			{Label: "Where disclosure stands today", Value: "disclosure", Archetypes: []string{"policy"}},
			{Label: "A quick primer", Value: "primer", Archetypes: []string{"newcomer"}},
		},
	},
}

// Builtin returns deep copies of the fallback question bank and archetype catalog.
func Builtin() domain.Content {
	return domain.Content{
		Questions:  CloneQuestions(questions),
		Archetypes: CloneArchetypes(archetypes),
	}
}

// CloneQuestions deep-copies a question bank.
func CloneQuestions(in domain.QuestionBank) domain.QuestionBank {
	out := make(domain.QuestionBank, len(in))
	for i, q := range in {
		q.Options = append([]domain.Option(nil), q.Options...)
		for j := range q.Options {
			q.Options[j].Archetypes = append([]string(nil), q.Options[j].Archetypes...)
		}
		out[i] = q
	}
	return out
}

// CloneArchetypes deep-copies an archetype catalog.
func CloneArchetypes(in domain.Catalog) domain.Catalog {
	out := make(domain.Catalog, len(in))
	for i, a := range in {
		a.RecommendedPath = append([]string(nil), a.RecommendedPath...)
		out[i] = a
	}
	return out
}
