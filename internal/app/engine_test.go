package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uap-profile-service/internal/domain"
)

// fiveQuestionContent yields {empiricist: 3, skeptic: 2, historian: 1} when
// answered with scenarioAnswers.
func fiveQuestionContent() domain.Content {
	opt := func(value string, ids ...string) domain.Option {
		return domain.Option{Label: value, Value: value, Archetypes: ids}
	}
	return domain.Content{
		Questions: domain.QuestionBank{
			{ID: "q1", Position: 1, Options: []domain.Option{opt("a", "empiricist"), opt("b", "skeptic")}},
			{ID: "q2", Position: 2, Options: []domain.Option{opt("a", "empiricist", "skeptic"), opt("b", "historian")}},
			{ID: "q3", Position: 3, Options: []domain.Option{opt("a", "empiricist"), opt("none")}},
			{ID: "q4", Position: 4, Options: []domain.Option{opt("a", "skeptic"), opt("b", "historian")}},
			{ID: "q5", Position: 5, Options: []domain.Option{opt("a", "ghost"), opt("b", "historian")}},
		},
		Archetypes: domain.Catalog{
			{ID: "historian", Name: "The Historian"},
			{ID: "skeptic", Name: "The Skeptic"},
			{ID: "empiricist", Name: "The Empiricist", RecommendedPath: []string{"a", "b", "c", "f"}},
		},
	}
}

var scenarioAnswers = []struct{ q, v string }{
	{"q1", "a"}, // empiricist
	{"q2", "a"}, // empiricist, skeptic
	{"q3", "a"}, // empiricist
	{"q4", "a"}, // skeptic
	{"q5", "b"}, // historian
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestEngineScenarioRanksEmpiricistFirst(t *testing.T) {
	e := newEngineWithClock(fiveQuestionContent(), fixedClock())
	for i, a := range scenarioAnswers {
		require.True(t, e.RecordAnswer(a.q, a.v), "answer %d", i)
		if i < len(scenarioAnswers)-1 {
			assert.Equal(t, i+1, e.Index())
			assert.Equal(t, StateInProgress, e.State())
		}
	}

	require.Equal(t, StateResults, e.State())
	res, ok := e.Result()
	require.True(t, ok)
	assert.Equal(t, domain.ScoreTally{"empiricist": 3, "skeptic": 2, "historian": 1}, res.Scores)
	require.NotNil(t, res.Primary)
	require.NotNil(t, res.Secondary)
	assert.Equal(t, "empiricist", res.Primary.ID)
	assert.Equal(t, "skeptic", res.Secondary.ID)
}

func TestEngineIgnoresUnknownQuestionOrValue(t *testing.T) {
	e := NewEngine(fiveQuestionContent())

	assert.False(t, e.RecordAnswer("nope", "a"))
	assert.False(t, e.RecordAnswer("q1", "zzz"))
	assert.Equal(t, 0, e.Index())
	assert.Empty(t, e.Answers())
	for _, v := range e.Tally() {
		assert.Zero(t, v)
	}
}

func TestEngineRejectsAnswerAheadOfCursor(t *testing.T) {
	e := NewEngine(fiveQuestionContent())

	assert.False(t, e.RecordAnswer("q5", "b"))
	assert.Equal(t, StateInProgress, e.State())
	assert.Equal(t, 0, e.Index())
	assert.Empty(t, e.Answers())

	require.True(t, e.RecordAnswer("q1", "a"))
	require.True(t, e.RecordAnswer("q2", "b"))
	assert.False(t, e.RecordAnswer("q4", "a"), "q3 is still unanswered")

	// going back and changing an earlier answer stays allowed
	require.True(t, e.Back())
	require.True(t, e.Back())
	require.True(t, e.RecordAnswer("q1", "b"))
	assert.Equal(t, 1, e.Index())
	assert.Equal(t, "b", e.Answers()["q1"])
}

func TestEngineEmptyScoringEntryContributesNothing(t *testing.T) {
	e := NewEngine(fiveQuestionContent())
	require.True(t, e.RecordAnswer("q1", "a"))
	require.True(t, e.RecordAnswer("q2", "b"))
	before := e.Tally()
	require.True(t, e.RecordAnswer("q3", "none"))
	assert.Equal(t, before, e.Tally())

	// "ghost" is not in the catalog and is ignored
	require.True(t, e.RecordAnswer("q4", "b"))
	require.True(t, e.RecordAnswer("q5", "a"))
	assert.NotContains(t, e.Tally(), "ghost")
	assert.Equal(t, domain.ScoreTally{"empiricist": 1, "skeptic": 0, "historian": 2}, e.Tally())
}

func TestEngineReansweringReplacesContribution(t *testing.T) {
	e := NewEngine(fiveQuestionContent())
	require.True(t, e.RecordAnswer("q1", "a"))
	assert.Equal(t, 1, e.Tally()["empiricist"])

	require.True(t, e.Back())
	require.True(t, e.RecordAnswer("q1", "b"))
	tally := e.Tally()
	assert.Equal(t, 0, tally["empiricist"])
	assert.Equal(t, 1, tally["skeptic"])
	assert.Equal(t, 1, e.Index())
}

func TestEngineNoPointsFallsBackToCatalogOrder(t *testing.T) {
	content := fiveQuestionContent()
	for i := range content.Questions {
		for j := range content.Questions[i].Options {
			content.Questions[i].Options[j].Archetypes = nil
		}
	}
	e := NewEngine(content)
	for _, a := range scenarioAnswers {
		e.RecordAnswer(a.q, a.v)
	}
	res, ok := e.Result()
	require.True(t, ok)
	assert.Equal(t, "historian", res.Primary.ID)
	assert.Equal(t, "skeptic", res.Secondary.ID)
}

func TestRankTiesKeepCatalogOrder(t *testing.T) {
	cat := domain.Catalog{{ID: "x"}, {ID: "y"}, {ID: "z"}}
	ranked := Rank(cat, domain.ScoreTally{"x": 1, "y": 2, "z": 2})
	ids := []string{ranked[0].ID, ranked[1].ID, ranked[2].ID}
	assert.Equal(t, []string{"y", "z", "x"}, ids)

	// primary is never lower than any other archetype
	tally := domain.ScoreTally{"x": 4, "y": 0, "z": 4}
	top := Rank(cat, tally)[0]
	for _, a := range cat {
		assert.GreaterOrEqual(t, tally[top.ID], tally[a.ID])
	}
	assert.Equal(t, "x", top.ID)
}

func TestFinalizeWithSingleArchetypeHasNoSecondary(t *testing.T) {
	e := NewEngine(domain.Content{
		Questions:  domain.QuestionBank{{ID: "q", Position: 1, Options: []domain.Option{{Value: "v"}}}},
		Archetypes: domain.Catalog{{ID: "solo"}},
	})
	require.True(t, e.RecordAnswer("q", "v"))
	res, _ := e.Result()
	require.NotNil(t, res.Primary)
	assert.Equal(t, "solo", res.Primary.ID)
	assert.Nil(t, res.Secondary)
}

func TestEngineRetakeAndAbandon(t *testing.T) {
	e := NewEngine(fiveQuestionContent())
	for _, a := range scenarioAnswers {
		e.RecordAnswer(a.q, a.v)
	}
	require.Equal(t, StateResults, e.State())
	assert.False(t, e.Abandon(), "results cannot be abandoned")
	assert.False(t, e.RecordAnswer("q1", "a"), "answers are closed once results exist")

	e.Retake()
	assert.Equal(t, StateInProgress, e.State())
	assert.Equal(t, 0, e.Index())
	assert.Empty(t, e.Answers())
	_, ok := e.Result()
	assert.False(t, ok)

	assert.True(t, e.Abandon())
	assert.Equal(t, StateAbandoned, e.State())
	_, ok = e.Current()
	assert.False(t, ok)
}

func TestEngineRestore(t *testing.T) {
	e := NewEngine(fiveQuestionContent())
	e.Restore(domain.AnswerSet{"q1": "a", "q2": "bogus", "q3": "a"})
	assert.Equal(t, domain.AnswerSet{"q1": "a", "q3": "a"}, e.Answers())
	assert.Equal(t, 1, e.Index(), "cursor lands on first unanswered question")

	all := domain.AnswerSet{}
	for _, a := range scenarioAnswers {
		all[a.q] = a.v
	}
	e.Restore(all)
	require.Equal(t, StateResults, e.State())
	res, _ := e.Result()
	assert.Equal(t, "empiricist", res.Primary.ID)
}
