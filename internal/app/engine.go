package app

import (
	"sort"
	"time"

	"uap-profile-service/internal/domain"
)

// QuizState is the position of a quiz in its lifecycle.
type QuizState int

const (
	StateInProgress QuizState = iota
	StateResults
	StateAbandoned
)

func (s QuizState) String() string {
	switch s {
	case StateResults:
		return "results"
	case StateAbandoned:
		return "abandoned"
	default:
		return "in_progress"
	}
}

func (s QuizState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Engine scores one persona quiz. It is not safe for concurrent use; Session
// adds locking on top.
type Engine struct {
	questions domain.QuestionBank
	catalog   domain.Catalog
	known     map[string]struct{}
	now       func() time.Time

	answers domain.AnswerSet
	index   int
	state   QuizState
	result  domain.Result
}

func NewEngine(content domain.Content) *Engine {
	return newEngineWithClock(content, time.Now)
}

func newEngineWithClock(content domain.Content, now func() time.Time) *Engine {
	known := make(map[string]struct{}, len(content.Archetypes))
	for _, a := range content.Archetypes {
		known[a.ID] = struct{}{}
	}
	return &Engine{
		questions: content.Questions,
		catalog:   content.Archetypes,
		known:     known,
		now:       now,
		answers:   make(domain.AnswerSet),
	}
}

func (e *Engine) State() QuizState { return e.state }

// Index is the current question cursor.
func (e *Engine) Index() int { return e.index }

func (e *Engine) Total() int { return len(e.questions) }

// Current returns the question under the cursor while the quiz is in progress.
func (e *Engine) Current() (domain.Question, bool) {
	if e.state != StateInProgress || e.index < 0 || e.index >= len(e.questions) {
		return domain.Question{}, false
	}
	return e.questions[e.index], true
}

// Answers returns a copy of the current answer set.
func (e *Engine) Answers() domain.AnswerSet {
	out := make(domain.AnswerSet, len(e.answers))
	for k, v := range e.answers {
		out[k] = v
	}
	return out
}

// RecordAnswer stores value as the answer to questionID and moves the cursor
// past it. Answering the last question finalizes the results. Unknown
// questions or values, and questions after the cursor, are ignored and leave
// the engine untouched.
func (e *Engine) RecordAnswer(questionID, value string) bool {
	if e.state != StateInProgress {
		return false
	}
	pos := -1
	for i, q := range e.questions {
		if q.ID == questionID {
			pos = i
			break
		}
	}
	// answers may revisit earlier questions but never skip ahead of the cursor
	if pos < 0 || pos > e.index {
		return false
	}
	if _, ok := e.questions[pos].Option(value); !ok {
		return false
	}

	e.answers[questionID] = value
	if pos == len(e.questions)-1 {
		e.finalize()
		return true
	}
	e.index = pos + 1
	return true
}

// Back moves the cursor to the previous question.
func (e *Engine) Back() bool {
	if e.state != StateInProgress || e.index == 0 {
		return false
	}
	e.index--
	return true
}

// Tally derives the score per archetype from the current answer set. Every
// catalog archetype is present, possibly with zero points.
func (e *Engine) Tally() domain.ScoreTally {
	tally := make(domain.ScoreTally, len(e.catalog))
	for _, a := range e.catalog {
		tally[a.ID] = 0
	}
	for _, q := range e.questions {
		value, ok := e.answers[q.ID]
		if !ok {
			continue
		}
		opt, ok := q.Option(value)
		if !ok {
			continue
		}
		seen := make(map[string]struct{}, len(opt.Archetypes))
		for _, id := range opt.Archetypes {
			if _, known := e.known[id]; !known {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			tally[id]++
		}
	}
	return tally
}

// FinalizeResults ranks the catalog by the current tally without changing state.
func (e *Engine) FinalizeResults() domain.Result {
	tally := e.Tally()
	ranked := Rank(e.catalog, tally)

	res := domain.Result{Scores: tally, CompletedAt: e.now()}
	if len(ranked) > 0 {
		p := ranked[0]
		res.Primary = &p
	}
	if len(ranked) > 1 {
		s := ranked[1]
		res.Secondary = &s
	}
	return res
}

// Result returns the finalized result once the quiz reached StateResults.
func (e *Engine) Result() (domain.Result, bool) {
	if e.state != StateResults {
		return domain.Result{}, false
	}
	return e.result, true
}

// Retake clears answers and returns to the first question.
func (e *Engine) Retake() {
	e.answers = make(domain.AnswerSet)
	e.index = 0
	e.state = StateInProgress
	e.result = domain.Result{}
}

// Abandon closes an in-progress quiz without producing results.
func (e *Engine) Abandon() bool {
	if e.state != StateInProgress {
		return false
	}
	e.state = StateAbandoned
	return true
}

// Restore replays persisted answers. The cursor lands on the first
// unanswered question; a fully answered bank is finalized.
func (e *Engine) Restore(answers domain.AnswerSet) {
	e.Retake()
	for _, q := range e.questions {
		if v, ok := answers[q.ID]; ok {
			if _, valid := q.Option(v); valid {
				e.answers[q.ID] = v
			}
		}
	}
	for i, q := range e.questions {
		if _, ok := e.answers[q.ID]; !ok {
			e.index = i
			return
		}
	}
	if len(e.questions) > 0 {
		e.finalize()
	}
}

func (e *Engine) finalize() {
	e.result = e.FinalizeResults()
	e.state = StateResults
	e.index = len(e.questions)
}

// Rank orders the catalog by tally, highest first. Ties keep catalog order,
// so with no points at all the catalog order is returned unchanged.
func Rank(catalog domain.Catalog, tally domain.ScoreTally) []domain.Archetype {
	ranked := make([]domain.Archetype, len(catalog))
	copy(ranked, catalog)
	sort.SliceStable(ranked, func(i, j int) bool {
		return tally[ranked[i].ID] > tally[ranked[j].ID]
	})
	return ranked
}
