// Package quiz models the clarifying questionnaire shown between selection
// and the final report.
package quiz

import (
	"errors"
	"fmt"
)

// Origin records where a question set came from.
type Origin string

const (
	OriginGenerated Origin = "generated"
	OriginFallback  Origin = "fallback"
)

var (
	ErrEmptyQuiz       = errors.New("quiz has no questions")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownOption   = errors.New("unknown option")
)

// Option is one selectable answer.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a multiple-choice question. The wire name of Text is
// "question" to match the generator's output.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"question"`
	Options []Option `json:"options"`
}

// HasOption reports whether id names one of q's options.
func (q Question) HasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Option returns the option with the given id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Validate checks a question list: non-empty, unique non-blank question ids,
// and at least one option per question with unique option ids.
func Validate(questions []Question) error {
	if len(questions) == 0 {
		return ErrEmptyQuiz
	}
	seen := make(map[string]bool, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("question %d: missing id", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("question %q: duplicate id", q.ID)
		}
		seen[q.ID] = true
		if q.Text == "" {
			return fmt.Errorf("question %q: missing text", q.ID)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("question %q: no options", q.ID)
		}
		opts := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" {
				return fmt.Errorf("question %q: option without id", q.ID)
			}
			if opts[o.ID] {
				return fmt.Errorf("question %q: duplicate option %q", q.ID, o.ID)
			}
			opts[o.ID] = true
		}
	}
	return nil
}

// Clone deep-copies a question list.
func Clone(questions []Question) []Question {
	if questions == nil {
		return nil
	}
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Answers maps question id to chosen option id.
type Answers map[string]string

// Clone copies the answer map.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Record sets the answer for questionID after checking it against the
// question list. Re-answering a question replaces the earlier choice.
func (a Answers) Record(questions []Question, questionID, optionID string) error {
	for _, q := range questions {
		if q.ID != questionID {
			continue
		}
		if !q.HasOption(optionID) {
			return fmt.Errorf("%w %q for question %q", ErrUnknownOption, optionID, questionID)
		}
		a[questionID] = optionID
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownQuestion, questionID)
}

// Missing returns the ids of questions without a valid answer, in question
// order.
func (a Answers) Missing(questions []Question) []string {
	var out []string
	for _, q := range questions {
		if !q.HasOption(a[q.ID]) {
			out = append(out, q.ID)
		}
	}
	return out
}

// Complete reports whether every question has exactly one valid answer and no
// answer refers to a question outside the list.
func (a Answers) Complete(questions []Question) bool {
	if len(a.Missing(questions)) > 0 {
		return false
	}
	ids := make(map[string]bool, len(questions))
	for _, q := range questions {
		ids[q.ID] = true
	}
	for id := range a {
		if !ids[id] {
			return false
		}
	}
	return true
}

// Pair is a question with the text of its chosen answer.
type Pair struct {
	Question string
	Answer   string
}

// Pairs resolves answers into question/answer text in question order.
// Unanswered questions get an empty answer.
func (a Answers) Pairs(questions []Question) []Pair {
	out := make([]Pair, 0, len(questions))
	for _, q := range questions {
		opt, _ := q.Option(a[q.ID])
		out = append(out, Pair{Question: q.Text, Answer: opt.Text})
	}
	return out
}

