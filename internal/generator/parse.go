package generator

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"matebuilder/internal/logging"
	"matebuilder/internal/quiz"
)

// decodeJSON unmarshals model output into v. Markdown fences are stripped and
// near-JSON is run through jsonrepair before giving up.
func decodeJSON(text string, v any) error {
	text = stripFences(strings.TrimSpace(text))
	if text == "" {
		return ErrEmptyResponse
	}

	err := json.Unmarshal([]byte(text), v)
	if err == nil {
		return nil
	}
	logging.APIDebug("response is not valid JSON (%v), attempting repair", err)

	repaired, repairErr := jsonrepair.JSONRepair(text)
	if repairErr != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	logging.APIWarn("response JSON repaired (len %d -> %d)", len(text), len(repaired))
	return nil
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Pointer fields distinguish a missing key from a zero value; a value of the
// wrong JSON type fails the unmarshal.

type wireOption struct {
	ID   *string `json:"id"`
	Text *string `json:"text"`
}

type wireQuestion struct {
	ID       *string       `json:"id"`
	Question *string       `json:"question"`
	Options  *[]wireOption `json:"options"`
}

type wireReport struct {
	PersonaTitle *string   `json:"personaTitle"`
	Analysis     *string   `json:"analysis"`
	Advice       *string   `json:"advice"`
	Tags         *[]string `json:"tags"`
}

type wireMatch struct {
	Score    *float64 `json:"score"`
	Title    *string  `json:"title"`
	Analysis *string  `json:"analysis"`
	Warning  *string  `json:"warning"`
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// ParseQuestions decodes a question list. Both a bare array and an object
// with a "questions" array are accepted.
func ParseQuestions(text string) ([]quiz.Question, error) {
	var raw json.RawMessage
	if err := decodeJSON(text, &raw); err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "{") {
		var envelope struct {
			Questions json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Questions == nil {
			return nil, malformed("expected a question array")
		}
		raw = envelope.Questions
	}

	var wire []wireQuestion
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := make([]quiz.Question, 0, len(wire))
	for i, w := range wire {
		if w.ID == nil || w.Question == nil || w.Options == nil {
			return nil, malformed("question %d: id, question and options are required", i)
		}
		q := quiz.Question{ID: *w.ID, Text: *w.Question}
		for j, o := range *w.Options {
			if o.ID == nil || o.Text == nil {
				return nil, malformed("question %q option %d: id and text are required", q.ID, j)
			}
			q.Options = append(q.Options, quiz.Option{ID: *o.ID, Text: *o.Text})
		}
		out = append(out, q)
	}
	if err := quiz.Validate(out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return out, nil
}

// ParseReport decodes and shape-checks a report.
func ParseReport(text string) (Report, error) {
	var w wireReport
	if err := decodeJSON(text, &w); err != nil {
		return Report{}, err
	}
	if w.PersonaTitle == nil || w.Analysis == nil || w.Advice == nil || w.Tags == nil {
		return Report{}, malformed("report requires personaTitle, analysis, advice and tags")
	}
	return Report{
		Title:     *w.PersonaTitle,
		Narrative: *w.Analysis,
		Advice:    *w.Advice,
		Tags:      append([]string{}, (*w.Tags)...),
	}, nil
}

// ParseMatch decodes and shape-checks a match result. Fractional scores are
// rounded; scores outside [0, 100] are rejected.
func ParseMatch(text string) (MatchResult, error) {
	var w wireMatch
	if err := decodeJSON(text, &w); err != nil {
		return MatchResult{}, err
	}
	if w.Score == nil || w.Title == nil || w.Analysis == nil || w.Warning == nil {
		return MatchResult{}, malformed("match requires score, title, analysis and warning")
	}
	score := math.Round(*w.Score)
	if score < 0 || score > 100 {
		return MatchResult{}, malformed("score %v out of range", *w.Score)
	}
	return MatchResult{
		Score:     int(score),
		Title:     *w.Title,
		Narrative: *w.Analysis,
		Warning:   *w.Warning,
	}, nil
}
