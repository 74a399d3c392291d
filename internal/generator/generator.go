// Package generator defines the contract of the external text-generation
// collaborator and ships two adapters: Gemini, backed by the Google GenAI
// SDK, and Offline, which returns canned results when no API key is set.
package generator

import (
	"context"
	"errors"

	"matebuilder/internal/allocation"
	"matebuilder/internal/profile"
	"matebuilder/internal/quiz"
)

var (
	// ErrUnavailable means the collaborator could not be reached or refused
	// the request.
	ErrUnavailable = errors.New("generator unavailable")
	// ErrEmptyResponse means the collaborator answered with no content.
	ErrEmptyResponse = errors.New("generator returned an empty response")
	// ErrMalformedResponse means the content did not have the expected shape.
	ErrMalformedResponse = errors.New("generator returned a malformed response")
)

// Collaborator produces quiz questions, the final report and match results.
// Implementations must honour ctx cancellation.
type Collaborator interface {
	GenerateQuestions(ctx context.Context, req QuestionRequest) ([]quiz.Question, error)
	GenerateReport(ctx context.Context, req ReportRequest) (Report, error)
	GenerateMatch(ctx context.Context, req MatchRequest) (MatchResult, error)
}

// QuestionRequest carries what the collaborator needs to write the quiz.
type QuestionRequest struct {
	Profile   profile.Profile
	Selection allocation.Summary
	// Count is the number of questions to ask for.
	Count int
}

// ReportRequest carries the frozen selection and the answered quiz.
type ReportRequest struct {
	Profile   profile.Profile
	Selection allocation.Summary
	Answers   []quiz.Pair
}

// Party is one side of a match: identity plus the two decisive buckets.
type Party struct {
	Gender      string
	MBTI        string
	MustHave    []string
	DealBreaker []string
}

// MatchRequest pairs the local user with a partner.
type MatchRequest struct {
	Mine   Party
	Theirs Party
}

// Report is the narrative analysis of a session.
type Report struct {
	Title     string   `json:"personaTitle"`
	Narrative string   `json:"analysis"`
	Advice    string   `json:"advice"`
	Tags      []string `json:"tags"`
}

// Clone copies r.
func (r Report) Clone() Report {
	r.Tags = append([]string(nil), r.Tags...)
	return r
}

// MatchResult is a compatibility verdict. Score is in [0, 100].
type MatchResult struct {
	Score     int    `json:"score"`
	Title     string `json:"title"`
	Narrative string `json:"analysis"`
	Warning   string `json:"warning"`
}
