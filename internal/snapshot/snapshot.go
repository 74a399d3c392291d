// Package snapshot is the export/import wire format shared between users for
// matching. A snapshot carries a profile, the token lists of every bucket and
// the generated report.
package snapshot

import (
	"matebuilder/internal/allocation"
	"matebuilder/internal/catalog"
	"matebuilder/internal/generator"
	"matebuilder/internal/profile"
)

// Version is the format version written by Encode. Files without a version
// field predate versioning and share the version 1 layout.
const Version = 1

// TokenRecord is the wire form of a catalog token.
type TokenRecord struct {
	ID    string   `json:"id" validate:"required"`
	Label string   `json:"label" validate:"required"`
	Emoji string   `json:"emoji,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	Value int      `json:"value" validate:"oneof=1 2"`
	Type  string   `json:"type" validate:"oneof=positive negative"`
}

// ProfileRecord is the wire form of the user profile.
type ProfileRecord struct {
	MBTI   string `json:"mbti" validate:"required"`
	Age    string `json:"age" validate:"required"`
	Gender string `json:"gender"`
}

// Snapshot is an exported session.
type Snapshot struct {
	Version  int                      `json:"version,omitempty"`
	Profile  ProfileRecord            `json:"profile"`
	Traits   map[string][]TokenRecord `json:"traits" validate:"required,dive,keys,oneof=pool must_have bonus deal_breaker flaw,endkeys,dive"`
	Analysis *generator.Report        `json:"analysis,omitempty"`
}

// Build captures a session. Every bucket is present in the output, empty
// buckets as empty lists.
func Build(p profile.Profile, s allocation.State, report *generator.Report) Snapshot {
	traits := make(map[string][]TokenRecord, len(allocation.Buckets))
	for _, b := range allocation.Buckets {
		tokens := s.Tokens(b)
		records := make([]TokenRecord, 0, len(tokens))
		for _, tok := range tokens {
			records = append(records, recordOf(tok))
		}
		traits[string(b)] = records
	}

	var analysis *generator.Report
	if report != nil {
		r := report.Clone()
		analysis = &r
	}

	p = p.Normalize()
	return Snapshot{
		Version:  Version,
		Profile:  ProfileRecord{MBTI: p.MBTI, Age: p.Age, Gender: p.Gender},
		Traits:   traits,
		Analysis: analysis,
	}
}

func recordOf(tok catalog.Token) TokenRecord {
	tags := make([]string, 0, len(tok.Tags))
	for _, t := range tok.Tags {
		tags = append(tags, string(t))
	}
	return TokenRecord{
		ID:    tok.ID,
		Label: tok.Label,
		Emoji: tok.Emoji,
		Tags:  tags,
		Value: tok.Weight,
		Type:  string(tok.Polarity),
	}
}

// UserProfile converts the profile record back into a profile.
func (s Snapshot) UserProfile() profile.Profile {
	return profile.Profile{MBTI: s.Profile.MBTI, Age: s.Profile.Age, Gender: s.Profile.Gender}.Normalize()
}

// Labels returns the labels stored for bucket b, in order.
func (s Snapshot) Labels(b allocation.Bucket) []string {
	records := s.Traits[string(b)]
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Label)
	}
	return out
}

// Placed returns the number of tokens outside the pool.
func (s Snapshot) Placed() int {
	n := 0
	for _, b := range allocation.Placements {
		n += len(s.Traits[string(b)])
	}
	return n
}
