package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matebuilder/internal/allocation"
	"matebuilder/internal/catalog"
	"matebuilder/internal/generator"
	"matebuilder/internal/profile"
)

func sampleSnapshot(t *testing.T) Snapshot {
	t.Helper()
	e, err := allocation.NewEngine(catalog.Default(), allocation.DefaultRules())
	require.NoError(t, err)

	s := e.Initial()
	for _, m := range []allocation.Move{
		{TokenID: "103", Source: allocation.Pool, Target: allocation.MustHave},
		{TokenID: "108", Source: allocation.Pool, Target: allocation.Bonus},
		{TokenID: "401", Source: allocation.Pool, Target: allocation.DealBreaker},
		{TokenID: "301", Source: allocation.Pool, Target: allocation.Flaw},
	} {
		s, err = e.Apply(s, m)
		require.NoError(t, err)
	}

	report := generator.Report{Title: "T", Narrative: "N", Advice: "A", Tags: []string{"x"}}
	return Build(profile.Profile{MBTI: "infj", Age: "29"}, s, &report)
}

func TestBuild(t *testing.T) {
	snap := sampleSnapshot(t)

	assert.Equal(t, Version, snap.Version)
	assert.Equal(t, ProfileRecord{MBTI: "INFJ", Age: "29", Gender: "female"}, snap.Profile)
	assert.Len(t, snap.Traits, 5)
	assert.Len(t, snap.Traits["must_have"], 1)
	assert.Equal(t, 4, snap.Placed())
	assert.Equal(t, 108, len(snap.Traits["pool"]))
	require.NotNil(t, snap.Analysis)
	assert.Equal(t, "T", snap.Analysis.Title)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	snap := sampleSnapshot(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap))
	assert.Contains(t, buf.String(), `"version": 1`)
	assert.Contains(t, buf.String(), `"personaTitle": "T"`)

	got, err := Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_LegacyAndUnknownFields(t *testing.T) {
	legacy := `{
		"profile": {"mbti": "ENTP", "age": "31", "gender": "male"},
		"traits": {
			"pool": [],
			"must_have": [{"id":"201","label":"身高180+","emoji":"📏","tags":["looks"],"value":2,"type":"positive"}],
			"bonus": [],
			"deal_breaker": [],
			"flaw": []
		},
		"analysis": {"personaTitle":"x","analysis":"y","advice":"z","tags":[]},
		"screenshot": "ignored"
	}`
	s, err := DecodeBytes([]byte(legacy))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Version)
	assert.Equal(t, []string{"身高180+"}, s.Labels(allocation.MustHave))
	assert.Equal(t, "male", s.UserProfile().Gender)
}

func TestDecode_Malformed(t *testing.T) {
	good := func() string {
		return `{"profile":{"mbti":"INTJ","age":"25"},"traits":{"must_have":[],"deal_breaker":[]}}`
	}
	_, err := DecodeBytes([]byte(good()))
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
	}{
		{"not json", `hello`},
		{"array", `[]`},
		{"truncated", `{"profile":{"mbti":"INTJ"`},
		{"future version", `{"version":2,"profile":{"mbti":"INTJ","age":"25"},"traits":{"must_have":[],"deal_breaker":[]}}`},
		{"missing mbti", `{"profile":{"age":"25"},"traits":{"must_have":[],"deal_breaker":[]}}`},
		{"missing traits", `{"profile":{"mbti":"INTJ","age":"25"}}`},
		{"missing deal_breaker", `{"profile":{"mbti":"INTJ","age":"25"},"traits":{"must_have":[]}}`},
		{"unknown bucket", `{"profile":{"mbti":"INTJ","age":"25"},"traits":{"must_have":[],"deal_breaker":[],"attic":[]}}`},
		{"bad weight", `{"profile":{"mbti":"INTJ","age":"25"},"traits":{"must_have":[{"id":"1","label":"a","value":3,"type":"positive"}],"deal_breaker":[]}}`},
		{"bad polarity", `{"profile":{"mbti":"INTJ","age":"25"},"traits":{"must_have":[{"id":"1","label":"a","value":1,"type":"neutral"}],"deal_breaker":[]}}`},
		{"token without label", `{"profile":{"mbti":"INTJ","age":"25"},"traits":{"must_have":[{"id":"1","value":1,"type":"positive"}],"deal_breaker":[]}}`},
		{"duplicate token", `{"profile":{"mbti":"INTJ","age":"25"},"traits":{"must_have":[{"id":"1","label":"a","value":1,"type":"positive"}],"deal_breaker":[{"id":"1","label":"a","value":1,"type":"positive"}]}}`},
		{"wrong field type", `{"profile":{"mbti":7,"age":"25"},"traits":{"must_have":[],"deal_breaker":[]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.in))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecode_SizeLimit(t *testing.T) {
	big := `{"pad":"` + strings.Repeat("x", MaxSize) + `"}`
	_, err := Decode(strings.NewReader(big))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestWriteReadFile(t *testing.T) {
	snap := sampleSnapshot(t)
	path := filepath.Join(t.TempDir(), "out", "my-love-data.json")

	require.NoError(t, WriteFile(path, snap))
	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Profile, got.Profile)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformed)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = ReadFile(bad)
	assert.ErrorIs(t, err, ErrMalformed)
}
