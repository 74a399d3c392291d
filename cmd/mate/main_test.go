package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"matebuilder/internal/allocation"
	"matebuilder/internal/catalog"
	"matebuilder/internal/config"
	"matebuilder/internal/generator"
	"matebuilder/internal/logging"
	"matebuilder/internal/profile"
	"matebuilder/internal/snapshot"
	"matebuilder/internal/usage"
	"matebuilder/internal/workflow"
)

// setup installs an offline config and a no-op logger.
func setup(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.LLM.Provider = config.ProviderOffline
	cfg.Export.Dir = t.TempDir()
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetContext(context.Background())
	return cmd, &buf
}

func writeSnapshot(t *testing.T, dir, name, mbti string, moves ...allocation.Move) string {
	t.Helper()
	e, err := allocation.NewEngine(catalog.Default(), allocation.DefaultRules())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	s := e.Initial()
	for _, mv := range moves {
		if s, err = e.Apply(s, mv); err != nil {
			t.Fatalf("move %v: %v", mv, err)
		}
	}
	report := generator.Report{Title: "t", Narrative: "n", Advice: "a", Tags: []string{"x"}}
	path := filepath.Join(dir, name)
	if err := snapshot.WriteFile(path, snapshot.Build(profile.Profile{MBTI: mbti, Age: "27"}, s, &report)); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestRunCatalogFilters(t *testing.T) {
	setup(t)
	catalogPolarity, catalogTag = "negative", "family"
	defer func() { catalogPolarity, catalogTag = "", "" }()

	cmd, out := testCommand()
	if err := runCatalog(cmd, nil); err != nil {
		t.Fatalf("runCatalog returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "deal_breaker") {
		t.Fatalf("expected bucket rules in output, got: %s", got)
	}
	if strings.Contains(got, "孝顺正直") {
		t.Fatalf("positive token should be filtered out: %s", got)
	}
	if !strings.Contains(got, "negative") {
		t.Fatalf("expected negative tokens, got: %s", got)
	}
}

func TestRunCatalogRejectsUnknownPolarity(t *testing.T) {
	setup(t)
	catalogPolarity = "neutral"
	defer func() { catalogPolarity = "" }()

	cmd, _ := testCommand()
	if err := runCatalog(cmd, nil); err == nil {
		t.Fatalf("expected error for unknown polarity")
	}
}

func TestSnapshotValidate(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	good := writeSnapshot(t, dir, "good.json", "INFP",
		allocation.Move{TokenID: "101", Source: allocation.Pool, Target: allocation.MustHave})

	cmd, out := testCommand()
	if err := runSnapshotValidate(cmd, []string{good}); err != nil {
		t.Fatalf("validate good snapshot: %v", err)
	}
	if !strings.Contains(out.String(), "1 placed tokens") {
		t.Fatalf("unexpected output: %s", out.String())
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"profile":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := runSnapshotValidate(cmd, []string{bad}); err == nil {
		t.Fatalf("expected malformed snapshot error")
	}
}

func TestSnapshotShow(t *testing.T) {
	setup(t)
	path := writeSnapshot(t, t.TempDir(), "s.json", "ENFJ",
		allocation.Move{TokenID: "101", Source: allocation.Pool, Target: allocation.Bonus})

	cmd, out := testCommand()
	if err := runSnapshotShow(cmd, []string{path}); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), "ENFJ") || !strings.Contains(out.String(), "主动") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestRunMatchOffline(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	mine := writeSnapshot(t, dir, "mine.json", "INTJ")
	theirs := writeSnapshot(t, dir, "theirs.json", "ESFP")

	matchJSONOut = true
	defer func() { matchJSONOut = false }()

	cmd, out := testCommand()
	if err := runMatch(cmd, []string{mine, theirs}); err != nil {
		t.Fatalf("runMatch: %v", err)
	}

	var result generator.MatchResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if result.Score != generator.OfflineMatch.Score {
		t.Fatalf("expected offline score, got %d", result.Score)
	}
}

func TestRunMatchNeedsPartner(t *testing.T) {
	setup(t)
	cmd, _ := testCommand()
	if err := runMatch(cmd, []string{"mine.json"}); err == nil {
		t.Fatalf("expected error without THEIRS or --watch")
	}
}

func TestRunMatchMissingFile(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	mine := writeSnapshot(t, dir, "mine.json", "INTJ")

	cmd, _ := testCommand()
	err := runMatch(cmd, []string{mine, filepath.Join(dir, "nope.json")})
	if err == nil || !strings.Contains(err.Error(), "partner snapshot") {
		t.Fatalf("expected partner snapshot error, got %v", err)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("API_KEY", "")
	configPath = filepath.Join(dir, "mate.yaml")
	apiKey, offline, verbose = "k", true, true
	defer func() { configPath, apiKey, offline, verbose = "", "", false, false }()

	c, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if c.LLM.APIKey != "k" || c.LLM.Provider != config.ProviderOffline || c.Logging.Level != "debug" {
		t.Fatalf("flags not applied: %+v", c.LLM)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	setup(t)
	configPath = filepath.Join(t.TempDir(), "sub", "mate.yaml")
	defer func() { configPath = "" }()

	cmd, out := testCommand()
	if err := configInitCmd.RunE(cmd, nil); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if err := configInitCmd.RunE(cmd, nil); err == nil {
		t.Fatalf("second init should refuse to overwrite")
	}

	cfg.LLM.APIKey = "secret"
	out.Reset()
	if err := configShowCmd.RunE(cmd, nil); err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out.String(), "secret") {
		t.Fatalf("api key leaked: %s", out.String())
	}
	if !strings.Contains(out.String(), "initial_coins: 20") {
		t.Fatalf("unexpected config output: %s", out.String())
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&workflow.GuardError{Reason: workflow.GuardTooFewSelections, Need: 3, Have: 1}, "至少需要放置 3"},
		{&workflow.GuardError{Reason: workflow.GuardMissingMBTI}, "MBTI"},
		{&workflow.GuardError{Reason: workflow.GuardUnansweredQuestions, Missing: []string{"q1", "q2"}}, "2 题"},
		{workflow.ErrFrozen, "锁定"},
	}
	for _, c := range cases {
		if got := describe(c.err); !strings.Contains(got, c.want) {
			t.Errorf("describe(%v) = %q, want substring %q", c.err, got, c.want)
		}
	}

	e, _ := allocation.NewEngine(catalog.Default(), allocation.DefaultRules())
	_, err := e.Move(e.Initial(), "101", allocation.Pool, allocation.Flaw)
	if got := describe(err); !strings.Contains(got, "不接受") {
		t.Errorf("polarity rejection described as %q", got)
	}
}

func TestIsInteractive(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		want bool
	}{
		{rootCmd, true},
		{playCmd, true},
		{catalogCmd, false},
		{matchCmd, false},
		{configCmd, false},
	}
	for _, tt := range tests {
		if got := isInteractive(tt.cmd); got != tt.want {
			t.Errorf("isInteractive(%s) = %v, want %v", tt.cmd.Name(), got, tt.want)
		}
	}
}

func TestNewCollaboratorFallsBackWithoutKey(t *testing.T) {
	setup(t)
	core, logs := observer.New(zapcore.WarnLevel)
	logging.InitializeWithLogger(zap.New(core))
	t.Cleanup(logging.Close)

	c := config.DefaultConfig()
	c.LLM.Provider = config.ProviderGemini
	c.LLM.APIKey = ""
	gen, err := newCollaborator(context.Background(), c, usage.NewTracker(0))
	if err != nil {
		t.Fatalf("newCollaborator: %v", err)
	}
	if _, ok := gen.(generator.Offline); !ok {
		t.Fatalf("expected offline collaborator, got %T", gen)
	}
	if n := logs.FilterMessageSnippet("no API key").Len(); n != 1 {
		t.Fatalf("expected one fallback warning, got %d", n)
	}

	c.LLM.Provider = config.ProviderOffline
	if _, err := newCollaborator(context.Background(), c, usage.NewTracker(0)); err != nil {
		t.Fatalf("newCollaborator: %v", err)
	}
	if n := logs.FilterMessageSnippet("no API key").Len(); n != 1 {
		t.Fatalf("explicit offline mode should not warn, got %d warnings", n)
	}
}
