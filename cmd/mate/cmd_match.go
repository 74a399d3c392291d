package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"matebuilder/internal/inbox"
	"matebuilder/internal/match"
	"matebuilder/internal/snapshot"
	"matebuilder/internal/usage"
)

var (
	matchWatch   string
	matchWait    time.Duration
	matchJSONOut bool
)

// matchCmd compares two exported sessions
var matchCmd = &cobra.Command{
	Use:   "match MINE [THEIRS]",
	Short: "Score the compatibility of two exported sessions",
	Long: `Loads two snapshot files and asks the generator for a compatibility
verdict. Only MBTI, gender, must-haves and deal breakers are compared.

With --watch DIR, THEIRS is optional: mate waits until a valid snapshot
appears in DIR (MINE itself is ignored there).

Examples:
  mate match my-love-data.json partner.json
  mate match my-love-data.json --watch ./inbox`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchWatch, "watch", "", "Wait for the partner snapshot to appear in this directory")
	matchCmd.Flags().DurationVar(&matchWait, "wait", 10*time.Minute, "How long --watch waits")
	matchCmd.Flags().BoolVar(&matchJSONOut, "json", false, "Print the result as JSON")
}

func runMatch(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && matchWatch == "" {
		return fmt.Errorf("need THEIRS or --watch DIR")
	}

	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mine, theirs, err := loadPair(ctx, args)
	if err != nil {
		return err
	}

	req, err := match.Reconcile(mine, theirs)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	ctx = usage.NewContext(usage.WithSession(ctx, "cli"), a.tracker)

	start := time.Now()
	result, err := a.gen.GenerateMatch(ctx, req)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}
	logger.Info("match complete", zap.Int("score", result.Score), zap.Duration("took", time.Since(start)))

	out := cmd.OutOrStdout()
	if matchJSONOut {
		return writeJSON(out, result)
	}
	fmt.Fprint(out, renderMarkdown(matchMarkdown(result, req.Theirs), 80))
	return nil
}

// loadPair reads MINE and THEIRS concurrently. THEIRS comes from the inbox
// when --watch is set.
func loadPair(ctx context.Context, args []string) (snapshot.Snapshot, snapshot.Snapshot, error) {
	var mine, theirs snapshot.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := snapshot.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("your snapshot: %w", err)
		}
		mine = s
		return nil
	})
	g.Go(func() error {
		if len(args) == 2 {
			s, err := snapshot.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("partner snapshot: %w", err)
			}
			theirs = s
			return nil
		}

		wctx, cancel := context.WithTimeout(gctx, matchWait)
		defer cancel()
		logger.Info("waiting for partner snapshot", zap.String("dir", matchWatch))
		mineAbs, _ := filepath.Abs(args[0])
		s, path, err := inbox.Wait(wctx, matchWatch, inbox.Options{Ignore: []string{mineAbs}})
		if err != nil {
			return fmt.Errorf("waiting for partner snapshot in %s: %w", matchWatch, err)
		}
		logger.Info("partner snapshot arrived", zap.String("path", path))
		theirs = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return snapshot.Snapshot{}, snapshot.Snapshot{}, err
	}
	return mine, theirs, nil
}

