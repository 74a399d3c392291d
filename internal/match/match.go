// Package match turns two exported snapshots into a generator match request.
// Only identity and the must-have and deal-breaker buckets take part; the
// foreign snapshot never touches local state.
package match

import (
	"fmt"

	"matebuilder/internal/allocation"
	"matebuilder/internal/generator"
	"matebuilder/internal/logging"
	"matebuilder/internal/snapshot"
)

// PartyOf extracts the match-relevant view of a snapshot.
func PartyOf(s snapshot.Snapshot) generator.Party {
	p := s.UserProfile()
	return generator.Party{
		Gender:      p.Gender,
		MBTI:        p.MBTI,
		MustHave:    s.Labels(allocation.MustHave),
		DealBreaker: s.Labels(allocation.DealBreaker),
	}
}

// Reconcile builds the match request for mine against theirs. theirs is
// foreign input and is validated first.
func Reconcile(mine, theirs snapshot.Snapshot) (generator.MatchRequest, error) {
	if err := snapshot.Validate(theirs); err != nil {
		return generator.MatchRequest{}, fmt.Errorf("partner snapshot: %w", err)
	}
	req := generator.MatchRequest{Mine: PartyOf(mine), Theirs: PartyOf(theirs)}
	logging.MatchDebug("reconciled %s/%s (%d must-have, %d deal-breaker) with %s/%s (%d must-have, %d deal-breaker)",
		req.Mine.Gender, req.Mine.MBTI, len(req.Mine.MustHave), len(req.Mine.DealBreaker),
		req.Theirs.Gender, req.Theirs.MBTI, len(req.Theirs.MustHave), len(req.Theirs.DealBreaker))
	return req, nil
}

// ReconcileBytes decodes a foreign snapshot and reconciles it with mine.
// Any decoding problem is returned wrapping snapshot.ErrMalformed.
func ReconcileBytes(mine snapshot.Snapshot, raw []byte) (generator.MatchRequest, snapshot.Snapshot, error) {
	theirs, err := snapshot.DecodeBytes(raw)
	if err != nil {
		logging.Match("rejected partner snapshot: %v", err)
		return generator.MatchRequest{}, snapshot.Snapshot{}, fmt.Errorf("partner snapshot: %w", err)
	}
	req, err := Reconcile(mine, theirs)
	if err != nil {
		return generator.MatchRequest{}, snapshot.Snapshot{}, err
	}
	return req, theirs, nil
}
