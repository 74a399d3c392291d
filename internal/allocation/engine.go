// Package allocation implements the coin economy: bucket rules, the balance
// ledger and the atomic move operation that ties them together.
//
// The package is a functional core. Engine methods take a State and return a
// new State; nothing is mutated in place, so a rejected move always leaves the
// caller holding exactly the state it passed in.
package allocation

import (
	"fmt"

	"matebuilder/internal/catalog"
)

// Move is the (token, source, target) triple delivered by the front end.
type Move struct {
	TokenID string
	Source  Bucket
	Target  Bucket
}

// Engine validates and applies moves against a fixed catalog and rule set.
type Engine struct {
	catalog *catalog.Catalog
	rules   Rules
}

// NewEngine validates rules and returns an engine bound to cat.
func NewEngine(cat *catalog.Catalog, rules Rules) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return &Engine{catalog: cat, rules: rules}, nil
}

// Catalog returns the token catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Rules returns the economy configuration.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Initial returns the session start state: every token in Pool and the full
// initial grant.
func (e *Engine) Initial() State {
	return newState(e.catalog, e.rules.InitialCoins)
}

// Move applies a single move. See Apply.
func (e *Engine) Move(s State, tokenID string, source, target Bucket) (State, error) {
	return e.Apply(s, Move{TokenID: tokenID, Source: source, Target: target})
}

// Apply validates m against s and returns the resulting state. On rejection
// the returned state is s and the error is a *RejectionError.
//
// Rules are checked in a fixed order and the first failure wins:
// preconditions, polarity, capacity, funds.
func (e *Engine) Apply(s State, m Move) (State, error) {
	tok, delta, err := e.check(s, m)
	if err != nil {
		return s, err
	}
	return s.with(tok, m.Source, m.Target, delta), nil
}

// Quote returns the balance change m would cause without applying it.
// Positive values are refunds.
func (e *Engine) Quote(s State, m Move) (int, error) {
	_, delta, err := e.check(s, m)
	return delta, err
}

func (e *Engine) check(s State, m Move) (catalog.Token, int, error) {
	if !m.Source.Valid() || !m.Target.Valid() {
		return catalog.Token{}, 0, reject(ReasonInvalidState, m, "unknown bucket")
	}
	tok, ok := e.catalog.Lookup(m.TokenID)
	if !ok {
		return catalog.Token{}, 0, reject(ReasonInvalidState, m, "unknown token")
	}
	if m.Source == m.Target {
		return tok, 0, reject(ReasonInvalidState, m, "source and target are the same bucket")
	}
	if at, _ := s.Locate(m.TokenID); at != m.Source {
		return tok, 0, reject(ReasonInvalidState, m, "token is in %s", at)
	}

	if m.Target != Pool {
		cfg, _ := e.rules.Config(m.Target)
		if tok.Polarity != cfg.Accepts {
			return tok, 0, reject(ReasonWrongPolarity, m, "%s accepts %s tokens", m.Target, cfg.Accepts)
		}
		if cfg.Limit > 0 && s.Count(m.Target) >= cfg.Limit {
			return tok, 0, reject(ReasonCapacityExceeded, m, "limit %d", cfg.Limit)
		}
	}

	cost := e.rules.Charge(tok, m.Target) - e.rules.Charge(tok, m.Source)
	if s.Balance()-cost < 0 {
		return tok, 0, reject(ReasonInsufficientFunds, m, "need %d, have %d", cost, s.Balance())
	}
	return tok, -cost, nil
}
