package allocation

import (
	"matebuilder/internal/catalog"
)

// State is an immutable allocation snapshot: a partition of the catalog
// across the five buckets plus the coin balance. Every token is in exactly
// one bucket and the balance is never negative.
//
// Bucket slices are shared between successive states and never written in
// place; a move allocates fresh slices for the two buckets it touches.
type State struct {
	balance  int
	buckets  map[Bucket][]catalog.Token
	location map[string]Bucket
}

func newState(cat *catalog.Catalog, coins int) State {
	tokens := cat.Tokens()
	location := make(map[string]Bucket, len(tokens))
	for _, tok := range tokens {
		location[tok.ID] = Pool
	}
	buckets := make(map[Bucket][]catalog.Token, len(Buckets))
	for _, b := range Buckets {
		buckets[b] = nil
	}
	buckets[Pool] = tokens
	return State{balance: coins, buckets: buckets, location: location}
}

// Balance returns the current coin balance.
func (s State) Balance() int {
	return s.balance
}

// Tokens returns the tokens in b in placement order.
func (s State) Tokens(b Bucket) []catalog.Token {
	src := s.buckets[b]
	if len(src) == 0 {
		return nil
	}
	out := make([]catalog.Token, len(src))
	copy(out, src)
	return out
}

// Labels returns the labels of the tokens in b in placement order.
func (s State) Labels(b Bucket) []string {
	src := s.buckets[b]
	out := make([]string, 0, len(src))
	for _, tok := range src {
		out = append(out, tok.Label)
	}
	return out
}

// Count returns the number of tokens in b.
func (s State) Count(b Bucket) int {
	return len(s.buckets[b])
}

// Placed returns the number of tokens outside Pool.
func (s State) Placed() int {
	n := 0
	for _, b := range Placements {
		n += len(s.buckets[b])
	}
	return n
}

// Locate returns the bucket holding a token.
func (s State) Locate(tokenID string) (Bucket, bool) {
	b, ok := s.location[tokenID]
	return b, ok
}

// Partition returns a copy of every bucket's token list.
func (s State) Partition() map[Bucket][]catalog.Token {
	out := make(map[Bucket][]catalog.Token, len(Buckets))
	for _, b := range Buckets {
		out[b] = s.Tokens(b)
	}
	return out
}

// Summary is the label view of a state handed to prompt builders.
type Summary struct {
	MustHave    []string `json:"must_have"`
	Bonus       []string `json:"bonus"`
	DealBreaker []string `json:"deal_breaker"`
	Flaw        []string `json:"flaw"`
}

// Summary returns the placed token labels per bucket.
func (s State) Summary() Summary {
	return Summary{
		MustHave:    s.Labels(MustHave),
		Bonus:       s.Labels(Bonus),
		DealBreaker: s.Labels(DealBreaker),
		Flaw:        s.Labels(Flaw),
	}
}

// Equal reports whether two states hold the same balance and the same
// token ids in the same order in every bucket.
func (s State) Equal(o State) bool {
	if s.balance != o.balance {
		return false
	}
	for _, b := range Buckets {
		a, c := s.buckets[b], o.buckets[b]
		if len(a) != len(c) {
			return false
		}
		for i := range a {
			if a[i].ID != c[i].ID {
				return false
			}
		}
	}
	return true
}

// with returns a copy of s where token moved from src to dst.
func (s State) with(tok catalog.Token, src, dst Bucket, delta int) State {
	buckets := make(map[Bucket][]catalog.Token, len(s.buckets))
	for b, list := range s.buckets {
		buckets[b] = list
	}

	old := s.buckets[src]
	kept := make([]catalog.Token, 0, len(old))
	for _, t := range old {
		if t.ID != tok.ID {
			kept = append(kept, t)
		}
	}
	buckets[src] = kept

	target := s.buckets[dst]
	grown := make([]catalog.Token, len(target), len(target)+1)
	copy(grown, target)
	buckets[dst] = append(grown, tok)

	location := make(map[string]Bucket, len(s.location))
	for id, b := range s.location {
		location[id] = b
	}
	location[tok.ID] = dst

	return State{balance: s.balance + delta, buckets: buckets, location: location}
}
