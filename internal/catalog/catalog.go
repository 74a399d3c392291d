// Package catalog holds the static list of partner-trait tokens.
//
// A Catalog is built once at process start and never mutated afterwards.
// Tokens are compared by ID only; label, emoji and tags are display metadata.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Polarity decides whether placing a token costs or refunds coins.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
)

// Valid reports whether p is one of the known polarities.
func (p Polarity) Valid() bool {
	return p == PolarityPositive || p == PolarityNegative
}

// Tag is a descriptive token category. Tags never affect placement rules.
type Tag string

const (
	TagResource    Tag = "resource"
	TagLooks       Tag = "looks"
	TagEmotion     Tag = "emotion"
	TagLifestyle   Tag = "lifestyle"
	TagPersonality Tag = "personality"
	TagRedFlag     Tag = "red_flag"
	TagDomestic    Tag = "domestic"
	TagFamily      Tag = "family"
)

// Token is an immutable catalog entry.
type Token struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Emoji    string   `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Tags     []Tag    `json:"tags,omitempty" yaml:"tags,omitempty"`
	Weight   int      `json:"value" yaml:"weight"`
	Polarity Polarity `json:"type" yaml:"polarity"`
}

// HasTag reports whether the token carries tag.
func (t Token) HasTag(tag Tag) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

func (t Token) clone() Token {
	t.Tags = append([]Tag(nil), t.Tags...)
	return t
}

// Validate checks the rule-relevant fields of a token.
func (t Token) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("token id is required")
	}
	if strings.TrimSpace(t.Label) == "" {
		return fmt.Errorf("token %s: label is required", t.ID)
	}
	if t.Weight != 1 && t.Weight != 2 {
		return fmt.Errorf("token %s: weight must be 1 or 2, got %d", t.ID, t.Weight)
	}
	if !t.Polarity.Valid() {
		return fmt.Errorf("token %s: unknown polarity %q", t.ID, t.Polarity)
	}
	return nil
}

// Catalog is an ordered, read-only set of tokens.
type Catalog struct {
	tokens []Token
	index  map[string]int
}

// New validates tokens and builds a catalog preserving their order.
func New(tokens []Token) (*Catalog, error) {
	if len(tokens) == 0 {
		return nil, errors.New("catalog is empty")
	}

	c := &Catalog{
		tokens: make([]Token, 0, len(tokens)),
		index:  make(map[string]int, len(tokens)),
	}
	for _, tok := range tokens {
		if err := tok.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[tok.ID]; dup {
			return nil, fmt.Errorf("duplicate token id %q", tok.ID)
		}
		tok = tok.clone()
		c.index[tok.ID] = len(c.tokens)
		c.tokens = append(c.tokens, tok)
	}
	return c, nil
}

// MustNew is New for static data; it panics on invalid input.
func MustNew(tokens []Token) *Catalog {
	c, err := New(tokens)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Len returns the number of tokens.
func (c *Catalog) Len() int {
	return len(c.tokens)
}

// Tokens returns a copy of all tokens in catalog order.
func (c *Catalog) Tokens() []Token {
	out := make([]Token, len(c.tokens))
	for i, tok := range c.tokens {
		out[i] = tok.clone()
	}
	return out
}

// Lookup finds a token by id.
func (c *Catalog) Lookup(id string) (Token, bool) {
	i, ok := c.index[id]
	if !ok {
		return Token{}, false
	}
	return c.tokens[i].clone(), true
}

// Position returns the catalog order of a token id, or -1.
func (c *Catalog) Position(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Filter returns the tokens matching keep, in catalog order.
func (c *Catalog) Filter(keep func(Token) bool) []Token {
	var out []Token
	for _, tok := range c.tokens {
		if keep(tok) {
			out = append(out, tok.clone())
		}
	}
	return out
}
