package allocation

import (
	"fmt"
	"strconv"
	"strings"

	"matebuilder/internal/catalog"
)

// Bucket names one of the five containers a token can sit in.
type Bucket string

const (
	Pool        Bucket = "pool"
	MustHave    Bucket = "must_have"
	Bonus       Bucket = "bonus"
	DealBreaker Bucket = "deal_breaker"
	Flaw        Bucket = "flaw"
)

// Buckets lists every bucket, Pool first.
var Buckets = []Bucket{Pool, MustHave, Bonus, DealBreaker, Flaw}

// Placements lists the four non-Pool buckets in display order.
var Placements = []Bucket{MustHave, Bonus, DealBreaker, Flaw}

// Valid reports whether b is a known bucket.
func (b Bucket) Valid() bool {
	switch b {
	case Pool, MustHave, Bonus, DealBreaker, Flaw:
		return true
	}
	return false
}

// ParseBucket accepts the wire name of a bucket ("must_have", "flaw", ...).
func ParseBucket(s string) (Bucket, error) {
	b := Bucket(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("unknown bucket %q", s)
	}
	return b, nil
}

// Rational is a signed multiplier Num/Den. Den is always positive once parsed.
type Rational struct {
	Num int
	Den int
}

// Whole returns n/1.
func Whole(n int) Rational {
	return Rational{Num: n, Den: 1}
}

// ParseRational reads "2", "-1" or "3/2".
func ParseRational(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	num, den := s, "1"
	if i := strings.IndexByte(s, '/'); i >= 0 {
		num, den = s[:i], s[i+1:]
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return Rational{}, fmt.Errorf("invalid multiplier %q", s)
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil || d == 0 {
		return Rational{}, fmt.Errorf("invalid multiplier %q", s)
	}
	if d < 0 {
		n, d = -n, -d
	}
	return Rational{Num: n, Den: d}, nil
}

// Sign returns -1, 0 or 1.
func (r Rational) Sign() int {
	switch {
	case r.Num < 0:
		return -1
	case r.Num > 0:
		return 1
	}
	return 0
}

func (r Rational) String() string {
	if r.Den == 1 || r.Den == 0 {
		return strconv.Itoa(r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// scale multiplies by weight; ok is false when the product is not whole.
func (r Rational) scale(weight int) (int, bool) {
	if r.Den == 0 {
		return 0, false
	}
	p := r.Num * weight
	if p%r.Den != 0 {
		return 0, false
	}
	return p / r.Den, true
}

// BucketConfig is the placement rule record shared by all non-Pool buckets.
type BucketConfig struct {
	Bucket      Bucket
	Title       string
	Description string
	Accepts     catalog.Polarity
	Multiplier  Rational
	// Limit caps the number of tokens; zero means unlimited.
	Limit int
}

// Rules is the complete, static economy configuration.
type Rules struct {
	InitialCoins int
	Buckets      map[Bucket]BucketConfig
}

// DefaultInitialCoins is the grant every session starts with.
const DefaultInitialCoins = 20

// Bounds on configured values. They keep every charge and balance far from
// integer overflow.
const (
	MaxInitialCoins = 1_000_000
	MaxMultiplier   = 1000
)

// DefaultRules returns the stock bucket configuration.
func DefaultRules() Rules {
	return Rules{
		InitialCoins: DefaultInitialCoins,
		Buckets: map[Bucket]BucketConfig{
			MustHave: {
				Bucket:      MustHave,
				Title:       "绝对核心 (Must Have)",
				Description: "底线不可触碰，价格翻倍",
				Accepts:     catalog.PolarityPositive,
				Multiplier:  Whole(2),
			},
			Bonus: {
				Bucket:      Bonus,
				Title:       "加分项 (Bonus)",
				Description: "多多益善，原价购买",
				Accepts:     catalog.PolarityPositive,
				Multiplier:  Whole(1),
			},
			DealBreaker: {
				Bucket:      DealBreaker,
				Title:       "绝对雷点 (Deal Breaker)",
				Description: "最多选3个，不退不补",
				Accepts:     catalog.PolarityNegative,
				Multiplier:  Whole(0),
				Limit:       3,
			},
			Flaw: {
				Bucket:      Flaw,
				Title:       "可接受缺点 (Acceptable)",
				Description: "忍受缺点赚取金币",
				Accepts:     catalog.PolarityNegative,
				Multiplier:  Whole(-1),
			},
		},
	}
}

// Validate checks that every placement bucket is configured and that every
// charge for the catalog weights is a whole number of coins.
func (r Rules) Validate() error {
	if r.InitialCoins < 0 {
		return fmt.Errorf("initial coins must not be negative, got %d", r.InitialCoins)
	}
	if r.InitialCoins > MaxInitialCoins {
		return fmt.Errorf("initial coins must be at most %d, got %d", MaxInitialCoins, r.InitialCoins)
	}
	for _, b := range Placements {
		cfg, ok := r.Buckets[b]
		if !ok {
			return fmt.Errorf("bucket %s is not configured", b)
		}
		if !cfg.Accepts.Valid() {
			return fmt.Errorf("bucket %s: unknown accepted polarity %q", b, cfg.Accepts)
		}
		if cfg.Limit < 0 {
			return fmt.Errorf("bucket %s: limit must not be negative", b)
		}
		if cfg.Multiplier.Den <= 0 {
			return fmt.Errorf("bucket %s: multiplier denominator must be positive", b)
		}
		if cfg.Multiplier.Num > MaxMultiplier || cfg.Multiplier.Num < -MaxMultiplier || cfg.Multiplier.Den > MaxMultiplier {
			return fmt.Errorf("bucket %s: multiplier %s is out of range (|n|, d <= %d)", b, cfg.Multiplier, MaxMultiplier)
		}
		for _, w := range []int{1, 2} {
			if _, ok := cfg.Multiplier.scale(w); !ok {
				return fmt.Errorf("bucket %s: multiplier %s gives a fractional charge for weight %d", b, cfg.Multiplier, w)
			}
		}
	}
	if _, ok := r.Buckets[Pool]; ok {
		return fmt.Errorf("bucket %s cannot be configured", Pool)
	}
	return nil
}

// Config returns the rule record of a non-Pool bucket.
func (r Rules) Config(b Bucket) (BucketConfig, bool) {
	cfg, ok := r.Buckets[b]
	return cfg, ok
}

// Charge is the number of coins debited while tok sits in b. A negative
// charge is a refund. Pool never charges.
func (r Rules) Charge(tok catalog.Token, b Bucket) int {
	if b == Pool {
		return 0
	}
	cfg, ok := r.Buckets[b]
	if !ok {
		return 0
	}
	coins, _ := cfg.Multiplier.scale(tok.Weight)
	return coins
}
