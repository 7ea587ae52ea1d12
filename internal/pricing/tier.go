package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Tier is the retail price bucket of a bracelet.
type Tier string

const (
	TierC     Tier = "C"
	TierB     Tier = "B"
	TierA     Tier = "A"
	TierAPlus Tier = "A+"
)

// TierScheme maps a final price to a tier and its reference retail price.
type TierScheme interface {
	Name() string
	Classify(finalPrice decimal.Decimal) (Tier, decimal.Decimal)
}

type tierBand struct {
	upTo      decimal.Decimal
	tier      Tier
	reference decimal.Decimal
}

// bandScheme classifies by the first band whose upper bound is >= the price.
// Prices above every band fall into overflow; a zero overflow reference means
// "use the price itself, rounded to cents".
type bandScheme struct {
	name              string
	bands             []tierBand
	overflow          Tier
	overflowReference decimal.Decimal
}

func (s bandScheme) Name() string { return s.name }

func (s bandScheme) Classify(finalPrice decimal.Decimal) (Tier, decimal.Decimal) {
	for _, b := range s.bands {
		if finalPrice.LessThanOrEqual(b.upTo) {
			return b.tier, b.reference
		}
	}
	if s.overflowReference.IsZero() {
		return s.overflow, finalPrice.Round(2)
	}
	return s.overflow, s.overflowReference
}

func money(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// ThreeTier is the canonical scheme: C up to 160, B up to 200, A above.
var ThreeTier TierScheme = bandScheme{
	name: "three-tier",
	bands: []tierBand{
		{upTo: money("160"), tier: TierC, reference: money("160.00")},
		{upTo: money("200"), tier: TierB, reference: money("200.00")},
	},
	overflow:          TierA,
	overflowReference: money("250.00"),
}

// FourTier is the earlier scheme with B priced at 190 and an open-ended A+.
var FourTier TierScheme = bandScheme{
	name: "four-tier",
	bands: []tierBand{
		{upTo: money("160"), tier: TierC, reference: money("160.00")},
		{upTo: money("200"), tier: TierB, reference: money("190.00")},
		{upTo: money("250"), tier: TierA, reference: money("250.00")},
	},
	overflow: TierAPlus,
}

// ParseTierScheme resolves a scheme by name. Blank selects ThreeTier.
func ParseTierScheme(name string) (TierScheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ThreeTier.Name():
		return ThreeTier, nil
	case FourTier.Name():
		return FourTier, nil
	default:
		return nil, fmt.Errorf("unknown tier scheme %q", name)
	}
}
