package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Simplici0/selah/internal/pricing"
)

func TestMaterialLabel(t *testing.T) {
	cases := []struct {
		name     string
		material Material
		want     string
	}{
		{
			name: "all parts",
			material: Material{
				ID:          "PER-01",
				Kind:        "Perla",
				Stone:       "Perla de río",
				Shape:       "Redonda",
				Texture:     "Lisa",
				Length:      decimal.NewNullDecimal(decimal.RequireFromString("6")),
				Width:       decimal.NewNullDecimal(decimal.RequireFromString("4.5")),
				Description: "blanca",
			},
			want: "PER-01 | Perla - Perla de río - Redonda - Lisa - L:6 - A:4.5 - (blanca)",
		},
		{
			name:     "blank parts are skipped",
			material: Material{ID: "CUA-02", Kind: "Natural", Stone: " ", Shape: "Gota"},
			want:     "CUA-02 | Natural - Gota",
		},
		{
			name:     "id only",
			material: Material{ID: "X"},
			want:     "X",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.material.Label())
		})
	}
}

func TestNewBraceletCopiesResult(t *testing.T) {
	req := pricing.NewRequest()
	req.Thread = pricing.ThreadNylon
	req.Selections[0] = pricing.Select("PER-01", 10)
	result := pricing.Compute(req, func(string) decimal.Decimal { return decimal.RequireFromString("3") })

	b := NewBracelet("  PUL-001 ", " Pulsera perla ", result)

	assert.Equal(t, "PUL-001", b.ProductID)
	assert.Equal(t, "Pulsera perla", b.Description)
	assert.True(t, b.Cost.Equal(decimal.RequireFromString("82.4")), "cost %s", b.Cost)
	assert.True(t, b.Price.Equal(decimal.RequireFromString("123.188")), "price %s", b.Price)
	assert.Equal(t, "C", b.Tier)
	assert.True(t, b.TierPrice.Equal(decimal.RequireFromString("160")))
}
