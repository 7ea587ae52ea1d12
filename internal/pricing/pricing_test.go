package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func decEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func costs(table map[string]string) CostLookup {
	return func(id string) decimal.Decimal {
		v, ok := table[id]
		if !ok {
			return decimal.Zero
		}
		return dec(v)
	}
}

func TestCompute_NylonSingleMaterial(t *testing.T) {
	req := NewRequest()
	req.Thread = ThreadNylon
	req.Selections[0] = Select("PER-01", 10)

	result := Compute(req, costs(map[string]string{"PER-01": "3.00"}))

	decEqual(t, "materialCost", result.MaterialCost, "30")
	decEqual(t, "fixedCost", result.FixedCost, "52.4")
	decEqual(t, "marketing", result.Marketing, "12.36")
	decEqual(t, "finalPrice", result.FinalPrice, "123.188")
	decEqual(t, "totalCost", result.TotalCost(), "82.4")
	if result.Tier != TierC {
		t.Fatalf("tier = %s, want C", result.Tier)
	}
	decEqual(t, "tierReferencePrice", result.TierReferencePrice, "160")
}

func TestCompute_BlackTwoMaterials(t *testing.T) {
	req := NewRequest()
	req.Thread = ThreadBlack
	req.Selections[1] = Select("CUA-01", 4)
	req.Selections[3] = Select("SEP-07", 20)

	result := Compute(req, costs(map[string]string{"CUA-01": "5.00", "SEP-07": "2.50"}))

	decEqual(t, "materialCost", result.MaterialCost, "70")
	decEqual(t, "fixedCost", result.FixedCost, "54")
	decEqual(t, "marketing", result.Marketing, "18.6")
	decEqual(t, "finalPrice", result.FinalPrice, "185.38")
	if result.Tier != TierB {
		t.Fatalf("tier = %s, want B", result.Tier)
	}
	decEqual(t, "tierReferencePrice", result.TierReferencePrice, "200")
}

func TestCompute_EmptyRequest(t *testing.T) {
	result := Compute(NewRequest(), costs(nil))

	decEqual(t, "materialCost", result.MaterialCost, "0")
	decEqual(t, "fixedCost", result.FixedCost, "50")
	decEqual(t, "marketing", result.Marketing, "7.5")
	decEqual(t, "finalPrice", result.FinalPrice, "74.75")
	if result.Tier != TierC {
		t.Fatalf("tier = %s, want C", result.Tier)
	}
}

func TestCompute_AbsentSlotsSkipLookup(t *testing.T) {
	calls := 0
	lookup := func(id string) decimal.Decimal {
		calls++
		return dec("99")
	}

	req := NewRequest()
	req.Selections[0] = Selection{MaterialID: "ignored", Quantity: 7}
	req.Selections[2] = Selection{Quantity: 3}

	result := Compute(req, lookup)

	if calls != 0 {
		t.Fatalf("lookup called %d times for absent slots", calls)
	}
	decEqual(t, "materialCost", result.MaterialCost, "0")
}

func TestCompute_ZeroQuantityContributesNothing(t *testing.T) {
	req := NewRequest()
	req.Selections[0] = Select("CARO", 0)

	result := Compute(req, costs(map[string]string{"CARO": "1000"}))

	decEqual(t, "materialCost", result.MaterialCost, "0")
}

func TestCompute_UnknownMaterialDegradesToZero(t *testing.T) {
	req := NewRequest()
	req.Selections[0] = Select("NO-EXISTE", 12)
	req.Selections[1] = Select("PER-01", 2)

	result := Compute(req, costs(map[string]string{"PER-01": "1.25"}))

	decEqual(t, "materialCost", result.MaterialCost, "2.5")
}

func TestCompute_IsDeterministic(t *testing.T) {
	req := NewRequest()
	req.Thread = ThreadNylon
	req.Selections[0] = Select("A", 3)
	req.Selections[4] = Select("B", 11)
	lookup := costs(map[string]string{"A": "0.3333333333", "B": "7.1"})

	first := Compute(req, lookup)
	second := Compute(req, lookup)

	if first.Tier != second.Tier ||
		first.MaterialCost.String() != second.MaterialCost.String() ||
		first.FixedCost.String() != second.FixedCost.String() ||
		first.Marketing.String() != second.Marketing.String() ||
		first.FinalPrice.String() != second.FinalPrice.String() ||
		first.TierReferencePrice.String() != second.TierReferencePrice.String() {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}

func TestCompute_FinalPriceMonotonic(t *testing.T) {
	threads := []ThreadType{ThreadNone, ThreadNylon, ThreadBlack}

	for _, thread := range threads {
		prev := decimal.Zero
		for qty := 0; qty <= 60; qty += 5 {
			req := NewRequest()
			req.Thread = thread
			req.Selections[0] = Select("X", qty)
			price := Compute(req, costs(map[string]string{"X": "1.75"})).FinalPrice
			if price.LessThan(prev) {
				t.Fatalf("thread %s qty %d: price %s decreased from %s", thread, qty, price, prev)
			}
			prev = price
		}
	}

	prev := decimal.Zero
	for _, thread := range threads {
		req := NewRequest()
		req.Thread = thread
		price := Compute(req, nil).FinalPrice
		if price.LessThan(prev) {
			t.Fatalf("thread %s: price %s decreased from %s", thread, price, prev)
		}
		prev = price
	}
}

func TestThreeTier_Boundaries(t *testing.T) {
	cases := []struct {
		price     string
		tier      Tier
		reference string
	}{
		{"0", TierC, "160"},
		{"160.00", TierC, "160"},
		{"160.01", TierB, "200"},
		{"200.00", TierB, "200"},
		{"200.01", TierA, "250"},
		{"999.99", TierA, "250"},
	}

	for _, tc := range cases {
		tier, reference := ThreeTier.Classify(dec(tc.price))
		if tier != tc.tier {
			t.Fatalf("price %s: tier = %s, want %s", tc.price, tier, tc.tier)
		}
		decEqual(t, "reference for "+tc.price, reference, tc.reference)
	}
}

func TestFourTier_Boundaries(t *testing.T) {
	cases := []struct {
		price     string
		tier      Tier
		reference string
	}{
		{"160.00", TierC, "160"},
		{"185.38", TierB, "190"},
		{"250.00", TierA, "250"},
		{"250.004", TierAPlus, "250"},
		{"312.3456", TierAPlus, "312.35"},
	}

	for _, tc := range cases {
		tier, reference := FourTier.Classify(dec(tc.price))
		if tier != tc.tier {
			t.Fatalf("price %s: tier = %s, want %s", tc.price, tier, tc.tier)
		}
		decEqual(t, "reference for "+tc.price, reference, tc.reference)
	}
}

func TestEngine_UsesConfiguredScheme(t *testing.T) {
	req := NewRequest()
	req.Thread = ThreadBlack
	req.Selections[0] = Select("X", 1)
	lookup := costs(map[string]string{"X": "100"})

	three := NewEngine(nil).Compute(req, lookup)
	four := NewEngine(FourTier).Compute(req, lookup)

	decEqual(t, "finalPrice", three.FinalPrice, "230.23")
	if three.Tier != TierA || four.Tier != TierA {
		t.Fatalf("tiers = %s/%s, want A/A", three.Tier, four.Tier)
	}
}

func TestParseThreadType(t *testing.T) {
	cases := map[string]ThreadType{
		"":        ThreadNone,
		" ":       ThreadNone,
		"Nylon":   ThreadNylon,
		"negro":   ThreadBlack,
		"BLACK":   ThreadBlack,
		"ninguno": ThreadNone,
	}
	for raw, want := range cases {
		got, err := ParseThreadType(raw)
		if err != nil {
			t.Fatalf("ParseThreadType(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseThreadType(%q) = %s, want %s", raw, got, want)
		}
	}

	if _, err := ParseThreadType("seda"); err == nil {
		t.Fatalf("expected error for unknown thread")
	}
}

func TestParseTierScheme(t *testing.T) {
	scheme, err := ParseTierScheme("")
	if err != nil || scheme.Name() != "three-tier" {
		t.Fatalf("default scheme = %v, %v", scheme, err)
	}
	scheme, err = ParseTierScheme("Four-Tier")
	if err != nil || scheme.Name() != "four-tier" {
		t.Fatalf("four-tier scheme = %v, %v", scheme, err)
	}
	if _, err := ParseTierScheme("five"); err == nil {
		t.Fatalf("expected error for unknown scheme")
	}
}
