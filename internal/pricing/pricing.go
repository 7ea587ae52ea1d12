package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxSelections is the number of material slots offered by the calculator.
const MaxSelections = 5

var (
	laborCost     = decimal.RequireFromString("40.0")
	packagingCost = decimal.RequireFromString("10.0")
	marketingRate = decimal.RequireFromString("0.15")
	priceMultiple = decimal.RequireFromString("1.30")
	nylonThread   = decimal.RequireFromString("2.4")
	blackThread   = decimal.RequireFromString("4.0")
)

// ThreadType is the stringing material of a bracelet.
type ThreadType int

const (
	ThreadNone ThreadType = iota
	ThreadNylon
	ThreadBlack
)

// Cost returns the fixed unit cost of the thread.
func (t ThreadType) Cost() decimal.Decimal {
	switch t {
	case ThreadNylon:
		return nylonThread
	case ThreadBlack:
		return blackThread
	default:
		return decimal.Zero
	}
}

func (t ThreadType) String() string {
	switch t {
	case ThreadNylon:
		return "nylon"
	case ThreadBlack:
		return "negro"
	default:
		return "ninguno"
	}
}

// ParseThreadType accepts the form/CLI spellings of a thread type. Blank means ThreadNone.
func ParseThreadType(raw string) (ThreadType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "ninguno":
		return ThreadNone, nil
	case "nylon":
		return ThreadNylon, nil
	case "black", "negro":
		return ThreadBlack, nil
	default:
		return ThreadNone, fmt.Errorf("tipo de hilo desconocido: %q", raw)
	}
}

// Selection is one calculator slot. A slot without a material contributes nothing.
type Selection struct {
	MaterialID string
	Selected   bool
	Quantity   int
}

// Select returns a slot holding materialID.
func Select(materialID string, quantity int) Selection {
	return Selection{MaterialID: materialID, Selected: true, Quantity: quantity}
}

// Request groups the inputs of a single pricing interaction.
type Request struct {
	Thread     ThreadType
	Selections [MaxSelections]Selection
}

// NewRequest returns a request with no thread and every slot empty.
func NewRequest() Request {
	return Request{}
}

// CostLookup resolves the per-unit cost of a material. Unknown materials resolve to zero.
type CostLookup func(materialID string) decimal.Decimal

// Result holds every value produced by a pricing computation.
type Result struct {
	MaterialCost       decimal.Decimal
	FixedCost          decimal.Decimal
	Marketing          decimal.Decimal
	FinalPrice         decimal.Decimal
	Tier               Tier
	TierReferencePrice decimal.Decimal
}

// TotalCost is the material cost plus the fixed costs; it is what a bracelet record stores as cost.
func (r Result) TotalCost() decimal.Decimal {
	return r.MaterialCost.Add(r.FixedCost)
}

// Engine computes bracelet prices with a given tier scheme.
type Engine struct {
	Scheme TierScheme
}

// NewEngine returns an engine classifying with scheme. A nil scheme means ThreeTier.
func NewEngine(scheme TierScheme) *Engine {
	if scheme == nil {
		scheme = ThreeTier
	}
	return &Engine{Scheme: scheme}
}

// Compute prices a bracelet with the canonical three-tier scheme.
func Compute(req Request, lookup CostLookup) Result {
	return NewEngine(ThreeTier).Compute(req, lookup)
}

// Compute prices a bracelet. lookup is called once per selected slot.
func (e *Engine) Compute(req Request, lookup CostLookup) Result {
	materialCost := decimal.Zero
	for _, sel := range req.Selections {
		if !sel.Selected {
			continue
		}
		unit := decimal.Zero
		if lookup != nil {
			unit = lookup(sel.MaterialID)
		}
		materialCost = materialCost.Add(unit.Mul(decimal.NewFromInt(int64(sel.Quantity))))
	}

	fixedCost := req.Thread.Cost().Add(laborCost).Add(packagingCost)
	subtotal := materialCost.Add(fixedCost)
	marketing := marketingRate.Mul(subtotal)
	finalPrice := subtotal.Add(marketing).Mul(priceMultiple)

	tier, reference := e.Scheme.Classify(finalPrice)

	return Result{
		MaterialCost:       materialCost,
		FixedCost:          fixedCost,
		Marketing:          marketing,
		FinalPrice:         finalPrice,
		Tier:               tier,
		TierReferencePrice: reference,
	}
}
