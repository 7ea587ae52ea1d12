// Package catalog holds the records kept by the workshop: suppliers, materials, bracelets and pending quotes.
package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/selah/internal/pricing"
)

// Supplier sells materials to the workshop.
type Supplier struct {
	ID   int64
	Name string
}

// Material is a raw component bought by the strip and priced per unit.
type Material struct {
	ID          string
	Kind        string
	Stone       string
	Shape       string
	Color       string
	Description string
	Texture     string
	Length      decimal.NullDecimal
	Width       decimal.NullDecimal
	StripCost   decimal.Decimal
	Quantity    int
	UnitCost    decimal.Decimal
	SupplierID  int64
}

// Label is the text offered in the calculator's material picker.
func (m Material) Label() string {
	parts := make([]string, 0, 7)
	for _, p := range []string{m.Kind, m.Stone, m.Shape, m.Texture} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if m.Length.Valid {
		parts = append(parts, "L:"+m.Length.Decimal.String())
	}
	if m.Width.Valid {
		parts = append(parts, "A:"+m.Width.Decimal.String())
	}
	if d := strings.TrimSpace(m.Description); d != "" {
		parts = append(parts, "("+d+")")
	}

	if len(parts) == 0 {
		return m.ID
	}
	return m.ID + " | " + strings.Join(parts, " - ")
}

// MaterialListing is a material row of the catalog, joined with its supplier name.
type MaterialListing struct {
	Material
	SupplierName string
}

// Bracelet is a finished, priced product.
type Bracelet struct {
	ProductID   string
	Description string
	Cost        decimal.Decimal
	Price       decimal.Decimal
	Tier        string
	TierPrice   decimal.Decimal
}

// NewBracelet copies a pricing result into a bracelet record.
func NewBracelet(productID, description string, result pricing.Result) Bracelet {
	return Bracelet{
		ProductID:   strings.TrimSpace(productID),
		Description: strings.TrimSpace(description),
		Cost:        result.TotalCost(),
		Price:       result.FinalPrice,
		Tier:        string(result.Tier),
		TierPrice:   result.TierReferencePrice,
	}
}

// Quote is a computed price waiting to be registered as a bracelet.
type Quote struct {
	ID        string
	Request   pricing.Request
	Result    pricing.Result
	CreatedAt time.Time
}
