package registration

import (
	"strings"

	"github.com/Simplici0/selah/internal/errs"
)

// BraceletInput is the raw bracelet registration form. QuoteID carries the
// token of the price computed earlier in the same interaction.
type BraceletInput struct {
	ProductID   string
	Description string
	QuoteID     string
}

// NewBraceletInput returns an empty bracelet form with no pending quote.
func NewBraceletInput() BraceletInput {
	return BraceletInput{}
}

// ValidateBracelet rejects a registration with a blank id or description, or
// one that was not preceded by a price computation.
func ValidateBracelet(productID, description string, computed bool) error {
	if strings.TrimSpace(productID) == "" {
		return errs.Validation(errs.ReasonMissingField, "id_producto", "Debes ingresar ID y descripción del producto.")
	}
	if strings.TrimSpace(description) == "" {
		return errs.Validation(errs.ReasonMissingField, "descripcion", "Debes ingresar ID y descripción del producto.")
	}
	if !computed {
		return errs.Validation(errs.ReasonNotComputed, "", "Primero debes calcular el precio.")
	}
	return nil
}
