// Package registration validates material and bracelet registrations before they reach the store.
package registration

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/selah/internal/catalog"
	"github.com/Simplici0/selah/internal/config"
	"github.com/Simplici0/selah/internal/errs"
)

// MaterialInput is the raw material form. Each dropdown has a free-text companion
// that wins when it is not blank.
type MaterialInput struct {
	ID            string
	KindChoice    string
	KindText      string
	StoneChoice   string
	StoneText     string
	ShapeChoice   string
	ShapeText     string
	Color         string
	Description   string
	TextureChoice string
	TextureText   string
	Length        string
	Width         string
	StripCost     string
	Quantity      string
	SupplierID    string
}

// NewMaterialInput returns an empty material form.
func NewMaterialInput() MaterialInput {
	return MaterialInput{}
}

// MaterialChecker answers the store-backed questions asked during validation.
type MaterialChecker interface {
	MaterialExists(ctx context.Context, id string) (bool, error)
	SupplierExists(ctx context.Context, id int64) (bool, error)
}

func resolve(choice, text string) string {
	if t := strings.TrimSpace(text); t != "" {
		return t
	}
	return strings.TrimSpace(choice)
}

func resolveTexture(choice, text string) string {
	if strings.TrimSpace(choice) == config.TextureOther {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(choice)
}

// ValidateMaterial checks in and returns the record to persist, with its unit cost derived.
// Store errors are returned wrapped; every rejection is an errs validation error.
func ValidateMaterial(ctx context.Context, in MaterialInput, checker MaterialChecker) (catalog.Material, error) {
	m := catalog.Material{
		ID:          strings.TrimSpace(in.ID),
		Kind:        resolve(in.KindChoice, in.KindText),
		Stone:       resolve(in.StoneChoice, in.StoneText),
		Shape:       resolve(in.ShapeChoice, in.ShapeText),
		Color:       strings.TrimSpace(in.Color),
		Description: strings.TrimSpace(in.Description),
		Texture:     resolveTexture(in.TextureChoice, in.TextureText),
	}

	switch {
	case m.ID == "":
		return catalog.Material{}, errs.Validation(errs.ReasonMissingField, "id", "El ID no puede quedar vacío.")
	case m.Kind == "":
		return catalog.Material{}, errs.Validation(errs.ReasonMissingField, "tipo", "El campo Tipo no puede quedar vacío.")
	case m.Stone == "":
		return catalog.Material{}, errs.Validation(errs.ReasonMissingField, "piedra", "El campo Piedra no puede quedar vacío.")
	case m.Shape == "":
		return catalog.Material{}, errs.Validation(errs.ReasonMissingField, "forma", "El campo Forma no puede quedar vacío.")
	}

	rawSupplier := strings.TrimSpace(in.SupplierID)
	if rawSupplier == "" {
		return catalog.Material{}, errs.Validation(errs.ReasonInvalidSupplier, "proveedor", "Debes seleccionar un proveedor válido.")
	}
	supplierID, err := strconv.ParseInt(rawSupplier, 10, 64)
	if err != nil || supplierID <= 0 {
		return catalog.Material{}, errs.Validation(errs.ReasonInvalidSupplier, "proveedor", "Debes seleccionar un proveedor válido.")
	}
	m.SupplierID = supplierID

	if m.StripCost, err = parseAmount(in.StripCost, "costo_tira", "Costo Tira"); err != nil {
		return catalog.Material{}, err
	}
	if m.Quantity, err = parseCount(in.Quantity, "cantidad", "Cantidad"); err != nil {
		return catalog.Material{}, err
	}
	if m.Length, err = parseOptionalAmount(in.Length, "largo", "Largo"); err != nil {
		return catalog.Material{}, err
	}
	if m.Width, err = parseOptionalAmount(in.Width, "ancho", "Ancho"); err != nil {
		return catalog.Material{}, err
	}
	m.UnitCost = UnitCost(m.StripCost, m.Quantity)

	ok, err := checker.SupplierExists(ctx, m.SupplierID)
	if err != nil {
		return catalog.Material{}, fmt.Errorf("validate supplier: %w", err)
	}
	if !ok {
		return catalog.Material{}, errs.Validation(errs.ReasonInvalidSupplier, "proveedor", "Debes seleccionar un proveedor válido.")
	}

	exists, err := checker.MaterialExists(ctx, m.ID)
	if err != nil {
		return catalog.Material{}, fmt.Errorf("validate material id: %w", err)
	}
	if exists {
		return catalog.Material{}, errs.Validationf(errs.ReasonDuplicateID, "id", "El ID %s ya existe.", m.ID)
	}

	return m, nil
}

// UnitCost divides a strip cost across its units. A zero quantity yields zero.
func UnitCost(stripCost decimal.Decimal, quantity int) decimal.Decimal {
	if quantity == 0 {
		return decimal.Zero
	}
	return stripCost.Div(decimal.NewFromInt(int64(quantity)))
}

func parseAmount(raw, field, label string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Zero, errs.Validationf(errs.ReasonInvalidNumber, field, "%s debe ser numérico.", label)
	}
	if value.IsNegative() {
		return decimal.Zero, errs.Validationf(errs.ReasonInvalidNumber, field, "%s debe ser mayor o igual a 0.", label)
	}
	return value, nil
}

func parseOptionalAmount(raw, field, label string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}, nil
	}
	value, err := parseAmount(raw, field, label)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(value), nil
}

func parseCount(raw, field, label string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Validationf(errs.ReasonInvalidNumber, field, "%s debe ser un número entero.", label)
	}
	if value < 0 {
		return 0, errs.Validationf(errs.ReasonInvalidNumber, field, "%s debe ser mayor o igual a 0.", label)
	}
	return value, nil
}
