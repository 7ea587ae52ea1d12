// Package export writes the material and bracelet catalogs as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/selah/internal/catalog"
)

// MaterialHeader is the first row of a material export.
var MaterialHeader = []string{
	"ID_MATERIAL", "TIPO", "PIEDRA", "FORMA", "COLOR", "DESCRIPCION", "TEXTURA",
	"LARGO", "ANCHO", "COSTO_TIRA", "CANTIDAD", "COSTO_CUENTA", "NOMBRE_PROVEEDOR",
}

// BraceletHeader is the first row of a bracelet export.
var BraceletHeader = []string{
	"ID_PRODUCTO", "DESCRIPCION", "COSTO", "PRECIO", "CLASIFICACION", "PRECIO_CLASIFICADO",
}

// Materials writes the header and one row per material.
func Materials(w io.Writer, materials []catalog.MaterialListing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MaterialHeader); err != nil {
		return fmt.Errorf("write material header: %w", err)
	}
	for _, m := range materials {
		row := []string{
			m.ID, m.Kind, m.Stone, m.Shape, m.Color, m.Description, m.Texture,
			nullable(m.Length), nullable(m.Width),
			m.StripCost.String(), strconv.Itoa(m.Quantity), m.UnitCost.String(),
			m.SupplierName,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write material %s: %w", m.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Bracelets writes the header and one row per bracelet.
func Bracelets(w io.Writer, bracelets []catalog.Bracelet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(BraceletHeader); err != nil {
		return fmt.Errorf("write bracelet header: %w", err)
	}
	for _, b := range bracelets {
		row := []string{
			b.ProductID, b.Description,
			b.Cost.StringFixed(2), b.Price.StringFixed(2),
			b.Tier, b.TierPrice.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write bracelet %s: %w", b.ProductID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func nullable(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
