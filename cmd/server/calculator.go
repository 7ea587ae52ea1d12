package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/selah/internal/catalog"
	"github.com/Simplici0/selah/internal/errs"
	"github.com/Simplici0/selah/internal/pricing"
	"github.com/Simplici0/selah/internal/registration"
	"github.com/Simplici0/selah/internal/store"
)

type threadOption struct {
	Value string
	Label string
}

var threadOptions = []threadOption{
	{Value: "", Label: " "},
	{Value: "nylon", Label: "Nylon"},
	{Value: "negro", Label: "Negro"},
}

type materialOption struct {
	ID    string
	Label string
}

type slotView struct {
	Index      int
	MaterialID string
	Quantity   int
}

type calculatorViewData struct {
	baseViewData
	Thread     string
	Threads    []threadOption
	Materials  []materialOption
	Slots      []slotView
	Result     *pricing.Result
	Bracelet   registration.BraceletInput
	ErrorField string
}

// calculatorForm is everything posted by the calculator page: the pricing
// inputs and the bracelet registration fields share one form.
type calculatorForm struct {
	Request  pricing.Request
	Bracelet registration.BraceletInput
}

func threadFormValue(t pricing.ThreadType) string {
	if t == pricing.ThreadNone {
		return ""
	}
	return t.String()
}

// parseCalculatorForm reads the calculator form. Negative quantities are clamped to
// zero; the returned form is usable even when err reports an invalid quantity.
func parseCalculatorForm(r *http.Request) (calculatorForm, error) {
	form := calculatorForm{
		Request: pricing.NewRequest(),
		Bracelet: registration.BraceletInput{
			ProductID:   r.FormValue("id_producto"),
			Description: r.FormValue("descripcion"),
			QuoteID:     strings.TrimSpace(r.FormValue("quote_id")),
		},
	}

	var firstErr error
	thread, err := pricing.ParseThreadType(r.FormValue("hilo"))
	if err != nil {
		firstErr = errs.Validation(errs.ReasonMissingField, "hilo", "Selecciona un tipo de hilo válido.")
	}
	form.Request.Thread = thread

	for i := range form.Request.Selections {
		materialID := strings.TrimSpace(r.FormValue(fmt.Sprintf("material_%d", i)))
		rawQty := strings.TrimSpace(r.FormValue(fmt.Sprintf("cantidad_%d", i)))

		qty := 0
		if rawQty != "" {
			parsed, err := strconv.Atoi(rawQty)
			switch {
			case err != nil:
				if firstErr == nil {
					firstErr = errs.Validationf(errs.ReasonInvalidNumber, fmt.Sprintf("cantidad_%d", i),
						"La cantidad %d debe ser un número entero.", i+1)
				}
			case parsed > 0:
				qty = parsed
			}
		}

		if materialID == "" {
			form.Request.Selections[i] = pricing.Selection{Quantity: qty}
			continue
		}
		form.Request.Selections[i] = pricing.Select(materialID, qty)
	}

	return form, firstErr
}

func (s *server) renderCalculator(w http.ResponseWriter, r *http.Request, status int, form calculatorForm, data calculatorViewData) {
	ctx := r.Context()

	materials, err := s.store.ListMaterials(ctx)
	if err != nil {
		s.logger.Error("list materials", zap.Error(err))
		http.Error(w, "failed to load materials", http.StatusInternalServerError)
		return
	}

	if data.Result == nil && form.Bracelet.QuoteID != "" {
		quote, err := s.store.GetQuote(ctx, form.Bracelet.QuoteID)
		switch {
		case err == nil:
			data.Result = &quote.Result
		case errors.Is(err, store.ErrNotFound):
			form.Bracelet.QuoteID = ""
		default:
			s.logger.Warn("load pending quote", zap.String("quote_id", form.Bracelet.QuoteID), zap.Error(err))
		}
	}

	data.UserEmail = userEmail(ctx)
	data.Thread = threadFormValue(form.Request.Thread)
	data.Threads = threadOptions
	data.Bracelet = form.Bracelet
	data.Materials = make([]materialOption, 0, len(materials))
	for _, m := range materials {
		data.Materials = append(data.Materials, materialOption{ID: m.ID, Label: m.Label()})
	}
	data.Slots = make([]slotView, 0, len(form.Request.Selections))
	for i, sel := range form.Request.Selections {
		slot := slotView{Index: i, Quantity: sel.Quantity}
		if sel.Selected {
			slot.MaterialID = sel.MaterialID
		}
		data.Slots = append(data.Slots, slot)
	}

	s.render(w, r, status, "calculator.html", data)
}

func (s *server) renderCalculatorError(w http.ResponseWriter, r *http.Request, form calculatorForm, result *pricing.Result, err error) {
	status, known := errorStatus(err)
	if !known {
		s.logger.Error("calculator request failed", zap.Error(err))
		http.Error(w, "unexpected error", status)
		return
	}

	data := calculatorViewData{
		baseViewData: baseViewData{ErrorMessage: errs.UserMessage(err)},
		Result:       result,
	}
	if e, ok := errs.As(err); ok {
		data.ErrorField = e.Field
	}
	s.renderCalculator(w, r, status, form, data)
}

func (s *server) handleCalculator(w http.ResponseWriter, r *http.Request) {
	s.renderCalculator(w, r, http.StatusOK, calculatorForm{Request: pricing.NewRequest()}, calculatorViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
	})
}

func (s *server) handleCalculatorCompute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	form, err := parseCalculatorForm(r)
	if err != nil {
		s.renderCalculatorError(w, r, form, nil, err)
		return
	}

	if purged, err := s.store.PurgeExpiredQuotes(ctx); err != nil {
		s.logger.Warn("purge expired quotes", zap.Error(err))
	} else if purged > 0 {
		s.logger.Debug("expired quotes purged", zap.Int64("count", purged))
	}

	result := s.engine.Compute(form.Request, s.store.CostLookup(ctx, s.logger))

	quote, err := s.store.SaveQuote(ctx, form.Request, result)
	if err != nil {
		s.renderCalculatorError(w, r, form, &result, err)
		return
	}
	if previous := form.Bracelet.QuoteID; previous != "" {
		if err := s.store.DeleteQuote(ctx, previous); err != nil {
			s.logger.Warn("discard replaced quote", zap.String("quote_id", previous), zap.Error(err))
		}
	}
	form.Bracelet.QuoteID = quote.ID

	s.logger.Info("price computed",
		zap.String("quote_id", quote.ID),
		zap.String("final_price", result.FinalPrice.StringFixed(2)),
		zap.String("tier", string(result.Tier)),
	)
	s.renderCalculator(w, r, http.StatusOK, form, calculatorViewData{Result: &result})
}

func (s *server) handleCalculatorClear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form, _ := parseCalculatorForm(r)
	form.Request = pricing.NewRequest()
	s.renderCalculator(w, r, http.StatusOK, form, calculatorViewData{})
}

func (s *server) handleBraceletCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	// Selections edited after computing are replaced by the ones the quote was priced from.
	form, _ := parseCalculatorForm(r)

	var (
		quote    catalog.Quote
		computed bool
	)
	if form.Bracelet.QuoteID != "" {
		q, err := s.store.GetQuote(ctx, form.Bracelet.QuoteID)
		switch {
		case err == nil:
			quote, computed = q, true
			form.Request = q.Request
		case errors.Is(err, store.ErrNotFound):
			form.Bracelet.QuoteID = ""
		default:
			s.logger.Error("load pending quote", zap.String("quote_id", form.Bracelet.QuoteID), zap.Error(err))
			http.Error(w, "failed to load quote", http.StatusInternalServerError)
			return
		}
	}

	if err := registration.ValidateBracelet(form.Bracelet.ProductID, form.Bracelet.Description, computed); err != nil {
		s.renderCalculatorError(w, r, form, nil, err)
		return
	}

	bracelet := catalog.NewBracelet(form.Bracelet.ProductID, form.Bracelet.Description, quote.Result)
	if err := s.store.RegisterBracelet(ctx, quote.ID, bracelet); err != nil {
		s.renderCalculatorError(w, r, form, &quote.Result, err)
		return
	}

	s.logger.Info("bracelet registered",
		zap.String("product_id", bracelet.ProductID),
		zap.String("price", bracelet.Price.StringFixed(2)),
		zap.String("tier", bracelet.Tier),
	)
	msg := fmt.Sprintf("Pulsera '%s' registrada correctamente.", bracelet.Description)
	http.Redirect(w, r, "/calculator?success="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (s *server) handleBraceletClear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form, _ := parseCalculatorForm(r)
	if form.Bracelet.QuoteID != "" {
		if err := s.store.DeleteQuote(r.Context(), form.Bracelet.QuoteID); err != nil {
			s.logger.Warn("discard quote", zap.String("quote_id", form.Bracelet.QuoteID), zap.Error(err))
		}
	}
	form.Bracelet = registration.NewBraceletInput()
	s.renderCalculator(w, r, http.StatusOK, form, calculatorViewData{})
}
