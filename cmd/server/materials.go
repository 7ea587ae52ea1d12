package main

import (
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Simplici0/selah/internal/catalog"
	"github.com/Simplici0/selah/internal/config"
	"github.com/Simplici0/selah/internal/errs"
	"github.com/Simplici0/selah/internal/registration"
)

type materialViewData struct {
	baseViewData
	Options    config.Options
	Suppliers  []catalog.Supplier
	Input      registration.MaterialInput
	ErrorField string
}

func parseMaterialForm(r *http.Request) registration.MaterialInput {
	return registration.MaterialInput{
		ID:            r.FormValue("id"),
		KindChoice:    r.FormValue("tipo"),
		KindText:      r.FormValue("tipo_otro"),
		StoneChoice:   r.FormValue("piedra"),
		StoneText:     r.FormValue("piedra_otro"),
		ShapeChoice:   r.FormValue("forma"),
		ShapeText:     r.FormValue("forma_otro"),
		Color:         r.FormValue("color"),
		Description:   r.FormValue("descripcion"),
		TextureChoice: r.FormValue("textura"),
		TextureText:   r.FormValue("textura_otro"),
		Length:        r.FormValue("largo"),
		Width:         r.FormValue("ancho"),
		StripCost:     r.FormValue("costo_tira"),
		Quantity:      r.FormValue("cantidad"),
		SupplierID:    r.FormValue("proveedor"),
	}
}

func (s *server) renderMaterialForm(w http.ResponseWriter, r *http.Request, status int, data materialViewData) {
	suppliers, err := s.store.ListSuppliers(r.Context())
	if err != nil {
		s.logger.Error("list suppliers", zap.Error(err))
		http.Error(w, "failed to load suppliers", http.StatusInternalServerError)
		return
	}

	data.Options = s.options
	data.Suppliers = suppliers
	data.UserEmail = userEmail(r.Context())
	s.render(w, r, status, "materials.html", data)
}

func (s *server) handleMaterialForm(w http.ResponseWriter, r *http.Request) {
	s.renderMaterialForm(w, r, http.StatusOK, materialViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Input: registration.NewMaterialInput(),
	})
}

func (s *server) handleMaterialCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	input := parseMaterialForm(r)
	material, err := registration.ValidateMaterial(r.Context(), input, s.store)
	if err == nil {
		err = s.store.InsertMaterial(r.Context(), material)
	}
	if err != nil {
		status, known := errorStatus(err)
		if !known {
			s.logger.Error("register material", zap.String("material_id", input.ID), zap.Error(err))
			http.Error(w, "failed to register material", status)
			return
		}

		data := materialViewData{
			baseViewData: baseViewData{ErrorMessage: errs.UserMessage(err)},
			Input:        input,
		}
		if e, ok := errs.As(err); ok {
			data.ErrorField = e.Field
		}
		s.renderMaterialForm(w, r, status, data)
		return
	}

	s.logger.Info("material registered", zap.String("material_id", material.ID))
	msg := fmt.Sprintf("Material registrado correctamente: %s", material.ID)
	http.Redirect(w, r, "/materials/new?success="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (s *server) handleMaterialClear(w http.ResponseWriter, r *http.Request) {
	s.renderMaterialForm(w, r, http.StatusOK, materialViewData{Input: registration.NewMaterialInput()})
}
