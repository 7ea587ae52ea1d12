package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Simplici0/selah/internal/catalog"
	"github.com/Simplici0/selah/internal/export"
)

type materialCatalogViewData struct {
	baseViewData
	Materials []catalog.MaterialListing
}

type braceletCatalogViewData struct {
	baseViewData
	Bracelets []catalog.Bracelet
}

func (s *server) handleMaterialCatalog(w http.ResponseWriter, r *http.Request) {
	materials, err := s.store.ListMaterials(r.Context())
	if err != nil {
		s.logger.Error("list materials", zap.Error(err))
		http.Error(w, "failed to load materials", http.StatusInternalServerError)
		return
	}

	data := materialCatalogViewData{Materials: materials}
	data.UserEmail = userEmail(r.Context())
	s.render(w, r, http.StatusOK, "catalog_materials.html", data)
}

func (s *server) handleBraceletCatalog(w http.ResponseWriter, r *http.Request) {
	bracelets, err := s.store.ListBracelets(r.Context())
	if err != nil {
		s.logger.Error("list bracelets", zap.Error(err))
		http.Error(w, "failed to load bracelets", http.StatusInternalServerError)
		return
	}

	data := braceletCatalogViewData{Bracelets: bracelets}
	data.UserEmail = userEmail(r.Context())
	s.render(w, r, http.StatusOK, "catalog_bracelets.html", data)
}

func setCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

func (s *server) handleMaterialCatalogCSV(w http.ResponseWriter, r *http.Request) {
	materials, err := s.store.ListMaterials(r.Context())
	if err != nil {
		s.logger.Error("list materials", zap.Error(err))
		http.Error(w, "failed to load materials", http.StatusInternalServerError)
		return
	}

	setCSVHeaders(w, "materiales.csv")
	if err := export.Materials(w, materials); err != nil {
		s.logger.Error("write materials csv", zap.Error(err))
	}
}

func (s *server) handleBraceletCatalogCSV(w http.ResponseWriter, r *http.Request) {
	bracelets, err := s.store.ListBracelets(r.Context())
	if err != nil {
		s.logger.Error("list bracelets", zap.Error(err))
		http.Error(w, "failed to load bracelets", http.StatusInternalServerError)
		return
	}

	setCSVHeaders(w, "pulseras.csv")
	if err := export.Bracelets(w, bracelets); err != nil {
		s.logger.Error("write bracelets csv", zap.Error(err))
	}
}
