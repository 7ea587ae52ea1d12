package main

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simplici0/selah/internal/catalog"
	"github.com/Simplici0/selah/internal/config"
	"github.com/Simplici0/selah/internal/errs"
	"github.com/Simplici0/selah/internal/pricing"
	"github.com/Simplici0/selah/internal/registration"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"login.html",
	"materials.html",
	"calculator.html",
	"catalog_materials.html",
	"catalog_bracelets.html",
}

// catalogStore is the part of the store used by the web handlers.
type catalogStore interface {
	registration.MaterialChecker
	Ping(ctx context.Context) error
	ListSuppliers(ctx context.Context) ([]catalog.Supplier, error)
	InsertMaterial(ctx context.Context, m catalog.Material) error
	ListMaterials(ctx context.Context) ([]catalog.MaterialListing, error)
	CostLookup(ctx context.Context, logger *zap.Logger) pricing.CostLookup
	SaveQuote(ctx context.Context, req pricing.Request, result pricing.Result) (catalog.Quote, error)
	GetQuote(ctx context.Context, id string) (catalog.Quote, error)
	DeleteQuote(ctx context.Context, id string) error
	PurgeExpiredQuotes(ctx context.Context) (int64, error)
	RegisterBracelet(ctx context.Context, quoteID string, b catalog.Bracelet) error
	ListBracelets(ctx context.Context) ([]catalog.Bracelet, error)
}

type server struct {
	store     catalogStore
	auth      *authService
	engine    *pricing.Engine
	options   config.Options
	logger    *zap.Logger
	templates map[string]*template.Template
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
	UserEmail      string
}

type loginViewData struct {
	baseViewData
	Email string
}

func newServer(st catalogStore, auth *authService, engine *pricing.Engine, options config.Options, logger *zap.Logger) (*server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &server{
		store:     st,
		auth:      auth,
		engine:    engine,
		options:   options,
		logger:    logger,
		templates: templates,
	}, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"inc":   func(i int) int { return i + 1 },
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}
	return templates, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLoginSubmit)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/logout", s.handleLogout)
		r.Get("/", s.handleHome)

		r.Get("/materials/new", s.handleMaterialForm)
		r.Post("/materials", s.handleMaterialCreate)
		r.Post("/materials/clear", s.handleMaterialClear)

		r.Get("/calculator", s.handleCalculator)
		r.Post("/calculator/compute", s.handleCalculatorCompute)
		r.Post("/calculator/clear", s.handleCalculatorClear)
		r.Post("/bracelets", s.handleBraceletCreate)
		r.Post("/bracelets/clear", s.handleBraceletClear)

		r.Get("/catalog/materials", s.handleMaterialCatalog)
		r.Get("/catalog/materials.csv", s.handleMaterialCatalogCSV)
		r.Get("/catalog/bracelets", s.handleBraceletCatalog)
		r.Get("/catalog/bracelets.csv", s.handleBraceletCatalogCSV)
	})

	return r
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/materials/new", http.StatusSeeOther)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.auth.sessionEmail(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	valid, err := s.auth.validateCredentials(r.Context(), email, r.FormValue("password"))
	if err != nil {
		s.logger.Error("authentication failed", zap.Error(err))
		http.Error(w, "authentication error", http.StatusInternalServerError)
		return
	}
	if !valid {
		s.render(w, r, http.StatusUnauthorized, "login.html", loginViewData{
			baseViewData: baseViewData{ErrorMessage: "Credenciales inválidas. Intenta de nuevo."},
			Email:        email,
		})
		return
	}

	s.auth.setSessionCookie(w, email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// render buffers page inside the layout and writes it with status.
func (s *server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	t, ok := s.templates[page]
	if !ok {
		http.Error(w, "unknown template", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.logger.Error("render template",
			zap.String("page", page),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorStatus maps a domain error to its HTTP status. ok is false for unexpected errors.
func errorStatus(err error) (status int, ok bool) {
	e, isDomain := errs.As(err)
	if !isDomain {
		return http.StatusInternalServerError, false
	}
	switch {
	case e.Kind == errs.KindValidation && e.Reason == errs.ReasonDuplicateID:
		return http.StatusConflict, true
	case e.Kind == errs.KindValidation:
		return http.StatusBadRequest, true
	case e.Reason == errs.ReasonDuplicateKey:
		return http.StatusConflict, true
	case e.Reason == errs.ReasonUnavailable:
		return http.StatusServiceUnavailable, true
	default:
		return http.StatusInternalServerError, true
	}
}

type contextKey string

const userEmailKey contextKey = "user_email"

func userEmail(ctx context.Context) string {
	email, _ := ctx.Value(userEmailKey).(string)
	return email
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := s.auth.sessionEmail(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userEmailKey, email)))
	})
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
