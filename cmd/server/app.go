package main

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/diewo77/go-backoffice/internal/auth"
	"github.com/diewo77/go-backoffice/internal/gate"
	"github.com/diewo77/go-backoffice/internal/handlers"
	"github.com/diewo77/go-backoffice/internal/metrics"
	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/policy"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	fx.In

	Auth        *handlers.AuthHandler
	Health      *handlers.HealthHandler
	Dashboard   *handlers.DashboardHandler
	Client      *handlers.ClientHandler
	Equipment   *handlers.EquipmentHandler
	Quote       *handlers.QuoteHandler
	Employee    *handlers.EmployeeHandler
	Leave       *handlers.LeaveHandler
	Candidate   *handlers.CandidateHandler
	Chantier    *handlers.ChantierHandler
	Facture     *handlers.FactureHandler
	Sav         *handlers.SavHandler
	Hebergement *handlers.HebergementHandler
	Planning    *handlers.PlanningHandler
	User        *handlers.UserHandler
	Files       *handlers.FileHandler
}

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	h       Handlers
	gate    *policy.AuthGate
	handler http.Handler
}

// NewApp creates the router and wraps it with the global middleware:
// request id, access log, panic recovery, session, preferences, metrics.
func NewApp(h Handlers, ag *policy.AuthGate, sessions auth.SessionStore, m *metrics.HTTPMetrics, log *zap.Logger) *App {
	a := &App{mux: http.NewServeMux(), h: h, gate: ag}
	a.setupRoutes(m)
	a.handler = middleware.Chain(m.Middleware(a.mux),
		middleware.RequestID,
		middleware.Logging(log),
		middleware.Recover,
		auth.Middleware(sessions),
		middleware.Prefs,
	)
	return a
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// route mounts h behind the role gate.
func (a *App) route(pattern string, allowed gate.AllowList, h http.HandlerFunc) {
	a.mux.Handle(pattern, a.gate.RequireFunc(allowed, h))
}

func (a *App) setupRoutes(m *metrics.HTTPMetrics) {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.h.Auth
	a.mux.HandleFunc("GET /login", ah.LoginForm)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("GET /logout", ah.Logout)
	a.mux.HandleFunc("GET /health", a.h.Health.Health)
	a.mux.HandleFunc("GET /healthz", a.h.Health.Healthz)
	a.mux.Handle("GET /metrics", m.Handler())
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// ─────────────────────────────────────────────────────────────────────────
	// Any signed-in role
	// ─────────────────────────────────────────────────────────────────────────
	a.route("GET /{$}", policy.AnyUser, a.h.Dashboard.Show)
	a.route("GET /quote/{id}/pdf", policy.AnyUser, a.h.Quote.PDF)
	a.route("GET /leaves/request", policy.AnyUser, a.h.Leave.RequestForm)
	a.route("POST /leaves/request", policy.AnyUser, a.h.Leave.Request)
	a.route("GET /planning", policy.AnyUser, a.h.Planning.List)
	a.route("GET /planning/add", policy.AnyUser, a.h.Planning.New)
	a.route("POST /planning/add", policy.AnyUser, a.h.Planning.Create)
	// Files narrows further by key prefix, see policy.FileAccess.
	a.route("GET /files/{key...}", policy.AnyUser, a.h.Files.Serve)

	// ─────────────────────────────────────────────────────────────────────────
	// Clients (CEO, Commercial)
	// ─────────────────────────────────────────────────────────────────────────
	ch := a.h.Client
	a.route("GET /clients", policy.Sales, ch.List)
	a.route("GET /clients/export.xlsx", policy.Sales, ch.Export)
	a.route("GET /client/{id}", policy.Sales, ch.Show)
	a.route("GET /client/add", policy.Sales, ch.New)
	a.route("POST /client/add", policy.Sales, ch.Create)
	a.route("GET /client/edit/{id}", policy.Sales, ch.EditForm)
	a.route("POST /client/edit/{id}", policy.Sales, ch.Update)
	a.route("POST /client/delete/{id}", policy.Sales, ch.Delete)

	// ─────────────────────────────────────────────────────────────────────────
	// Equipment (CEO, Technicien)
	// ─────────────────────────────────────────────────────────────────────────
	eh := a.h.Equipment
	a.route("GET /equipment", policy.Technical, eh.List)
	a.route("GET /equipment/export.xlsx", policy.Technical, eh.Export)
	a.route("GET /equipment/add", policy.Technical, eh.New)
	a.route("POST /equipment/add", policy.Technical, eh.Create)
	a.route("GET /equipment/edit/{id}", policy.Technical, eh.EditForm)
	a.route("POST /equipment/edit/{id}", policy.Technical, eh.Update)

	// ─────────────────────────────────────────────────────────────────────────
	// Quotes (CEO, Commercial, Comptable)
	// ─────────────────────────────────────────────────────────────────────────
	qh := a.h.Quote
	a.route("GET /quotes", policy.QuoteDesk, qh.List)
	a.route("GET /quote/add", policy.QuoteDesk, qh.New)
	a.route("POST /quote/add", policy.QuoteDesk, qh.Create)
	a.route("POST /quote/{id}/status", policy.QuoteDesk, qh.UpdateStatus)

	// ─────────────────────────────────────────────────────────────────────────
	// HR (CEO, RH)
	// ─────────────────────────────────────────────────────────────────────────
	emp := a.h.Employee
	a.route("GET /employees", policy.HR, emp.List)
	a.route("GET /employees/export.xlsx", policy.HR, emp.Export)
	a.route("GET /employee/add", policy.HR, emp.New)
	a.route("POST /employee/add", policy.HR, emp.Create)
	a.route("GET /employee/edit/{id}", policy.HR, emp.EditForm)
	a.route("POST /employee/edit/{id}", policy.HR, emp.Update)

	a.route("GET /leaves", policy.HR, a.h.Leave.List)
	a.route("POST /leaves/{id}/update_status", policy.HR, a.h.Leave.UpdateStatus)

	cand := a.h.Candidate
	a.route("GET /candidates", policy.HR, cand.List)
	a.route("GET /candidate/add", policy.HR, cand.New)
	a.route("POST /candidate/add", policy.HR, cand.Create)
	a.route("GET /candidate/{id}", policy.HR, cand.Show)
	a.route("POST /candidate/{id}", policy.HR, cand.Update)
	a.route("GET /candidate/{id}/convert", policy.HR, cand.Convert)

	a.route("GET /hebergements", policy.HR, a.h.Hebergement.List)
	a.route("GET /hebergement/add", policy.HR, a.h.Hebergement.New)
	a.route("POST /hebergement/add", policy.HR, a.h.Hebergement.Create)

	// ─────────────────────────────────────────────────────────────────────────
	// Field work (CEO, Commercial, Technicien)
	// ─────────────────────────────────────────────────────────────────────────
	chh := a.h.Chantier
	a.route("GET /chantiers", policy.Field, chh.List)
	a.route("GET /chantier/add", policy.Field, chh.New)
	a.route("POST /chantier/add", policy.Field, chh.Create)
	a.route("GET /chantier/{id}", policy.Field, chh.Show)
	a.route("POST /chantier/{id}/add_document", policy.Field, chh.AddDocument)

	a.route("GET /sav", policy.Field, a.h.Sav.List)
	a.route("GET /sav/add", policy.Field, a.h.Sav.New)
	a.route("POST /sav/add", policy.Field, a.h.Sav.Create)

	// ─────────────────────────────────────────────────────────────────────────
	// Accounting (CEO, Comptable)
	// ─────────────────────────────────────────────────────────────────────────
	a.route("GET /factures", policy.Accounting, a.h.Facture.List)
	a.route("GET /facture/add", policy.Accounting, a.h.Facture.New)
	a.route("POST /facture/add", policy.Accounting, a.h.Facture.Create)

	// ─────────────────────────────────────────────────────────────────────────
	// User administration (CEO only)
	// ─────────────────────────────────────────────────────────────────────────
	uh := a.h.User
	a.route("GET /users", policy.Admin, uh.List)
	a.route("POST /users/add", policy.Admin, uh.Create)
	a.route("GET /user/edit/{id}", policy.Admin, uh.EditForm)
	a.route("POST /user/edit/{id}", policy.Admin, uh.Update)
	a.route("POST /user/delete/{id}", policy.Admin, uh.Delete)
}
