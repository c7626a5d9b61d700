// Package web serves a read-only dashboard of the portfolio: the
// current valuation, server-rendered PNG charts of the ledger, and the
// allocation breakdown.
package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ycheng/folio"
)

//go:embed templates/*.html
var pages embed.FS

// Server is the dashboard http handler. Valuation and ledger access are
// injected so the server carries no file-path or resolver state of its
// own.
type Server struct {
	mux      *chi.Mux
	page     *template.Template
	snapshot func() (*folio.Snapshot, error)
	history  func() (*folio.History, error)
}

// New builds the dashboard over the given accessors. snapshot values
// the portfolio for today; history loads the current ledger.
func New(snapshot func() (*folio.Snapshot, error), history func() (*folio.History, error)) *Server {
	s := &Server{
		page:     template.Must(template.ParseFS(pages, "templates/dashboard.html")),
		snapshot: snapshot,
		history:  history,
	}
	mux := chi.NewRouter()
	mux.Use(middleware.Logger)
	mux.Get("/", s.handleDashboard)
	mux.Get("/chart/value.png", s.handleChart(RenderValueChart))
	mux.Get("/chart/return.png", s.handleChart(RenderReturnChart))
	s.mux = mux
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves the dashboard on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("dashboard on http://%s", addr)
	return http.ListenAndServe(addr, s)
}

// dashboardView is the data handed to the dashboard page template.
type dashboardView struct {
	Snapshot *folio.Snapshot
	Rows     int
	HasChart bool
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.snapshot()
	if err != nil {
		http.Error(w, "cannot value the portfolio: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	history, err := s.history()
	if err != nil {
		http.Error(w, "cannot load history: "+err.Error(), http.StatusInternalServerError)
		return
	}
	view := dashboardView{
		Snapshot: snapshot,
		Rows:     history.Len(),
		HasChart: history.Len() >= 2,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, view); err != nil {
		log.Printf("dashboard render: %v", err)
	}
}

func (s *Server) handleChart(render func(*folio.History) ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := s.history()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		png, err := render(history)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}
