package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"sponarchive/internal/store"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server exposes a read-only JSON API over the crawl caches.
type Server struct {
	store  store.Store
	logger *zap.Logger
	router *mux.Router
	server *http.Server
}

// NewServer builds the API server on top of a cache store.
func NewServer(st store.Store, logger *zap.Logger) *Server {
	s := &Server{
		store:  st,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/status", s.handleStatus).Methods("GET")
	s.router.HandleFunc("/archive/{date}", s.handleArchiveDay).Methods("GET")
	s.router.HandleFunc("/articles/{date}", s.handleArticlesDay).Methods("GET")
	s.router.HandleFunc("/export", s.handleExport).Methods("GET")
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start launches the HTTP server and blocks until it stops.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("API server listening", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type statusResponse struct {
	Days          int `json:"days"`
	Teasers       int `json:"teasers"`
	TeaserErrors  int `json:"teaser_errors"`
	Articles      int `json:"articles"`
	ArticleErrors int `json:"article_errors"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	archive, err := s.store.LoadArchive()
	if err != nil {
		s.fail(w, "load archive cache", err)
		return
	}
	articles, err := s.store.LoadArticles()
	if err != nil {
		s.fail(w, "load articles cache", err)
		return
	}

	s.writeJSON(w, statusResponse{
		Days:          len(archive.Dates),
		Teasers:       archive.Len(),
		TeaserErrors:  archive.CountErrors(),
		Articles:      articles.Len(),
		ArticleErrors: articles.CountErrors(),
	})
}

func (s *Server) handleArchiveDay(w http.ResponseWriter, r *http.Request) {
	archive, err := s.store.LoadArchive()
	if err != nil {
		s.fail(w, "load archive cache", err)
		return
	}

	day := archive.Day(mux.Vars(r)["date"])
	if len(day) == 0 {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, day)
}

func (s *Server) handleArticlesDay(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.LoadArticles()
	if err != nil {
		s.fail(w, "load articles cache", err)
		return
	}

	records := articles.DayRecords(mux.Vars(r)["date"])
	if len(records) == 0 {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, records)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.LoadArticles()
	if err != nil {
		s.fail(w, "load articles cache", err)
		return
	}
	s.writeJSON(w, articles.Flatten())
}

func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("write response", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	http.Error(w, "cache error", http.StatusInternalServerError)
}
