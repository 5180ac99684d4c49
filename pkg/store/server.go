package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/user/normtree/pkg/logging"
	"github.com/user/normtree/pkg/tree"
)

// Server exposes a Memory store over the same HTTP API Client speaks.
// It is meant for local development and tests, not as the production store.
type Server struct {
	store *Memory
}

func NewServer(m *Memory) *Server {
	return &Server{store: m}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.getRoot)
	r.Get("/node/{id}", s.getNode)
	r.Put("/override/{id}", s.override)
	r.Delete("/node/{id}", s.deleteNode)
	return r
}

// Serve listens on addr until ctx is cancelled
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) getRoot(w http.ResponseWriter, r *http.Request) {
	root, err := s.store.FetchRoot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, root)
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	id := tree.ID(chi.URLParam(r, "id"))
	n, err := s.store.FetchNode(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) override(w http.ResponseWriter, r *http.Request) {
	id := tree.ID(chi.URLParam(r, "id"))
	status, err := tree.ParseStatus(r.URL.Query().Get("new_status"))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	if err := s.store.SetStatus(r.Context(), id, status); err != nil {
		writeError(w, err)
		return
	}
	n, err := s.store.FetchNode(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// deleteNode drops a subtree so a client's next reload of it gets a 404
func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	id := tree.ID(chi.URLParam(r, "id"))
	if err := s.store.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	logging.Infof("deleted subtree %s", id)
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoRoot):
		code = http.StatusNotFound
	case errors.Is(err, ErrRejected):
		code = http.StatusUnprocessableEntity
	}
	writeJSON(w, code, map[string]string{"detail": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Debugf("serve %s %s client-id=%s status=%d in %s",
			r.Method, r.URL.RequestURI(), r.Header.Get(RequestIDHeader), ww.Status(), time.Since(start))
	})
}
