package server

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/xperimental/commit-blog/internal/config"
)

// Server serves a generated site for previewing it locally.
type Server struct {
	log    config.Logger
	cfg    config.Server
	root   string
	server *http.Server
}

func New(log config.Logger, cfg config.Server, root string) (*Server, error) {
	if cfg.ListenAddress == "" {
		return nil, errors.New("listenAddress can not be empty")
	}

	if cfg.ShutdownTimeout == 0 {
		return nil, errors.New("shutdownTimeout can not be zero")
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("can not access site directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("site path is not a directory: %s", root)
	}

	srv := &Server{
		log:  log,
		cfg:  cfg,
		root: root,
		server: &http.Server{
			ErrorLog: stdlog.New(log.WriterLevel(logrus.ErrorLevel), "", 0),
		},
	}

	r := mux.NewRouter()
	r.Handle("/healthz", srv.healthHandler())
	r.PathPrefix("/").Handler(logHandler(log, http.FileServer(http.Dir(root))))
	srv.server.Handler = r

	return srv, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start(ctx context.Context, wg *sync.WaitGroup) error {
	l, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("error creating listener: %w", err)
	}

	s.serve(ctx, wg, l)
	return nil
}

func (s *Server) serve(ctx context.Context, wg *sync.WaitGroup, l net.Listener) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		s.log.Infof("Serving %s on http://%s/ ...", s.root, l.Addr())
		err := s.server.Serve(l)
		if err != http.ErrServerClosed {
			s.log.Errorf("Error in HTTP server: %s", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		<-ctx.Done()

		s.log.Debug("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			s.log.Errorf("Error shutting down server: %s", err)
		}
	}()
}

func (s *Server) healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func logHandler(log config.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		log.Debugf("[%s] %s %d (%s)", r.Method, r.URL, sw.status, humanize.Bytes(uint64(sw.size)))
	})
}
