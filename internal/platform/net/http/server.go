package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"campaigntracker/internal/platform/config"
	"campaigntracker/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// ServerTimeouts bounds every phase of a connection
type ServerTimeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
}

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr     string
	mux      *chi.Mux
	srv      *stdhttp.Server
	shutdown time.Duration
}

// NewServer reads API_PORT and the *_TIMEOUT keys from cfg;
// opts receive the *chi.Mux so callers can mount middleware
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayString("API_PORT", ":4000")
	to := ServerTimeouts{
		ReadHeader: cfg.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		Read:       cfg.MayDuration("READ_TIMEOUT", 30*time.Second),
		Write:      cfg.MayDuration("WRITE_TIMEOUT", 60*time.Second),
		Idle:       cfg.MayDuration("IDLE_TIMEOUT", 2*time.Minute),
		Shutdown:   cfg.MayDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr:     addr,
		mux:      m,
		shutdown: to.Shutdown,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: to.ReadHeader,
			ReadTimeout:       to.Read,
			WriteTimeout:      to.Write,
			IdleTimeout:       to.Idle,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the configured listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	log.Info().Dur("grace", s.shutdown).Msg("http shutting down")
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
