package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
	"github.com/mpapenbr/go-racehud/pkg/broadcast"
	"github.com/mpapenbr/go-racehud/version"
)

type (
	Server interface {
		Start() error
		Close() error
		Handler() http.Handler
	}
	serverImpl struct {
		cfg      *serverConfig
		ctx      context.Context
		l        *log.Logger
		router   *mux.Router
		srv      *http.Server
		upgrader websocket.Upgrader
	}

	serverConfig struct {
		ctx    context.Context
		logger *log.Logger
		addr   string
		feed   *broadcast.Broadcaster[fuel.DisplayValues]
	}
	Option interface {
		apply(*serverConfig) *serverConfig
	}
	optFunc func(*serverConfig) *serverConfig
)

var _ Server = (*serverImpl)(nil)

func (f optFunc) apply(cfg *serverConfig) *serverConfig {
	return f(cfg)
}

func WithContext(ctx context.Context) Option {
	return optFunc(func(cfg *serverConfig) *serverConfig {
		cfg.ctx = ctx
		return cfg
	})
}

func WithLogger(logger *log.Logger) Option {
	return optFunc(func(cfg *serverConfig) *serverConfig {
		cfg.logger = logger
		return cfg
	})
}

func WithAddr(addr string) Option {
	return optFunc(func(cfg *serverConfig) *serverConfig {
		cfg.addr = addr
		return cfg
	})
}

// WithFeed sets the source of the display values
func WithFeed(feed *broadcast.Broadcaster[fuel.DisplayValues]) Option {
	return optFunc(func(cfg *serverConfig) *serverConfig {
		cfg.feed = feed
		return cfg
	})
}

func NewServer(opts ...Option) (Server, error) {
	cfg := newServerConfig(opts)
	if cfg.feed == nil {
		return nil, errors.New("display feed is required")
	}
	srv := &serverImpl{
		cfg: cfg,
		ctx: cfg.ctx,
		upgrader: websocket.Upgrader{
			// the feed is read by local overlays served from any origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if cfg.logger != nil {
		srv.l = cfg.logger
	} else {
		srv.l = log.GetFromContext(cfg.ctx).Named("server")
	}
	srv.router = srv.setupRoutes()
	return srv, nil
}

func newServerConfig(opts []Option) *serverConfig {
	c := &serverConfig{
		ctx:  context.Background(),
		addr: "localhost:8135", // Default address
	}
	for _, opt := range opts {
		c = opt.apply(c)
	}
	return c
}

func (s *serverImpl) Handler() http.Handler {
	return s.router
}

func (s *serverImpl) Start() error {
	s.l.Info("Starting display feed server", log.String("address", s.cfg.addr))
	s.srv = &http.Server{
		Addr:              s.cfg.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.l.Error("error starting server", log.ErrorField(err))
		}
	}()
	go func() {
		<-s.ctx.Done()
		//nolint:errcheck // shutdown on exit
		s.Close()
	}()
	return nil
}

func (s *serverImpl) Close() error {
	if s.srv == nil {
		return nil
	}
	s.l.Debug("Closing server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *serverImpl) setupRoutes() *mux.Router {
	r := mux.NewRouter()
	// a method mismatch on a subrouter yields 404, so api routes stay on the root
	r.HandleFunc("/api/display", s.displayHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/version", s.versionHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.websocketHandler)
	return r
}

func (s *serverImpl) displayHandler(w http.ResponseWriter, r *http.Request) {
	dv, ok := s.cfg.feed.Last()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, dv)
}

func (s *serverImpl) versionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, version.Current())
}

func (s *serverImpl) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.l.Warn("websocket upgrade failed", log.ErrorField(err))
		return
	}
	defer c.Close()
	ch := s.cfg.feed.Subscribe()
	defer s.cfg.feed.Unsubscribe(ch)

	// the client does not send anything, reading detects a closed connection
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.l.Debug("websocket client connected", log.String("remote", r.RemoteAddr))
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-closed:
			s.l.Debug("websocket client disconnected", log.String("remote", r.RemoteAddr))
			return
		case dv, more := <-ch:
			if !more {
				return
			}
			if err := c.WriteJSON(dv); err != nil {
				s.l.Debug("websocket write failed", log.ErrorField(err))
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
