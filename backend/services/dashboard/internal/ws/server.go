package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"greendash/backend/services/dashboard/internal/availability"
	"greendash/backend/services/dashboard/internal/models"
	"greendash/backend/services/dashboard/internal/poller"
)

// IdentityFunc extracts the authenticated viewer from a request.
type IdentityFunc func(r *http.Request) (Identity, bool)

// Recorder observes feed activity.
type Recorder interface {
	WSConnected()
	WSDisconnected()
	WSPushed()
}

type nopRecorder struct{}

func (nopRecorder) WSConnected()    {}
func (nopRecorder) WSDisconnected() {}
func (nopRecorder) WSPushed()       {}

// Options tune the feed.
type Options struct {
	PollInterval   time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// Server upgrades requests on /ws/stations and runs one station poller per connection.
type Server struct {
	hub      *Hub
	source   StationSource
	identity IdentityFunc
	recorder Recorder
	logger   *zap.Logger
	opts     Options
	upgrader websocket.Upgrader
	baseCtx  context.Context
}

// NewServer builds ws server. recorder may be nil.
func NewServer(hub *Hub, source StationSource, identity IdentityFunc, recorder Recorder, opts Options, logger *zap.Logger) *Server {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	s := &Server{
		hub:      hub,
		source:   source,
		identity: identity,
		recorder: recorder,
		logger:   logger,
		opts:     opts,
		baseCtx:  context.Background(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// WithContext ties every connection to ctx so shutdown stops their pollers.
func (s *Server) WithContext(ctx context.Context) *Server {
	s.baseCtx = ctx
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.opts.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// HandleWS is the HTTP handler for the live station feed. The initial connector filter is taken
// from repeated ?connector= parameters.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identity(r)
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	filter := availability.NewConnectorSet()
	for _, raw := range r.URL.Query()["connector"] {
		ct, err := models.ParseConnectorType(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter[ct] = struct{}{}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	id := uuid.NewString()

	var connection *Connection
	f := newFeed(identity, s.source, filter, func(msg []byte) {
		if connection.Send(msg) {
			s.recorder.WSPushed()
		}
	}, poller.WithInterval(s.opts.PollInterval), poller.WithLogger(s.logger))

	connection = NewConnection(id, conn, f, s.opts.WriteTimeout, s.logger, func(id string) {
		f.stop()
		cancel()
		s.recorder.WSDisconnected()
		s.hub.Remove(id)
		s.logger.Info("feed disconnected", zap.String("conn_id", id))
	})
	s.hub.Add(connection)
	s.recorder.WSConnected()

	go f.poller.Run(ctx)
	go connection.Start(ctx)
	s.logger.Info("feed connected",
		zap.String("conn_id", id),
		zap.Int64("user_id", identity.UserID),
		zap.Bool("operator", identity.Operator),
	)
}
