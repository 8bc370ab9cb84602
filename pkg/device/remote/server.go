package remote

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/rs/xid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"oledscreen/pkg/screen"
)

const serviceName = "Display"

// NullOrigin is the only browser origin allowed to call the service.
const NullOrigin = "null"

func Proxy(d *screen.Dispatcher, srv *http.Server, logger *zap.Logger, lifecycle fx.Lifecycle) error {
	h, err := NewHandler(d, logger)
	if err != nil {
		return err
	}
	srv.Handler = h

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return errors.Wrapf(err, "listen %s", srv.Addr)
			}

			logger.With(zap.Stringer("addr", ln.Addr())).Info("listening for requests")
			go func() {
				if err := srv.Serve(ln); err != http.ErrServerClosed {
					logger.With(zap.Error(err)).Fatal("rpc server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return nil
}

// NewHandler serves the JSON-RPC methods write, clear and flush. Browser
// requests are refused unless they come from the null origin.
func NewHandler(d *screen.Dispatcher, logger *zap.Logger) (http.Handler, error) {
	s := rpc.NewServer()
	s.RegisterCodec(newCodec(serviceName), "application/json")
	if err := s.RegisterService(&Service{d: d, logger: logger}, serviceName); err != nil {
		return nil, errors.Wrap(err, "register rpc service")
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{NullOrigin},
		AllowedMethods: []string{http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	return withRequestID(originGate(c, c.Handler(s))), nil
}

func originGate(c *cors.Cors, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") != "" && !c.OriginAllowed(r) {
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := xid.New().String()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

type Service struct {
	d      *screen.Dispatcher
	logger *zap.Logger
}

func (s *Service) Write(r *http.Request, req *WriteRequest, reply *string) error {
	log := s.logger.With(zap.String("id", requestID(r)), zap.String("method", "write"))
	log.Info("received")

	cmd, err := req.command()
	if err != nil {
		return s.failed(log, err)
	}

	if err := s.d.Write(cmd); err != nil {
		return s.failed(log, err)
	}

	*reply = Success
	return nil
}

func (s *Service) Clear(r *http.Request, _ *EmptyRequest, reply *string) error {
	log := s.logger.With(zap.String("id", requestID(r)), zap.String("method", "clear"))
	log.Info("received")

	if err := s.d.Clear(); err != nil {
		return s.failed(log, err)
	}

	*reply = Success
	return nil
}

func (s *Service) Flush(r *http.Request, _ *EmptyRequest, reply *string) error {
	log := s.logger.With(zap.String("id", requestID(r)), zap.String("method", "flush"))
	log.Info("received")

	if err := s.d.Flush(); err != nil {
		return s.failed(log, err)
	}

	*reply = Success
	return nil
}

func (s *Service) failed(log *zap.Logger, err error) error {
	log.With(zap.Stringer("kind", screen.KindOf(err)), zap.Error(err)).Info("failed")
	return err
}
