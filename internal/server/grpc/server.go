// Package grpc exposes the identity and document services over gRPC.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" content-subtype, so clients must call with
// grpc.CallContentSubtype("json").
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/empvault/internal/logging"
	"github.com/dmitrijs2005/empvault/internal/server/models"
	"github.com/dmitrijs2005/empvault/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type userSvc interface {
	Register(ctx context.Context, email, password string) (*models.Employee, error)
	Login(ctx context.Context, email, password string) (*models.Employee, string, error)
	Authenticate(ctx context.Context, token string) (*models.Employee, error)
	Profile(ctx context.Context, employee *models.Employee) (*models.Profile, error)
	UpdateProfile(ctx context.Context, employee *models.Employee, u models.ProfileUpdate) (*models.Profile, error)
}

type documentSvc interface {
	Upload(ctx context.Context, owner *models.Employee, payload []byte, name, mediaType string) (*models.Document, error)
	Verify(ctx context.Context, publicID, claimedDigest string) (services.Verdict, error)
}

type GRPCServer struct {
	address   string
	users     userSvc
	documents documentSvc
	logger    logging.Logger
	health    *health.Server
}

var _ IdentityServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us userSvc, ds documentSvc) (*GRPCServer, error) {
	if us == nil || ds == nil {
		return nil, errors.New("grpc server needs user and document services")
	}
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		documents: ds,
		health:    health.NewServer(),
	}, nil
}

// newServer builds the grpc.Server with interceptors and both services
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	RegisterIdentityServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled, then stops
// gracefully. The stop path also runs when serving fails.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	err := srv.Serve(listen)

	cancel()
	<-stopped
	return err
}
