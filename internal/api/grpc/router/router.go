package router

import (
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/daycare-server/internal/api/grpc/health"
	"github.com/dtroode/daycare-server/internal/api/grpc/middleware"
	"github.com/dtroode/daycare-server/internal/logger"
)

// Router configures the gRPC server used for health checking.
type Router struct {
	checker *health.Checker
	logger  *logger.Logger
}

// New creates new gRPC Router instance.
func New(checker *health.Checker, logger *logger.Logger) *Router {
	return &Router{checker: checker, logger: logger}
}

// Register builds a gRPC server with logging and panic recovery and
// registers the health and reflection services on it.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recoveryOpt := middleware.RecoveryOption(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoveryOpt),
		),
	)
	healthpb.RegisterHealthServer(s, r.checker.Server())
	reflection.Register(s)

	return s
}
