package middleware

import (
	"context"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/daycare-server/internal/logger"
)

// RecoveryOption turns handler panics into codes.Internal and logs them
// with the stack trace.
func RecoveryOption(logger *logger.Logger) recovery.Option {
	return recovery.WithRecoveryHandlerContext(func(_ context.Context, p any) error {
		logger.Error("gRPC handler panicked",
			"panic", p,
			"stack", string(debug.Stack()))
		return status.Error(codes.Internal, "internal error")
	})
}
