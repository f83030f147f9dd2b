package middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/daycare-server/internal/logger"
	"github.com/dtroode/daycare-server/internal/testutil"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	lg := NewLogging(testutil.MakeNoopLogger())

	tests := []struct {
		name     string
		handler  grpc.UnaryHandler
		wantCode codes.Code
	}{
		{
			name: "success path",
			handler: func(ctx context.Context, req any) (any, error) {
				time.Sleep(10 * time.Millisecond)
				return "ok", nil
			},
			wantCode: codes.OK,
		},
		{
			name: "grpc error propagates",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, status.Error(codes.InvalidArgument, "bad input")
			},
			wantCode: codes.InvalidArgument,
		},
		{
			name: "non-grpc error passes through",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, errors.New("boom")
			},
			wantCode: codes.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}
			resp, err := lg.HandleGRPC(context.Background(), struct{}{}, info, tt.handler)

			if tt.wantCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "ok", resp)
				return
			}
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

func TestLogging_HealthProbesAtDebug(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogging(logger.NewWithWriter(&buf, 0, "text"))
	ok := func(ctx context.Context, req any) (any, error) { return "ok", nil }

	_, _ = lg.HandleGRPC(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, ok)
	assert.Empty(t, buf.String())

	_, _ = lg.HandleGRPC(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}, ok)
	assert.Contains(t, buf.String(), "gRPC request completed")
}

func TestRecoveryOption(t *testing.T) {
	var buf bytes.Buffer
	interceptor := recovery.UnaryServerInterceptor(RecoveryOption(logger.NewWithWriter(&buf, 0, "text")))

	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Method"},
		func(ctx context.Context, req any) (any, error) { panic("nil map") })

	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, buf.String(), "gRPC handler panicked")
}
