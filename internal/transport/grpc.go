package transport

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

type registerIDKey struct{}

// RegisterID returns the calling register's id, taken from the
// x-register-id metadata by the interceptor or straight from the incoming
// metadata.
func RegisterID(ctx context.Context) string {
	if val, ok := ctx.Value(registerIDKey{}).(string); ok {
		return val
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if val := md.Get("x-register-id"); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

// UnaryLogger stores the register id on the context and logs every call.
func UnaryLogger(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		registerID := RegisterID(ctx)
		if registerID != "" {
			ctx = context.WithValue(ctx, registerIDKey{}, registerID)
		}

		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		}
		if registerID != "" {
			fields = append(fields, zap.String("register_id", registerID))
		}
		if err != nil {
			log.Warn("grpc request failed", append(fields, zap.Error(err))...)
		} else {
			log.Debug("grpc request", fields...)
		}
		return resp, err
	}
}

// NewGRPCServer builds the gRPC server with health checks and reflection.
// The returned health server lets the caller flip the status on shutdown.
func NewGRPCServer(log logger.ZapLogger) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(
		grpc.UnaryInterceptor(UnaryLogger(log)),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(s)
	return s, healthServer
}
