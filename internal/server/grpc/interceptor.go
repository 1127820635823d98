package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/stockwatch/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// requestIDMetadataKey is the incoming metadata key carrying a caller's
// request id. gRPC lower-cases metadata keys.
const requestIDMetadataKey = "x-request-id"

// loggingInterceptor tags the context with the caller's request id and logs
// one line per unary call.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(requestIDMetadataKey); len(values) > 0 && values[0] != "" {
			ctx = logging.WithRequestID(ctx, values[0])
		}
	}

	start := time.Now()
	resp, err := handler(ctx, req)

	fields := []any{
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		s.logger.Warn(ctx, "grpc call failed", append(fields, "error", err)...)
	} else {
		s.logger.Debug(ctx, "grpc call completed", fields...)
	}

	return resp, err
}
