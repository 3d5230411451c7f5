package hgrpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryInterceptor logs each call and turns a panic into codes.Internal so one
// bad request cannot take the server down.
func UnaryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in grpc handler", zap.String("method", info.FullMethod), zap.Any("panic", r))
				err = status.Error(codes.Internal, "internal error")
			}
			logger.Debug("grpc request",
				zap.String("method", info.FullMethod),
				zap.String("code", status.Code(err).String()),
				zap.Duration("duration", time.Since(start)),
			)
		}()
		return handler(ctx, req)
	}
}
