package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/devicekeeper/internal/common"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// requestID returns the id sent by the caller, or a fresh one.
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.RequestIDHeaderName); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return uuid.NewString()
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := requestID(ctx)

	if grpc.ServerTransportStreamFromContext(ctx) != nil {
		if err := grpc.SetHeader(ctx, metadata.Pairs(common.RequestIDHeaderName, id)); err != nil {
			s.logger.Warn(ctx, "setting request id header", "request_id", id, "error", err)
		}
	}

	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Debug(ctx, "grpc call",
		"method", info.FullMethod,
		"request_id", id,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
