// Package grpc exposes the standard gRPC health service for the device
// registry. The reported status follows the reachability of the backing
// store.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/devicekeeper/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall ("")
// status.
const ServiceName = "devicekeeper.DeviceRegistry"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(context.Context) error
}

type GRPCServer struct {
	address  string
	pinger   Pinger
	interval time.Duration
	health   *health.Server
	logger   logging.Logger

	// last status published by the watcher; only touched by its goroutine
	status healthpb.HealthCheckResponse_ServingStatus
}

func NewGRPCServer(a string, p Pinger, interval time.Duration, l logging.Logger) *GRPCServer {
	s := &GRPCServer{
		address:  a,
		pinger:   p,
		interval: interval,
		health:   health.NewServer(),
		logger:   l.With("module", "grpc_server"),
		status:   healthpb.HealthCheckResponse_UNKNOWN,
	}
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}

// watch pings the store right away and then every interval until ctx is
// done.
func (s *GRPCServer) watch(ctx context.Context) {
	s.check(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *GRPCServer) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	next := healthpb.HealthCheckResponse_SERVING
	err := s.pinger.Ping(pingCtx)
	if err != nil {
		next = healthpb.HealthCheckResponse_NOT_SERVING
	}
	if ctx.Err() != nil || next == s.status {
		return
	}

	if err != nil {
		s.logger.Warn(ctx, "backing store unreachable", "error", err)
	} else {
		s.logger.Info(ctx, "backing store reachable")
	}
	s.setStatus(next)
}

func (s *GRPCServer) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.status = st
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}
