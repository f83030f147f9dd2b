// Package health publishes database reachability through the standard
// grpc.health.v1 service.
package health

import (
	"context"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/daycare-server/internal/logger"
)

// Service is the name reported for the database-backed API. The empty name
// reports the server as a whole and follows the same status.
const Service = "daycare.v1.Admin"

const (
	pingTimeout     = 2 * time.Second
	defaultInterval = 15 * time.Second
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker polls a Pinger and mirrors the result into a grpc health server.
type Checker struct {
	server   *grpchealth.Server
	pinger   Pinger
	interval time.Duration
	logger   *logger.Logger
}

// NewChecker creates a Checker. Until the first check completes every
// service reports NOT_SERVING. A non-positive interval falls back to 15s.
func NewChecker(pinger Pinger, interval time.Duration, logger *logger.Logger) *Checker {
	if interval <= 0 {
		interval = defaultInterval
	}
	s := grpchealth.NewServer()
	s.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.SetServingStatus(Service, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Checker{server: s, pinger: pinger, interval: interval, logger: logger}
}

// Server returns the health server to be registered on a grpc.Server.
func (c *Checker) Server() *grpchealth.Server {
	return c.server
}

// Run checks immediately and then every interval until ctx is done. On
// return every service is marked NOT_SERVING and watchers are released.
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Check pings the store once and updates the serving status.
func (c *Checker) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := c.pinger.Ping(ctx); err != nil {
		c.logger.Warn("Health checker: database ping failed", "error", err.Error())
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	c.server.SetServingStatus("", st)
	c.server.SetServingStatus(Service, st)
	return st
}
