package pos

import (
	"context"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthCheckInterval = 5 * time.Second

// HealthReporter publishes the state of the station pollers over the gRPC
// health protocol. Each poller is reported as its own service name, and
// the empty service name aggregates all of them.
type HealthReporter struct {
	server   *health.Server
	pollers  []*Poller
	interval time.Duration
	logger   aqm.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHealthReporter(pollers []*Poller, logger aqm.Logger) *HealthReporter {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &HealthReporter{
		server:   health.NewServer(),
		pollers:  pollers,
		interval: healthCheckInterval,
		logger:   logger,
	}
}

// RegisterGRPCService registers the health service with the gRPC server.
func (h *HealthReporter) RegisterGRPCService(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, h.server)
}

func (h *HealthReporter) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	h.cancel = cancel
	h.done = make(chan struct{})
	h.Update()

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				h.Update()
			}
		}
	}()
	return nil
}

func (h *HealthReporter) Stop(ctx context.Context) error {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel = nil
	h.mu.Unlock()

	h.server.Shutdown()
	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update sets every service status from the current poller health.
func (h *HealthReporter) Update() {
	overall := healthpb.HealthCheckResponse_SERVING
	for _, p := range h.pollers {
		status := healthpb.HealthCheckResponse_SERVING
		if !p.Healthy() {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = status
		}
		h.server.SetServingStatus(p.Name(), status)
	}
	h.server.SetServingStatus("", overall)
}

// Check reports the current status of service, as a client would see it.
func (h *HealthReporter) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := h.server.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
