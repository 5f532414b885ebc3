package health

import (
	"context"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// HealthServer реализует grpc_health_v1 для сервиса планировщика.
// Пустое имя сервиса отражает состояние процесса в целом.
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer

	mu       sync.RWMutex
	services map[string]grpc_health_v1.HealthCheckResponse_ServingStatus
	watchers map[string][]chan grpc_health_v1.HealthCheckResponse_ServingStatus
}

// NewHealthServer создает сервер; процесс в целом сразу SERVING
func NewHealthServer() *HealthServer {
	return &HealthServer{
		services: map[string]grpc_health_v1.HealthCheckResponse_ServingStatus{
			"": grpc_health_v1.HealthCheckResponse_SERVING,
		},
		watchers: make(map[string][]chan grpc_health_v1.HealthCheckResponse_ServingStatus),
	}
}

func (h *HealthServer) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	servingStatus, exists := h.services[req.GetService()]
	if !exists {
		return nil, status.Error(codes.NotFound, "service not found")
	}

	return &grpc_health_v1.HealthCheckResponse{
		Status: servingStatus,
	}, nil
}

// Watch отправляет текущий статус и затем каждое изменение
func (h *HealthServer) Watch(req *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	service := req.GetService()
	updates := make(chan grpc_health_v1.HealthCheckResponse_ServingStatus, 1)

	h.mu.Lock()
	current, exists := h.services[service]
	if !exists {
		current = grpc_health_v1.HealthCheckResponse_SERVICE_UNKNOWN
	}
	h.watchers[service] = append(h.watchers[service], updates)
	h.mu.Unlock()

	defer h.removeWatcher(service, updates)

	if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: current}); err != nil {
		return err
	}

	for {
		select {
		case <-stream.Context().Done():
			return stream.Context().Err()
		case st := <-updates:
			if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: st}); err != nil {
				return err
			}
		}
	}
}

func (h *HealthServer) SetServingStatus(service string) {
	h.setStatus(service, grpc_health_v1.HealthCheckResponse_SERVING)
}

func (h *HealthServer) SetNotServingStatus(service string) {
	h.setStatus(service, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
}

// Shutdown переводит все сервисы в NOT_SERVING перед остановкой
func (h *HealthServer) Shutdown() {
	h.mu.RLock()
	services := make([]string, 0, len(h.services))
	for service := range h.services {
		services = append(services, service)
	}
	h.mu.RUnlock()

	for _, service := range services {
		h.SetNotServingStatus(service)
	}
}

func (h *HealthServer) setStatus(service string, st grpc_health_v1.HealthCheckResponse_ServingStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.services[service] = st
	for _, ch := range h.watchers[service] {
		// наблюдателю важен только последний статус
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

func (h *HealthServer) removeWatcher(service string, ch chan grpc_health_v1.HealthCheckResponse_ServingStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.watchers[service]
	for i, c := range list {
		if c == ch {
			h.watchers[service] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(h.watchers[service]) == 0 {
		delete(h.watchers, service)
	}
}
