package server

import (
	"context"
	"errors"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Krimson/dental-vto/planner/internal/metrics"
	"github.com/Krimson/dental-vto/planner/internal/service"
	"github.com/Krimson/dental-vto/planner/internal/vto"
	"github.com/Krimson/dental-vto/planner/pkg/models"
)

// ServiceName - полное имя gRPC сервиса
const ServiceName = "vto.v1.Planner"

// Ключи trailer с деталями ошибки валидации
const (
	TrailerErrorCode  = "vto-error-code"
	TrailerErrorField = "vto-error-field"
)

// PlannerServer - серверная сторона vto.v1.Planner
type PlannerServer interface {
	Calculate(context.Context, *vto.Input) (*models.CalculationResponse, error)
	Growth(context.Context, *models.GrowthRequest) (*vto.AdjustmentVector, error)
	Space(context.Context, *models.SpaceRequest) (*vto.SpaceAnalysis, error)
}

// GRPCServer реализует PlannerServer поверх PlannerService
type GRPCServer struct {
	service *service.PlannerService
}

// NewGRPCServer создает новый экземпляр GRPCServer
func NewGRPCServer(svc *service.PlannerService) *GRPCServer {
	return &GRPCServer{
		service: svc,
	}
}

// Register регистрирует сервис на gRPC сервере
func Register(s grpc.ServiceRegistrar, srv PlannerServer) {
	s.RegisterService(&plannerServiceDesc, srv)
}

func (s *GRPCServer) Calculate(ctx context.Context, in *vto.Input) (*models.CalculationResponse, error) {
	resp, err := s.service.Calculate(ctx, metrics.TransportGRPC, *in)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return resp, nil
}

func (s *GRPCServer) Growth(ctx context.Context, req *models.GrowthRequest) (*vto.AdjustmentVector, error) {
	adj, err := s.service.Growth(ctx, *req)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &adj, nil
}

func (s *GRPCServer) Space(ctx context.Context, req *models.SpaceRequest) (*vto.SpaceAnalysis, error) {
	space, err := s.service.Space(ctx, *req)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &space, nil
}

// toStatus переводит ошибки движка в коды gRPC
func toStatus(ctx context.Context, err error) error {
	if code := vto.Code(err); code != "" {
		trailer := metadata.Pairs(TrailerErrorCode, code)
		if field := vto.FieldOf(err); field != "" {
			trailer.Append(TrailerErrorField, field)
		}
		if terr := grpc.SetTrailer(ctx, trailer); terr != nil {
			log.Printf("[WARN] Failed to set error trailer: %v", terr)
		}
		return status.Error(codes.InvalidArgument, err.Error())
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}

	log.Printf("[ERROR] gRPC calculation failed: %v", err)
	return status.Error(codes.Internal, "calculation failed")
}

// LoggingInterceptor пишет в лог метод, код ответа и длительность
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Printf("[GRPC] %s %s %v", info.FullMethod, status.Code(err), time.Since(start))
	return resp, err
}

var plannerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlannerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Calculate", Handler: calculateHandler},
		{MethodName: "Growth", Handler: growthHandler},
		{MethodName: "Space", Handler: spaceHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vto/v1/planner",
}

func calculateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(vto.Input)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PlannerServer).Calculate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Calculate"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PlannerServer).Calculate(ctx, req.(*vto.Input))
	}
	return interceptor(ctx, in, info, handler)
}

func growthHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.GrowthRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PlannerServer).Growth(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Growth"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PlannerServer).Growth(ctx, req.(*models.GrowthRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func spaceHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.SpaceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PlannerServer).Space(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Space"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PlannerServer).Space(ctx, req.(*models.SpaceRequest))
	}
	return interceptor(ctx, in, info, handler)
}
