package server

import (
	"context"

	"google.golang.org/grpc"

	"github.com/Krimson/dental-vto/planner/internal/vto"
	"github.com/Krimson/dental-vto/planner/pkg/models"
)

// PlannerClient вызывает vto.v1.Planner через JSON кодек
type PlannerClient struct {
	cc grpc.ClientConnInterface
}

// NewPlannerClient создает клиента поверх установленного соединения
func NewPlannerClient(cc grpc.ClientConnInterface) *PlannerClient {
	return &PlannerClient{cc: cc}
}

func (c *PlannerClient) Calculate(ctx context.Context, in *vto.Input, opts ...grpc.CallOption) (*models.CalculationResponse, error) {
	out := new(models.CalculationResponse)
	if err := c.invoke(ctx, "Calculate", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PlannerClient) Growth(ctx context.Context, in *models.GrowthRequest, opts ...grpc.CallOption) (*vto.AdjustmentVector, error) {
	out := new(vto.AdjustmentVector)
	if err := c.invoke(ctx, "Growth", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PlannerClient) Space(ctx context.Context, in *models.SpaceRequest, opts ...grpc.CallOption) (*vto.SpaceAnalysis, error) {
	out := new(vto.SpaceAnalysis)
	if err := c.invoke(ctx, "Space", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PlannerClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}
