package service

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/tools"
	"github.com/mmynk/finchat/internal/workflow"
	"github.com/mmynk/finchat/pkg/api"
)

// WorkflowService implements api.WorkflowServiceHandler.
type WorkflowService struct {
	tracker   *workflow.Tracker
	snapshots workflow.SnapshotReader
	registry  *tools.Registry
}

var _ api.WorkflowServiceHandler = (*WorkflowService)(nil)

// NewWorkflowService creates a WorkflowService. registry should be the one
// the orchestrator routes to, so listed tools match what chat can answer.
func NewWorkflowService(tracker *workflow.Tracker, snapshots workflow.SnapshotReader, registry *tools.Registry) *WorkflowService {
	return &WorkflowService{tracker: tracker, snapshots: snapshots, registry: registry}
}

// GetWorkflowStatus reports the stored stage next to the one the user's data
// supports.
func (s *WorkflowService) GetWorkflowStatus(ctx context.Context, req *connect.Request[api.GetWorkflowStatusRequest]) (*connect.Response[api.GetWorkflowStatusResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	status, err := s.tracker.Status(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetWorkflowStatusResponse{
		CurrentStage: status.Current.String(),
		Inferred:     status.Inferred.String(),
		NextSteps:    status.NextSteps,
	}), nil
}

// SetStage stores any of the four stages. No transition rules are applied.
func (s *WorkflowService) SetStage(ctx context.Context, req *connect.Request[api.SetStageRequest]) (*connect.Response[api.SetStageResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	stage, err := models.ParseStage(req.Msg.Stage)
	if err != nil {
		return nil, toConnectError(fmt.Errorf("%w: %v", workflow.ErrInvalidStage, err))
	}
	if err := s.tracker.SetStage(ctx, userID, stage); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SetStageResponse{Stage: stage.String()}), nil
}

// ListTools lists every analysis tool and whether the user has data for it.
func (s *WorkflowService) ListTools(ctx context.Context, req *connect.Request[api.UserRequest]) (*connect.Response[api.ListToolsResponse], error) {
	snap, err := s.snapshot(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	catalog := s.registry.Catalog(snap)
	out := make([]api.Tool, len(catalog))
	for i, info := range catalog {
		out[i] = api.Tool{Name: info.Name, Description: info.Description, Ready: info.Ready}
	}
	return connect.NewResponse(&api.ListToolsResponse{Tools: out}), nil
}

// ListExamples suggests questions the user's data can answer.
func (s *WorkflowService) ListExamples(ctx context.Context, req *connect.Request[api.UserRequest]) (*connect.Response[api.ListExamplesResponse], error) {
	snap, err := s.snapshot(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ListExamplesResponse{Examples: s.registry.Examples(snap)}), nil
}

func (s *WorkflowService) snapshot(ctx context.Context, requested string) (*models.Snapshot, error) {
	userID, err := resolveUserID(ctx, requested)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Snapshot(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return snap, nil
}
