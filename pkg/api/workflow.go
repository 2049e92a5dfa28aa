package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// WorkflowServiceName is the fully-qualified name of the WorkflowService service.
	WorkflowServiceName = "finchat.v1.WorkflowService"

	WorkflowServiceGetWorkflowStatusProcedure = "/finchat.v1.WorkflowService/GetWorkflowStatus"
	WorkflowServiceSetStageProcedure          = "/finchat.v1.WorkflowService/SetStage"
	WorkflowServiceListToolsProcedure         = "/finchat.v1.WorkflowService/ListTools"
	WorkflowServiceListExamplesProcedure      = "/finchat.v1.WorkflowService/ListExamples"
)

// GetWorkflowStatusRequest asks for the user's progress.
type GetWorkflowStatusRequest struct {
	UserID string `json:"user_id,omitempty"`
}

// GetWorkflowStatusResponse reports the stored stage, the stage the user's
// data supports and what to do next.
type GetWorkflowStatusResponse struct {
	CurrentStage string   `json:"current_stage"`
	Inferred     string   `json:"inferred"`
	NextSteps    []string `json:"next_steps"`
}

// SetStageRequest overwrites the stored stage.
type SetStageRequest struct {
	UserID string `json:"user_id,omitempty"`
	Stage  string `json:"stage"`
}

// SetStageResponse echoes the stored stage.
type SetStageResponse struct {
	Stage string `json:"stage"`
}

// Tool describes one analysis tool. Ready is false when the user has no
// data the tool can work with yet.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Ready       bool   `json:"ready"`
}

// ListToolsResponse lists every registered tool in routing order.
type ListToolsResponse struct {
	Tools []Tool `json:"tools"`
}

// ListExamplesResponse lists example questions that fit the user's data.
type ListExamplesResponse struct {
	Examples []string `json:"examples"`
}

// WorkflowServiceHandler is implemented by the workflow service.
type WorkflowServiceHandler interface {
	GetWorkflowStatus(context.Context, *connect.Request[GetWorkflowStatusRequest]) (*connect.Response[GetWorkflowStatusResponse], error)
	SetStage(context.Context, *connect.Request[SetStageRequest]) (*connect.Response[SetStageResponse], error)
	ListTools(context.Context, *connect.Request[UserRequest]) (*connect.Response[ListToolsResponse], error)
	ListExamples(context.Context, *connect.Request[UserRequest]) (*connect.Response[ListExamplesResponse], error)
}

// NewWorkflowServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewWorkflowServiceHandler(svc WorkflowServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + WorkflowServiceName + "/", mux(map[string]http.Handler{
		WorkflowServiceGetWorkflowStatusProcedure: unary(WorkflowServiceGetWorkflowStatusProcedure, svc.GetWorkflowStatus, opts),
		WorkflowServiceSetStageProcedure:          unary(WorkflowServiceSetStageProcedure, svc.SetStage, opts),
		WorkflowServiceListToolsProcedure:         unary(WorkflowServiceListToolsProcedure, svc.ListTools, opts),
		WorkflowServiceListExamplesProcedure:      unary(WorkflowServiceListExamplesProcedure, svc.ListExamples, opts),
	})
}

// WorkflowServiceClient is a client for the finchat.v1.WorkflowService service.
type WorkflowServiceClient struct {
	getWorkflowStatus *connect.Client[GetWorkflowStatusRequest, GetWorkflowStatusResponse]
	setStage          *connect.Client[SetStageRequest, SetStageResponse]
	listTools         *connect.Client[UserRequest, ListToolsResponse]
	listExamples      *connect.Client[UserRequest, ListExamplesResponse]
}

// NewWorkflowServiceClient constructs a client for the
// finchat.v1.WorkflowService service.
func NewWorkflowServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *WorkflowServiceClient {
	return &WorkflowServiceClient{
		getWorkflowStatus: client[GetWorkflowStatusRequest, GetWorkflowStatusResponse](httpClient, baseURL, WorkflowServiceGetWorkflowStatusProcedure, opts),
		setStage:          client[SetStageRequest, SetStageResponse](httpClient, baseURL, WorkflowServiceSetStageProcedure, opts),
		listTools:         client[UserRequest, ListToolsResponse](httpClient, baseURL, WorkflowServiceListToolsProcedure, opts),
		listExamples:      client[UserRequest, ListExamplesResponse](httpClient, baseURL, WorkflowServiceListExamplesProcedure, opts),
	}
}

func (c *WorkflowServiceClient) GetWorkflowStatus(ctx context.Context, req *connect.Request[GetWorkflowStatusRequest]) (*connect.Response[GetWorkflowStatusResponse], error) {
	return c.getWorkflowStatus.CallUnary(ctx, req)
}

func (c *WorkflowServiceClient) SetStage(ctx context.Context, req *connect.Request[SetStageRequest]) (*connect.Response[SetStageResponse], error) {
	return c.setStage.CallUnary(ctx, req)
}

func (c *WorkflowServiceClient) ListTools(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[ListToolsResponse], error) {
	return c.listTools.CallUnary(ctx, req)
}

func (c *WorkflowServiceClient) ListExamples(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[ListExamplesResponse], error) {
	return c.listExamples.CallUnary(ctx, req)
}
