package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// RecurringServiceName is the fully-qualified name of the RecurringService service.
	RecurringServiceName = "finchat.v1.RecurringService"

	RecurringServiceCreateRecurringProcedure  = "/finchat.v1.RecurringService/CreateRecurring"
	RecurringServiceListRecurringProcedure    = "/finchat.v1.RecurringService/ListRecurring"
	RecurringServiceGetRecurringProcedure     = "/finchat.v1.RecurringService/GetRecurring"
	RecurringServiceUpdateRecurringProcedure  = "/finchat.v1.RecurringService/UpdateRecurring"
	RecurringServiceDeleteRecurringProcedure  = "/finchat.v1.RecurringService/DeleteRecurring"
	RecurringServiceGenerateDueProcedure      = "/finchat.v1.RecurringService/GenerateDue"
	RecurringServicePreviewRecurringProcedure = "/finchat.v1.RecurringService/PreviewRecurring"
)

// RecurringTransaction is a template that produces one transaction per
// occurrence.
type RecurringTransaction struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date,omitempty"`
	Frequency   string  `json:"frequency"`
	Interval    int     `json:"interval"`
	NextDate    string  `json:"next_date"`
}

// RecurringInput holds the editable fields of a template.
type RecurringInput struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	// StartDate is YYYY-MM-DD; empty means today.
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	// Frequency is daily, weekly, monthly or yearly; empty means monthly.
	Frequency string `json:"frequency,omitempty"`
	Interval  int    `json:"interval,omitempty"`
	NextDate  string `json:"next_date,omitempty"`
}

// CreateRecurringRequest creates a template.
type CreateRecurringRequest struct {
	UserID string `json:"user_id,omitempty"`
	RecurringInput
}

// UpdateRecurringRequest replaces the editable fields of a template.
type UpdateRecurringRequest struct {
	UserID string `json:"user_id,omitempty"`
	ID     string `json:"id"`
	RecurringInput
}

// RecurringRequest identifies one template.
type RecurringRequest struct {
	UserID string `json:"user_id,omitempty"`
	ID     string `json:"id"`
}

// RecurringResponse carries one template.
type RecurringResponse struct {
	Recurring *RecurringTransaction `json:"recurring"`
}

// ListRecurringResponse lists templates, soonest first.
type ListRecurringResponse struct {
	Recurring []RecurringTransaction `json:"recurring"`
}

// DeleteRecurringResponse reports how many templates the user has left.
type DeleteRecurringResponse struct {
	Remaining int `json:"remaining"`
}

// GenerateDueRequest records every occurrence due on or before UpTo
// (YYYY-MM-DD, empty means today).
type GenerateDueRequest struct {
	UserID string `json:"user_id,omitempty"`
	UpTo   string `json:"up_to,omitempty"`
}

// GenerateDueResponse lists the transactions that were recorded.
type GenerateDueResponse struct {
	Generated    int           `json:"generated"`
	Transactions []Transaction `json:"transactions"`
}

// PreviewRecurringRequest asks for the next Periods occurrences of every
// template. Zero means 3.
type PreviewRecurringRequest struct {
	UserID  string `json:"user_id,omitempty"`
	Periods int    `json:"periods,omitempty"`
}

// Occurrence is one upcoming transaction of a template.
type Occurrence struct {
	RecurringID string  `json:"recurring_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// PreviewRecurringResponse lists upcoming occurrences grouped by template.
type PreviewRecurringResponse struct {
	Occurrences []Occurrence `json:"occurrences"`
}

// RecurringServiceHandler is implemented by the recurring service.
type RecurringServiceHandler interface {
	CreateRecurring(context.Context, *connect.Request[CreateRecurringRequest]) (*connect.Response[RecurringResponse], error)
	ListRecurring(context.Context, *connect.Request[UserRequest]) (*connect.Response[ListRecurringResponse], error)
	GetRecurring(context.Context, *connect.Request[RecurringRequest]) (*connect.Response[RecurringResponse], error)
	UpdateRecurring(context.Context, *connect.Request[UpdateRecurringRequest]) (*connect.Response[RecurringResponse], error)
	DeleteRecurring(context.Context, *connect.Request[RecurringRequest]) (*connect.Response[DeleteRecurringResponse], error)
	GenerateDue(context.Context, *connect.Request[GenerateDueRequest]) (*connect.Response[GenerateDueResponse], error)
	PreviewRecurring(context.Context, *connect.Request[PreviewRecurringRequest]) (*connect.Response[PreviewRecurringResponse], error)
}

// NewRecurringServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewRecurringServiceHandler(svc RecurringServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + RecurringServiceName + "/", mux(map[string]http.Handler{
		RecurringServiceCreateRecurringProcedure:  unary(RecurringServiceCreateRecurringProcedure, svc.CreateRecurring, opts),
		RecurringServiceListRecurringProcedure:    unary(RecurringServiceListRecurringProcedure, svc.ListRecurring, opts),
		RecurringServiceGetRecurringProcedure:     unary(RecurringServiceGetRecurringProcedure, svc.GetRecurring, opts),
		RecurringServiceUpdateRecurringProcedure:  unary(RecurringServiceUpdateRecurringProcedure, svc.UpdateRecurring, opts),
		RecurringServiceDeleteRecurringProcedure:  unary(RecurringServiceDeleteRecurringProcedure, svc.DeleteRecurring, opts),
		RecurringServiceGenerateDueProcedure:      unary(RecurringServiceGenerateDueProcedure, svc.GenerateDue, opts),
		RecurringServicePreviewRecurringProcedure: unary(RecurringServicePreviewRecurringProcedure, svc.PreviewRecurring, opts),
	})
}

// RecurringServiceClient is a client for the finchat.v1.RecurringService service.
type RecurringServiceClient struct {
	createRecurring  *connect.Client[CreateRecurringRequest, RecurringResponse]
	listRecurring    *connect.Client[UserRequest, ListRecurringResponse]
	getRecurring     *connect.Client[RecurringRequest, RecurringResponse]
	updateRecurring  *connect.Client[UpdateRecurringRequest, RecurringResponse]
	deleteRecurring  *connect.Client[RecurringRequest, DeleteRecurringResponse]
	generateDue      *connect.Client[GenerateDueRequest, GenerateDueResponse]
	previewRecurring *connect.Client[PreviewRecurringRequest, PreviewRecurringResponse]
}

// NewRecurringServiceClient constructs a client for the
// finchat.v1.RecurringService service.
func NewRecurringServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *RecurringServiceClient {
	return &RecurringServiceClient{
		createRecurring:  client[CreateRecurringRequest, RecurringResponse](httpClient, baseURL, RecurringServiceCreateRecurringProcedure, opts),
		listRecurring:    client[UserRequest, ListRecurringResponse](httpClient, baseURL, RecurringServiceListRecurringProcedure, opts),
		getRecurring:     client[RecurringRequest, RecurringResponse](httpClient, baseURL, RecurringServiceGetRecurringProcedure, opts),
		updateRecurring:  client[UpdateRecurringRequest, RecurringResponse](httpClient, baseURL, RecurringServiceUpdateRecurringProcedure, opts),
		deleteRecurring:  client[RecurringRequest, DeleteRecurringResponse](httpClient, baseURL, RecurringServiceDeleteRecurringProcedure, opts),
		generateDue:      client[GenerateDueRequest, GenerateDueResponse](httpClient, baseURL, RecurringServiceGenerateDueProcedure, opts),
		previewRecurring: client[PreviewRecurringRequest, PreviewRecurringResponse](httpClient, baseURL, RecurringServicePreviewRecurringProcedure, opts),
	}
}

func (c *RecurringServiceClient) CreateRecurring(ctx context.Context, req *connect.Request[CreateRecurringRequest]) (*connect.Response[RecurringResponse], error) {
	return c.createRecurring.CallUnary(ctx, req)
}

func (c *RecurringServiceClient) ListRecurring(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[ListRecurringResponse], error) {
	return c.listRecurring.CallUnary(ctx, req)
}

func (c *RecurringServiceClient) GetRecurring(ctx context.Context, req *connect.Request[RecurringRequest]) (*connect.Response[RecurringResponse], error) {
	return c.getRecurring.CallUnary(ctx, req)
}

func (c *RecurringServiceClient) UpdateRecurring(ctx context.Context, req *connect.Request[UpdateRecurringRequest]) (*connect.Response[RecurringResponse], error) {
	return c.updateRecurring.CallUnary(ctx, req)
}

func (c *RecurringServiceClient) DeleteRecurring(ctx context.Context, req *connect.Request[RecurringRequest]) (*connect.Response[DeleteRecurringResponse], error) {
	return c.deleteRecurring.CallUnary(ctx, req)
}

func (c *RecurringServiceClient) GenerateDue(ctx context.Context, req *connect.Request[GenerateDueRequest]) (*connect.Response[GenerateDueResponse], error) {
	return c.generateDue.CallUnary(ctx, req)
}

func (c *RecurringServiceClient) PreviewRecurring(ctx context.Context, req *connect.Request[PreviewRecurringRequest]) (*connect.Response[PreviewRecurringResponse], error) {
	return c.previewRecurring.CallUnary(ctx, req)
}
