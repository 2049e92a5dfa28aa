package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// ChatServiceName is the fully-qualified name of the ChatService service.
	ChatServiceName = "finchat.v1.ChatService"

	ChatServiceChatProcedure              = "/finchat.v1.ChatService/Chat"
	ChatServiceExecuteSuggestionProcedure = "/finchat.v1.ChatService/ExecuteSuggestion"
	ChatServiceListMessagesProcedure      = "/finchat.v1.ChatService/ListMessages"
)

// ChatRequest is one user message.
type ChatRequest struct {
	UserID  string `json:"user_id,omitempty"`
	Message string `json:"message"`

	// WorkflowStage is the client's view of the stage. Informational only.
	WorkflowStage string `json:"workflow_stage,omitempty"`

	// Context carries optional client hints: "category", "window" (a time
	// phrase such as "last month") and "month" (YYYY-MM). Other keys are
	// ignored and noted in the explanations.
	Context map[string]any `json:"context,omitempty"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	MessageID    string        `json:"message_id"`
	Response     string        `json:"response"`
	Intent       string        `json:"intent"`
	Stage        string        `json:"stage"`
	ToolsUsed    []string      `json:"tools_used"`
	Analysis     *Analysis     `json:"analysis,omitempty"`
	Suggestions  []Suggestion  `json:"suggestions"`
	Explanations []Explanation `json:"explanations"`

	// Degraded is set when the tool could not answer and Response apologizes.
	Degraded bool `json:"degraded,omitempty"`
}

// ExecuteSuggestionRequest runs a stored suggestion, or a direct action
// when SuggestionID is empty.
type ExecuteSuggestionRequest struct {
	UserID       string `json:"user_id,omitempty"`
	SuggestionID string `json:"suggestion_id,omitempty"`
	// Action and Params are used only when SuggestionID is empty.
	Action string            `json:"action,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

// ExecuteSuggestionResponse reports "ok" or "failed" with a reason.
type ExecuteSuggestionResponse struct {
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
	RecordID string `json:"record_id,omitempty"`
}

// ListMessagesRequest asks for the most recent Limit messages.
type ListMessagesRequest struct {
	UserID string `json:"user_id,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ChatMessage is a stored message. The payload fields are set on
// assistant messages only.
type ChatMessage struct {
	ID            string        `json:"id"`
	Text          string        `json:"text"`
	Sender        string        `json:"sender"`
	Timestamp     int64         `json:"timestamp"`
	Intent        string        `json:"intent,omitempty"`
	ToolsUsed     []string      `json:"tools_used,omitempty"`
	SuggestionIDs []string      `json:"suggestion_ids,omitempty"`
	Explanations  []Explanation `json:"explanations,omitempty"`
}

// ListMessagesResponse lists messages oldest first.
type ListMessagesResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatServiceHandler is implemented by the chat service.
type ChatServiceHandler interface {
	Chat(context.Context, *connect.Request[ChatRequest]) (*connect.Response[ChatResponse], error)
	ExecuteSuggestion(context.Context, *connect.Request[ExecuteSuggestionRequest]) (*connect.Response[ExecuteSuggestionResponse], error)
	ListMessages(context.Context, *connect.Request[ListMessagesRequest]) (*connect.Response[ListMessagesResponse], error)
}

// NewChatServiceHandler returns the mount path and handler for svc.
func NewChatServiceHandler(svc ChatServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + ChatServiceName + "/", mux(map[string]http.Handler{
		ChatServiceChatProcedure:              unary(ChatServiceChatProcedure, svc.Chat, opts),
		ChatServiceExecuteSuggestionProcedure: unary(ChatServiceExecuteSuggestionProcedure, svc.ExecuteSuggestion, opts),
		ChatServiceListMessagesProcedure:      unary(ChatServiceListMessagesProcedure, svc.ListMessages, opts),
	})
}

// ChatServiceClient calls a remote chat service.
type ChatServiceClient struct {
	chat              *connect.Client[ChatRequest, ChatResponse]
	executeSuggestion *connect.Client[ExecuteSuggestionRequest, ExecuteSuggestionResponse]
	listMessages      *connect.Client[ListMessagesRequest, ListMessagesResponse]
}

// NewChatServiceClient creates a client for the chat service at baseURL.
func NewChatServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ChatServiceClient {
	return &ChatServiceClient{
		chat:              client[ChatRequest, ChatResponse](httpClient, baseURL, ChatServiceChatProcedure, opts),
		executeSuggestion: client[ExecuteSuggestionRequest, ExecuteSuggestionResponse](httpClient, baseURL, ChatServiceExecuteSuggestionProcedure, opts),
		listMessages:      client[ListMessagesRequest, ListMessagesResponse](httpClient, baseURL, ChatServiceListMessagesProcedure, opts),
	}
}

func (c *ChatServiceClient) Chat(ctx context.Context, req *connect.Request[ChatRequest]) (*connect.Response[ChatResponse], error) {
	return c.chat.CallUnary(ctx, req)
}

func (c *ChatServiceClient) ExecuteSuggestion(ctx context.Context, req *connect.Request[ExecuteSuggestionRequest]) (*connect.Response[ExecuteSuggestionResponse], error) {
	return c.executeSuggestion.CallUnary(ctx, req)
}

func (c *ChatServiceClient) ListMessages(ctx context.Context, req *connect.Request[ListMessagesRequest]) (*connect.Response[ListMessagesResponse], error) {
	return c.listMessages.CallUnary(ctx, req)
}
