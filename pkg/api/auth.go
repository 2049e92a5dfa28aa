package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "finchat.v1.AuthService"

	AuthServiceRegisterProcedure       = "/finchat.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/finchat.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/finchat.v1.AuthService/GetCurrentUser"
)

// RegisterRequest creates an account.
type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// RegisterResponse carries the new user and a session token.
type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the user and a session token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// GetCurrentUserRequest is empty; the user comes from the session token.
type GetCurrentUserRequest struct{}

// GetCurrentUserResponse carries the authenticated user.
type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// AuthServiceHandler is implemented by the auth service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + AuthServiceName + "/", mux(map[string]http.Handler{
		AuthServiceRegisterProcedure:       unary(AuthServiceRegisterProcedure, svc.Register, opts),
		AuthServiceLoginProcedure:          unary(AuthServiceLoginProcedure, svc.Login, opts),
		AuthServiceGetCurrentUserProcedure: unary(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts),
	})
}

// AuthServiceClient is a client for the finchat.v1.AuthService service.
type AuthServiceClient struct {
	register       *connect.Client[RegisterRequest, RegisterResponse]
	login          *connect.Client[LoginRequest, LoginResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

// NewAuthServiceClient constructs a client for the finchat.v1.AuthService service.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	return &AuthServiceClient{
		register:       client[RegisterRequest, RegisterResponse](httpClient, baseURL, AuthServiceRegisterProcedure, opts),
		login:          client[LoginRequest, LoginResponse](httpClient, baseURL, AuthServiceLoginProcedure, opts),
		getCurrentUser: client[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL, AuthServiceGetCurrentUserProcedure, opts),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}
