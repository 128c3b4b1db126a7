package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/cashier/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "cashier.v1.AuthService"

// These constants are the fully-qualified names of the RPCs defined in AuthService.
const (
	AuthServiceLoginProcedure          = "/cashier.v1.AuthService/Login"
	AuthServiceCreateOperatorProcedure = "/cashier.v1.AuthService/CreateOperator"
	AuthServiceGetCurrentUserProcedure = "/cashier.v1.AuthService/GetCurrentUser"
)

// AuthServiceHandler is implemented by the operator authentication service.
type AuthServiceHandler interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	CreateOperator(context.Context, *connect.Request[api.CreateOperatorRequest]) (*connect.Response[api.CreateOperatorResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation. It returns
// the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		AuthServiceLoginProcedure:          connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceCreateOperatorProcedure: connect.NewUnaryHandler(AuthServiceCreateOperatorProcedure, svc.CreateOperator, opts...),
		AuthServiceGetCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
	}
	return "/" + AuthServiceName + "/", mux(handlers)
}

// AuthServiceClient is a client for the cashier.v1.AuthService service.
type AuthServiceClient struct {
	login          *connect.Client[api.LoginRequest, api.LoginResponse]
	createOperator *connect.Client[api.CreateOperatorRequest, api.CreateOperatorResponse]
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
}

// NewAuthServiceClient constructs a client for the cashier.v1.AuthService service.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AuthServiceClient{
		login:          connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		createOperator: connect.NewClient[api.CreateOperatorRequest, api.CreateOperatorResponse](httpClient, baseURL+AuthServiceCreateOperatorProcedure, opts...),
		getCurrentUser: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

// Login calls cashier.v1.AuthService.Login.
func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

// CreateOperator calls cashier.v1.AuthService.CreateOperator.
func (c *AuthServiceClient) CreateOperator(ctx context.Context, req *connect.Request[api.CreateOperatorRequest]) (*connect.Response[api.CreateOperatorResponse], error) {
	return c.createOperator.CallUnary(ctx, req)
}

// GetCurrentUser calls cashier.v1.AuthService.GetCurrentUser.
func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}
