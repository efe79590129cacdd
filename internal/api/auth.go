package api

import (
	"context"
	"net/http"

	"github.com/MaximoGamba/DemoEcommers/internal/models"
)

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return call[*models.LoginResponse](ctx, c, requestSpec{
		method:   http.MethodPost,
		path:     "/auth/login",
		endpoint: "/auth/login",
		body:     req,
	})
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	return call[*models.LoginResponse](ctx, c, requestSpec{
		method:   http.MethodPost,
		path:     "/auth/registro",
		endpoint: "/auth/registro",
		body:     req,
	})
}

func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	return call[*models.User](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/auth/perfil",
		endpoint: "/auth/perfil",
	})
}

func (c *Client) UpdateProfile(ctx context.Context, user models.User) (*models.User, error) {
	return call[*models.User](ctx, c, requestSpec{
		method:   http.MethodPut,
		path:     "/auth/perfil",
		endpoint: "/auth/perfil",
		body:     user,
	})
}
