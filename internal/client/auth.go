package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Truella/Framez/internal/feed"
	"github.com/Truella/Framez/internal/session"
)

func (c *Client) SignUp(ctx context.Context, in session.SignUpInput) (feed.User, string, error) {
	var out wireAuth
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", in, &out); err != nil {
		return feed.User{}, "", err
	}
	return out.User.toUser(), out.AccessToken, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (feed.User, string, error) {
	in := map[string]string{"email": email, "password": password}
	var out wireAuth
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signin", in, &out); err != nil {
		return feed.User{}, "", err
	}
	return out.User.toUser(), out.AccessToken, nil
}

func (c *Client) Me(ctx context.Context) (feed.User, error) {
	var out wireUser
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return feed.User{}, err
	}
	return out.toUser(), nil
}

func (c *Client) User(ctx context.Context, id string) (feed.User, error) {
	var out wireUser
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &out); err != nil {
		return feed.User{}, err
	}
	return out.toUser(), nil
}
