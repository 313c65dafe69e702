// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"context"
	"errors"
	"net/http"

	"techblog/internal/models"
)

// LoginInfo is the OAuth entry point advertised by the backend.
type LoginInfo struct {
	URL         string
	Description string
}

// LoginInfo returns where to send the browser to sign in.
func (c *Client) LoginInfo(ctx context.Context) (LoginInfo, error) {
	var w wireLoginInfo
	if err := c.get(ctx, "/auth/login", nil, &w); err != nil {
		return LoginInfo{}, err
	}
	return LoginInfo{URL: w.LoginURL, Description: w.Description}, nil
}

// Me returns the identity behind the current credentials. Rejected
// credentials yield an unauthenticated AuthInfo rather than an error.
func (c *Client) Me(ctx context.Context) (models.AuthInfo, error) {
	var w wireAuthInfo
	err := c.get(ctx, "/auth/me", nil, &w)
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrSessionExpired) {
		return models.AuthInfo{}, nil
	}
	if err != nil {
		return models.AuthInfo{}, err
	}
	return mapAuthInfo(w), nil
}

// Subscribe registers an email for the newsletter. A duplicate email
// matches ErrAlreadySubscribed.
func (c *Client) Subscribe(ctx context.Context, in models.SubscribeInput) error {
	return c.sendJSON(ctx, http.MethodPost, "/subscribe", in, nil)
}
