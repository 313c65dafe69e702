// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"techblog/internal/models"
)

var (
	// ErrNotFound matches any 404 response.
	ErrNotFound = models.ErrNotFound
	// ErrUnauthorized matches 401 and 403 responses that survived the
	// refresh attempt (or had no refresh token to try).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionExpired is returned when the refresh token was rejected.
	// Credentials have been cleared by the time it is seen.
	ErrSessionExpired = errors.New("session expired")
	// ErrAlreadySubscribed matches the backend's ALREADY_SUBSCRIBED code.
	ErrAlreadySubscribed = models.ErrAlreadySubscribed
)

// CodeAlreadySubscribed is the backend error code for a duplicate
// subscription email.
const CodeAlreadySubscribed = "ALREADY_SUBSCRIBED"

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend %d %s: %s", e.Status, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend %d", e.Status)
}

// Is maps status codes and error codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrAlreadySubscribed:
		return e.Code == CodeAlreadySubscribed
	}
	return false
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// decodeError builds an APIError from a failed response. Bodies that are
// not the documented error shape still yield the status.
func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}
	apiErr.Code = body.Error.Code
	apiErr.Message = body.Error.Message
	if apiErr.Message == "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
