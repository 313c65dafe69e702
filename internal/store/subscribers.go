// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"techblog/internal/models"
)

// pgUniqueViolation is the SQLSTATE for a unique constraint failure.
const pgUniqueViolation = "23505"

// Subscribe records a newsletter subscriber. A second subscription with
// the same email, in any letter case, returns models.ErrAlreadySubscribed.
func (s *Local) Subscribe(ctx context.Context, in models.SubscribeInput) error {
	_, err := s.sb.Insert(tableSubscribers).
		Columns("name", "email").
		Values(strings.TrimSpace(in.Name), strings.ToLower(strings.TrimSpace(in.Email))).
		ExecContext(ctx)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return models.ErrAlreadySubscribed
	}
	return fmt.Errorf("insert subscriber: %w", err)
}
