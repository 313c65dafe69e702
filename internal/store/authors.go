// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"techblog/internal/models"
)

// Author returns an author profile.
func (s *Local) Author(ctx context.Context, id string) (models.Member, error) {
	var m models.Member
	err := s.sb.Select("id", "name", "email", "profile_image", "role", "activated", "grade", "room", "number").
		From(tableAuthors).
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx).
		Scan(&m.ID, &m.Name, &m.Email, &m.ProfileImage, &m.Role, &m.Activated, &m.Grade, &m.Room, &m.Number)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, &notFoundError{kind: "author", id: id}
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("find author: %w", err)
	}
	return m, nil
}
