// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techblog/internal/offline"
)

func TestSeedIdempotent(t *testing.T) {
	db := connectOrSkip(t)
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))

	cat, err := offline.LoadSample()
	require.NoError(t, err)

	// Other packages may share this database, so the tables are not cleared;
	// Seed only writes into an empty articles table.
	require.NoError(t, Seed(ctx, db, cat))
	require.NoError(t, Seed(ctx, db, cat))

	for _, table := range []string{"authors", "articles", "comments"} {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Positive(t, n, table)
	}

	var replies int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM comments WHERE parent_id IS NOT NULL").Scan(&replies))
	assert.Positive(t, replies)
}

func TestSeedSequencesContinue(t *testing.T) {
	db := connectOrSkip(t)
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))

	cat, err := offline.LoadSample()
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, db, cat))

	var maxID, next int64
	require.NoError(t, db.QueryRow("SELECT COALESCE(MAX(id), 0) FROM comments").Scan(&maxID))
	require.NoError(t, db.QueryRow("SELECT last_value + CASE WHEN is_called THEN 1 ELSE 0 END FROM comments_id_seq").Scan(&next))
	assert.Greater(t, next, maxID)
}

func TestParseSampleTime(t *testing.T) {
	ts, err := parseSampleTime("2025-03-14T09:30:00")
	require.NoError(t, err)
	assert.Equal(t, 2025, ts.Year())
	assert.Equal(t, 9, ts.Hour())

	_, err = parseSampleTime("yesterday")
	assert.Error(t, err)
}
