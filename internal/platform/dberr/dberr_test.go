// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/liftlog/internal/platform/dberr"
)

/*
TestClassification verifies wrapped driver errors are recognised.
*/
func TestClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	invalidText := &pgconn.PgError{Code: "22P02"}
	noRows := fmt.Errorf("select: %w", pgx.ErrNoRows)
	other := errors.New("connection reset")

	assert.True(t, dberr.IsUniqueViolation(unique))
	assert.False(t, dberr.IsUniqueViolation(invalidText))

	assert.True(t, dberr.IsInvalidText(invalidText))
	assert.False(t, dberr.IsInvalidText(other))

	assert.True(t, dberr.IsNoRows(noRows))
	assert.False(t, dberr.IsNoRows(other))
}
