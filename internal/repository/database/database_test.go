package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"lending_docs/internal/models"
)

func TestReposRequirePostgres(t *testing.T) {
	ctx := context.Background()

	_, err := NewProgramsRepo(nil, "").List(ctx)
	assert.True(t, errors.Is(err, errPostgresUnavailable))
	assert.Error(t, NewProgramsRepo(nil, "").Upsert(ctx, models.LoanProgram{ID: "x"}))

	_, err = NewDealsRepo(nil, "").Get(ctx, "d1")
	assert.True(t, errors.Is(err, errPostgresUnavailable))
	_, err = NewDealsRepo(nil, "").Upsert(ctx, models.Deal{})
	assert.Error(t, err)
}

func TestDefaultTableNames(t *testing.T) {
	assert.Equal(t, "loan_programs", NewProgramsRepo(nil, "").table)
	assert.Equal(t, "deals", NewDealsRepo(nil, " ").table)
	assert.Equal(t, "deals_v2", NewDealsRepo(nil, "deals_v2").table)
}
