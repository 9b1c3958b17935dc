package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lending_docs/internal/config/connections/postgres"
	"lending_docs/internal/models"
)

var ErrDealNotFound = errors.New("deal not found")

// DealsRepo stores the full deal as jsonb next to a few indexed columns.
type DealsRepo struct {
	pg    *postgres.Postgres
	table string
}

func NewDealsRepo(pg *postgres.Postgres, table string) *DealsRepo {
	return &DealsRepo{pg: pg, table: firstNonEmpty(table, "deals")}
}

func (r *DealsRepo) Get(ctx context.Context, id string) (models.Deal, error) {
	var d models.Deal
	if err := available(r.pg); err != nil {
		return d, err
	}

	var payload []byte
	err := r.pg.Pool.QueryRow(ctx, `SELECT payload FROM `+r.table+` WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return d, fmt.Errorf("%w: %s", ErrDealNotFound, id)
	}
	if err != nil {
		return d, fmt.Errorf("get deal %s: %w", id, err)
	}
	if err := json.Unmarshal(payload, &d); err != nil {
		return d, fmt.Errorf("decode deal %s: %w", id, err)
	}
	d.ID = id
	return d, nil
}

// Upsert assigns a new id when the deal has none and returns it.
func (r *DealsRepo) Upsert(ctx context.Context, d models.Deal) (string, error) {
	if err := available(r.pg); err != nil {
		return "", err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return "", err
	}

	_, err = r.pg.Pool.Exec(ctx, `
		INSERT INTO `+r.table+` (id, program_id, borrower_name, state, approved_amount, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			program_id = EXCLUDED.program_id,
			borrower_name = COALESCE(NULLIF(EXCLUDED.borrower_name, ''), `+r.table+`.borrower_name),
			state = EXCLUDED.state,
			approved_amount = EXCLUDED.approved_amount,
			payload = EXCLUDED.payload,
			updated_at = NOW()`,
		d.ID, d.ProgramID, d.BorrowerName, d.State, d.Terms.ApprovedAmount, string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("upsert deal %s: %w", d.ID, err)
	}
	return d.ID, nil
}
