package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lending_docs/internal/config/connections/postgres"
	"lending_docs/internal/models"
)

type ProgramsRepo struct {
	pg    *postgres.Postgres
	table string
}

func NewProgramsRepo(pg *postgres.Postgres, table string) *ProgramsRepo {
	return &ProgramsRepo{pg: pg, table: firstNonEmpty(table, "loan_programs")}
}

func (r *ProgramsRepo) List(ctx context.Context) ([]models.LoanProgram, error) {
	if err := available(r.pg); err != nil {
		return nil, err
	}

	rows, err := r.pg.Pool.Query(ctx, `
		SELECT id, name, category, structuring_rules, compliance_checks
		FROM `+r.table+`
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var out []models.LoanProgram
	for rows.Next() {
		var (
			p            models.LoanProgram
			rules, check []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &rules, &check); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		if len(rules) > 0 {
			if err := json.Unmarshal(rules, &p.StructuringRules); err != nil {
				return nil, fmt.Errorf("program %s structuring_rules: %w", p.ID, err)
			}
		}
		if len(check) > 0 {
			if err := json.Unmarshal(check, &p.ComplianceChecks); err != nil {
				return nil, fmt.Errorf("program %s compliance_checks: %w", p.ID, err)
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProgramsRepo) Upsert(ctx context.Context, p models.LoanProgram) error {
	if err := available(r.pg); err != nil {
		return err
	}
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return fmt.Errorf("upsert program: empty id")
	}

	rules, err := json.Marshal(p.StructuringRules)
	if err != nil {
		return err
	}
	if p.ComplianceChecks == nil {
		p.ComplianceChecks = []string{}
	}
	checks, err := json.Marshal(p.ComplianceChecks)
	if err != nil {
		return err
	}

	_, err = r.pg.Pool.Exec(ctx, `
		INSERT INTO `+r.table+` (id, name, category, structuring_rules, compliance_checks, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), `+r.table+`.name),
			category = COALESCE(NULLIF(EXCLUDED.category, ''), `+r.table+`.category),
			structuring_rules = EXCLUDED.structuring_rules,
			compliance_checks = EXCLUDED.compliance_checks,
			updated_at = NOW()`,
		p.ID, p.Name, p.Category, string(rules), string(checks),
	)
	if err != nil {
		return fmt.Errorf("upsert program %s: %w", p.ID, err)
	}
	return nil
}
