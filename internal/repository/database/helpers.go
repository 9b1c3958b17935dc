package database

import (
	"errors"
	"strings"

	"lending_docs/internal/config/connections/postgres"
)

var errPostgresUnavailable = errors.New("postgres not available")

func available(pg *postgres.Postgres) error {
	if pg == nil || pg.Pool == nil {
		return errPostgresUnavailable
	}
	return nil
}

func firstNonEmpty(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
