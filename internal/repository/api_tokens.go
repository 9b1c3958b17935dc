package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"lending_docs/internal/config/connections/postgres"
)

var ErrTokenNotFound = errors.New("token not found")

type APIToken struct {
	ID         int64
	TokenHash  string
	ClientName string
	Abilities  string
	ExpiresAt  *time.Time
}

// Can reports whether the token grants ability. Abilities is a JSON array
// of names; "*" grants everything.
func (t *APIToken) Can(ability string) bool {
	var list []string
	if err := json.Unmarshal([]byte(t.Abilities), &list); err != nil {
		return false
	}
	return slices.Contains(list, "*") || slices.Contains(list, ability)
}

type APITokenRepository struct {
	pg  *postgres.Postgres
	log *zap.Logger
}

func NewAPITokenRepository(pg *postgres.Postgres, log *zap.Logger) *APITokenRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &APITokenRepository{pg: pg, log: log}
}

// SplitToken accepts "id|secret" or a bare secret.
func SplitToken(plain string) (id *int64, secret string) {
	plain = strings.TrimSpace(plain)
	idx := strings.Index(plain, "|")
	if idx <= 0 {
		return nil, plain
	}
	n, err := strconv.ParseInt(plain[:idx], 10, 64)
	if err != nil {
		return nil, plain
	}
	return &n, plain[idx+1:]
}

func HashToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func (r *APITokenRepository) FindByPlainToken(ctx context.Context, plain string) (*APIToken, error) {
	id, secret := SplitToken(plain)
	if secret == "" {
		return nil, errors.New("empty token")
	}
	if r.pg == nil || r.pg.Pool == nil {
		return nil, errors.New("postgres not available")
	}
	hash := HashToken(secret)

	var tok APIToken
	if id != nil {
		err := r.pg.Pool.QueryRow(ctx, `
			SELECT id, token, client_name, abilities, expires_at
			FROM api_tokens
			WHERE id = $1
			  AND (expires_at IS NULL OR expires_at > $2)`,
			*id, time.Now(),
		).Scan(&tok.ID, &tok.TokenHash, &tok.ClientName, &tok.Abilities, &tok.ExpiresAt)
		if err == nil && tok.TokenHash == hash {
			return &tok, nil
		}
		if err != nil {
			r.log.Debug("[TOKEN] lookup by id failed", zap.Int64("id", *id), zap.Error(err))
		} else {
			r.log.Warn("[TOKEN] hash mismatch", zap.Int64("id", *id))
		}
	}

	err := r.pg.Pool.QueryRow(ctx, `
		SELECT id, token, client_name, abilities, expires_at
		FROM api_tokens
		WHERE token = $1
		  AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY created_at DESC
		LIMIT 1`,
		hash, time.Now(),
	).Scan(&tok.ID, &tok.TokenHash, &tok.ClientName, &tok.Abilities, &tok.ExpiresAt)
	if err != nil {
		r.log.Debug("[TOKEN] lookup by hash failed", zap.Error(err))
		return nil, ErrTokenNotFound
	}
	return &tok, nil
}
