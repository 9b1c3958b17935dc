package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"lending_docs/internal/repository"
)

type ctxKey string

const (
	ClientKey ctxKey = "apiClient"
	tokenKey  ctxKey = "apiToken"
)

type TokenRepo interface {
	FindByPlainToken(ctx context.Context, plainToken string) (*repository.APIToken, error)
}

// BearerMiddleware resolves "Authorization: Bearer <token>" (or ?token=)
// against the api_tokens table and puts the client name in the context.
func BearerMiddleware(tokenRepo TokenRepo, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// CORS preflight
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			var tok *repository.APIToken
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				if plain := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); plain != "" {
					t, err := tokenRepo.FindByPlainToken(r.Context(), plain)
					if err == nil {
						tok = t
					} else {
						log.Debug("[AUTH] header token rejected", zap.Error(err))
					}
				}
			}

			if tok == nil {
				if plain := r.URL.Query().Get("token"); plain != "" {
					t, err := tokenRepo.FindByPlainToken(r.Context(), plain)
					if err == nil {
						tok = t
					} else {
						log.Debug("[AUTH] query token rejected", zap.Error(err))
					}
				}
			}

			if tok == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if tok.ExpiresAt != nil && tok.ExpiresAt.Before(time.Now()) {
				http.Error(w, "Token expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClientKey, tok.ClientName)
			ctx = context.WithValue(ctx, tokenKey, tok)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAbility must run after BearerMiddleware. Tokens without the
// ability get 403.
func RequireAbility(ability string, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			tok, _ := r.Context().Value(tokenKey).(*repository.APIToken)
			if tok == nil || !tok.Can(ability) {
				client := ""
				if tok != nil {
					client = tok.ClientName
				}
				log.Warn("[AUTH] ability denied", zap.String("client", client), zap.String("ability", ability))
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetClient(ctx context.Context) (string, error) {
	v, ok := ctx.Value(ClientKey).(string)
	if !ok || v == "" {
		return "", errors.New("api client not found in context")
	}
	return v, nil
}
