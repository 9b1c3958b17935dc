package handlers

import (
	"context"
	"net/http"
	"time"

	"lending_docs/internal/config/connections"
)

type healthResp struct {
	OK       bool     `json:"ok"`
	Programs int      `json:"programs"`
	Errors   []string `json:"errors,omitempty"`
}

// Health pings every backend. Redis is optional and only reported when
// configured.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := []connections.Check{
		{Name: "postgres", Target: h.Postgres},
		{Name: "mongo", Target: h.Mongo},
		{Name: "s3", Target: h.S3},
	}
	if h.Redis != nil {
		checks = append(checks, connections.Check{Name: "redis", Target: h.Redis})
	}

	resp := healthResp{}
	for _, err := range connections.PingAll(ctx, checks...) {
		resp.Errors = append(resp.Errors, err.Error())
	}
	resp.OK = len(resp.Errors) == 0
	if h.Programs != nil {
		resp.Programs = h.Programs.Len()
	}

	code := http.StatusOK
	if !resp.OK {
		code = http.StatusInternalServerError
	}
	h.JSON(w, code, resp)
}
