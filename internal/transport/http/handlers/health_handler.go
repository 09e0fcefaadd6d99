package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/dto"
	httperrors "github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/errors"
)

const healthProbeTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler always answers 200; backend state is reported per dependency.
type HealthHandler struct {
	postgres Pinger
	redis    Pinger
}

func NewHealthHandler(postgres, redis Pinger) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	httperrors.Write(w, http.StatusOK, dto.HealthResponse{
		OK:       true,
		Postgres: probe(ctx, h.postgres),
		Redis:    probe(ctx, h.redis),
	})
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
