package httpapi

import (
	"context"
	"net/http"
	"sort"
	"time"

	"farmlink-be/internal/logger"
	"farmlink-be/internal/utils"

	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Check is one dependency health check, e.g. a database or Redis ping.
type Check func(ctx context.Context) error

// HealthHandler reports 200 when every check succeeds and 503 otherwise.
type HealthHandler struct {
	Checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{Checks: checks}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	report := map[string]string{}
	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			logger.FromCtx(ctx).Warn("health check failed", zap.String("check", name), zap.Error(err))
			report[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		report[name] = "up"
	}

	overall := "OK"
	if status != http.StatusOK {
		overall = "DEGRADED"
	}
	utils.WriteJSON(w, status, map[string]interface{}{
		"status": overall,
		"checks": report,
	})
}
