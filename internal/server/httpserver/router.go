// Package httpserver provides the admin HTTP server for regiond.
package httpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/regionkv/regiond/internal/regionstore/snapshotfs"
	"github.com/regionkv/regiond/internal/telemetry/metric"
)

// RegionLookup resolves a region's snapshot adaptor for the debug surface.
type RegionLookup func(regionID int64) (*snapshotfs.Adaptor, bool)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Logger *slog.Logger

	// AdminToken gates /debug endpoints when non-empty.
	AdminToken string

	// AdminAllowList is the IP/CIDR allowlist for the admin surface (empty = no restriction).
	AdminAllowList []string

	// CORSAllowedOrigins is the list of allowed CORS origins. NewRouter
	// does not install the CORS middleware, so it has no effect on the
	// router's routes.
	CORSAllowedOrigins []string

	// GlobalRateLimit is the per-IP rate limit (requests/second) applied
	// to the debug route; /healthz and /metrics are not rate limited.
	GlobalRateLimit int

	EnableAudit bool

	// Regions resolves a region ID to its live snapshot adaptor.
	Regions RegionLookup

	// Metrics is the registry /metrics exposes. A nil registry falls
	// back to the process-wide default.
	Metrics *metric.Registry
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	mux := http.NewServeMux()

	metricsRegistry := cfg.Metrics
	if metricsRegistry == nil {
		metricsRegistry = metric.Global()
	}

	mux.Handle("GET /healthz", Chain(
		http.HandlerFunc(healthzHandler),
		Metrics(metricsRegistry, "GET /healthz"),
	))
	mux.Handle("GET /metrics", Chain(
		metricsRegistry.Handler(),
		RequestID(),
		Recover(cfg.Logger),
	))

	debugMiddlewares := []Middleware{
		RequestID(),
		Recover(cfg.Logger),
		Metrics(metricsRegistry, "GET /debug/regions/{id}/snapshots"),
		AdminAuth(&MiddlewareConfig{AdminToken: cfg.AdminToken, Logger: cfg.Logger}),
	}
	if len(cfg.AdminAllowList) > 0 {
		debugMiddlewares = append(debugMiddlewares, NetworkACL(&NetworkACLConfig{
			AllowList: cfg.AdminAllowList,
			Logger:    cfg.Logger,
		}))
	}
	if cfg.EnableAudit {
		debugMiddlewares = append(debugMiddlewares, Audit(cfg.Logger))
	}
	if cfg.GlobalRateLimit > 0 {
		debugMiddlewares = append(debugMiddlewares, RateLimit(cfg.GlobalRateLimit))
	}

	debugHandler := Chain(http.HandlerFunc(cfg.regionSnapshotsHandler), debugMiddlewares...)
	mux.Handle("GET /debug/regions/{id}/snapshots", debugHandler)

	return mux
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (cfg *RouterConfig) regionSnapshotsHandler(w http.ResponseWriter, r *http.Request) {
	regionID, err := parseRegionID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid region id")
		return
	}

	adaptor, ok := cfg.Regions(regionID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown region")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(adaptor.OpenSnapshots())
}

func parseRegionID(s string) (int64, error) {
	var id int64
	_, err := fmt.Sscan(s, &id)
	return id, err
}
