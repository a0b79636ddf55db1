package httpin

import (
	"log/slog"
	"net/http"

	"catering_ops/internal/ports/inbound"
)

type RouterConfig struct {
	Handlers *Handlers
	UI       *UI
	Resolver inbound.IdentifierResolver
	Metrics  http.Handler
	Log      *slog.Logger
}

// NewRouter wires every route behind the path canonicalisation and request
// log middlewares.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	cfg.Handlers.Register(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	mux.HandleFunc("GET /", cfg.UI.Index)
	mux.HandleFunc("GET /ui/order", cfg.UI.FetchOrderSSE)

	var h http.Handler = mux
	h = CanonicalPath(cfg.Resolver, cfg.Log)(h)
	h = RequestLog(cfg.Log)(h)
	return h
}
