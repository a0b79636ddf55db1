package httpin

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"catering_ops/internal/ports/inbound"
	"catering_ops/internal/web"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the use cases the HTTP adapter serves.
type Services struct {
	Orders    inbound.OrderUseCase
	Panels    inbound.PanelUseCase
	Changes   inbound.ChangeLogUseCase
	Comments  inbound.CommentUseCase
	RealCosts inbound.RealCostUseCase
	Links     inbound.SharedLinkUseCase
	Tasks     inbound.TaskUseCase
}

type Handlers struct {
	svc       Services
	db        Pinger
	log       *slog.Logger
	adminTmpl *template.Template
}

func NewHandlers(svc Services, db Pinger, log *slog.Logger) *Handlers {
	t := template.Must(template.ParseFS(web.MustFS(), "admin.html"))
	return &Handlers{
		svc:       svc,
		db:        db,
		log:       log.With(slog.String("component", "http")),
		adminTmpl: t,
	}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /ready", h.ready)
	mux.HandleFunc("GET /admin", h.admin)

	mux.HandleFunc("GET /os/{id}", h.getOrder)
	mux.HandleFunc("POST /os/{id}/archive", h.archiveOrder)

	mux.HandleFunc("GET /os/{id}/panel", h.getPanel)
	mux.HandleFunc("PUT /os/{id}/panel", h.savePanel)
	mux.HandleFunc("GET /os/{id}/changes", h.listChanges)
	mux.HandleFunc("GET /os/{id}/tasks", h.listTasks)

	mux.HandleFunc("GET /os/{id}/comments", h.listComments)
	mux.HandleFunc("POST /os/{id}/comments", h.addComment)
	mux.HandleFunc("DELETE /os/{id}/comments/{commentID}", h.deleteComment)

	mux.HandleFunc("GET /os/{id}/real-costs", h.listRealCosts)
	mux.HandleFunc("PUT /os/{id}/real-costs/{category}", h.setRealCost)
	mux.HandleFunc("DELETE /os/{id}/real-costs/{category}", h.removeRealCost)

	mux.HandleFunc("GET /os/{id}/share", h.listLinks)
	mux.HandleFunc("POST /os/{id}/share", h.createLink)
	mux.HandleFunc("GET /share/{token}", h.openLink)
	mux.HandleFunc("DELETE /share/{token}", h.revokeLink)
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.log.WarnContext(r.Context(), "readiness check failed", slog.String("error", err.Error()))
			writeErrorMessage(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (h *Handlers) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Orders.GetByIdentifier(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, order, http.StatusOK)
}

func (h *Handlers) archiveOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Orders.Archive(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, order, http.StatusOK)
}

type adminVM struct {
	Page     int
	PageSize int
	Total    int
	Pages    int
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
	Orders   []adminOrderRow
}

type adminOrderRow struct {
	ID        string
	Number    string
	Name      string
	Status    string
	Guests    int
	StartsAt  string
	Archived  bool
	CreatedAt string
}

func (h *Handlers) admin(w http.ResponseWriter, r *http.Request) {
	page := intQuery(r, "page", 1)
	size := intQuery(r, "size", 20)

	orders, total, err := h.svc.Orders.ListPage(r.Context(), page, size)
	if err != nil {
		h.log.ErrorContext(r.Context(), "admin list failed", slog.String("error", err.Error()))
		http.Error(w, "admin error", http.StatusInternalServerError)
		return
	}

	if size <= 0 {
		size = 20
	}
	size = min(size, 200)
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	vm := adminVM{
		Page:     page,
		PageSize: size,
		Total:    total,
		Pages:    pages,
		HasPrev:  page > 1,
		HasNext:  page < pages,
		PrevPage: page - 1,
		NextPage: page + 1,
	}

	for _, o := range orders {
		row := adminOrderRow{
			ID:        o.ID,
			Number:    o.Number,
			Name:      o.Name,
			Status:    string(o.Status),
			Guests:    o.Guests,
			Archived:  o.Archived(),
			CreatedAt: o.CreatedAt.Format("2006-01-02 15:04"),
		}
		if o.StartsAt != nil {
			row.StartsAt = o.StartsAt.Format("2006-01-02 15:04")
		}
		vm.Orders = append(vm.Orders, row)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.adminTmpl.Execute(w, vm); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
}

func intQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
