package httpin

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/ports/inbound"
	"catering_ops/internal/web"

	"github.com/starfederation/datastar-go/datastar"
)

type UI struct {
	orders inbound.OrderUseCase
	panels inbound.PanelUseCase
	log    *slog.Logger
}

func NewUI(orders inbound.OrderUseCase, panels inbound.PanelUseCase, log *slog.Logger) *UI {
	return &UI{orders: orders, panels: panels, log: log.With(slog.String("component", "ui"))}
}

type uiSignals struct {
	Identifier string `json:"identifier"`
}

func (u *UI) Index(w http.ResponseWriter, r *http.Request) {
	http.FileServer(http.FS(web.MustFS())).ServeHTTP(w, r)
}

// FetchOrderSSE looks an order up by either identifier and streams the
// order and its panel warnings back as element patches.
func (u *UI) FetchOrderSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	signals := &uiSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil {
		sse.PatchElements(`<p id="status">Bad request: invalid signals</p>`)
		return
	}

	identifier := strings.TrimSpace(signals.Identifier)
	if identifier == "" {
		sse.PatchElements(`<p id="status">Enter an OS number or id</p>`)
		return
	}

	sse.PatchElements(`<p id="status">Fetching order...</p>`)

	order, err := u.orders.GetByIdentifier(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			sse.PatchElements(`<p id="status">Not found</p>`)
			sse.PatchElements(`<pre id="result">{}</pre>`)
			sse.PatchElements(`<ul id="warnings"></ul>`)
			return
		}
		u.log.ErrorContext(r.Context(), "ui lookup failed", slog.String("identifier", identifier), slog.String("error", err.Error()))
		sse.PatchElements(`<p id="status">Internal error</p>`)
		return
	}

	b, _ := json.MarshalIndent(order, "", "  ")
	sse.PatchElements(fmt.Sprintf(`<p id="status">OK: %s</p>`, html.EscapeString(order.ID)))
	sse.PatchElements(`<pre id="result">` + html.EscapeString(string(b)) + `</pre>`)

	view, err := u.panels.Get(r.Context(), order.ID)
	if err != nil {
		u.log.WarnContext(r.Context(), "ui panel lookup failed", slog.String("os_id", order.ID), slog.String("error", err.Error()))
		return
	}
	var sb strings.Builder
	sb.WriteString(`<ul id="warnings">`)
	for _, warning := range view.Warnings {
		sb.WriteString("<li>" + html.EscapeString(warning) + "</li>")
	}
	sb.WriteString(`</ul>`)
	sse.PatchElements(sb.String())
}
