package httpin

import (
	"net/http"

	"catering_ops/internal/core/domain"
)

func (h *Handlers) getPanel(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Panels.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, view, http.StatusOK)
}

func (h *Handlers) savePanel(w http.ResponseWriter, r *http.Request) {
	var panel domain.Panel
	if !decodeJSON(w, r, &panel) {
		return
	}

	view, err := h.svc.Panels.Save(r.Context(), r.PathValue("id"), panel, actorFrom(r))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, view, http.StatusOK)
}

func (h *Handlers) listChanges(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.Changes.List(r.Context(), r.PathValue("id"), intQuery(r, "limit", 0))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, logs, http.StatusOK)
}

func (h *Handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.Tasks.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, tasks, http.StatusOK)
}

func (h *Handlers) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.Comments.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, comments, http.StatusOK)
}

type addCommentRequest struct {
	Body string `json:"body"`
}

func (h *Handlers) addComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.svc.Comments.Add(r.Context(), r.PathValue("id"), actorFrom(r).ID, req.Body)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, c, http.StatusCreated)
}

func (h *Handlers) deleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Comments.Delete(r.Context(), r.PathValue("id"), r.PathValue("commentID")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listRealCosts(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.RealCosts.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, summary, http.StatusOK)
}

type setRealCostRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note"`
}

func (h *Handlers) setRealCost(w http.ResponseWriter, r *http.Request) {
	var req setRealCostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.svc.RealCosts.Set(r.Context(), r.PathValue("id"), r.PathValue("category"), req.AmountCents, req.Note)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, c, http.StatusOK)
}

func (h *Handlers) removeRealCost(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RealCosts.Remove(r.Context(), r.PathValue("id"), r.PathValue("category")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.Links.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, links, http.StatusOK)
}

func (h *Handlers) createLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.svc.Links.Create(r.Context(), r.PathValue("id"), actorFrom(r).ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, link, http.StatusCreated)
}

func (h *Handlers) openLink(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Links.Open(r.Context(), r.PathValue("token"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, order, http.StatusOK)
}

func (h *Handlers) revokeLink(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Links.Revoke(r.Context(), r.PathValue("token")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
