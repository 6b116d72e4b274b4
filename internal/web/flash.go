package web

import (
	"net/http"

	"Scribe/internal/api/middleware"
)

// addFlash queues a one-time message shown on the next rendered page.
func (h *Handlers) addFlash(w http.ResponseWriter, r *http.Request, message string) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		h.logger.Debug("[WEB] replacing invalid session for flash", "error", err)
	}
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		h.logger.Error("[WEB] failed to save flash", "error", err)
	}
}

// popFlashes returns and clears the queued messages.
func (h *Handlers) popFlashes(w http.ResponseWriter, r *http.Request) []string {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		h.logger.Error("[WEB] failed to clear flashes", "error", err)
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}
