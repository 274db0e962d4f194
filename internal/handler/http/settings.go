package http

import (
	"net/http"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/response"
)

type SettingsHandler interface {
	// Public is readable by the LIFF app without a token
	Public(w http.ResponseWriter, r *http.Request)

	// Refresh reloads settings immediately after HR edits them
	Refresh(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	provider settings.Provider
}

func NewSettingsHandler(provider settings.Provider) SettingsHandler {
	return &settingsHandlerImpl{provider: provider}
}

// Public implements SettingsHandler.
func (h *settingsHandlerImpl) Public(w http.ResponseWriter, r *http.Request) {
	snap, err := h.provider.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings.ToPublic(snap))
}

// Refresh implements SettingsHandler.
func (h *settingsHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	h.provider.Invalidate()
	snap, err := h.provider.Refresh(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings reloaded", snap)
}
