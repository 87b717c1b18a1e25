package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rrens/doggy-date/internal/api/response"
	"github.com/Rrens/doggy-date/internal/notify"
	"github.com/Rrens/doggy-date/internal/remote"
	"github.com/Rrens/doggy-date/internal/screen"
	"github.com/Rrens/doggy-date/internal/session"
	"github.com/Rrens/doggy-date/internal/validate"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ScreenHandler exposes the sign-in screen to a browser front-end
type ScreenHandler struct {
	screen *screen.Screen
	alerts *notify.Recorder
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(s *screen.Screen, alerts *notify.Recorder) *ScreenHandler {
	return &ScreenHandler{screen: s, alerts: alerts}
}

// ScreenResponse is the screen state plus the pending alert
type ScreenResponse struct {
	screen.State
	Alert string `json:"alert,omitempty"`
}

type fieldInput struct {
	Value string `json:"value" validate:"max=256"`
}

func (h *ScreenHandler) state() ScreenResponse {
	resp := ScreenResponse{State: h.screen.Snapshot()}
	if h.alerts != nil {
		resp.Alert, _ = h.alerts.Last()
	}
	return resp
}

func decodeField(w http.ResponseWriter, r *http.Request) (string, bool) {
	var input fieldInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return "", false
	}
	if errs := validate.Struct(input); errs != nil {
		response.BadRequest(w, errs)
		return "", false
	}
	return input.Value, true
}

// Get returns the whole screen
func (h *ScreenHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.state())
}

// DismissAlert clears the pending alert
func (h *ScreenHandler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	if h.alerts != nil {
		h.alerts.Dismiss()
	}
	response.OK(w, h.state())
}

// SetLoginEmail records the login email field
func (h *ScreenHandler) SetLoginEmail(w http.ResponseWriter, r *http.Request) {
	value, ok := decodeField(w, r)
	if !ok {
		return
	}
	h.screen.Login.SetEmail(value)
	response.OK(w, h.state())
}

// BlurLogin validates the login email
func (h *ScreenHandler) BlurLogin(w http.ResponseWriter, r *http.Request) {
	h.screen.Login.Blur()
	response.OK(w, h.state())
}

// SubmitLogin hands the login email to the session broadcaster
func (h *ScreenHandler) SubmitLogin(w http.ResponseWriter, r *http.Request) {
	if err := h.screen.Login.Submit(r.Context()); err != nil {
		h.submitError(w, err)
		return
	}
	response.OK(w, h.state())
}

// ShowRegistration switches to the registration view
func (h *ScreenHandler) ShowRegistration(w http.ResponseWriter, r *http.Request) {
	h.screen.Login.ShowRegistration()
	response.OK(w, h.state())
}

// SetRegistrationField records one registration field
func (h *ScreenHandler) SetRegistrationField(w http.ResponseWriter, r *http.Request) {
	field, err := screen.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		response.NotFound(w, err.Error())
		return
	}
	value, ok := decodeField(w, r)
	if !ok {
		return
	}
	if err := h.screen.Registration.Set(field, value); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.OK(w, h.state())
}

// BlurRegistrationField validates one registration field.
// A valid email is also looked up for availability.
func (h *ScreenHandler) BlurRegistrationField(w http.ResponseWriter, r *http.Request) {
	field, err := screen.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		response.NotFound(w, err.Error())
		return
	}

	flags := h.screen.Registration.Blur(field)
	if field == screen.FieldEmail && flags.ValidEmail {
		if _, err := h.screen.Registration.CheckEmail(r.Context()); err != nil {
			log.Debug().Err(err).Msg("Skipping email availability hint")
		}
	}
	response.OK(w, h.state())
}

// SubmitRegistration sends the createUser mutation
func (h *ScreenHandler) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	if err := h.screen.Registration.Submit(r.Context()); err != nil {
		h.submitError(w, err)
		return
	}
	response.OK(w, h.state())
}

// ShowLogin switches to the login view
func (h *ScreenHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.screen.Registration.ShowLogin()
	response.OK(w, h.state())
}

func (h *ScreenHandler) submitError(w http.ResponseWriter, err error) {
	var (
		validationErr *validate.ValidationError
		transportErr  *remote.TransportError
		appErr        *remote.ApplicationError
	)

	state := h.state()
	switch {
	case errors.As(err, &validationErr):
		response.ErrorWithData(w, http.StatusUnprocessableEntity, map[string]string{validationErr.Field: validationErr.Message}, state)
	case errors.Is(err, screen.ErrSubmitInFlight):
		response.ErrorWithData(w, http.StatusConflict, err.Error(), state)
	case errors.Is(err, session.ErrSuperseded):
		response.ErrorWithData(w, http.StatusConflict, err.Error(), state)
	case errors.Is(err, remote.ErrUserNotFound):
		response.ErrorWithData(w, http.StatusNotFound, err.Error(), state)
	case errors.As(err, &transportErr), errors.As(err, &appErr):
		response.ErrorWithData(w, http.StatusBadGateway, err.Error(), state)
	default:
		log.Error().Err(err).Msg("Unexpected submit error")
		response.ErrorWithData(w, http.StatusInternalServerError, "internal error", state)
	}
}
