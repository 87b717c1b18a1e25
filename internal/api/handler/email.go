package handler

import (
	"net/http"
	"strings"

	"github.com/Rrens/doggy-date/internal/api/response"
	"github.com/Rrens/doggy-date/internal/screen"
	"github.com/Rrens/doggy-date/internal/validate"
)

// EmailHandler answers availability lookups
type EmailHandler struct {
	checker screen.EmailChecker
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(checker screen.EmailChecker) *EmailHandler {
	return &EmailHandler{checker: checker}
}

// Exists reports whether ?email= is already registered
func (h *EmailHandler) Exists(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if !validate.IsValidEmail(email) {
		response.BadRequest(w, map[string]string{"email": "invalid email format"})
		return
	}

	exists, err := h.checker.EmailExists(r.Context(), email)
	if err != nil {
		response.BadGateway(w, "failed to check email: "+err.Error())
		return
	}

	response.OK(w, map[string]any{
		"email":  email,
		"exists": exists,
	})
}
