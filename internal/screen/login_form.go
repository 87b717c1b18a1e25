package screen

import (
	"context"
	"sync"

	"github.com/Rrens/doggy-date/internal/domain"
	"github.com/Rrens/doggy-date/internal/notify"
	"github.com/Rrens/doggy-date/internal/validate"
)

// Authenticator performs a login on behalf of the form
type Authenticator interface {
	Login(ctx context.Context, email string) error
}

// LoginState is a point-in-time copy of the login form
type LoginState struct {
	Email      string `json:"email"`
	ValidEmail bool   `json:"validEmail"`
	Submitting bool   `json:"submitting"`
}

// LoginForm collects an email and hands it to the session broadcaster
type LoginForm struct {
	auth             Authenticator
	notifier         notify.Notifier
	showRegistration func()

	mu         sync.Mutex
	creds      domain.Credentials
	validEmail bool
	submitting bool
}

// NewLoginForm creates an empty login form
func NewLoginForm(auth Authenticator, notifier notify.Notifier, showRegistration func()) *LoginForm {
	if notifier == nil {
		notifier = notify.Discard
	}
	if showRegistration == nil {
		showRegistration = func() {}
	}
	return &LoginForm{
		auth:             auth,
		notifier:         notifier,
		showRegistration: showRegistration,
	}
}

// SetEmail records a keystroke in the email field
func (f *LoginForm) SetEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds.Email = email
}

// Blur recomputes the email flag
func (f *LoginForm) Blur() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validEmail = validate.IsValidEmail(f.creds.Email)
	return f.validEmail
}

// Submit delegates to the authenticator. The email is cleared once the
// request is handed off; an invalid email is kept so it can be corrected.
func (f *LoginForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		f.notifier.Alert(notify.MsgSubmitInFlight)
		return ErrSubmitInFlight
	}
	email := f.creds.Email
	if !validate.IsValidEmail(email) {
		f.mu.Unlock()
		// the broadcaster raises the alert
		return f.auth.Login(ctx, email)
	}
	f.submitting = true
	f.creds = domain.Credentials{}
	f.validEmail = false
	f.mu.Unlock()

	err := f.auth.Login(ctx, email)

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	return err
}

// ShowRegistration asks the toggle for the registration view
func (f *LoginForm) ShowRegistration() {
	f.showRegistration()
}

// Snapshot returns the current form state
func (f *LoginForm) Snapshot() LoginState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return LoginState{
		Email:      f.creds.Email,
		ValidEmail: f.validEmail,
		Submitting: f.submitting,
	}
}
