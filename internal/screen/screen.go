// Package screen implements the two-view sign-in screen: the view toggle,
// the login form and the registration form.
package screen

import (
	"github.com/Rrens/doggy-date/internal/domain"
	"github.com/Rrens/doggy-date/internal/notify"
	"github.com/Rrens/doggy-date/internal/remote"
	"github.com/Rrens/doggy-date/internal/session"
)

// API is everything the screen needs from the remote client
type API interface {
	session.UserFetcher
	Registrar
	EmailChecker
}

// Screen wires the toggle, both forms and the session broadcaster together
type Screen struct {
	Toggle       *Toggle
	Login        *LoginForm
	Registration *RegistrationForm
	Session      *session.Broadcaster
}

// State is a snapshot of the whole screen
type State struct {
	View         domain.View       `json:"view"`
	Login        LoginState        `json:"login"`
	Registration RegistrationState `json:"registration"`
	CurrentUser  *domain.User      `json:"currentUser,omitempty"`
}

// New builds a screen backed by api. Alerts from every component go to notifier.
func New(api API, notifier notify.Notifier, opts ...RegistrationOption) *Screen {
	toggle := NewToggle()
	broadcaster := session.NewBroadcaster(api, notifier)

	opts = append([]RegistrationOption{WithEmailChecker(api)}, opts...)

	return &Screen{
		Toggle:       toggle,
		Session:      broadcaster,
		Login:        NewLoginForm(broadcaster, notifier, toggle.RequestRegistration),
		Registration: NewRegistrationForm(api, notifier, toggle.RequestLogin, opts...),
	}
}

// NewRemote builds a screen talking to a GraphQL client
func NewRemote(client *remote.Client, notifier notify.Notifier) *Screen {
	return New(client, notifier)
}

// Snapshot returns the state of every component
func (s *Screen) Snapshot() State {
	state := State{
		View:         s.Toggle.View(),
		Login:        s.Login.Snapshot(),
		Registration: s.Registration.Snapshot(),
	}
	if user, ok := s.Session.CurrentUser(); ok {
		state.CurrentUser = &user
	}
	return state
}

// Close releases the session subscriptions
func (s *Screen) Close() {
	s.Session.Close()
}
