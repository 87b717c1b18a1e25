package screen

import (
	"sync"

	"github.com/Rrens/doggy-date/internal/domain"
	"github.com/rs/zerolog/log"
)

// Toggle switches the screen between the login and registration views.
// It starts on LOGIN and only moves on explicit user requests.
type Toggle struct {
	mu   sync.RWMutex
	view domain.View
}

// NewToggle creates a toggle showing the login view
func NewToggle() *Toggle {
	return &Toggle{view: domain.ViewLogin}
}

// View returns the active view
func (t *Toggle) View() domain.View {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.view
}

func (t *Toggle) ShowingLogin() bool        { return t.View() == domain.ViewLogin }
func (t *Toggle) ShowingRegistration() bool { return t.View() == domain.ViewRegister }

// RequestRegistration handles "need an account?" from the login form
func (t *Toggle) RequestRegistration() {
	t.transition(domain.ViewLogin, domain.ViewRegister)
}

// RequestLogin handles "already have an account?" from the registration form
func (t *Toggle) RequestLogin() {
	t.transition(domain.ViewRegister, domain.ViewLogin)
}

func (t *Toggle) transition(from, to domain.View) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.view != from {
		return
	}
	t.view = to
	log.Debug().Stringer("from", from).Stringer("to", to).Msg("View switched")
}
