package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Rrens/doggy-date/internal/domain"
	"github.com/Rrens/doggy-date/internal/notify"
	"github.com/Rrens/doggy-date/internal/validate"
	"github.com/rs/zerolog/log"
)

// ErrSuperseded is returned when a newer login finished first
var ErrSuperseded = errors.New("login superseded by a newer attempt")

// UserFetcher resolves a user by email against the remote API
type UserFetcher interface {
	LoginUser(ctx context.Context, email string) (*domain.User, error)
}

// Broadcaster owns the signed-in user and publishes changes to subscribers.
// One instance exists per running application.
type Broadcaster struct {
	fetcher  UserFetcher
	notifier notify.Notifier

	mu         sync.RWMutex
	current    *domain.User
	generation uint64
	subs       map[uint64]chan domain.User
	nextSub    uint64
	closed     bool
}

// NewBroadcaster creates a broadcaster with no signed-in user
func NewBroadcaster(fetcher UserFetcher, notifier notify.Notifier) *Broadcaster {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Broadcaster{
		fetcher:  fetcher,
		notifier: notifier,
		subs:     make(map[uint64]chan domain.User),
	}
}

// Login validates email and, if valid, fetches the user and makes it current
func (b *Broadcaster) Login(ctx context.Context, email string) error {
	if !validate.IsValidEmail(email) {
		b.notifier.Alert(notify.MsgInvalidLoginEmail)
		return validate.ErrInvalidEmail
	}

	b.mu.Lock()
	b.generation++
	gen := b.generation
	b.mu.Unlock()

	user, err := b.fetcher.LoginUser(ctx, email)

	b.mu.Lock()
	if gen != b.generation {
		latest := b.generation
		b.mu.Unlock()
		log.Debug().Err(err).Uint64("generation", gen).Uint64("latest", latest).Msg("Discarding stale login response")
		return ErrSuperseded
	}

	if err != nil {
		b.mu.Unlock()
		log.Warn().Err(err).Str("email", email).Msg("Login request failed")
		b.notifier.Alert(notify.MsgRequestFailed)
		return fmt.Errorf("login failed: %w", err)
	}
	defer b.mu.Unlock()

	b.current = user
	log.Info().Str("user_id", user.ID).Msg("User signed in")

	for _, ch := range b.subs {
		// a slow subscriber only misses intermediate values
		select {
		case ch <- *user:
		default:
		}
	}

	return nil
}

// CurrentUser returns the signed-in user, if any
func (b *Broadcaster) CurrentUser() (domain.User, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.current == nil {
		return domain.User{}, false
	}
	return *b.current, true
}

// Subscribe returns a channel receiving every new current user and a cancel func
func (b *Broadcaster) Subscribe() (<-chan domain.User, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.User, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Close ends every subscription. Login keeps working afterwards.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
