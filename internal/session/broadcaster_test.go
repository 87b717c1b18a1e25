package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rrens/doggy-date/internal/domain"
	"github.com/Rrens/doggy-date/internal/notify"
	"github.com/Rrens/doggy-date/internal/remote"
	"github.com/Rrens/doggy-date/internal/session"
	"github.com/Rrens/doggy-date/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_LoginInvalidEmail(t *testing.T) {
	fetcher := new(MockUserFetcher)
	alerts := &alertLog{}
	b := session.NewBroadcaster(fetcher, alerts)

	err := b.Login(context.Background(), "foo")

	assert.ErrorIs(t, err, validate.ErrInvalidEmail)
	assert.Equal(t, []string{notify.MsgInvalidLoginEmail}, alerts.messages)
	fetcher.AssertNotCalled(t, "LoginUser", mock.Anything, mock.Anything)

	_, ok := b.CurrentUser()
	assert.False(t, ok)
}

func TestBroadcaster_LoginSuccess(t *testing.T) {
	fetcher := new(MockUserFetcher)
	alerts := &alertLog{}
	b := session.NewBroadcaster(fetcher, alerts)

	want := &domain.User{ID: "1", Name: "A", Email: "a@b.com", Dogs: []domain.Dog{}}
	fetcher.On("LoginUser", mock.Anything, "a@b.com").Return(want, nil)

	require.NoError(t, b.Login(context.Background(), "a@b.com"))

	got, ok := b.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, *want, got)
	assert.Empty(t, alerts.messages)
	fetcher.AssertExpectations(t)
}

func TestBroadcaster_LoginFailureKeepsState(t *testing.T) {
	fetcher := new(MockUserFetcher)
	alerts := &alertLog{}
	b := session.NewBroadcaster(fetcher, alerts)

	transportErr := &remote.TransportError{Op: "submit", Err: errors.New("connection refused")}
	fetcher.On("LoginUser", mock.Anything, "a@b.com").Return(nil, transportErr)

	err := b.Login(context.Background(), "a@b.com")

	var tErr *remote.TransportError
	assert.True(t, errors.As(err, &tErr))
	assert.Equal(t, []string{notify.MsgRequestFailed}, alerts.messages)

	_, ok := b.CurrentUser()
	assert.False(t, ok)
}

func TestBroadcaster_ApplicationErrorKeepsPreviousUser(t *testing.T) {
	fetcher := new(MockUserFetcher)
	b := session.NewBroadcaster(fetcher, nil)

	first := &domain.User{ID: "1", Email: "a@b.com"}
	fetcher.On("LoginUser", mock.Anything, "a@b.com").Return(first, nil)
	fetcher.On("LoginUser", mock.Anything, "c@d.com").
		Return(nil, &remote.ApplicationError{Errors: []remote.GraphQLError{{Message: "nope"}}})

	require.NoError(t, b.Login(context.Background(), "a@b.com"))
	assert.Error(t, b.Login(context.Background(), "c@d.com"))

	got, ok := b.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "1", got.ID)
}

func TestBroadcaster_StaleResponseIsDiscarded(t *testing.T) {
	fetcher := new(MockUserFetcher)
	b := session.NewBroadcaster(fetcher, nil)

	started := make(chan struct{})
	release := make(chan struct{})

	oldUser := &domain.User{ID: "old", Email: "old@dogs.com"}
	newUser := &domain.User{ID: "new", Email: "new@dogs.com"}

	fetcher.On("LoginUser", mock.Anything, "old@dogs.com").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(oldUser, nil)
	fetcher.On("LoginUser", mock.Anything, "new@dogs.com").Return(newUser, nil)

	oldDone := make(chan error, 1)
	go func() {
		oldDone <- b.Login(context.Background(), "old@dogs.com")
	}()

	<-started
	require.NoError(t, b.Login(context.Background(), "new@dogs.com"))
	close(release)

	select {
	case err := <-oldDone:
		assert.ErrorIs(t, err, session.ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("stale login never returned")
	}

	got, ok := b.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "new", got.ID)
}

func TestBroadcaster_StaleFailureIsSilent(t *testing.T) {
	fetcher := new(MockUserFetcher)
	alerts := &alertLog{}
	b := session.NewBroadcaster(fetcher, alerts)

	started := make(chan struct{})
	release := make(chan struct{})

	fetcher.On("LoginUser", mock.Anything, "old@dogs.com").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil, &remote.TransportError{Op: "login", Err: errors.New("connection reset")})
	fetcher.On("LoginUser", mock.Anything, "new@dogs.com").
		Return(&domain.User{ID: "new", Email: "new@dogs.com"}, nil)

	oldDone := make(chan error, 1)
	go func() {
		oldDone <- b.Login(context.Background(), "old@dogs.com")
	}()

	<-started
	require.NoError(t, b.Login(context.Background(), "new@dogs.com"))
	close(release)

	select {
	case err := <-oldDone:
		assert.ErrorIs(t, err, session.ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("stale login never returned")
	}

	assert.Empty(t, alerts.messages)

	got, ok := b.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "new", got.ID)
}

func TestBroadcaster_Subscribe(t *testing.T) {
	fetcher := new(MockUserFetcher)
	b := session.NewBroadcaster(fetcher, nil)

	user := &domain.User{ID: "1", Email: "a@b.com"}
	fetcher.On("LoginUser", mock.Anything, "a@b.com").Return(user, nil)

	updates, cancel := b.Subscribe()
	require.NoError(t, b.Login(context.Background(), "a@b.com"))

	select {
	case got := <-updates:
		assert.Equal(t, "1", got.ID)
	case <-time.After(time.Second):
		t.Fatal("no update published")
	}

	cancel()
	cancel()
	_, open := <-updates
	assert.False(t, open)
}

func TestBroadcaster_Close(t *testing.T) {
	b := session.NewBroadcaster(new(MockUserFetcher), nil)

	updates, cancel := b.Subscribe()
	b.Close()

	_, open := <-updates
	assert.False(t, open)
	cancel()

	late, _ := b.Subscribe()
	_, open = <-late
	assert.False(t, open)
}
