package screen_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/Rrens/doggy-date/internal/domain"
	"github.com/Rrens/doggy-date/internal/remote"
	"github.com/stretchr/testify/mock"
)

// MockAPI mocks the remote client as seen by the screen
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) LoginUser(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAPI) CreateUser(ctx context.Context, vars remote.CreateUserVariables) (*domain.User, error) {
	args := m.Called(ctx, vars)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAPI) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockAuthenticator mocks screen.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// alertLog collects alerts in order
type alertLog struct {
	mu       sync.Mutex
	messages []string
}

func (a *alertLog) Alert(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
}

func (a *alertLog) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}

// sequentialIDs returns "id-1", "id-2", ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "id-" + strconv.Itoa(n)
	}
}
