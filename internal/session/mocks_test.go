package session_test

import (
	"context"

	"github.com/Rrens/doggy-date/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockUserFetcher mocks session.UserFetcher
type MockUserFetcher struct {
	mock.Mock
}

func (m *MockUserFetcher) LoginUser(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// alertLog collects alerts in order
type alertLog struct {
	messages []string
}

func (a *alertLog) Alert(message string) {
	a.messages = append(a.messages, message)
}
