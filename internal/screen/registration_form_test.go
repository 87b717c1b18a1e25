package screen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rrens/doggy-date/internal/domain"
	"github.com/Rrens/doggy-date/internal/notify"
	"github.com/Rrens/doggy-date/internal/remote"
	"github.com/Rrens/doggy-date/internal/screen"
	"github.com/Rrens/doggy-date/internal/validate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fillRegistration(t *testing.T, form *screen.RegistrationForm, email, age string) {
	t.Helper()
	values := map[screen.Field]string{
		screen.FieldFirstName: "Jane",
		screen.FieldLastName:  "Doe",
		screen.FieldEmail:     email,
		screen.FieldDogName:   "Rex",
		screen.FieldDogAge:    age,
		screen.FieldDogBreed:  "Beagle",
	}
	for _, f := range screen.Fields {
		require.NoError(t, form.Set(f, values[f]))
		form.Blur(f)
	}
}

func TestRegistrationForm_Blur(t *testing.T) {
	form := screen.NewRegistrationForm(new(MockAPI), nil, nil)

	require.NoError(t, form.Set(screen.FieldEmail, "foo@bar.com"))
	assert.True(t, form.Blur(screen.FieldEmail).ValidEmail)

	require.NoError(t, form.Set(screen.FieldEmail, "foo"))
	assert.False(t, form.Blur(screen.FieldEmail).ValidEmail)

	require.NoError(t, form.Set(screen.FieldDogAge, "3"))
	assert.True(t, form.Blur(screen.FieldDogAge).ValidAge)

	require.NoError(t, form.Set(screen.FieldDogAge, "three"))
	assert.False(t, form.Blur(screen.FieldDogAge).ValidAge)
}

func TestRegistrationForm_FlagsOnlyChangeOnBlur(t *testing.T) {
	form := screen.NewRegistrationForm(new(MockAPI), nil, nil)

	require.NoError(t, form.Set(screen.FieldEmail, "foo@bar.com"))
	assert.False(t, form.Snapshot().Flags.ValidEmail)

	form.Blur(screen.FieldFirstName)
	assert.False(t, form.Snapshot().Flags.ValidEmail)

	form.Blur(screen.FieldEmail)
	assert.True(t, form.Snapshot().Flags.ValidEmail)
}

func TestRegistrationForm_SetUnknownField(t *testing.T) {
	form := screen.NewRegistrationForm(new(MockAPI), nil, nil)
	assert.ErrorIs(t, form.Set(screen.Field("password"), "x"), screen.ErrUnknownField)
}

func TestParseField(t *testing.T) {
	f, err := screen.ParseField("dogAge")
	require.NoError(t, err)
	assert.Equal(t, screen.FieldDogAge, f)

	_, err = screen.ParseField("dog_age")
	assert.ErrorIs(t, err, screen.ErrUnknownField)
}

func TestRegistrationForm_SubmitBlocked(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		age       string
		wantErr   error
		wantAlert string
	}{
		{"invalid email", "foo", "3", validate.ErrInvalidEmail, notify.MsgInvalidEmail},
		{"invalid age", "foo@bar.com", "three", validate.ErrInvalidAge, notify.MsgInvalidAge},
		{"both invalid reports email", "foo", "three", validate.ErrInvalidEmail, notify.MsgInvalidEmail},
		{"age out of range", "foo@bar.com", "99999999999", validate.ErrInvalidAge, notify.MsgInvalidAge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(MockAPI)
			alerts := &alertLog{}
			form := screen.NewRegistrationForm(api, alerts, nil)
			fillRegistration(t, form, tt.email, tt.age)

			err := form.Submit(context.Background())

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, []string{tt.wantAlert}, alerts.all())
			api.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
			assert.Equal(t, tt.email, form.Snapshot().Input.Email)
		})
	}
}

func TestRegistrationForm_SubmitBeforeBlurIsBlocked(t *testing.T) {
	api := new(MockAPI)
	form := screen.NewRegistrationForm(api, nil, nil)

	require.NoError(t, form.Set(screen.FieldEmail, "foo@bar.com"))
	require.NoError(t, form.Set(screen.FieldDogAge, "3"))

	assert.ErrorIs(t, form.Submit(context.Background()), validate.ErrInvalidEmail)
	api.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegistrationForm_SubmitSuccess(t *testing.T) {
	api := new(MockAPI)
	alerts := &alertLog{}
	form := screen.NewRegistrationForm(api, alerts, nil, screen.WithIDGenerator(sequentialIDs()))
	fillRegistration(t, form, "jane@doe.com", "3")

	wantVars := remote.CreateUserVariables{
		ID:       "id-1",
		Name:     "Jane Doe",
		Email:    "jane@doe.com",
		DogID:    "id-2",
		DogName:  "Rex",
		DogAge:   3,
		DogBreed: "Beagle",
	}
	echoed := &domain.User{ID: "id-1", Name: "Jane Doe", Email: "jane@doe.com"}
	api.On("CreateUser", mock.Anything, wantVars).Return(echoed, nil)

	require.NoError(t, form.Submit(context.Background()))

	state := form.Snapshot()
	assert.Equal(t, domain.RegistrationInput{}, state.Input)
	assert.Equal(t, domain.ValidationFlags{}, state.Flags)
	assert.False(t, state.Submitting)
	assert.Equal(t, echoed, state.Registered)
	assert.Empty(t, alerts.all())
	api.AssertExpectations(t)
}

func TestRegistrationForm_SubmitFailureKeepsFields(t *testing.T) {
	api := new(MockAPI)
	alerts := &alertLog{}
	form := screen.NewRegistrationForm(api, alerts, nil)
	fillRegistration(t, form, "jane@doe.com", "3")

	appErr := &remote.ApplicationError{Errors: []remote.GraphQLError{{Message: "duplicate email"}}}
	api.On("CreateUser", mock.Anything, mock.Anything).Return(nil, appErr)

	err := form.Submit(context.Background())

	var got *remote.ApplicationError
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, []string{notify.MsgRequestFailed}, alerts.all())

	state := form.Snapshot()
	assert.Equal(t, "jane@doe.com", state.Input.Email)
	assert.Equal(t, "3", state.Input.DogAge)
	assert.True(t, state.Flags.ValidEmail)
	assert.True(t, state.Flags.ValidAge)
	assert.Nil(t, state.Registered)
}

func TestRegistrationForm_FreshIDsPerAttempt(t *testing.T) {
	api := new(MockAPI)
	form := screen.NewRegistrationForm(api, nil, nil)
	fillRegistration(t, form, "jane@doe.com", "3")

	var seen []remote.CreateUserVariables
	api.On("CreateUser", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seen = append(seen, args.Get(1).(remote.CreateUserVariables))
		}).
		Return(nil, errors.New("offline"))

	assert.Error(t, form.Submit(context.Background()))
	assert.Error(t, form.Submit(context.Background()))

	require.Len(t, seen, 2)
	ids := map[string]bool{}
	for _, v := range seen {
		_, err := uuid.Parse(v.ID)
		assert.NoError(t, err)
		_, err = uuid.Parse(v.DogID)
		assert.NoError(t, err)
		ids[v.ID] = true
		ids[v.DogID] = true
	}
	assert.Len(t, ids, 4)
}

func TestRegistrationForm_CheckEmail(t *testing.T) {
	api := new(MockAPI)
	form := screen.NewRegistrationForm(api, nil, nil, screen.WithEmailChecker(api))

	api.On("EmailExists", mock.Anything, "jane@doe.com").Return(true, nil)

	require.NoError(t, form.Set(screen.FieldEmail, "jane@doe.com"))

	// not validated yet, so no lookup
	taken, err := form.CheckEmail(context.Background())
	require.NoError(t, err)
	assert.False(t, taken)
	api.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)

	form.Blur(screen.FieldEmail)
	taken, err = form.CheckEmail(context.Background())
	require.NoError(t, err)
	assert.True(t, taken)
	assert.True(t, form.Snapshot().EmailTaken)

	require.NoError(t, form.Set(screen.FieldEmail, "other@doe.com"))
	assert.False(t, form.Snapshot().EmailTaken)
}

func TestRegistrationForm_CheckEmailWithoutChecker(t *testing.T) {
	form := screen.NewRegistrationForm(new(MockAPI), nil, nil)
	require.NoError(t, form.Set(screen.FieldEmail, "jane@doe.com"))
	form.Blur(screen.FieldEmail)

	taken, err := form.CheckEmail(context.Background())
	assert.NoError(t, err)
	assert.False(t, taken)
}

func TestRegistrationForm_ShowLogin(t *testing.T) {
	called := 0
	form := screen.NewRegistrationForm(new(MockAPI), nil, func() { called++ })

	form.ShowLogin()
	assert.Equal(t, 1, called)
}
