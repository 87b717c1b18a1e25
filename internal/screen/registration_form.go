package screen

import (
	"context"
	"fmt"
	"sync"

	"github.com/Rrens/doggy-date/internal/domain"
	"github.com/Rrens/doggy-date/internal/notify"
	"github.com/Rrens/doggy-date/internal/remote"
	"github.com/Rrens/doggy-date/internal/validate"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Field names a registration form input
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"
	FieldDogName   Field = "dogName"
	FieldDogAge    Field = "dogAge"
	FieldDogBreed  Field = "dogBreed"
)

// Fields lists the registration inputs in display order
var Fields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldDogName, FieldDogAge, FieldDogBreed}

// ParseField maps a wire name to a Field
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownField, name)
}

// Registrar creates a user with one dog on the remote API
type Registrar interface {
	CreateUser(ctx context.Context, vars remote.CreateUserVariables) (*domain.User, error)
}

// EmailChecker reports whether an email is already registered
type EmailChecker interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

// RegistrationState is a point-in-time copy of the registration form
type RegistrationState struct {
	Input      domain.RegistrationInput `json:"input"`
	Flags      domain.ValidationFlags   `json:"flags"`
	EmailTaken bool                     `json:"emailTaken"`
	Submitting bool                     `json:"submitting"`
	Registered *domain.User             `json:"registered,omitempty"`
}

// RegistrationForm collects a user and their dog and submits the createUser mutation
type RegistrationForm struct {
	registrar Registrar
	checker   EmailChecker
	notifier  notify.Notifier
	showLogin func()
	newID     func() string

	mu         sync.Mutex
	input      domain.RegistrationInput
	flags      domain.ValidationFlags
	emailTaken bool
	submitting bool
	registered *domain.User
}

// RegistrationOption configures a RegistrationForm
type RegistrationOption func(*RegistrationForm)

// WithEmailChecker enables CheckEmail
func WithEmailChecker(c EmailChecker) RegistrationOption {
	return func(f *RegistrationForm) { f.checker = c }
}

// WithIDGenerator replaces the UUID source
func WithIDGenerator(gen func() string) RegistrationOption {
	return func(f *RegistrationForm) { f.newID = gen }
}

// NewRegistrationForm creates an empty registration form
func NewRegistrationForm(registrar Registrar, notifier notify.Notifier, showLogin func(), opts ...RegistrationOption) *RegistrationForm {
	if notifier == nil {
		notifier = notify.Discard
	}
	if showLogin == nil {
		showLogin = func() {}
	}
	f := &RegistrationForm{
		registrar: registrar,
		notifier:  notifier,
		showLogin: showLogin,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Set records a keystroke in field
func (f *RegistrationForm) Set(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldFirstName:
		f.input.FirstName = value
	case FieldLastName:
		f.input.LastName = value
	case FieldEmail:
		f.input.Email = value
		f.emailTaken = false
	case FieldDogName:
		f.input.DogName = value
	case FieldDogAge:
		f.input.DogAge = value
	case FieldDogBreed:
		f.input.DogBreed = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Blur recomputes the flag guarding field. Fields without a check are ignored.
func (f *RegistrationForm) Blur(field Field) domain.ValidationFlags {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldEmail:
		f.flags.ValidEmail = validate.IsValidEmail(f.input.Email)
	case FieldDogAge:
		f.flags.ValidAge = validate.IsValidInteger(f.input.DogAge)
	}
	return f.flags
}

// CheckEmail asks the API whether the current email is taken. It is
// informational only and never blocks Submit.
func (f *RegistrationForm) CheckEmail(ctx context.Context) (bool, error) {
	if f.checker == nil {
		return false, nil
	}

	f.mu.Lock()
	email := f.input.Email
	valid := f.flags.ValidEmail
	f.mu.Unlock()

	if !valid {
		return false, nil
	}

	taken, err := f.checker.EmailExists(ctx, email)
	if err != nil {
		log.Warn().Err(err).Msg("Email availability check failed")
		return false, err
	}

	f.mu.Lock()
	if f.input.Email == email {
		f.emailTaken = taken
	}
	f.mu.Unlock()

	return taken, nil
}

// Submit sends the createUser mutation when both flags are set.
// Fields are reset on success and kept on failure.
func (f *RegistrationForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		f.notifier.Alert(notify.MsgSubmitInFlight)
		return ErrSubmitInFlight
	}
	if !f.flags.ValidEmail {
		f.mu.Unlock()
		f.notifier.Alert(notify.MsgInvalidEmail)
		return validate.ErrInvalidEmail
	}
	if !f.flags.ValidAge {
		f.mu.Unlock()
		f.notifier.Alert(notify.MsgInvalidAge)
		return validate.ErrInvalidAge
	}

	age, err := validate.ParseAge(f.input.DogAge)
	if err != nil {
		f.mu.Unlock()
		f.notifier.Alert(notify.MsgInvalidAge)
		return err
	}

	vars := remote.CreateUserVariables{
		ID:       f.newID(),
		Name:     f.input.DisplayName(),
		Email:    f.input.Email,
		DogID:    f.newID(),
		DogName:  f.input.DogName,
		DogAge:   age,
		DogBreed: f.input.DogBreed,
	}
	f.submitting = true
	f.mu.Unlock()

	user, err := f.registrar.CreateUser(ctx, vars)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err != nil {
		log.Warn().Err(err).Str("email", vars.Email).Msg("Registration failed")
		f.notifier.Alert(notify.MsgRequestFailed)
		return fmt.Errorf("registration failed: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	f.registered = user
	f.input = domain.RegistrationInput{}
	f.flags = domain.ValidationFlags{}
	f.emailTaken = false

	return nil
}

// ShowLogin asks the toggle for the login view
func (f *RegistrationForm) ShowLogin() {
	f.showLogin()
}

// Snapshot returns the current form state
func (f *RegistrationForm) Snapshot() RegistrationState {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := RegistrationState{
		Input:      f.input,
		Flags:      f.flags,
		EmailTaken: f.emailTaken,
		Submitting: f.submitting,
	}
	if f.registered != nil {
		u := *f.registered
		state.Registered = &u
	}
	return state
}
