// Package terminal renders the sign-in screen on a line-oriented terminal.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Rrens/doggy-date/internal/domain"
	"github.com/Rrens/doggy-date/internal/screen"
	"github.com/rs/zerolog/log"
)

var fieldLabels = map[screen.Field]string{
	screen.FieldFirstName: "First name",
	screen.FieldLastName:  "Last name",
	screen.FieldEmail:     "Email",
	screen.FieldDogName:   "Dog name",
	screen.FieldDogAge:    "Dog age",
	screen.FieldDogBreed:  "Dog breed",
}

// Terminal reads answers from in and writes the screen to out.
// It is also the notifier for the screen it drives.
type Terminal struct {
	in    io.Reader
	lines chan string
	start sync.Once

	// set before lines is closed
	readErr error

	mu  sync.Mutex
	out io.Writer
}

// New creates a terminal over the given streams
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, lines: make(chan string)}
}

// Alert prints a user-facing alert
func (t *Terminal) Alert(message string) {
	t.printf("! %s\n", message)
}

func (t *Terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// read feeds lines until in runs out. A blocked Read outlives Run.
func (t *Terminal) read() {
	scanner := bufio.NewScanner(t.in)
	for scanner.Scan() {
		t.lines <- scanner.Text()
	}
	t.readErr = scanner.Err()
	close(t.lines)
}

// ask prompts and waits for one line, io.EOF once input runs out
func (t *Terminal) ask(ctx context.Context, prompt string) (string, error) {
	t.start.Do(func() { go t.read() })
	t.printf("%s", prompt)

	select {
	case <-ctx.Done():
		t.printf("\n")
		return "", ctx.Err()
	case line, ok := <-t.lines:
		if !ok {
			if t.readErr != nil {
				return "", t.readErr
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// askField shows the retained value, if any, and keeps it on a blank answer
func (t *Terminal) askField(ctx context.Context, label, current string) (string, error) {
	prompt := label + ": "
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, current)
	}
	value, err := t.ask(ctx, prompt)
	if err != nil {
		return "", err
	}
	if value == "" {
		return current, nil
	}
	return value, nil
}

// Run drives s until the user quits, input ends or ctx is done
func (t *Terminal) Run(ctx context.Context, s *screen.Screen) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			quit bool
			err  error
		)
		switch s.Toggle.View() {
		case domain.ViewRegister:
			quit, err = t.registration(ctx, s)
		default:
			quit, err = t.login(ctx, s)
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit {
			t.printf("Bye!\n")
			return nil
		}
	}
}

func (t *Terminal) login(ctx context.Context, s *screen.Screen) (bool, error) {
	t.printf("\n== Doggy Date: log in ==\n")

	email, err := t.askField(ctx, "Email", s.Login.Snapshot().Email)
	if err != nil {
		return false, err
	}
	s.Login.SetEmail(email)
	if !s.Login.Blur() {
		t.printf("  (not a valid email yet)\n")
	}

	for {
		choice, err := t.ask(ctx, "[s]ubmit, [e]dit, [r]egister, [q]uit: ")
		if err != nil {
			return false, err
		}

		switch strings.ToLower(choice) {
		case "s", "submit":
			if err := s.Login.Submit(ctx); err != nil {
				log.Debug().Err(err).Msg("Login not completed")
				return false, nil
			}
			if user, ok := s.Session.CurrentUser(); ok {
				t.printUser("Signed in as", user)
			}
			return false, nil
		case "e", "edit":
			return false, nil
		case "r", "register":
			s.Login.ShowRegistration()
			return false, nil
		case "q", "quit":
			return true, nil
		default:
			t.printf("  unknown choice %q\n", choice)
		}
	}
}

func (t *Terminal) registration(ctx context.Context, s *screen.Screen) (bool, error) {
	t.printf("\n== Doggy Date: create an account ==\n")

	// fields survive a failed submit, so offer them back
	retained := s.Registration.Snapshot().Input

	for _, field := range screen.Fields {
		value, err := t.askField(ctx, fieldLabels[field], fieldValue(retained, field))
		if err != nil {
			return false, err
		}
		if err := s.Registration.Set(field, value); err != nil {
			return false, err
		}

		flags := s.Registration.Blur(field)
		switch field {
		case screen.FieldEmail:
			if !flags.ValidEmail {
				t.printf("  (not a valid email yet)\n")
				continue
			}
			taken, err := s.Registration.CheckEmail(ctx)
			if err != nil {
				log.Debug().Err(err).Msg("Email availability unknown")
				continue
			}
			if taken {
				t.printf("  (that email already has an account)\n")
			}
		case screen.FieldDogAge:
			if !flags.ValidAge {
				t.printf("  (age should be a whole number)\n")
			}
		}
	}

	for {
		choice, err := t.ask(ctx, "[s]ubmit, [e]dit, [l]og in instead, [q]uit: ")
		if err != nil {
			return false, err
		}

		switch strings.ToLower(choice) {
		case "s", "submit":
			if err := s.Registration.Submit(ctx); err != nil {
				log.Debug().Err(err).Msg("Registration not completed")
				return false, nil
			}
			if user := s.Registration.Snapshot().Registered; user != nil {
				t.printUser("Account created for", *user)
			}
			return false, nil
		case "e", "edit":
			return false, nil
		case "l", "login":
			s.Registration.ShowLogin()
			return false, nil
		case "q", "quit":
			return true, nil
		default:
			t.printf("  unknown choice %q\n", choice)
		}
	}
}

func (t *Terminal) printUser(prefix string, user domain.User) {
	t.printf("%s %s <%s>\n", prefix, user.Name, user.Email)
	for _, dog := range user.Dogs {
		t.printf("  dog: %s, %d, %s\n", dog.Name, dog.Age, dog.Breed)
	}
}

func fieldValue(in domain.RegistrationInput, field screen.Field) string {
	switch field {
	case screen.FieldFirstName:
		return in.FirstName
	case screen.FieldLastName:
		return in.LastName
	case screen.FieldEmail:
		return in.Email
	case screen.FieldDogName:
		return in.DogName
	case screen.FieldDogAge:
		return in.DogAge
	case screen.FieldDogBreed:
		return in.DogBreed
	}
	return ""
}
