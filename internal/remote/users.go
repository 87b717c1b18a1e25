package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rrens/doggy-date/internal/domain"
)

const emailLookupTimeout = 15 * time.Second

// CreateUserVariables are the arguments of CreateUserMutation
type CreateUserVariables struct {
	ID       string
	Name     string
	Email    string
	DogID    string
	DogName  string
	DogAge   int32
	DogBreed string
}

// Map renders the variables keyed by their GraphQL names
func (v CreateUserVariables) Map() map[string]any {
	return map[string]any{
		"id":       v.ID,
		"name":     v.Name,
		"email":    v.Email,
		"dogId":    v.DogID,
		"dogName":  v.DogName,
		"dogAge":   v.DogAge,
		"dogBreed": v.DogBreed,
	}
}

// LoginUser resolves the user registered under email
func (c *Client) LoginUser(ctx context.Context, email string) (*domain.User, error) {
	var data struct {
		LoginUser *domain.User `json:"loginUser"`
	}
	if err := c.Execute(ctx, LoginUserQuery, map[string]any{"email": email}, &data); err != nil {
		return nil, err
	}
	if data.LoginUser == nil {
		return nil, ErrUserNotFound
	}
	return data.LoginUser, nil
}

// CreateUser registers a user with one dog and returns the server's copy
func (c *Client) CreateUser(ctx context.Context, vars CreateUserVariables) (*domain.User, error) {
	var data struct {
		CreateUser *domain.User `json:"createUser"`
	}
	if err := c.Execute(ctx, CreateUserMutation, vars.Map(), &data); err != nil {
		return nil, err
	}
	if data.CreateUser == nil {
		// the mutation succeeded without echoing the record
		return &domain.User{
			ID:    vars.ID,
			Name:  vars.Name,
			Email: vars.Email,
			Dogs: []domain.Dog{{
				ID:    vars.DogID,
				Name:  vars.DogName,
				Age:   vars.DogAge,
				Breed: vars.DogBreed,
			}},
		}, nil
	}
	return data.CreateUser, nil
}

// EmailExists asks the API's emailExists helper whether email is taken.
// Concurrent callers for one email share a request; each still returns
// as soon as its own ctx is done.
func (c *Client) EmailExists(ctx context.Context, email string) (bool, error) {
	ch := c.lookups.DoChan(strings.ToLower(email), func() (any, error) {
		// detached from the first caller, bounded on its own
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailLookupTimeout)
		defer cancel()
		return c.emailExists(shared, email)
	})

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

func (c *Client) emailExists(ctx context.Context, email string) (bool, error) {
	target, err := c.emailExistsURL()
	if err != nil {
		return false, err
	}

	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, &TransportError{Op: "email exists", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, &TransportError{Op: "email exists", Err: err}
	}
	answer := strings.TrimSpace(string(raw))

	if resp.StatusCode != http.StatusOK {
		return false, &TransportError{Op: "email exists", StatusCode: resp.StatusCode, Body: answer}
	}

	switch answer {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected emailExists response %q", answer)
	}
}

func (c *Client) emailExistsURL() (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	ref := &url.URL{Path: "/emailExists/"}
	return u.ResolveReference(ref).String(), nil
}
