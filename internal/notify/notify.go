// Package notify carries user-facing alerts from the forms to whatever front-end renders them.
package notify

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// User-facing messages
const (
	MsgInvalidLoginEmail = "Error. Please enter a valid email!"
	MsgInvalidEmail      = "Please enter a valid email!"
	MsgInvalidAge        = "Please enter a numeric age!"
	MsgRequestFailed     = "Something went wrong. Please try again."
	MsgSubmitInFlight    = "Please wait, your request is still being sent."
)

// Notifier shows a blocking alert to the user
type Notifier interface {
	Alert(message string)
}

// Func adapts a plain function to Notifier
type Func func(message string)

func (f Func) Alert(message string) { f(message) }

// Discard drops every alert
var Discard Notifier = Func(func(string) {})

// Recorder keeps the most recent alert so a polling front-end can pick it up
type Recorder struct {
	mu    sync.Mutex
	last  string
	count int
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Alert records the message
func (r *Recorder) Alert(message string) {
	log.Debug().Str("alert", message).Msg("User alert raised")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = message
	r.count++
}

// Last returns the latest alert and how many alerts were raised so far
func (r *Recorder) Last() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.count
}

// Dismiss clears the latest alert
func (r *Recorder) Dismiss() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = ""
}
