package domain

import "fmt"

// View identifies which form the sign-in screen is showing
type View int

const (
	ViewLogin View = iota
	ViewRegister
)

func (v View) String() string {
	switch v {
	case ViewRegister:
		return "REGISTER"
	default:
		return "LOGIN"
	}
}

// MarshalText renders the view name in JSON payloads
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText
func (v *View) UnmarshalText(text []byte) error {
	switch string(text) {
	case "LOGIN":
		*v = ViewLogin
	case "REGISTER":
		*v = ViewRegister
	default:
		return fmt.Errorf("unknown view %q", text)
	}
	return nil
}
