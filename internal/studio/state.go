package studio

import "strings"

// State is the render state of a studio session.
type State int

const (
	// StateEmpty means no QR is shown and download is disabled.
	StateEmpty State = iota
	// StateRendered means the surface holds a QR for the current URL.
	StateRendered
)

func (s State) String() string {
	switch s {
	case StateRendered:
		return "rendered"
	default:
		return "empty"
	}
}

// MarshalText renders the state as its name in JSON views.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Next returns the state a session moves to after a render request for url.
// Only the trimmed URL matters; the previous state never does.
func Next(url string) State {
	if strings.TrimSpace(url) == "" {
		return StateEmpty
	}
	return StateRendered
}
