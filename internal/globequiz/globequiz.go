// Package globequiz defines the country guessing game: the country records,
// the session state machine and the view values derived from it.
//
// A Session is a plain value. Every transition returns the next value and
// leaves the receiver untouched, so callers own persistence and locking.
package globequiz

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/playperu/globequiz/internal/geo"
)

// AntarcticaISO identifies the one country that is never a target.
const AntarcticaISO = "AQ"

type Mode string

const (
	ModeNormal  Mode = "normal"
	ModeHotCold Mode = "hotcold"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Over reports whether the round has ended.
func (s Status) Over() bool { return s == StatusWon || s == StatusLost }

type HintStyle string

const (
	HintDistance HintStyle = "distance"
	HintColor    HintStyle = "color"
)

var (
	ErrInvalidMode      = errors.New("invalid mode")
	ErrInvalidHintStyle = errors.New("invalid hint style")
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNormal, ModeHotCold:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func ParseHintStyle(s string) (HintStyle, error) {
	switch h := HintStyle(s); h {
	case HintDistance, HintColor:
		return h, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidHintStyle, s)
}

// Country is one playable nation. Boundary is the raw GeoJSON geometry and is
// never inspected; it is left out of session documents and served separately.
type Country struct {
	Name       string          `json:"name"`
	ISOCode    string          `json:"isoCode"`
	Anchor     geo.Point       `json:"anchor"`
	Population int64           `json:"population,omitempty"`
	Boundary   json.RawMessage `json:"-"`
}

// Label is the hover text shown on the globe, e.g. "France (FR)".
func (c Country) Label() string {
	if c.ISOCode == "" {
		return c.Name
	}
	return c.Name + " (" + c.ISOCode + ")"
}

// Guess is one scored attempt. DistanceKm and BearingDeg are measured from the
// guessed country's anchor to the target's anchor.
type Guess struct {
	Country    Country `json:"country"`
	DistanceKm float64 `json:"distanceKm"`
	BearingDeg float64 `json:"bearingDeg"`
}
