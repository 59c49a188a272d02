package globequiz

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	MinGuesses = 1
	MaxGuesses = 20

	unlimitedText = "unlimited"
)

// GuessLimit is either a number of guesses in [MinGuesses, MaxGuesses] or
// unlimited. The zero value is unlimited.
type GuessLimit struct {
	n int
}

func Unlimited() GuessLimit { return GuessLimit{} }

// Limit returns a finite limit, clamped to [MinGuesses, MaxGuesses].
func Limit(n int) GuessLimit {
	return GuessLimit{n: min(max(n, MinGuesses), MaxGuesses)}
}

func (l GuessLimit) Unlimited() bool { return l.n == 0 }

// Max returns the finite limit; ok is false when unlimited.
func (l GuessLimit) Max() (n int, ok bool) { return l.n, l.n != 0 }

// Reached reports whether count guesses exhaust the limit.
func (l GuessLimit) Reached(count int) bool { return l.n != 0 && count >= l.n }

func (l GuessLimit) String() string {
	if l.n == 0 {
		return "Unlimited"
	}
	return strconv.Itoa(l.n)
}

// MarshalJSON encodes a number, or the string "unlimited".
func (l GuessLimit) MarshalJSON() ([]byte, error) {
	if l.n == 0 {
		return json.Marshal(unlimitedText)
	}
	return json.Marshal(l.n)
}

func (l *GuessLimit) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != unlimitedText {
			return fmt.Errorf("invalid guess limit %q", s)
		}
		*l = Unlimited()
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid guess limit %s: %w", data, err)
	}
	*l = Limit(n)
	return nil
}

// Settings are the player's hot/cold preferences. They apply to the next view
// computation and never rewrite recorded guesses.
type Settings struct {
	MaxGuesses   GuessLimit `json:"maxGuesses"`
	HintStyle    HintStyle  `json:"hintStyle"`
	HintsEnabled bool       `json:"hintsEnabled"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxGuesses:   Limit(10),
		HintStyle:    HintDistance,
		HintsEnabled: true,
	}
}

func (s Settings) normalize() Settings {
	if s.HintStyle != HintDistance && s.HintStyle != HintColor {
		s.HintStyle = HintDistance
	}
	return s
}

// SettingsPatch is a partial settings update. Absent fields keep their
// current value, so leaving out maxGuesses never lifts the limit.
type SettingsPatch struct {
	MaxGuesses   *GuessLimit `json:"maxGuesses,omitempty"`
	HintStyle    *HintStyle  `json:"hintStyle,omitempty"`
	HintsEnabled *bool       `json:"hintsEnabled,omitempty"`
}

// Merge applies p on top of s. An unknown hint style is an error.
func (p SettingsPatch) Merge(s Settings) (Settings, error) {
	if p.MaxGuesses != nil {
		s.MaxGuesses = *p.MaxGuesses
	}
	if p.HintStyle != nil {
		h, err := ParseHintStyle(string(*p.HintStyle))
		if err != nil {
			return s, err
		}
		s.HintStyle = h
	}
	if p.HintsEnabled != nil {
		s.HintsEnabled = *p.HintsEnabled
	}
	return s, nil
}
