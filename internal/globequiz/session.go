package globequiz

import (
	"slices"

	"github.com/playperu/globequiz/internal/geo"
)

// Viewpoint defaults for recenter instructions.
const (
	RecenterAltitude   = 1.5
	RecenterDurationMs = 1000
)

type RecenterReason string

const (
	RecenterGuess  RecenterReason = "guess"
	RecenterReveal RecenterReason = "reveal"
	RecenterSelect RecenterReason = "select"
)

// Recenter tells the rendering surface to animate its camera to a point.
type Recenter struct {
	Reason     RecenterReason `json:"reason"`
	Lat        float64        `json:"lat"`
	Lng        float64        `json:"lng"`
	Altitude   float64        `json:"altitude"`
	DurationMs int            `json:"durationMs"`
}

func recenterOn(c Country, reason RecenterReason) Recenter {
	return Recenter{
		Reason:     reason,
		Lat:        c.Anchor.Lat,
		Lng:        c.Anchor.Lng,
		Altitude:   RecenterAltitude,
		DurationMs: RecenterDurationMs,
	}
}

// Picker chooses an index in [0, n). *math/rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// Session is one player's game. Target is nil until a round starts.
type Session struct {
	ID       string   `json:"id"`
	Mode     Mode     `json:"mode"`
	Status   Status   `json:"status"`
	Target   *Country `json:"target,omitempty"`
	Guesses  []Guess  `json:"guesses"`
	Selected string   `json:"selected,omitempty"`
	Settings Settings `json:"settings"`
}

func NewSession(id string, mode Mode, settings Settings) Session {
	if mode != ModeHotCold {
		mode = ModeNormal
	}
	return Session{
		ID:       id,
		Mode:     mode,
		Status:   StatusIdle,
		Guesses:  []Guess{},
		Settings: settings.normalize(),
	}
}

// Public hides the target until the round is over.
func (s Session) Public() Session {
	if !s.Status.Over() {
		s.Target = nil
	}
	return s
}

// Guessed reports whether name is already in the guess log.
func (s Session) Guessed(name string) bool {
	return slices.ContainsFunc(s.Guesses, func(g Guess) bool { return g.Country.Name == name })
}

func (s Session) guessFor(name string) (Guess, bool) {
	for _, g := range s.Guesses {
		if g.Country.Name == name {
			return g, true
		}
	}
	return Guess{}, false
}

// Start begins a fresh round with a uniformly drawn target. It works from any
// state. With no eligible countries it changes nothing.
func (s Session) Start(countries *CountrySet, pick Picker) Session {
	eligible := countries.Eligible()
	if len(eligible) == 0 {
		return s
	}
	target := eligible[pick.Intn(len(eligible))]

	next := s
	next.Mode = ModeHotCold
	next.Target = &target
	next.Guesses = []Guess{}
	next.Selected = ""
	next.Status = StatusPlaying
	return next
}

// Submit scores a guess against the target. Unknown names, repeated names and
// guesses outside a running round are ignored: the session comes back as is
// with no recenter instructions.
func (s Session) Submit(countries *CountrySet, name string) (Session, []Recenter) {
	if s.Status != StatusPlaying || s.Target == nil {
		return s, nil
	}
	country, ok := countries.Lookup(name)
	if !ok || s.Guessed(country.Name) {
		return s, nil
	}

	guess := Guess{
		Country:    country,
		DistanceKm: geo.DistanceKm(country.Anchor, s.Target.Anchor),
		BearingDeg: geo.BearingDeg(country.Anchor, s.Target.Anchor),
	}
	next := s
	next.Guesses = append(slices.Clone(s.Guesses), guess)

	recenters := []Recenter{recenterOn(country, RecenterGuess)}
	switch {
	case country.Name == s.Target.Name:
		next.Status = StatusWon
	case next.Settings.MaxGuesses.Reached(len(next.Guesses)):
		next.Status = StatusLost
		recenters = append(recenters, recenterOn(*s.Target, RecenterReveal))
	}
	return next, recenters
}

// SwitchMode changes the game mode. Leaving hot/cold discards the round.
func (s Session) SwitchMode(mode Mode) Session {
	next := s
	if s.Mode == ModeHotCold && mode != ModeHotCold {
		next.Status = StatusIdle
		next.Target = nil
		next.Guesses = []Guess{}
	}
	if mode == ModeHotCold {
		next.Selected = ""
	}
	next.Mode = mode
	return next
}

// UpdateSettings replaces the settings. Past guesses are kept as recorded.
func (s Session) UpdateSettings(settings Settings) Session {
	next := s
	next.Settings = settings.normalize()
	return next
}

// Select marks a country as searched in normal mode and recenters on it.
// It does nothing in hot/cold mode or for unknown names.
func (s Session) Select(countries *CountrySet, name string) (Session, []Recenter) {
	if s.Mode != ModeNormal {
		return s, nil
	}
	country, ok := countries.Lookup(name)
	if !ok {
		return s, nil
	}
	next := s
	next.Selected = country.Name
	return next, []Recenter{recenterOn(country, RecenterSelect)}
}
