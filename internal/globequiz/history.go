package globequiz

import (
	"math"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatKm renders a distance the way the guess list shows it, e.g. "1,234 km".
func FormatKm(km float64) string {
	return printer.Sprintf("%d km", int64(math.Round(km)))
}

// HistoryEntry is one row of the guess list.
type HistoryEntry struct {
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distanceKm"`
	BearingDeg float64 `json:"bearingDeg"`
	Distance   string  `json:"distance,omitempty"`
	Color      string  `json:"color,omitempty"`
}

// String renders the row as text: "Germany — 758 km", or just the name when
// the distance hint is hidden.
func (e HistoryEntry) String() string {
	if e.Distance == "" {
		return e.Name
	}
	return e.Name + " — " + e.Distance
}

// Outcome is the game-over banner.
type Outcome struct {
	Won     bool   `json:"won"`
	Message string `json:"message"`
	Answer  string `json:"answer"`
}

// History is the guess panel: a headline, the guesses newest first and the
// outcome once the round is over.
type History struct {
	Headline string         `json:"headline"`
	Entries  []HistoryEntry `json:"entries"`
	Outcome  *Outcome       `json:"outcome,omitempty"`
}

func NewHistory(s Session) History {
	h := History{
		Headline: printer.Sprintf("Guesses (%d / %s)", len(s.Guesses), s.Settings.MaxGuesses),
		Entries:  make([]HistoryEntry, 0, len(s.Guesses)),
	}

	for _, g := range slices.Backward(s.Guesses) {
		e := HistoryEntry{
			Name:       g.Country.Name,
			DistanceKm: g.DistanceKm,
			BearingDeg: g.BearingDeg,
		}
		if s.Settings.HintsEnabled {
			switch s.Settings.HintStyle {
			case HintDistance:
				e.Distance = FormatKm(g.DistanceKm)
			case HintColor:
				e.Color = g.HintColor().CSS()
			}
		}
		h.Entries = append(h.Entries, e)
	}

	if s.Status.Over() && s.Target != nil {
		o := &Outcome{Won: s.Status == StatusWon, Answer: s.Target.Name}
		if o.Won {
			o.Message = "You found it!"
		} else {
			o.Message = "Out of guesses!"
		}
		h.Outcome = o
	}
	return h
}

// View is everything the host UI renders apart from polygon geometry.
type View struct {
	Session  Session    `json:"session"`
	History  History    `json:"history"`
	Names    []string   `json:"names"`
	Visible  int        `json:"visibleCount"`
	Recenter []Recenter `json:"recenter,omitempty"`
}

func NewView(s Session, countries *CountrySet, recenter []Recenter) View {
	return View{
		Session:  s.Public(),
		History:  NewHistory(s),
		Names:    SelectableNames(s, countries),
		Visible:  len(VisibleCountries(s, countries)),
		Recenter: recenter,
	}
}
