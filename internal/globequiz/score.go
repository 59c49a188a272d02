package globequiz

import "github.com/playperu/globequiz/internal/geo"

// Proximity is the guess's closeness score in [0, 1].
func (g Guess) Proximity() float64 { return geo.DistanceToProximity(g.DistanceKm) }

// HintColor is the heat colour for the guess.
func (g Guess) HintColor() geo.RGB { return geo.ProximityToColor(g.Proximity()) }
