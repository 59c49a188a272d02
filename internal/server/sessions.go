package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/playperu/globequiz/internal/dataset"
	"github.com/playperu/globequiz/internal/globequiz"
	"github.com/playperu/globequiz/internal/telemetry"
)

var ErrInvalidAction = errors.New("invalid action")

const (
	ActionStart    = "start"
	ActionGuess    = "guess"
	ActionSelect   = "select"
	ActionMode     = "mode"
	ActionSettings = "settings"
)

// Action is one player command. Only the fields its Type needs are read.
type Action struct {
	Type     string                   `json:"type"`
	Country  string                   `json:"country,omitempty"`
	Mode     globequiz.Mode           `json:"mode,omitempty"`
	Settings *globequiz.SettingsPatch `json:"settings,omitempty"`
}

// Sessions applies actions to stored sessions. Load, transition and save run
// under a per-session lock; different sessions proceed in parallel.
type Sessions struct {
	locks   *keyedMutex
	store   Store
	catalog *dataset.Catalog
	broker  *Broker
	pick    globequiz.Picker
	palette globequiz.Palette
	logger  *slog.Logger
}

func NewSessions(store Store, catalog *dataset.Catalog, broker *Broker, pick globequiz.Picker, palette globequiz.Palette, logger *slog.Logger) *Sessions {
	return &Sessions{
		locks:   newKeyedMutex(),
		store:   store,
		catalog: catalog,
		broker:  broker,
		pick:    &lockedPicker{pick: pick},
		palette: palette,
		logger:  logger,
	}
}

func (s *Sessions) Countries() *globequiz.CountrySet { return s.catalog.Countries() }

func (s *Sessions) Create(ctx context.Context, mode globequiz.Mode, settings globequiz.Settings) (globequiz.View, error) {
	sess := globequiz.NewSession(uuid.NewString(), mode, settings)
	if err := s.store.PutSession(ctx, sess); err != nil {
		return globequiz.View{}, err
	}
	s.logger.Debug("session created", "session_id", sess.ID, "mode", sess.Mode)
	return globequiz.NewView(sess, s.Countries(), nil), nil
}

func (s *Sessions) Get(ctx context.Context, id string) (globequiz.Session, error) {
	return s.store.GetSession(ctx, id)
}

func (s *Sessions) View(ctx context.Context, id string) (globequiz.View, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return globequiz.View{}, err
	}
	return globequiz.NewView(sess, s.Countries(), nil), nil
}

func (s *Sessions) Polygons(ctx context.Context, id string) ([]globequiz.Polygon, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return globequiz.Polygons(sess, s.Countries(), s.palette), nil
}

func (s *Sessions) Names(ctx context.Context, id string) ([]string, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return globequiz.SelectableNames(sess, s.Countries()), nil
}

// Apply runs a on the session, saves the result and publishes recenter and
// state events to the session's subscribers.
func (s *Sessions) Apply(ctx context.Context, id string, a Action) (globequiz.View, error) {
	ctx, span := telemetry.Tracer("sessions").Start(ctx, "session."+a.Type)
	defer span.End()
	span.SetAttributes(attribute.String("session.id", id))

	countries := s.Countries()

	unlock := s.locks.Lock(id)
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		unlock()
		return globequiz.View{}, err
	}
	before := sess.Status
	next, recenters, err := a.apply(sess, countries, s.pick)
	if err != nil {
		unlock()
		return globequiz.View{}, err
	}
	if err := s.store.PutSession(ctx, next); err != nil {
		unlock()
		s.logger.Error("saving session", "session_id", id, "error", err)
		return globequiz.View{}, err
	}
	unlock()

	span.SetAttributes(
		attribute.String("session.status", string(next.Status)),
		attribute.Int("session.guesses", len(next.Guesses)),
	)
	if next.Status != before {
		s.logger.Info("session status changed",
			"session_id", id,
			"from", before,
			"to", next.Status,
			"guesses", len(next.Guesses),
		)
	}

	for i := range recenters {
		s.broker.Publish(id, Event{Type: EventRecenter, Recenter: &recenters[i]})
	}
	s.broker.Publish(id, Event{Type: EventState, Status: next.Status, Guesses: len(next.Guesses)})

	return globequiz.NewView(next, countries, recenters), nil
}

func (a Action) apply(sess globequiz.Session, countries *globequiz.CountrySet, pick globequiz.Picker) (globequiz.Session, []globequiz.Recenter, error) {
	switch a.Type {
	case ActionStart:
		return sess.Start(countries, pick), nil, nil
	case ActionGuess:
		next, recenters := sess.Submit(countries, a.Country)
		return next, recenters, nil
	case ActionSelect:
		next, recenters := sess.Select(countries, a.Country)
		return next, recenters, nil
	case ActionMode:
		mode, err := globequiz.ParseMode(string(a.Mode))
		if err != nil {
			return sess, nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
		}
		return sess.SwitchMode(mode), nil, nil
	case ActionSettings:
		if a.Settings == nil {
			return sess, nil, fmt.Errorf("%w: settings are required", ErrInvalidAction)
		}
		settings, err := a.Settings.Merge(sess.Settings)
		if err != nil {
			return sess, nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
		}
		return sess.UpdateSettings(settings), nil, nil
	}
	return sess, nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAction, a.Type)
}
