package dataset

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/playperu/globequiz/internal/globequiz"
	"github.com/playperu/globequiz/internal/telemetry"
)

var ErrNotLoaded = errors.New("country dataset not loaded")

// Catalog holds the current country set. It starts empty and is replaced
// wholesale once the dataset arrives.
type Catalog struct {
	set atomic.Pointer[globequiz.CountrySet]
}

func NewCatalog() *Catalog { return &Catalog{} }

// Countries returns the current set; nil until Replace has been called.
func (c *Catalog) Countries() *globequiz.CountrySet { return c.set.Load() }

func (c *Catalog) Replace(countries []globequiz.Country) {
	c.set.Store(globequiz.NewCountrySet(countries))
}

// Check satisfies health.Checker: it fails until a non-empty set is loaded.
func (c *Catalog) Check(_ context.Context) error {
	if c.Countries().Len() == 0 {
		return ErrNotLoaded
	}
	return nil
}

// Loader performs the one-time dataset fetch.
type Loader struct {
	Source  string
	Timeout time.Duration
	Client  *http.Client
	Logger  *slog.Logger
}

// Run fetches the dataset and fills the catalog. A failure is logged and
// leaves the catalog empty; it never aborts the caller.
func (l *Loader) Run(ctx context.Context, catalog *Catalog) {
	ctx, span := telemetry.Tracer("dataset").Start(ctx, "dataset.load")
	defer span.End()
	span.SetAttributes(attribute.String("dataset.source", l.Source))

	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	countries, stats, err := Fetch(ctx, client, l.Source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		l.Logger.Error("loading country dataset", "source", l.Source, "error", err)
		return
	}

	catalog.Replace(countries)
	span.SetAttributes(
		attribute.Int("dataset.features", stats.Features),
		attribute.Int("dataset.loaded", catalog.Countries().Len()),
		attribute.Int("dataset.skipped", stats.Skipped),
	)
	l.Logger.Info("country dataset loaded",
		"source", l.Source,
		"countries", catalog.Countries().Len(),
		"skipped", stats.Skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
