package server

import (
	"context"
	"errors"

	"github.com/playperu/globequiz/internal/globequiz"
)

var ErrNotFound = errors.New("not found")

// Store persists game sessions by ID.
type Store interface {
	GetSession(ctx context.Context, id string) (globequiz.Session, error)
	PutSession(ctx context.Context, s globequiz.Session) error
}
