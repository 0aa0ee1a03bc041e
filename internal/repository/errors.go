package repository

import (
	"errors"

	"github.com/MrSnakeDoc/haven/internal/store"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidBookmark = errors.New("invalid bookmark")
	ErrInvalidCategory = errors.New("invalid category")
	ErrUnknownCategory = errors.New("unknown category")
	ErrDefaultCategory = errors.New("default category cannot be deleted")
	ErrInvalidOrder    = errors.New("invalid category order")
	ErrInvalidSetting  = errors.New("invalid setting")
	ErrNothingPending  = errors.New("no bookmark pending deletion")

	// ErrPersist is returned when a mutation was applied in memory but the
	// collection could not be written back. The in-memory change is kept.
	ErrPersist = store.ErrPersist
)
