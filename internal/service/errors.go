package service

import (
	"errors"
	"fmt"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/repository"
)

var (
	ErrInvalidProfile    = errors.New("invalid profile")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoProfile         = errors.New("profile not found")
	ErrDuplicateFavorite = errors.New("favorite meal with this name already exists")
	ErrNotFound          = repository.ErrNotFound
)

// AggregationError - итоги дня не собраны из-за ошибки чтения
type AggregationError struct {
	UserID int64
	Date   string
	Op     string
	Err    error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("daily summary %d/%s: %s: %v", e.UserID, e.Date, e.Op, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }
