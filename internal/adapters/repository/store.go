// Package repository keeps loaded activities ordered by start time.
package repository

import (
	"context"
	"time"

	"github.com/okian/stride/internal/domain/model"
)

// Store provides read/write access to the loaded activity history.
type Store interface {
	// Add inserts a record keeping date order. Records with the same start
	// time keep insertion order.
	Add(ctx context.Context, rec model.ActivityRecord) error

	// AddAll inserts every record or none of them. A record without a date
	// fails the whole batch.
	AddAll(ctx context.Context, recs []model.ActivityRecord) error

	// All returns a copy of every record, oldest first.
	All(ctx context.Context) []model.ActivityRecord

	// Range returns records with from <= Date < to, oldest first.
	Range(ctx context.Context, from, to time.Time) ([]model.ActivityRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
