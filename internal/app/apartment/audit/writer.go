// Package audit turns a diff set into history rows inside the caller's commit plan.
package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
)

// Entry describes one audited operation on an apartment.
type Entry struct {
	ApartmentID string
	ActorID     string
	Changes     []domain.FieldChange
	At          time.Time
}

// Result counts the history rows added to a plan.
type Result struct {
	ChangeRows int
	PriceRows  int
}

// Writer appends ChangeHistory and PriceHistory inserts to a CommitPlan.
// It never commits; the rows land in the same transaction as the entity write.
type Writer struct {
	priceRepo  contracts.PriceHistoryRepository
	changeRepo contracts.ChangeHistoryRepository
	newID      func() string
}

// Option configures a Writer.
type Option func(*Writer)

// WithIDGenerator replaces the uuid generator used for history ids.
func WithIDGenerator(fn func() string) Option {
	return func(w *Writer) {
		w.newID = fn
	}
}

// NewWriter creates a new audit Writer.
func NewWriter(
	priceRepo contracts.PriceHistoryRepository,
	changeRepo contracts.ChangeHistoryRepository,
	opts ...Option,
) *Writer {
	w := &Writer{
		priceRepo:  priceRepo,
		changeRepo: changeRepo,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RecordChanges adds one ChangeHistory row per entry change and, when the
// price is part of the diff, exactly one PriceHistory row with typed prices.
func (w *Writer) RecordChanges(plan *committer.CommitPlan, entry Entry) (Result, error) {
	var res Result
	if len(entry.Changes) == 0 {
		return res, nil
	}
	if entry.ActorID == "" {
		return res, domain.ErrMissingActor
	}

	if c, ok := domain.FindChange(entry.Changes, domain.FieldCurrentPrice); ok {
		if err := w.addPriceRow(plan, entry, c); err != nil {
			return res, err
		}
		res.PriceRows = 1
	}

	n, err := w.addChangeRows(plan, entry)
	if err != nil {
		return res, err
	}
	res.ChangeRows = n

	return res, nil
}

// RecordCreation seeds the change log of a new apartment. Entry changes are
// the creation values (old value nil). No price row is written.
func (w *Writer) RecordCreation(plan *committer.CommitPlan, entry Entry) (Result, error) {
	if len(entry.Changes) == 0 {
		return Result{}, nil
	}
	if entry.ActorID == "" {
		return Result{}, domain.ErrMissingActor
	}

	n, err := w.addChangeRows(plan, entry)
	if err != nil {
		return Result{}, err
	}
	return Result{ChangeRows: n}, nil
}

func (w *Writer) addPriceRow(plan *committer.CommitPlan, entry Entry, c domain.FieldChange) error {
	oldPrice, okOld := c.OldValue.(float64)
	newPrice, okNew := c.NewValue.(float64)
	if !okOld || !okNew {
		return fmt.Errorf("%w: price change must carry float values, got %T -> %T",
			domain.ErrConstraintViolation, c.OldValue, c.NewValue)
	}

	record, err := domain.NewPriceHistory(w.newID(), entry.ApartmentID, oldPrice, newPrice, entry.ActorID, entry.At)
	if err != nil {
		return err
	}

	mut, err := w.priceRepo.InsertMut(record)
	if err != nil {
		return fmt.Errorf("failed to plan price history: %w", err)
	}
	plan.Add(mut)
	return nil
}

func (w *Writer) addChangeRows(plan *committer.CommitPlan, entry Entry) (int, error) {
	for _, c := range entry.Changes {
		record := &domain.ChangeHistory{
			ID:          w.newID(),
			ApartmentID: entry.ApartmentID,
			FieldName:   c.Field,
			OldValue:    domain.FormatValue(c.OldValue),
			NewValue:    domain.FormatValue(c.NewValue),
			ChangedAt:   entry.At,
			ChangedByID: entry.ActorID,
		}

		mut, err := w.changeRepo.InsertMut(record)
		if err != nil {
			return 0, fmt.Errorf("failed to plan change history for %s: %w", c.Field, err)
		}
		plan.Add(mut)
	}
	return len(entry.Changes), nil
}
