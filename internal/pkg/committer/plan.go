// Package committer is the unit of work used by every write use case.
//
// Repositories never write. They return Spanner mutations, the use case
// collects them into a CommitPlan, and the Committer applies the whole plan in
// one transaction. For an apartment update the plan holds the apartment row
// mutation together with every ChangeHistory and PriceHistory insert, so the
// audit trail commits or rolls back with the change it describes.
//
//	plan := committer.NewPlan()
//	plan.Add(apartmentMut)
//	if _, err := auditWriter.RecordChanges(plan, entry); err != nil {
//	    return err
//	}
//	return comm.ApplyWithVersionCheck(ctx, check, plan)
package committer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
)

// ErrVersionConflict is returned when the row version changed between load and commit.
var ErrVersionConflict = errors.New("concurrent modification detected")

// CommitPlan collects mutations that must be applied atomically.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add appends a mutation. Nil mutations are ignored.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple appends several mutations in order.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// VersionCheck identifies the row whose version column guards a commit.
type VersionCheck struct {
	Table    string
	Key      spanner.Key
	Column   string
	Expected int64
}

// TxFunc runs inside a read-write transaction and fills plan with the writes to buffer.
type TxFunc func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *CommitPlan) error

// Applier is the transaction boundary the use cases depend on.
type Applier interface {
	Apply(ctx context.Context, plan *CommitPlan) error
	ApplyWithVersionCheck(ctx context.Context, check VersionCheck, plan *CommitPlan) error
	RunInTransaction(ctx context.Context, fn TxFunc) error
}

// ErrorMapper translates store errors into caller-facing errors.
type ErrorMapper func(error) error

// Option configures a Committer.
type Option func(*Committer)

// WithErrorMapper installs a translator applied to every commit failure.
func WithErrorMapper(mapper ErrorMapper) Option {
	return func(c *Committer) {
		c.mapErr = mapper
	}
}

// Committer applies CommitPlans against a Spanner database.
type Committer struct {
	client *spanner.Client
	mapErr ErrorMapper
}

var _ Applier = (*Committer)(nil)

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client, opts ...Option) *Committer {
	c := &Committer{
		client: client,
		mapErr: func(err error) error { return err },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply executes the CommitPlan atomically.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", c.mapErr(err))
	}

	return nil
}

// ApplyWithVersionCheck applies the plan only if the guarded row still has the expected version.
// A mismatch is reported as ErrVersionConflict (passed through the error mapper).
func (c *Committer) ApplyWithVersionCheck(ctx context.Context, check VersionCheck, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, check.Table, check.Key, []string{check.Column})
		if err != nil {
			return err
		}

		var current int64
		if err := row.Column(0, &current); err != nil {
			return fmt.Errorf("failed to parse %s: %w", check.Column, err)
		}

		if current != check.Expected {
			return fmt.Errorf("%w: %s %v expected %s %d, got %d",
				ErrVersionConflict, check.Table, check.Key, check.Column, check.Expected, current)
		}

		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		return fmt.Errorf("failed to apply commit plan with version check: %w", c.mapErr(err))
	}

	return nil
}

// RunInTransaction runs fn in a read-write transaction and buffers whatever it planned.
// Spanner may retry fn on abort, so fn gets a fresh plan on every attempt.
func (c *Committer) RunInTransaction(ctx context.Context, fn TxFunc) error {
	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		plan := NewPlan()
		if err := fn(ctx, txn, plan); err != nil {
			return err
		}
		if plan.IsEmpty() {
			return nil
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", c.mapErr(err))
	}
	return nil
}
