package fakes

import (
	"context"
	"fmt"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/repo"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
)

// Committer implements committer.Applier against a Store. Errors go through
// repo.MapSpannerError like the production committer.
type Committer struct {
	store *Store

	// Err fails every commit when set.
	Err error
	// BeforeCommit runs right before a version-checked commit reads the version.
	BeforeCommit func()

	Plans   []*committer.CommitPlan
	Checks  []committer.VersionCheck
	Commits int
}

var _ committer.Applier = (*Committer)(nil)

// NewCommitter creates a Committer writing into store.
func NewCommitter(store *Store) *Committer {
	return &Committer{store: store}
}

// Apply commits plan atomically.
func (c *Committer) Apply(_ context.Context, plan *committer.CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}
	c.Plans = append(c.Plans, plan)

	if err := c.commit(plan, nil); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", repo.MapSpannerError(err))
	}
	return nil
}

// ApplyWithVersionCheck commits plan only if the guarded apartment still has the expected version.
func (c *Committer) ApplyWithVersionCheck(_ context.Context, check committer.VersionCheck, plan *committer.CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}
	c.Plans = append(c.Plans, plan)
	c.Checks = append(c.Checks, check)

	if c.BeforeCommit != nil {
		c.BeforeCommit()
	}

	if err := c.commit(plan, &check); err != nil {
		return fmt.Errorf("failed to apply commit plan with version check: %w", repo.MapSpannerError(err))
	}
	return nil
}

// RunInTransaction runs fn and commits whatever it planned.
func (c *Committer) RunInTransaction(ctx context.Context, fn committer.TxFunc) error {
	plan := committer.NewPlan()
	if err := fn(ctx, nil, plan); err != nil {
		c.store.discard(plan.Mutations())
		return fmt.Errorf("transaction failed: %w", repo.MapSpannerError(err))
	}
	if plan.IsEmpty() {
		return nil
	}
	c.Plans = append(c.Plans, plan)

	if err := c.commit(plan, nil); err != nil {
		return fmt.Errorf("transaction failed: %w", repo.MapSpannerError(err))
	}
	return nil
}

func (c *Committer) commit(plan *committer.CommitPlan, check *committer.VersionCheck) error {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	fail := func(err error) error {
		for _, mut := range plan.Mutations() {
			delete(s.staged, mut)
		}
		return err
	}

	if c.Err != nil {
		return fail(c.Err)
	}

	if check != nil {
		id, _ := check.Key[0].(string)
		row, ok := s.apartments[id]
		if !ok {
			return fail(domain.ErrApartmentNotFound)
		}
		if row.version != check.Expected {
			return fail(fmt.Errorf("%w: %s %v expected %s %d, got %d",
				committer.ErrVersionConflict, check.Table, check.Key, check.Column, check.Expected, row.version))
		}
	}

	s.commitLocked(plan.Mutations())
	c.Commits++
	return nil
}
