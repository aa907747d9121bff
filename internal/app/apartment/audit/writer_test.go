package audit_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/audit"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
	"github.com/light-bringer/apartment-registry/tests/fakes"
)

var at = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sequentialIDs() audit.Option {
	n := 0
	return audit.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("h-%d", n)
	})
}

type env struct {
	store     *fakes.Store
	prices    *fakes.PriceHistoryRepo
	changes   *fakes.ChangeHistoryRepo
	committer *fakes.Committer
	writer    *audit.Writer
}

func newEnv() *env {
	store := fakes.NewStore()
	prices := fakes.NewPriceHistoryRepo(store)
	changes := fakes.NewChangeHistoryRepo(store)
	return &env{
		store:     store,
		prices:    prices,
		changes:   changes,
		committer: fakes.NewCommitter(store),
		writer:    audit.NewWriter(prices, changes, sequentialIDs()),
	}
}

func (e *env) commit(t *testing.T, plan *committer.CommitPlan) {
	t.Helper()
	require.NoError(t, e.committer.Apply(t.Context(), plan))
}

func TestRecordChanges_PriceChange(t *testing.T) {
	e := newEnv()
	plan := committer.NewPlan()

	res, err := e.writer.RecordChanges(plan, audit.Entry{
		ApartmentID: "apt-1",
		ActorID:     "user-1",
		Changes:     []domain.FieldChange{{Field: domain.FieldCurrentPrice, OldValue: 1000.0, NewValue: 1200.0}},
		At:          at,
	})
	require.NoError(t, err)
	assert.Equal(t, audit.Result{ChangeRows: 1, PriceRows: 1}, res)
	assert.Equal(t, 2, plan.Count())

	e.commit(t, plan)

	prices := e.store.PriceHistory("apt-1")
	require.Len(t, prices, 1)
	assert.Equal(t, 1000.0, prices[0].OldPrice)
	assert.Equal(t, 1200.0, prices[0].NewPrice)
	assert.Equal(t, "user-1", prices[0].ChangedByID)
	assert.Equal(t, at, prices[0].ChangedAt)

	changes := e.store.ChangeHistory("apt-1")
	require.Len(t, changes, 1)
	assert.Equal(t, domain.FieldCurrentPrice, changes[0].FieldName)
	assert.Equal(t, "1000.0", *changes[0].OldValue)
	assert.Equal(t, "1200.0", *changes[0].NewValue)
	assert.Equal(t, "user-1", changes[0].ChangedByID)
}

func TestRecordChanges_NullsStayNull(t *testing.T) {
	e := newEnv()
	plan := committer.NewPlan()

	_, err := e.writer.RecordChanges(plan, audit.Entry{
		ApartmentID: "apt-1",
		ActorID:     "user-1",
		Changes: []domain.FieldChange{
			{Field: domain.FieldRooms, OldValue: int64(2), NewValue: nil},
			{Field: domain.FieldDescription, OldValue: nil, NewValue: "Sunny"},
		},
		At: at,
	})
	require.NoError(t, err)
	e.commit(t, plan)

	changes := e.store.ChangeHistory("apt-1")
	require.Len(t, changes, 2)

	assert.Equal(t, domain.FieldRooms, changes[0].FieldName)
	assert.Equal(t, "2", *changes[0].OldValue)
	assert.Nil(t, changes[0].NewValue)

	assert.Equal(t, domain.FieldDescription, changes[1].FieldName)
	assert.Nil(t, changes[1].OldValue)
	assert.Equal(t, "Sunny", *changes[1].NewValue)

	assert.Empty(t, e.store.PriceHistory("apt-1"))
}

func TestRecordChanges_EmptyDiffWritesNothing(t *testing.T) {
	e := newEnv()
	plan := committer.NewPlan()

	res, err := e.writer.RecordChanges(plan, audit.Entry{ApartmentID: "apt-1", ActorID: "user-1", At: at})
	require.NoError(t, err)
	assert.Equal(t, audit.Result{}, res)
	assert.True(t, plan.IsEmpty())
}

func TestRecordChanges_MissingActor(t *testing.T) {
	e := newEnv()
	plan := committer.NewPlan()

	_, err := e.writer.RecordChanges(plan, audit.Entry{
		ApartmentID: "apt-1",
		Changes:     []domain.FieldChange{{Field: domain.FieldCity, OldValue: "a", NewValue: "b"}},
		At:          at,
	})
	assert.ErrorIs(t, err, domain.ErrMissingActor)
	assert.True(t, plan.IsEmpty())
}

func TestRecordChanges_InsertFailureFailsWholeEntry(t *testing.T) {
	e := newEnv()
	boom := errors.New("boom")
	e.changes.InsertErr = boom
	plan := committer.NewPlan()

	_, err := e.writer.RecordChanges(plan, audit.Entry{
		ApartmentID: "apt-1",
		ActorID:     "user-1",
		Changes:     []domain.FieldChange{{Field: domain.FieldCity, OldValue: "a", NewValue: "b"}},
		At:          at,
	})
	assert.ErrorIs(t, err, boom)
}

func TestRecordChanges_RejectsUntypedPrice(t *testing.T) {
	e := newEnv()

	_, err := e.writer.RecordChanges(committer.NewPlan(), audit.Entry{
		ApartmentID: "apt-1",
		ActorID:     "user-1",
		Changes:     []domain.FieldChange{{Field: domain.FieldCurrentPrice, OldValue: "1000", NewValue: 1200.0}},
		At:          at,
	})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
}

func TestRecordCreation(t *testing.T) {
	e := newEnv()
	plan := committer.NewPlan()

	fields := &domain.ApartmentFields{Address: "1 Main St", City: "Springfield", CurrentPrice: 500.0}
	res, err := e.writer.RecordCreation(plan, audit.Entry{
		ApartmentID: "apt-1",
		ActorID:     "owner-1",
		Changes:     fields.InitialValues(),
		At:          at,
	})
	require.NoError(t, err)
	assert.Equal(t, audit.Result{ChangeRows: 3}, res)
	e.commit(t, plan)

	changes := e.store.ChangeHistory("apt-1")
	require.Len(t, changes, 3)
	for _, c := range changes {
		assert.Nil(t, c.OldValue)
		assert.Equal(t, "owner-1", c.ChangedByID)
	}
	assert.Equal(t, "500.0", *changes[2].NewValue)
	assert.Empty(t, e.store.PriceHistory("apt-1"), "creation never writes price history")
}

func TestWriter_UsesGeneratedIDs(t *testing.T) {
	e := newEnv()
	plan := committer.NewPlan()

	_, err := e.writer.RecordChanges(plan, audit.Entry{
		ApartmentID: "apt-1",
		ActorID:     "user-1",
		Changes: []domain.FieldChange{
			{Field: domain.FieldCity, OldValue: "a", NewValue: "b"},
			{Field: domain.FieldCurrentPrice, OldValue: 1.0, NewValue: 2.0},
		},
		At: at,
	})
	require.NoError(t, err)
	e.commit(t, plan)

	assert.Equal(t, "h-1", e.store.PriceHistory("apt-1")[0].ID)
	changes := e.store.ChangeHistory("apt-1")
	assert.Equal(t, "h-2", changes[0].ID)
	assert.Equal(t, "h-3", changes[1].ID)
}
