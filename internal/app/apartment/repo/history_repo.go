package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/models/m_change_history"
	"github.com/light-bringer/apartment-registry/internal/models/m_price_history"
	"github.com/light-bringer/apartment-registry/internal/pkg/query"
)

// PriceHistoryRepo implements PriceHistoryRepository for Spanner.
type PriceHistoryRepo struct {
	client *spanner.Client
	model  *m_price_history.Model
}

// NewPriceHistoryRepo creates a new PriceHistoryRepo.
func NewPriceHistoryRepo(client *spanner.Client) contracts.PriceHistoryRepository {
	return &PriceHistoryRepo{
		client: client,
		model:  m_price_history.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a price change record.
func (r *PriceHistoryRepo) InsertMut(record *domain.PriceHistory) (*spanner.Mutation, error) {
	return r.model.InsertMut(&m_price_history.Data{
		ApartmentID: record.ApartmentID,
		HistoryID:   record.ID,
		OldPrice:    record.OldPrice,
		NewPrice:    record.NewPrice,
		ChangedAt:   record.ChangedAt,
		ChangedByID: record.ChangedByID,
	})
}

// ListByApartment retrieves price history for an apartment, most recent first.
func (r *PriceHistoryRepo) ListByApartment(ctx context.Context, apartmentID string, limit int) ([]*domain.PriceHistory, error) {
	stmt := historyQuery(m_price_history.TableName, r.model.ReadColumns(), apartmentID, limit)

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var records []*domain.PriceHistory
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate price history: %w", err)
		}

		var data m_price_history.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse price history: %w", err)
		}

		records = append(records, &domain.PriceHistory{
			ID:          data.HistoryID,
			ApartmentID: data.ApartmentID,
			OldPrice:    data.OldPrice,
			NewPrice:    data.NewPrice,
			ChangedAt:   data.ChangedAt,
			ChangedByID: data.ChangedByID,
		})
	}

	return records, nil
}

// ChangeHistoryRepo implements ChangeHistoryRepository for Spanner.
type ChangeHistoryRepo struct {
	client *spanner.Client
	model  *m_change_history.Model
}

// NewChangeHistoryRepo creates a new ChangeHistoryRepo.
func NewChangeHistoryRepo(client *spanner.Client) contracts.ChangeHistoryRepository {
	return &ChangeHistoryRepo{
		client: client,
		model:  m_change_history.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a field change record.
func (r *ChangeHistoryRepo) InsertMut(record *domain.ChangeHistory) (*spanner.Mutation, error) {
	return r.model.InsertMut(&m_change_history.Data{
		ApartmentID: record.ApartmentID,
		HistoryID:   record.ID,
		FieldName:   record.FieldName,
		OldValue:    nullString(record.OldValue),
		NewValue:    nullString(record.NewValue),
		ChangedAt:   record.ChangedAt,
		ChangedByID: record.ChangedByID,
	})
}

// ListByApartment retrieves change history for an apartment, most recent first.
func (r *ChangeHistoryRepo) ListByApartment(ctx context.Context, apartmentID string, limit int) ([]*domain.ChangeHistory, error) {
	stmt := historyQuery(m_change_history.TableName, r.model.ReadColumns(), apartmentID, limit)

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var records []*domain.ChangeHistory
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate change history: %w", err)
		}

		var data m_change_history.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse change history: %w", err)
		}

		records = append(records, &domain.ChangeHistory{
			ID:          data.HistoryID,
			ApartmentID: data.ApartmentID,
			FieldName:   data.FieldName,
			OldValue:    fromNullString(data.OldValue),
			NewValue:    fromNullString(data.NewValue),
			ChangedAt:   data.ChangedAt,
			ChangedByID: data.ChangedByID,
		})
	}

	return records, nil
}

// historyQuery selects one apartment's rows of a history table, newest first.
// Rows written by the same commit share changed_at; history_id breaks the tie.
func historyQuery(table string, columns []string, apartmentID string, limit int) spanner.Statement {
	b := query.From(table).
		Select(columns...).
		Where(query.Eq("apartment_id", apartmentID)).
		OrderBy("changed_at", query.Desc).
		ThenBy("history_id", query.Asc)
	if limit > 0 {
		b = b.Limit(int64(limit))
	}
	return b.Build()
}
