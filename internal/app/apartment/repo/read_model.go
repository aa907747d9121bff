package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/models/m_apartment"
	"github.com/light-bringer/apartment-registry/internal/pkg/query"
)

// ReadModelImpl implements ReadModel for Spanner.
type ReadModelImpl struct {
	client *spanner.Client
	model  *m_apartment.Model
}

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(client *spanner.Client) contracts.ReadModel {
	return &ReadModelImpl{
		client: client,
		model:  m_apartment.NewModel(),
	}
}

// GetApartmentByID retrieves an apartment DTO by ID.
func (rm *ReadModelImpl) GetApartmentByID(ctx context.Context, apartmentID string) (*contracts.ApartmentDTO, error) {
	row, err := rm.client.Single().ReadRow(ctx, m_apartment.TableName, spanner.Key{apartmentID}, rm.model.Columns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrApartmentNotFound
		}
		return nil, fmt.Errorf("failed to read apartment: %w", err)
	}

	var data m_apartment.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse apartment: %w", err)
	}

	return dataToDTO(&data), nil
}

// ListApartments returns one page of apartments, newest first, and the total
// number of matches. Page and count are read from the same snapshot.
func (rm *ReadModelImpl) ListApartments(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	base := query.From(m_apartment.TableName)
	if filter.OwnerID != "" {
		base = base.Where(query.Eq(m_apartment.OwnerID, filter.OwnerID))
	}
	if filter.City != "" {
		base = base.Where(query.Eq(m_apartment.City, filter.City))
	}

	page := base.
		Select(rm.model.Columns()...).
		OrderBy(m_apartment.CreatedAt, query.Desc).
		ThenBy(m_apartment.ApartmentID, query.Asc).
		Limit(int64(filter.Limit)).
		Offset(int64(filter.Offset))

	txn := rm.client.ReadOnlyTransaction()
	defer txn.Close()

	var total int64
	countIter := txn.Query(ctx, base.Count().Build())
	err := countIter.Do(func(row *spanner.Row) error {
		return row.Column(0, &total)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count apartments: %w", err)
	}

	iter := txn.Query(ctx, page.Build())
	defer iter.Stop()

	apartments := make([]*contracts.ApartmentDTO, 0, filter.Limit)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate apartments: %w", err)
		}

		var data m_apartment.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse apartment: %w", err)
		}

		apartments = append(apartments, dataToDTO(&data))
	}

	return &contracts.ListResult{
		Apartments: apartments,
		TotalCount: total,
	}, nil
}

// dataToDTO converts database Data to an ApartmentDTO.
func dataToDTO(data *m_apartment.Data) *contracts.ApartmentDTO {
	f := dataToFields(data)
	return &contracts.ApartmentDTO{
		ApartmentID:  data.ApartmentID,
		OwnerID:      data.OwnerID,
		Address:      f.Address,
		City:         f.City,
		AreaSqm:      f.AreaSqm,
		Rooms:        f.Rooms,
		Floor:        f.Floor,
		BuildingYear: f.BuildingYear,
		CurrentPrice: f.CurrentPrice,
		Description:  f.Description,
		Version:      data.Version,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
