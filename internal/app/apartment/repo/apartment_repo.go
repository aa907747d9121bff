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
	"github.com/light-bringer/apartment-registry/internal/models/m_change_history"
	"github.com/light-bringer/apartment-registry/internal/models/m_price_history"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
	"github.com/light-bringer/apartment-registry/internal/pkg/query"
)

// ApartmentRepo implements ApartmentRepository for Spanner.
type ApartmentRepo struct {
	client       *spanner.Client
	model        *m_apartment.Model
	priceModel   *m_price_history.Model
	changesModel *m_change_history.Model
}

// NewApartmentRepo creates a new ApartmentRepo.
func NewApartmentRepo(client *spanner.Client) contracts.ApartmentRepository {
	return &ApartmentRepo{
		client:       client,
		model:        m_apartment.NewModel(),
		priceModel:   m_price_history.NewModel(),
		changesModel: m_change_history.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a new apartment.
func (r *ApartmentRepo) InsertMut(apartment *domain.Apartment) (*spanner.Mutation, error) {
	return r.model.InsertMut(domainToData(apartment)), nil
}

// UpdateMut creates a mutation for updating an apartment (only dirty fields).
func (r *ApartmentRepo) UpdateMut(apartment *domain.Apartment) (*spanner.Mutation, error) {
	changes := apartment.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})
	for _, field := range changes.DirtyFields() {
		val, err := columnValue(apartment, field)
		if err != nil {
			return nil, err
		}
		updates[field] = val
	}

	// Increment version for optimistic locking
	updates[m_apartment.Version] = apartment.Version() + 1

	return r.model.UpdateMut(apartment.ID(), updates), nil
}

// VersionCheck expects the stored version to still match the loaded one.
func (r *ApartmentRepo) VersionCheck(apartment *domain.Apartment) committer.VersionCheck {
	return committer.VersionCheck{
		Table:    m_apartment.TableName,
		Key:      spanner.Key{apartment.ID()},
		Column:   m_apartment.Version,
		Expected: apartment.Version(),
	}
}

// DeleteMuts removes the apartment together with both of its history logs.
// The interleaved tables cascade as well; the explicit deletes keep the
// commit self-contained.
func (r *ApartmentRepo) DeleteMuts(apartmentID string) []*spanner.Mutation {
	return []*spanner.Mutation{
		r.priceModel.DeleteByApartmentMut(apartmentID),
		r.changesModel.DeleteByApartmentMut(apartmentID),
		r.model.DeleteMut(apartmentID),
	}
}

// GetByID retrieves an apartment by ID, reconstructing the domain aggregate.
func (r *ApartmentRepo) GetByID(ctx context.Context, apartmentID string) (*domain.Apartment, error) {
	row, err := r.client.Single().ReadRow(ctx, m_apartment.TableName, spanner.Key{apartmentID}, r.model.Columns())
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

	return dataToDomain(&data), nil
}

// ListIDsByOwner reads the ids of an owner's apartments inside txn.
func (r *ApartmentRepo) ListIDsByOwner(ctx context.Context, txn *spanner.ReadWriteTransaction, ownerID string) ([]string, error) {
	stmt := query.From(m_apartment.TableName).
		Select(m_apartment.ApartmentID).
		Where(query.Eq(m_apartment.OwnerID, ownerID)).
		Build()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	var ids []string
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate apartments: %w", err)
		}

		var id string
		if err := row.Column(0, &id); err != nil {
			return nil, fmt.Errorf("failed to parse apartment id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// columnValue returns the storage value of one dirty field.
func columnValue(a *domain.Apartment, field string) (interface{}, error) {
	switch field {
	case domain.FieldAddress:
		return a.Address(), nil
	case domain.FieldCity:
		return a.City(), nil
	case domain.FieldAreaSqm:
		return nullFloat(a.AreaSqm()), nil
	case domain.FieldRooms:
		return nullInt(a.Rooms()), nil
	case domain.FieldFloor:
		return nullInt(a.Floor()), nil
	case domain.FieldBuildingYear:
		return nullInt(a.BuildingYear()), nil
	case domain.FieldCurrentPrice:
		return a.CurrentPrice(), nil
	case domain.FieldDescription:
		return nullString(a.Description()), nil
	case domain.FieldUpdatedAt:
		return a.UpdatedAt(), nil
	}
	return nil, fmt.Errorf("unknown apartment field %q", field)
}

// domainToData converts a domain Apartment to database Data.
func domainToData(a *domain.Apartment) *m_apartment.Data {
	return &m_apartment.Data{
		ApartmentID:  a.ID(),
		OwnerID:      a.OwnerID(),
		Address:      a.Address(),
		City:         a.City(),
		AreaSqm:      nullFloat(a.AreaSqm()),
		Rooms:        nullInt(a.Rooms()),
		Floor:        nullInt(a.Floor()),
		BuildingYear: nullInt(a.BuildingYear()),
		CurrentPrice: a.CurrentPrice(),
		Description:  nullString(a.Description()),
		Version:      a.Version(),
		CreatedAt:    a.CreatedAt(),
		UpdatedAt:    a.UpdatedAt(),
	}
}

// dataToDomain converts database Data to a domain Apartment.
func dataToDomain(data *m_apartment.Data) *domain.Apartment {
	return domain.ReconstructApartment(
		data.ApartmentID,
		data.OwnerID,
		dataToFields(data),
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	)
}

func dataToFields(data *m_apartment.Data) *domain.ApartmentFields {
	f := &domain.ApartmentFields{
		Address:      data.Address,
		City:         data.City,
		CurrentPrice: data.CurrentPrice,
	}
	if data.AreaSqm.Valid {
		f.AreaSqm = &data.AreaSqm.Float64
	}
	if data.Rooms.Valid {
		f.Rooms = &data.Rooms.Int64
	}
	if data.Floor.Valid {
		f.Floor = &data.Floor.Int64
	}
	if data.BuildingYear.Valid {
		f.BuildingYear = &data.BuildingYear.Int64
	}
	if data.Description.Valid {
		f.Description = &data.Description.StringVal
	}
	return f
}

func nullFloat(p *float64) spanner.NullFloat64 {
	if p == nil {
		return spanner.NullFloat64{}
	}
	return spanner.NullFloat64{Float64: *p, Valid: true}
}

func nullInt(p *int64) spanner.NullInt64 {
	if p == nil {
		return spanner.NullInt64{}
	}
	return spanner.NullInt64{Int64: *p, Valid: true}
}

func nullString(p *string) spanner.NullString {
	if p == nil {
		return spanner.NullString{}
	}
	return spanner.NullString{StringVal: *p, Valid: true}
}

func fromNullString(ns spanner.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.StringVal
	return &s
}
