package fakes

import (
	"context"
	"sort"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
)

// ReadModel implements contracts.ReadModel over a Store.
type ReadModel struct {
	store *Store

	// LastFilter is the filter of the most recent ListApartments call.
	LastFilter *contracts.ListFilter
}

var _ contracts.ReadModel = (*ReadModel)(nil)

func NewReadModel(store *Store) *ReadModel {
	return &ReadModel{store: store}
}

func (rm *ReadModel) GetApartmentByID(_ context.Context, apartmentID string) (*contracts.ApartmentDTO, error) {
	a, ok := rm.store.Apartment(apartmentID)
	if !ok {
		return nil, domain.ErrApartmentNotFound
	}
	return toDTO(a), nil
}

func (rm *ReadModel) ListApartments(_ context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	f := *filter
	rm.LastFilter = &f

	rm.store.mu.Lock()
	var matches []*contracts.ApartmentDTO
	for id, row := range rm.store.apartments {
		if filter.OwnerID != "" && row.ownerID != filter.OwnerID {
			continue
		}
		if filter.City != "" && row.fields.City != filter.City {
			continue
		}
		a, _ := rm.store.apartmentLocked(id)
		matches = append(matches, toDTO(a))
	}
	rm.store.mu.Unlock()

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ApartmentID < matches[j].ApartmentID
	})

	total := int64(len(matches))
	start := min(filter.Offset, len(matches))
	end := len(matches)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matches))
	}

	return &contracts.ListResult{
		Apartments: matches[start:end],
		TotalCount: total,
	}, nil
}

func toDTO(a *domain.Apartment) *contracts.ApartmentDTO {
	return &contracts.ApartmentDTO{
		ApartmentID:  a.ID(),
		OwnerID:      a.OwnerID(),
		Address:      a.Address(),
		City:         a.City(),
		AreaSqm:      a.AreaSqm(),
		Rooms:        a.Rooms(),
		Floor:        a.Floor(),
		BuildingYear: a.BuildingYear(),
		CurrentPrice: a.CurrentPrice(),
		Description:  a.Description(),
		Version:      a.Version(),
		CreatedAt:    a.CreatedAt(),
		UpdatedAt:    a.UpdatedAt(),
	}
}
