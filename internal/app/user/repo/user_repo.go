package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/apartment-registry/internal/app/user/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/user/domain"
	"github.com/light-bringer/apartment-registry/internal/models/m_user"
	"github.com/light-bringer/apartment-registry/internal/pkg/query"
)

// UserRepo implements UserRepository for Spanner.
type UserRepo struct {
	client *spanner.Client
	model  *m_user.Model
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(client *spanner.Client) contracts.UserRepository {
	return &UserRepo{
		client: client,
		model:  m_user.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a new user.
func (r *UserRepo) InsertMut(user *domain.User) *spanner.Mutation {
	data := &m_user.Data{
		UserID:         user.ID(),
		Email:          user.Email(),
		HashedPassword: user.HashedPassword(),
		IsActive:       user.IsActive(),
		IsSuperuser:    user.IsSuperuser(),
		CreatedAt:      user.CreatedAt(),
	}
	if name := user.FullName(); name != nil {
		data.FullName = spanner.NullString{StringVal: *name, Valid: true}
	}
	return r.model.InsertMut(data)
}

// DeleteMut creates a mutation deleting the user row.
func (r *UserRepo) DeleteMut(userID string) *spanner.Mutation {
	return r.model.DeleteMut(userID)
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	row, err := r.client.Single().ReadRow(ctx, m_user.TableName, spanner.Key{userID}, r.model.Columns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}

	var data m_user.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}

	var fullName *string
	if data.FullName.Valid {
		fullName = &data.FullName.StringVal
	}

	return domain.ReconstructUser(
		data.UserID,
		data.Email,
		data.HashedPassword,
		fullName,
		data.IsActive,
		data.IsSuperuser,
		data.CreatedAt,
	), nil
}

// Exists checks inside txn whether the user row exists.
func (r *UserRepo) Exists(ctx context.Context, txn *spanner.ReadWriteTransaction, userID string) (bool, error) {
	_, err := txn.ReadRow(ctx, m_user.TableName, spanner.Key{userID}, []string{m_user.UserID})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return true, nil
}

// EmailTaken checks inside txn whether email is already registered.
func (r *UserRepo) EmailTaken(ctx context.Context, txn *spanner.ReadWriteTransaction, email string) (bool, error) {
	stmt := query.From(m_user.TableName).
		Select(m_user.UserID).
		Where(query.Eq(m_user.Email, email)).
		Limit(1).
		Build()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up email: %w", err)
	}
	return true, nil
}
