package repo

import (
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
)

// MapSpannerError classifies a store error into the domain error classes.
// The original error stays in the chain. Unknown errors pass through unchanged.
func MapSpannerError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, committer.ErrVersionConflict) {
		return fmt.Errorf("%w: %w", domain.ErrTransactionConflict, err)
	}

	switch spanner.ErrCode(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %w", domain.ErrApartmentNotFound, err)
	case codes.Aborted:
		return fmt.Errorf("%w: %w", domain.ErrTransactionConflict, err)
	case codes.AlreadyExists, codes.FailedPrecondition, codes.InvalidArgument, codes.OutOfRange:
		return fmt.Errorf("%w: %w", domain.ErrConstraintViolation, err)
	}

	return err
}
