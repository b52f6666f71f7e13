package repository

import (
	"context"
	"errors"

	"github.com/arquivolivre/user-directory/internal/domain/entity"
)

// ErrDuplicateEmail is returned by Save when the email unique index rejects
// an insert or update.
var ErrDuplicateEmail = errors.New("duplicate email")

// UserRepository defines the interface for user-related database operations.
// Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context) ([]entity.User, error)

	// SearchByName matches name case-insensitively by substring;
	// an empty query matches every row.
	SearchByName(ctx context.Context, name string) ([]entity.User, error)

	// FindRecent returns users created within the last `days` days.
	FindRecent(ctx context.Context, days int) ([]entity.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByEmailExcludingID reports whether a row other than id holds email.
	ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error)

	Count(ctx context.Context) (int64, error)

	// DeleteByID returns true iff a row was removed.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// Save inserts the user when its ID is zero, assigning a fresh id and both
	// timestamps; otherwise it updates the mutable fields of the existing row
	// and refreshes UpdatedAt.
	Save(ctx context.Context, u *entity.User) error

	// InTx runs fn against a transaction-scoped repository. The whole closure
	// commits or rolls back as one unit.
	InTx(ctx context.Context, fn func(UserRepository) error) error
}
