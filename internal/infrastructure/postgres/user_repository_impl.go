package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arquivolivre/user-directory/internal/domain/entity"
	"github.com/arquivolivre/user-directory/internal/domain/repository"
)

const pgUniqueViolation = "23505"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// repository code serves pooled and transaction-scoped calls.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	q    querier
	pool *pgxpool.Pool // nil when transaction-scoped
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{q: pool, pool: pool}
}

const userColumns = "id, name, email, COALESCE(bio, ''), created_at, updated_at"

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Bio, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func collectUsers(rows pgx.Rows, err error) ([]entity.User, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Bio, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return scanUser(r.q.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.q.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	return collectUsers(r.q.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
	`))
}

func (r *UserRepository) SearchByName(ctx context.Context, name string) ([]entity.User, error) {
	return collectUsers(r.q.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE name ILIKE '%' || $1 || '%'
	`, name))
}

func (r *UserRepository) FindRecent(ctx context.Context, days int) ([]entity.User, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	return collectUsers(r.q.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE created_at >= $1
	`, cutoff))
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id != $2)
	`, email, id).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	var err error
	if !u.Saved() {
		err = r.q.QueryRow(ctx, `
			INSERT INTO users (name, email, bio)
			VALUES ($1, $2, NULLIF($3, ''))
			RETURNING id, created_at, updated_at
		`, u.Name, u.Email, u.Bio).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	} else {
		err = r.q.QueryRow(ctx, `
			UPDATE users
			SET name = $1, email = $2, bio = NULLIF($3, ''), updated_at = now()
			WHERE id = $4
			RETURNING updated_at
		`, u.Name, u.Email, u.Bio, u.ID).Scan(&u.UpdatedAt)
	}
	return mapSaveError(err)
}

// mapSaveError translates a unique-index violation on email into the typed
// duplicate error so concurrent creates racing past the existence check are
// still rejected.
func mapSaveError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return repository.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) InTx(ctx context.Context, fn func(repository.UserRepository) error) error {
	if r.pool == nil {
		// already transaction-scoped
		return fn(r)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(&UserRepository{q: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

var _ repository.UserRepository = (*UserRepository)(nil)
