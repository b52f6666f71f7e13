package application

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arquivolivre/user-directory/internal/domain/entity"
	repo "github.com/arquivolivre/user-directory/internal/domain/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
)

const tracerName = "user-directory/application"

// Service holds the user business logic. Tracing and logging are injected;
// both are observability side effects only and never change results.
type Service struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
	tracer trace.Tracer
}

// NewService builds a Service. A nil tracer falls back to the global otel
// tracer, which is a no-op unless an SDK is installed; a nil logger discards
// output.
func NewService(r repo.UserRepository, logger *logrus.Logger, tracer trace.Tracer) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Service{Repo: r, Logger: logger, tracer: tracer}
}

func (s *Service) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetAllUsers")
	defer span.End()

	s.Logger.Info("fetching all users")
	users, err := s.Repo.FindAll(ctx)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		return nil, err
	}
	span.SetAttributes(attribute.Int("user.count", len(users)))

	s.Logger.WithField("count", len(users)).Info("retrieved users")
	return users, nil
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetUserByID",
		trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	s.Logger.WithField("user_id", id).Info("fetching user by id")
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		return nil, err
	}
	span.SetAttributes(attribute.Bool("user.found", u != nil))

	if u == nil {
		s.Logger.WithField("user_id", id).Warn("user not found")
		return nil, fmt.Errorf("%w with id: %d", ErrUserNotFound, id)
	}
	s.Logger.WithField("email", u.Email).Info("found user")
	return u, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetUserByEmail",
		trace.WithAttributes(attribute.String("user.email", email)))
	defer span.End()

	s.Logger.WithField("email", email).Info("fetching user by email")
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		return nil, err
	}
	span.SetAttributes(attribute.Bool("user.found", u != nil))

	if u == nil {
		s.Logger.WithField("email", email).Warn("user not found")
		return nil, fmt.Errorf("%w with email: %s", ErrUserNotFound, email)
	}
	return u, nil
}

// CreateUser persists a draft after checking email uniqueness. The check and
// the insert run in one transaction; the unique index on email backstops
// concurrent creates racing past the check.
func (s *Service) CreateUser(ctx context.Context, u *entity.User) (*entity.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.CreateUser",
		trace.WithAttributes(
			attribute.String("user.email", u.Email),
			attribute.String("user.name", u.Name),
		))
	defer span.End()

	s.Logger.WithField("email", u.Email).Info("creating new user")

	err := s.Repo.InTx(ctx, func(r repo.UserRepository) error {
		exists, err := r.ExistsByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
		}
		return r.Save(ctx, u)
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			err = fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
		}
		if errors.Is(err, ErrEmailTaken) {
			s.Logger.WithField("email", u.Email).Error("email already exists")
			span.SetAttributes(
				attribute.Bool("error", true),
				attribute.String("error.type", "duplicate_email"),
			)
		} else {
			span.SetAttributes(attribute.Bool("error", true))
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("user.id", u.ID),
		attribute.Bool("user.created", true),
	)
	s.Logger.WithField("user_id", u.ID).Info("user created successfully")
	return u, nil
}

// UpdateUser overwrites name, email and bio of the stored row; id and
// createdAt are preserved, updatedAt refreshes. The duplicate check only
// runs when the email actually changes.
func (s *Service) UpdateUser(ctx context.Context, id int64, in *entity.User) (*entity.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateUser",
		trace.WithAttributes(
			attribute.Int64("user.id", id),
			attribute.String("user.email", in.Email),
		))
	defer span.End()

	s.Logger.WithField("user_id", id).Info("updating user")

	var updated *entity.User
	err := s.Repo.InTx(ctx, func(r repo.UserRepository) error {
		existing, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w with id: %d", ErrUserNotFound, id)
		}

		if existing.Email != in.Email {
			taken, err := r.ExistsByEmailExcludingID(ctx, in.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: %s", ErrEmailTaken, in.Email)
			}
		}

		existing.Name = in.Name
		existing.Email = in.Email
		existing.Bio = in.Bio
		if err := r.Save(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			err = fmt.Errorf("%w: %s", ErrEmailTaken, in.Email)
		}
		switch {
		case errors.Is(err, ErrUserNotFound):
			s.Logger.WithField("user_id", id).Error("user not found")
			span.SetAttributes(
				attribute.Bool("error", true),
				attribute.String("error.type", "not_found"),
			)
		case errors.Is(err, ErrEmailTaken):
			s.Logger.WithField("email", in.Email).Error("email already exists")
			span.SetAttributes(
				attribute.Bool("error", true),
				attribute.String("error.type", "duplicate_email"),
			)
		default:
			span.SetAttributes(attribute.Bool("error", true))
		}
		return nil, err
	}

	span.SetAttributes(attribute.Bool("user.updated", true))
	s.Logger.WithField("user_id", id).Info("user updated successfully")
	return updated, nil
}

// DeleteUser removes the row and reports whether one existed.
func (s *Service) DeleteUser(ctx context.Context, id int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.DeleteUser",
		trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	s.Logger.WithField("user_id", id).Info("deleting user")
	deleted, err := s.Repo.DeleteByID(ctx, id)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		return false, err
	}
	span.SetAttributes(attribute.Bool("user.deleted", deleted))

	if deleted {
		s.Logger.WithField("user_id", id).Info("user deleted successfully")
	} else {
		s.Logger.WithField("user_id", id).Warn("user not found for deletion")
		span.SetAttributes(attribute.String("error.type", "not_found"))
	}
	return deleted, nil
}

func (s *Service) SearchUsers(ctx context.Context, name string) ([]entity.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.SearchUsers",
		trace.WithAttributes(attribute.String("search.query", name)))
	defer span.End()

	s.Logger.WithField("name", name).Info("searching users")
	users, err := s.Repo.SearchByName(ctx, name)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		return nil, err
	}
	span.SetAttributes(attribute.Int("search.results", len(users)))

	s.Logger.WithFields(logrus.Fields{"name": name, "count": len(users)}).Info("search complete")
	return users, nil
}

func (s *Service) GetRecentUsers(ctx context.Context, days int) ([]entity.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetRecentUsers",
		trace.WithAttributes(attribute.Int("days", days)))
	defer span.End()

	s.Logger.WithField("days", days).Info("fetching recent users")
	users, err := s.Repo.FindRecent(ctx, days)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		return nil, err
	}
	span.SetAttributes(attribute.Int("user.count", len(users)))

	s.Logger.WithFields(logrus.Fields{"days": days, "count": len(users)}).Info("recent users fetched")
	return users, nil
}

func (s *Service) GetUserCount(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetUserCount")
	defer span.End()

	s.Logger.Info("fetching user count")
	count, err := s.Repo.Count(ctx)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		return 0, err
	}
	span.SetAttributes(attribute.Int64("user.count", count))

	s.Logger.WithField("count", count).Info("total user count")
	return count, nil
}
