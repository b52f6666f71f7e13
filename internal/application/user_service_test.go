package application

import (
	"context"
	"errors"
	"testing"

	"github.com/arquivolivre/user-directory/internal/domain/entity"
	"github.com/arquivolivre/user-directory/internal/domain/repository"
	"github.com/arquivolivre/user-directory/internal/infrastructure/memory"
)

func newTestService() (*Service, *memory.UserRepository) {
	repo := memory.NewUserRepository()
	return NewService(repo, nil, nil), repo
}

func TestCreateUser_Success(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.CreateUser(context.Background(), entity.NewUser("John Doe", "john@example.com", "dev"))
	if err != nil {
		t.Fatalf("expected create to succeed, got: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected created user to carry an id")
	}
	if !u.CreatedAt.Equal(u.UpdatedAt) {
		t.Fatal("expected createdAt == updatedAt on create")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, entity.NewUser("User A", "a@x.com", "")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.CreateUser(ctx, entity.NewUser("User B", "a@x.com", ""))
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got: %v", err)
	}

	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("expected count to stay 1 after rejected create, got %d", n)
	}
}

func TestUpdateUser_Success(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, entity.NewUser("John Doe", "john@example.com", ""))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateUser(ctx, created.ID, entity.NewUser("John Q. Doe", "john@example.com", "new bio"))
	if err != nil {
		t.Fatalf("expected update to succeed, got: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatal("id must be preserved on update")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("createdAt must be preserved on update")
	}
	if updated.Name != "John Q. Doe" || updated.Bio != "new bio" {
		t.Fatalf("fields not updated: %+v", updated)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatal("updatedAt must not move backwards")
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.UpdateUser(ctx, 999, entity.NewUser("Ghost", "ghost@example.com", ""))
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got: %v", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatal("store must stay untouched when updating a missing id")
	}
}

func TestUpdateUser_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, entity.NewUser("User A", "a@x.com", "")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	b, err := svc.CreateUser(ctx, entity.NewUser("User B", "b@x.com", ""))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.UpdateUser(ctx, b.ID, entity.NewUser("User B", "a@x.com", ""))
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken when stealing another user's email, got: %v", err)
	}
}

// spyRepository counts duplicate-check calls made through it.
type spyRepository struct {
	repository.UserRepository
	excludingIDCalls int
}

func (s *spyRepository) ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error) {
	s.excludingIDCalls++
	return s.UserRepository.ExistsByEmailExcludingID(ctx, email, id)
}

func (s *spyRepository) InTx(ctx context.Context, fn func(repository.UserRepository) error) error {
	return s.UserRepository.InTx(ctx, func(repository.UserRepository) error {
		return fn(s)
	})
}

func TestUpdateUser_UnchangedEmailSkipsDuplicateCheck(t *testing.T) {
	spy := &spyRepository{UserRepository: memory.NewUserRepository()}
	svc := NewService(spy, nil, nil)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, entity.NewUser("John Doe", "john@example.com", ""))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.UpdateUser(ctx, created.ID, entity.NewUser("Renamed", "john@example.com", "bio")); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if spy.excludingIDCalls != 0 {
		t.Fatalf("expected no duplicate check when email is unchanged, got %d calls", spy.excludingIDCalls)
	}

	// changing the email must trigger exactly one check
	if _, err := svc.UpdateUser(ctx, created.ID, entity.NewUser("Renamed", "new@example.com", "bio")); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if spy.excludingIDCalls != 1 {
		t.Fatalf("expected one duplicate check after email change, got %d calls", spy.excludingIDCalls)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, entity.NewUser("John Doe", "john@example.com", ""))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deleted, err := svc.DeleteUser(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("expected delete to succeed, got deleted=%v err=%v", deleted, err)
	}

	deleted, err = svc.DeleteUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete of missing id must not error: %v", err)
	}
	if deleted {
		t.Fatal("delete of missing id must report false")
	}

	if _, err := svc.GetUserByID(ctx, created.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got: %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, entity.NewUser("John Doe", "john@example.com", "")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	u, err := svc.GetUserByEmail(ctx, "john@example.com")
	if err != nil {
		t.Fatalf("expected lookup to succeed, got: %v", err)
	}
	if u.Name != "John Doe" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := svc.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestSearchUsers_CaseInsensitive(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, entity.NewUser("John Doe", "john@example.com", "")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := svc.SearchUsers(ctx, "john")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "John Doe" {
		t.Fatalf("expected lowercase query to match 'John Doe', got %v", got)
	}
}

func TestGetRecentUsersAndCount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, entity.NewUser("John Doe", "john@example.com", "")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	recent, err := svc.GetRecentUsers(ctx, 1)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected a just-created user in days=1 window, got %d", len(recent))
	}

	n, err := svc.GetUserCount(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected count 1, got %d (err=%v)", n, err)
	}
}
