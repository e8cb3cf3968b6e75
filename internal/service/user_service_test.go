//go:build unit

package service

import (
	"context"
	"errors"
	"testing"

	"studio-site/internal/auth"
	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/validate"
)

func newUserFixture(t *testing.T) (*UserService, *mockUserRepository) {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatal(err)
	}
	repo := &mockUserRepository{users: []*data.User{
		{ID: 1, Email: "admin@studio.example", Name: "Admin", Role: data.RoleAdmin, PasswordHash: hash, IsActive: true},
		{ID: 2, Email: "editor@studio.example", Name: "Editor", Role: data.RoleEditor, PasswordHash: hash, IsActive: true},
		{ID: 3, Email: "gone@studio.example", Name: "Gone", Role: data.RoleEditor, PasswordHash: hash, IsActive: false},
	}}
	return NewUserService(repo, logger.Nop()), repo
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserFixture(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", email: " Admin@Studio.example ", password: "correct-horse"},
		{name: "wrong password", email: "admin@studio.example", password: "battery-staple", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "who@studio.example", password: "correct-horse", wantErr: ErrInvalidCredentials},
		{name: "disabled account", email: "gone@studio.example", password: "correct-horse", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Authenticate(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want error %v; got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && (user.ID != 1 || user.LastLoginAt == nil) {
				t.Errorf("want admin with last login set; got %+v", user)
			}
		})
	}
	if len(repo.touched) != 1 {
		t.Errorf("want one recorded login; got %d", len(repo.touched))
	}
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserFixture(t)

	_, err := svc.Create(ctx, UserInput{Email: "new@studio.example", Name: "New", Role: data.RoleEditor})
	if errs, ok := validate.As(err); !ok || !errs.Has("password") {
		t.Errorf("want password required; got %v", err)
	}
	_, err = svc.Create(ctx, UserInput{Email: "EDITOR@studio.example", Name: "Dup", Role: data.RoleEditor, Password: "long-enough"})
	if errs, ok := validate.As(err); !ok || !errs.Has("email") {
		t.Errorf("want email taken; got %v", err)
	}

	user, err := svc.Create(ctx, UserInput{Email: "new@studio.example", Name: "New", Role: data.RoleEditor, Password: "long-enough", IsActive: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "long-enough" {
		t.Error("want password stored hashed")
	}
	if _, err := svc.Authenticate(ctx, "new@studio.example", "long-enough"); err != nil {
		t.Errorf("want new user able to sign in; got %v", err)
	}
	if len(repo.users) != 4 {
		t.Errorf("want 4 users; got %d", len(repo.users))
	}
}

func TestUserService_LastAdminIsKept(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserFixture(t)

	_, err := svc.Update(ctx, 1, UserInput{Email: "admin@studio.example", Name: "Admin", Role: data.RoleEditor, IsActive: true})
	if !errors.Is(err, ErrLastAdmin) {
		t.Errorf("want ErrLastAdmin on demotion; got %v", err)
	}
	_, err = svc.Update(ctx, 1, UserInput{Email: "admin@studio.example", Name: "Admin", Role: data.RoleAdmin, IsActive: false})
	if !errors.Is(err, ErrLastAdmin) {
		t.Errorf("want ErrLastAdmin on disabling; got %v", err)
	}
	if err := svc.Delete(ctx, 1); !errors.Is(err, ErrLastAdmin) {
		t.Errorf("want ErrLastAdmin on delete; got %v", err)
	}

	if _, err := svc.Update(ctx, 2, UserInput{Email: "editor@studio.example", Name: "Editor", Role: data.RoleAdmin, IsActive: true}); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if err := svc.Delete(ctx, 1); err != nil {
		t.Errorf("want delete allowed with another admin; got %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 1 {
		t.Errorf("want user 1 deleted; got %v", repo.deleted)
	}
}

func TestUserService_UpdateKeepsPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	if _, err := svc.Update(ctx, 2, UserInput{Email: "editor@studio.example", Name: "Renamed", Role: data.RoleEditor, IsActive: true}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "editor@studio.example", "correct-horse"); err != nil {
		t.Errorf("want old password kept; got %v", err)
	}
}

func TestDashboardService_Stats(t *testing.T) {
	svc := NewDashboardService(
		mockCounter{data.PostPublished: 4, data.PostDraft: 2},
		mockCounter{data.CommentPending: 3},
		mockCounter{data.ContactNew: 1},
		mockCounter{data.MeetingPending: 5},
		mockSubscriberCounter(12),
	)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	want := DashboardStats{PendingComments: 3, NewContacts: 1, PendingMeetings: 5, PublishedPosts: 4, DraftPosts: 2, Subscribers: 12}
	if *stats != want {
		t.Errorf("want %+v; got %+v", want, *stats)
	}
}
