//go:build integration

package data

import (
	"context"
	"errors"
	"testing"
)

func TestCommentRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	posts := NewPostRepository(db)
	repo := NewCommentRepository(db)

	post := &Post{Title: "Hello", Slug: "hello", Content: "body", Status: PostPublished}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatal(err)
	}

	root := &Comment{PostID: post.ID, AuthorName: "Ana", AuthorEmail: "ana@example.com", Content: "Nice", Status: CommentApproved}
	if err := repo.Create(ctx, root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reply := &Comment{PostID: post.ID, ParentID: &root.ID, AuthorName: "Studio", Content: "Thanks", Status: CommentApproved, IsAdminReply: true}
	if err := repo.Create(ctx, reply); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pending := &Comment{PostID: post.ID, AuthorName: "Bob", Content: "Hmm", Status: CommentPending}
	if err := repo.Create(ctx, pending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("list by post and status", func(t *testing.T) {
		approved, err := repo.ListByPost(ctx, post.ID, CommentApproved)
		if err != nil {
			t.Fatal(err)
		}
		if len(approved) != 2 {
			t.Fatalf("want 2 approved comments; got %d", len(approved))
		}
		all, err := repo.ListByPost(ctx, post.ID, "")
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 3 {
			t.Errorf("want 3 comments; got %d", len(all))
		}
	})

	t.Run("get joins post", func(t *testing.T) {
		got, err := repo.GetByID(ctx, reply.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.PostSlug != "hello" || !got.IsReply() || !got.IsAdminReply {
			t.Errorf("unexpected comment: %+v", got)
		}
	})

	t.Run("moderation", func(t *testing.T) {
		if err := repo.SetStatus(ctx, pending.ID, CommentRejected); err != nil {
			t.Fatal(err)
		}
		n, err := repo.CountByStatus(ctx, CommentPending)
		if err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Errorf("want no pending comments; got %d", n)
		}
		if err := repo.SetStatus(ctx, 999, CommentApproved); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("deleting a parent keeps replies", func(t *testing.T) {
		if err := repo.Delete(ctx, root.ID); err != nil {
			t.Fatal(err)
		}
		got, err := repo.GetByID(ctx, reply.ID)
		if err != nil {
			t.Fatalf("reply should survive its parent: %v", err)
		}
		if got.ParentID == nil || *got.ParentID != root.ID {
			t.Errorf("reply should still point at its deleted parent, got %v", got.ParentID)
		}
	})

	t.Run("deleting the post removes comments", func(t *testing.T) {
		if err := posts.Delete(ctx, post.ID); err != nil {
			t.Fatal(err)
		}
		all, err := repo.ListAll(ctx, "")
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 0 {
			t.Errorf("want no comments left; got %d", len(all))
		}
	})
}
