//go:build unit

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/markdown"
	"studio-site/internal/validate"
)

func newBlogFixture() (*BlogService, *mockPostRepository, *mockCategoryRepository) {
	posts := &mockPostRepository{}
	categories := &mockCategoryRepository{categories: []*data.Category{{ID: 1, Name: "Design", Slug: "design"}}}
	svc := NewBlogService(posts, categories, markdown.NewRenderer(), logger.Nop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, posts, categories
}

func TestBlogService_CreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("slug generated and publication date set", func(t *testing.T) {
		svc, posts, _ := newBlogFixture()
		post, err := svc.CreatePost(ctx, PostInput{
			Title:      "Créer une identité",
			Content:    "# Hello",
			Status:     data.PostPublished,
			CategoryID: 1,
		}, 7)
		if err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
		if post.Slug != "creer-une-identite" {
			t.Errorf("want generated slug; got %q", post.Slug)
		}
		if post.PublishedAt == nil || !post.PublishedAt.Equal(svc.now()) {
			t.Errorf("want published_at set to now; got %v", post.PublishedAt)
		}
		if post.AuthorID == nil || *post.AuthorID != 7 {
			t.Errorf("want author 7; got %v", post.AuthorID)
		}
		if len(posts.posts) != 1 {
			t.Errorf("want post stored; got %d posts", len(posts.posts))
		}
	})

	t.Run("required fields", func(t *testing.T) {
		svc, posts, _ := newBlogFixture()
		_, err := svc.CreatePost(ctx, PostInput{Status: data.PostDraft}, 0)
		errs, ok := validate.As(err)
		if !ok {
			t.Fatalf("want validation errors; got %v", err)
		}
		for _, field := range []string{"title", "content"} {
			if !errs.Has(field) {
				t.Errorf("want error on %s; got %v", field, errs)
			}
		}
		if len(posts.posts) != 0 {
			t.Error("post stored despite validation error")
		}
	})

	t.Run("duplicate slug", func(t *testing.T) {
		svc, _, _ := newBlogFixture()
		in := PostInput{Title: "Same", Content: "x", Status: data.PostDraft}
		if _, err := svc.CreatePost(ctx, in, 0); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
		_, err := svc.CreatePost(ctx, in, 0)
		if errs, ok := validate.As(err); !ok || !errs.Has("slug") {
			t.Errorf("want slug error; got %v", err)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, _, _ := newBlogFixture()
		_, err := svc.CreatePost(ctx, PostInput{Title: "T", Content: "x", Status: data.PostDraft, CategoryID: 42}, 0)
		if errs, ok := validate.As(err); !ok || !errs.Has("category_id") {
			t.Errorf("want category_id error; got %v", err)
		}
	})
}

func TestBlogService_PublishedAtKeptOnRepublish(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newBlogFixture()
	post, err := svc.CreatePost(ctx, PostInput{Title: "T", Content: "x", Status: data.PostPublished}, 0)
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	first := *post.PublishedAt

	svc.now = func() time.Time { return first.Add(48 * time.Hour) }
	for _, status := range []string{data.PostDraft, data.PostPublished} {
		post, err = svc.UpdatePost(ctx, post.ID, PostInput{Title: "T", Content: "y", Status: status})
		if err != nil {
			t.Fatalf("UpdatePost(%s) failed: %v", status, err)
		}
	}
	if !post.PublishedAt.Equal(first) {
		t.Errorf("want published_at kept at %v; got %v", first, post.PublishedAt)
	}
}

func TestBlogService_GetPublished(t *testing.T) {
	ctx := context.Background()
	svc, posts, _ := newBlogFixture()
	posts.posts = []*data.Post{
		{ID: 1, Slug: "live", Status: data.PostPublished, Content: "**bold** <script>x()</script>"},
		{ID: 2, Slug: "wip", Status: data.PostDraft, Content: "draft"},
	}

	post, err := svc.GetPublished(ctx, "live")
	if err != nil {
		t.Fatalf("GetPublished failed: %v", err)
	}
	html := string(post.HTMLContent)
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("want rendered markdown; got %q", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("want sanitized html; got %q", html)
	}
	if post.Excerpt == "" {
		t.Error("want excerpt filled from content")
	}

	if _, err := svc.GetPublished(ctx, "wip"); !errors.Is(err, data.ErrNotFound) {
		t.Errorf("want ErrNotFound for draft; got %v", err)
	}
}

func TestBlogService_ListPublishedPagination(t *testing.T) {
	ctx := context.Background()
	svc, posts, _ := newBlogFixture()
	for i := 1; i <= PostsPerPage+2; i++ {
		posts.posts = append(posts.posts, &data.Post{
			ID: int64(i), Slug: fmt.Sprintf("p%d", i), Status: data.PostPublished, Content: "body", CategorySlug: "design",
		})
	}

	page, err := svc.ListPublished(ctx, BlogQuery{Page: 2})
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if page.Total != PostsPerPage+2 || page.Pages != 2 || len(page.Posts) != 2 {
		t.Errorf("want page 2 of 2 with 2 posts; got total=%d pages=%d posts=%d", page.Total, page.Pages, len(page.Posts))
	}
	if !page.HasPrev() || page.HasNext() {
		t.Error("want prev link only on the last page")
	}

	page, err = svc.ListPublished(ctx, BlogQuery{Category: "design", Page: -3})
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if page.Page != 1 || page.Category == nil || page.Category.Slug != "design" {
		t.Errorf("want first page of design; got page=%d category=%v", page.Page, page.Category)
	}

	if _, err := svc.ListPublished(ctx, BlogQuery{Category: "nope"}); !errors.Is(err, data.ErrNotFound) {
		t.Errorf("want ErrNotFound for unknown category; got %v", err)
	}
}

func TestBlogService_Import(t *testing.T) {
	ctx := context.Background()
	svc, _, categories := newBlogFixture()
	doc := `---
title: Notes de lancement
category: Actualités
status: published
date: 2025-06-01T09:00:00Z
---
Nous lançons **enfin** le site.
`
	post, err := svc.Import(ctx, strings.NewReader(doc), 1)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if post.Slug != "notes-de-lancement" || post.Status != data.PostPublished {
		t.Errorf("unexpected post: slug=%q status=%q", post.Slug, post.Status)
	}
	if categories.saved != 1 {
		t.Errorf("want the missing category created; saved=%d", categories.saved)
	}
	want := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if post.PublishedAt == nil || !post.PublishedAt.Equal(want) {
		t.Errorf("want published_at from front matter; got %v", post.PublishedAt)
	}

	draft, err := svc.Import(ctx, strings.NewReader("---\ntitle: Brouillon\n---\ntexte"), 1)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if draft.Status != data.PostDraft || draft.PublishedAt != nil {
		t.Errorf("want unpublished draft; got status=%q published_at=%v", draft.Status, draft.PublishedAt)
	}
}

func TestBlogService_CategoryUniqueness(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newBlogFixture()

	_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Design"})
	if errs, ok := validate.As(err); !ok || !errs.Has("name") {
		t.Errorf("want name error; got %v", err)
	}
	if _, err := svc.UpdateCategory(ctx, 1, CategoryInput{Name: "Design", Description: "UI"}); err != nil {
		t.Errorf("renaming to itself should pass; got %v", err)
	}
}
