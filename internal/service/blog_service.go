package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/markdown"
	"studio-site/internal/validate"
)

// PostsPerPage is the size of a public blog page.
const PostsPerPage = 9

const excerptLength = 220

// PostRepository defines the database operations on blog posts.
type PostRepository interface {
	List(ctx context.Context) ([]*data.Post, error)
	ListPublished(ctx context.Context, filter data.PostFilter) ([]*data.Post, int, error)
	GetByID(ctx context.Context, id int64) (*data.Post, error)
	GetBySlug(ctx context.Context, slug string) (*data.Post, error)
	Create(ctx context.Context, post *data.Post) error
	Update(ctx context.Context, post *data.Post) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines the database operations on blog categories.
type CategoryRepository interface {
	FindByName(ctx context.Context, name string) (*data.Category, error)
	GetAll(ctx context.Context) ([]*data.Category, error)
	GetByID(ctx context.Context, id int64) (*data.Category, error)
	GetBySlug(ctx context.Context, slug string) (*data.Category, error)
	Save(ctx context.Context, category *data.Category) (int64, error)
	Update(ctx context.Context, category *data.Category) error
	Delete(ctx context.Context, id int64) error
}

// BlogQuery selects a page of the public blog.
type BlogQuery struct {
	Category string
	Search   string
	Page     int
}

// PostPage is one page of published posts.
type PostPage struct {
	Posts    []*data.Post
	Total    int
	Page     int
	Pages    int
	Category *data.Category
	Search   string
}

// HasPrev reports whether a previous page exists.
func (p *PostPage) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p *PostPage) HasNext() bool { return p.Page < p.Pages }

// BlogService provides business logic for blog posts and categories.
type BlogService struct {
	posts      PostRepository
	categories CategoryRepository
	renderer   *markdown.Renderer
	log        logger.Logger
	now        func() time.Time
}

// NewBlogService creates a new BlogService.
func NewBlogService(posts PostRepository, categories CategoryRepository, renderer *markdown.Renderer, log logger.Logger) *BlogService {
	return &BlogService{posts: posts, categories: categories, renderer: renderer, log: log, now: time.Now}
}

// ListPublished returns a page of published posts, optionally narrowed to
// a category slug or a search term. An unknown category yields
// data.ErrNotFound.
func (s *BlogService) ListPublished(ctx context.Context, q BlogQuery) (*PostPage, error) {
	page := &PostPage{Page: q.Page, Search: strings.TrimSpace(q.Search)}
	if page.Page < 1 {
		page.Page = 1
	}
	if q.Category != "" {
		category, err := s.categories.GetBySlug(ctx, q.Category)
		if err != nil {
			return nil, err
		}
		page.Category = category
	}

	posts, total, err := s.posts.ListPublished(ctx, data.PostFilter{
		CategorySlug: q.Category,
		Search:       page.Search,
		Limit:        PostsPerPage,
		Offset:       (page.Page - 1) * PostsPerPage,
	})
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		s.fillExcerpt(p)
	}
	page.Posts = posts
	page.Total = total
	page.Pages = (total + PostsPerPage - 1) / PostsPerPage
	return page, nil
}

// AllPublished returns every published post, newest first.
func (s *BlogService) AllPublished(ctx context.Context) ([]*data.Post, error) {
	posts, _, err := s.posts.ListPublished(ctx, data.PostFilter{})
	return posts, err
}

// GetPublished returns a published post with its content rendered. Drafts
// are reported as data.ErrNotFound.
func (s *BlogService) GetPublished(ctx context.Context, postSlug string) (*data.Post, error) {
	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		return nil, fmt.Errorf("post %q is not published: %w", postSlug, data.ErrNotFound)
	}
	html, err := s.renderer.Render(post.Content)
	if err != nil {
		return nil, err
	}
	post.HTMLContent = html
	s.fillExcerpt(post)
	return post, nil
}

func (s *BlogService) fillExcerpt(p *data.Post) {
	if p.Excerpt != "" {
		return
	}
	excerpt, err := s.renderer.Excerpt(p.Content, excerptLength)
	if err != nil {
		s.log.Error(err, "Failed to build excerpt for "+p.Slug)
		return
	}
	p.Excerpt = excerpt
}

// --- Posts (back-office) ---

// ListPosts returns every post, drafts included.
func (s *BlogService) ListPosts(ctx context.Context) ([]*data.Post, error) {
	return s.posts.List(ctx)
}

// GetPost returns one post.
func (s *BlogService) GetPost(ctx context.Context, id int64) (*data.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// CreatePost validates and stores a new post written by authorID (0 when
// unknown).
func (s *BlogService) CreatePost(ctx context.Context, in PostInput, authorID int64) (*data.Post, error) {
	in.Slug = slugOr(in.Slug, in.Title)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.checkPost(ctx, in, 0); err != nil {
		return nil, err
	}
	post := &data.Post{}
	if authorID > 0 {
		post.AuthorID = &authorID
	}
	s.applyPost(post, in)
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost validates and saves a post.
func (s *BlogService) UpdatePost(ctx context.Context, id int64, in PostInput) (*data.Post, error) {
	in.Slug = slugOr(in.Slug, in.Title)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPost(ctx, in, id); err != nil {
		return nil, err
	}
	s.applyPost(post, in)
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and its comments.
func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	return s.posts.Delete(ctx, id)
}

func (s *BlogService) checkPost(ctx context.Context, in PostInput, id int64) error {
	if in.CategoryID > 0 {
		if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, data.ErrNotFound) {
				return validate.Errors{"category_id": "Catégorie inconnue."}
			}
			return err
		}
	}
	existing, err := s.posts.GetBySlug(ctx, in.Slug)
	if err != nil {
		return notTaken(err, "slug")
	}
	return takenBy(existing.ID, id, "slug")
}

// applyPost copies the input onto the post. The publication date is set
// the first time the post is published and kept afterwards.
func (s *BlogService) applyPost(post *data.Post, in PostInput) {
	post.Title = strings.TrimSpace(in.Title)
	post.Slug = in.Slug
	post.Excerpt = strings.TrimSpace(in.Excerpt)
	post.Content = in.Content
	post.CoverImage = in.CoverImage
	post.CategoryID = nil
	if in.CategoryID > 0 {
		id := in.CategoryID
		post.CategoryID = &id
	}
	post.Status = in.Status
	if post.Status == data.PostPublished && post.PublishedAt == nil {
		now := s.now().UTC()
		post.PublishedAt = &now
	}
}

// Import creates a post from a markdown document with optional front
// matter. The category is created when it does not exist yet.
func (s *BlogService) Import(ctx context.Context, r io.Reader, authorID int64) (*data.Post, error) {
	doc, err := markdown.Parse(r)
	if err != nil {
		return nil, validate.Errors{"file": "Fichier markdown illisible."}
	}

	in := PostInput{
		Title:      doc.Meta.Title,
		Slug:       doc.Meta.Slug,
		Excerpt:    doc.Meta.Excerpt,
		Content:    doc.Body,
		CoverImage: doc.Meta.Cover,
		Status:     doc.Meta.Status,
	}
	if in.Status == "" {
		in.Status = data.PostDraft
	}
	if name := strings.TrimSpace(doc.Meta.Category); name != "" {
		category, err := s.categoryByName(ctx, name)
		if err != nil {
			return nil, err
		}
		in.CategoryID = category.ID
	}

	post, err := s.CreatePost(ctx, in, authorID)
	if err != nil {
		return nil, err
	}
	if !doc.Meta.Date.IsZero() && post.IsPublished() {
		date := doc.Meta.Date.UTC()
		post.PublishedAt = &date
		if err := s.posts.Update(ctx, post); err != nil {
			return nil, err
		}
	}
	s.log.Info(fmt.Sprintf("Imported post %q", post.Slug))
	return post, nil
}

func (s *BlogService) categoryByName(ctx context.Context, name string) (*data.Category, error) {
	category, err := s.categories.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if category != nil {
		return category, nil
	}
	return s.CreateCategory(ctx, CategoryInput{Name: name})
}

// --- Categories ---

// ListCategories returns every category.
func (s *BlogService) ListCategories(ctx context.Context) ([]*data.Category, error) {
	return s.categories.GetAll(ctx)
}

// GetCategory returns one category.
func (s *BlogService) GetCategory(ctx context.Context, id int64) (*data.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// CreateCategory validates and stores a new category.
func (s *BlogService) CreateCategory(ctx context.Context, in CategoryInput) (*data.Category, error) {
	in.Slug = slugOr(in.Slug, in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in, 0); err != nil {
		return nil, err
	}
	category := &data.Category{Name: strings.TrimSpace(in.Name), Slug: in.Slug, Description: in.Description}
	if _, err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory validates and saves a category.
func (s *BlogService) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*data.Category, error) {
	in.Slug = slugOr(in.Slug, in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in, id); err != nil {
		return nil, err
	}
	category.Name, category.Slug, category.Description = strings.TrimSpace(in.Name), in.Slug, in.Description
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category; its posts are kept uncategorised.
func (s *BlogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}

func (s *BlogService) checkCategory(ctx context.Context, in CategoryInput, id int64) error {
	byName, err := s.categories.FindByName(ctx, strings.TrimSpace(in.Name))
	if err != nil {
		return err
	}
	if byName != nil && byName.ID != id {
		return validate.Errors{"name": "Cette valeur est déjà utilisée."}
	}
	bySlug, err := s.categories.GetBySlug(ctx, in.Slug)
	if err != nil {
		return notTaken(err, "slug")
	}
	return takenBy(bySlug.ID, id, "slug")
}
