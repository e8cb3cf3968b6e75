package admin

import (
	"context"
	"net/url"
	"strconv"

	"studio-site/internal/data"
	"studio-site/internal/middleware"
	"studio-site/internal/service"
)

// CategoryStore is the part of the blog service behind the categories screen.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]*data.Category, error)
	GetCategory(ctx context.Context, id int64) (*data.Category, error)
	CreateCategory(ctx context.Context, in service.CategoryInput) (*data.Category, error)
	UpdateCategory(ctx context.Context, id int64, in service.CategoryInput) (*data.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryResource struct {
	store CategoryStore
}

// NewCategoryResource manages the blog categories.
func NewCategoryResource(store CategoryStore) Resource {
	return &categoryResource{store: store}
}

func (r *categoryResource) Meta() Meta {
	return Meta{
		Slug:      "categories",
		Title:     "Catégories",
		Singular:  "catégorie",
		Columns:   []string{"Nom", "Slug", "Description"},
		CanCreate: true,
		CanEdit:   true,
	}
}

func (r *categoryResource) Fields(ctx context.Context) ([]Field, error) {
	return []Field{
		{Name: "name", Label: "Nom", Kind: KindText, Required: true},
		{Name: "slug", Label: "Slug", Kind: KindText, Help: "Généré à partir du nom si vide."},
		{Name: "description", Label: "Description", Kind: KindTextarea},
	}, nil
}

func (r *categoryResource) List(ctx context.Context) ([]Row, error) {
	categories, err := r.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, Row{ID: c.ID, Cells: []string{c.Name, c.Slug, c.Description}})
	}
	return rows, nil
}

func (r *categoryResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	c, err := r.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{"name": c.Name, "slug": c.Slug, "description": c.Description}, nil
}

func (r *categoryResource) input(values url.Values) service.CategoryInput {
	f := newForm(values)
	return service.CategoryInput{
		Name:        f.str("name"),
		Slug:        f.str("slug"),
		Description: f.text("description"),
	}
}

func (r *categoryResource) Create(ctx context.Context, values url.Values) (int64, error) {
	c, err := r.store.CreateCategory(ctx, r.input(values))
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (r *categoryResource) Update(ctx context.Context, id int64, values url.Values) error {
	_, err := r.store.UpdateCategory(ctx, id, r.input(values))
	return err
}

func (r *categoryResource) Delete(ctx context.Context, id int64) error {
	return r.store.DeleteCategory(ctx, id)
}

// PostStore is the part of the blog service behind the posts screen.
type PostStore interface {
	ListPosts(ctx context.Context) ([]*data.Post, error)
	GetPost(ctx context.Context, id int64) (*data.Post, error)
	CreatePost(ctx context.Context, in service.PostInput, authorID int64) (*data.Post, error)
	UpdatePost(ctx context.Context, id int64, in service.PostInput) (*data.Post, error)
	DeletePost(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]*data.Category, error)
}

type postResource struct {
	store PostStore
}

// NewPostResource manages the blog posts. New posts are credited to the
// signed-in user.
func NewPostResource(store PostStore) Resource {
	return &postResource{store: store}
}

func (r *postResource) Meta() Meta {
	return Meta{
		Slug:      "posts",
		Title:     "Articles",
		Singular:  "article",
		Columns:   []string{"Titre", "Catégorie", "Publication"},
		Filters:   postStatuses,
		CanCreate: true,
		CanEdit:   true,
	}
}

func (r *postResource) Fields(ctx context.Context) ([]Field, error) {
	categories, err := r.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(categories)+1)
	options = append(options, Option{Value: "", Label: "Aucune"})
	for _, c := range categories {
		options = append(options, Option{Value: strconv.FormatInt(c.ID, 10), Label: c.Name})
	}
	return []Field{
		{Name: "title", Label: "Titre", Kind: KindText, Required: true},
		{Name: "slug", Label: "Slug", Kind: KindText, Help: "Généré à partir du titre si vide."},
		{Name: "category_id", Label: "Catégorie", Kind: KindSelect, Options: options},
		{Name: "excerpt", Label: "Extrait", Kind: KindTextarea, Help: "Repris des premiers mots de l'article si vide."},
		{Name: "content", Label: "Contenu", Kind: KindMarkdown, Required: true},
		{Name: "cover_image", Label: "Image de couverture", Kind: KindURL},
		{Name: "status", Label: "Statut", Kind: KindSelect, Required: true, Options: postStatuses},
	}, nil
}

func (r *postResource) List(ctx context.Context) ([]Row, error) {
	posts, err := r.store.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(posts))
	for _, p := range posts {
		published := ""
		if p.PublishedAt != nil {
			published = dateCell(*p.PublishedAt)
		}
		rows = append(rows, Row{ID: p.ID, Cells: []string{p.Title, p.CategoryName, published}, Status: p.Status})
	}
	return rows, nil
}

func (r *postResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	p, err := r.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"title":       p.Title,
		"slug":        p.Slug,
		"category_id": idValue(p.CategoryID),
		"excerpt":     p.Excerpt,
		"content":     p.Content,
		"cover_image": p.CoverImage,
		"status":      p.Status,
	}, nil
}

func (r *postResource) input(values url.Values) (service.PostInput, error) {
	f := newForm(values)
	in := service.PostInput{
		Title:      f.str("title"),
		Slug:       f.str("slug"),
		Excerpt:    f.text("excerpt"),
		Content:    f.text("content"),
		CoverImage: f.str("cover_image"),
		CategoryID: f.int64("category_id"),
		Status:     f.str("status"),
	}
	return in, f.check(in)
}

func (r *postResource) Create(ctx context.Context, values url.Values) (int64, error) {
	in, err := r.input(values)
	if err != nil {
		return 0, err
	}
	p, err := r.store.CreatePost(ctx, in, middleware.GetUserInfo(ctx).UserID)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *postResource) Update(ctx context.Context, id int64, values url.Values) error {
	in, err := r.input(values)
	if err != nil {
		return err
	}
	_, err = r.store.UpdatePost(ctx, id, in)
	return err
}

func (r *postResource) Delete(ctx context.Context, id int64) error {
	return r.store.DeletePost(ctx, id)
}
