package handler

import (
	"net/http"
	"strconv"
	"strings"

	"studio-site/internal/logger"
	"studio-site/internal/middleware"
	"studio-site/internal/service"
	"studio-site/internal/session"
	"studio-site/internal/validate"
	"studio-site/internal/view"

	"github.com/go-chi/chi/v5"
)

// BlogHandler serves the public blog and takes reader comments.
type BlogHandler struct {
	renderer
	blog     *service.BlogService
	comments *service.CommentService
	log      logger.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blog *service.BlogService, comments *service.CommentService, v *view.View, sm session.Manager, log logger.Logger) *BlogHandler {
	return &BlogHandler{
		renderer: renderer{view: v, sm: sm},
		blog:     blog,
		comments: comments,
		log:      log,
	}
}

func (h *BlogHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	q := r.URL.Query()
	pageNum, _ := strconv.Atoi(q.Get("page"))
	page, err := h.blog.ListPublished(ctx, service.BlogQuery{
		Category: strings.TrimSpace(q.Get("category")),
		Search:   q.Get("q"),
		Page:     pageNum,
	})
	if err != nil {
		return middleware.Internal(err, "Impossible de charger les articles")
	}
	categories, err := h.blog.ListCategories(ctx)
	if err != nil {
		return middleware.Internal(err, "Impossible de charger les catégories")
	}
	return h.page(w, r, http.StatusOK, "blog.html", map[string]interface{}{
		"Page":       page,
		"Categories": categories,
	})
}

func (h *BlogHandler) postHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderPost(w, r, http.StatusOK, nil, nil)
}

// renderPost shows a post with its approved comments, and the comment form
// with errors when a submission was refused.
func (h *BlogHandler) renderPost(w http.ResponseWriter, r *http.Request, status int, form map[string]string, errs validate.Errors) *middleware.AppError {
	ctx := r.Context()
	post, err := h.blog.GetPublished(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		return middleware.Internal(err, "Impossible de charger l'article")
	}
	threads, err := h.comments.Thread(ctx, post.ID)
	if err != nil {
		return middleware.Internal(err, "Impossible de charger les commentaires")
	}
	if form == nil {
		form = map[string]string{}
	}
	return h.page(w, r, status, "post.html", map[string]interface{}{
		"Post":         post,
		"Threads":      threads,
		"CommentCount": countComments(threads),
		"Form":         form,
		"Errors":       errs,
	})
}

func countComments(threads []*service.CommentNode) int {
	n := 0
	for _, t := range threads {
		n += 1 + len(t.Replies)
	}
	return n
}

func (h *BlogHandler) commentHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Formulaire illisible", Code: http.StatusBadRequest}
	}
	postSlug := chi.URLParam(r, "slug")
	in := service.CommentInput{
		AuthorName:  r.PostForm.Get("author_name"),
		AuthorEmail: r.PostForm.Get("author_email"),
		Content:     r.PostForm.Get("content"),
	}
	if v := strings.TrimSpace(r.PostForm.Get("parent_id")); v != "" {
		// An unreadable parent starts a new thread.
		in.ParentID, _ = strconv.ParseInt(v, 10, 64)
	}

	comment, err := h.comments.Submit(r.Context(), postSlug, in)
	if err != nil {
		if verrs, ok := fieldErrors(err); ok {
			return h.renderPost(w, r, http.StatusUnprocessableEntity, formValues(r.PostForm), verrs)
		}
		return middleware.Internal(err, "Impossible d'enregistrer votre commentaire")
	}
	h.log.With(map[string]interface{}{"comment_id": comment.ID, "post": postSlug}).Info("Comment awaiting moderation")
	h.flash(r, session.FlashSuccess, "Merci ! Votre commentaire sera publié après modération.")
	redirect(w, r, "/blog/"+postSlug+"#commentaires")
	return nil
}
