package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"studio-site/internal/admin"
	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/middleware"
	"studio-site/internal/service"
	"studio-site/internal/session"
	"studio-site/internal/validate"
	"studio-site/internal/view"

	"github.com/go-chi/chi/v5"
)

const maxImportSize = 2 << 20

// Statistics provides the back-office counters.
type Statistics interface {
	Stats(ctx context.Context) (*service.DashboardStats, error)
}

// AdminHandler serves the back-office: the dashboard, comment moderation
// and the generic screens of every registered resource.
type AdminHandler struct {
	renderer
	registry *admin.Registry
	stats    Statistics
	comments *service.CommentService
	blog     *service.BlogService
	enforcer middleware.Enforcer
	log      logger.Logger
}

// AdminDeps groups what the back-office handlers need.
type AdminDeps struct {
	Registry *admin.Registry
	Stats    Statistics
	Comments *service.CommentService
	Blog     *service.BlogService
	Enforcer middleware.Enforcer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(deps AdminDeps, v *view.View, sm session.Manager, log logger.Logger) *AdminHandler {
	return &AdminHandler{
		renderer: renderer{view: v, sm: sm},
		registry: deps.Registry,
		stats:    deps.Stats,
		comments: deps.Comments,
		blog:     deps.Blog,
		enforcer: deps.Enforcer,
		log:      log,
	}
}

type menuEntry struct {
	Slug  string
	Path  string
	Title string
}

// menu lists the back-office sections the current user may open.
func (h *AdminHandler) menu(r *http.Request) []menuEntry {
	entries := []menuEntry{
		{Slug: "dashboard", Path: "/admin", Title: "Tableau de bord"},
		{Slug: "comments", Path: "/admin/comments", Title: "Commentaires"},
	}
	for _, m := range h.registry.Menu() {
		entries = append(entries, menuEntry{Slug: m.Slug, Path: "/admin/" + m.Slug, Title: m.Title})
	}
	if h.enforcer == nil {
		return entries
	}
	subject := middleware.GetUserInfo(r.Context()).Subject
	allowed := entries[:0]
	for _, e := range entries {
		if ok, err := h.enforcer.Enforce(subject, e.Path, http.MethodGet); err == nil && ok {
			allowed = append(allowed, e)
		}
	}
	return allowed
}

func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, status int, name, section string, data map[string]interface{}) *middleware.AppError {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["Menu"] = h.menu(r)
	data["Section"] = section
	return h.page(w, r, status, name, data)
}

func (h *AdminHandler) dashboardHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		return middleware.Internal(err, "Impossible de charger le tableau de bord")
	}
	pending, err := h.comments.Moderation(r.Context(), data.CommentPending)
	if err != nil {
		return middleware.Internal(err, "Impossible de charger les commentaires")
	}
	if len(pending) > 5 {
		pending = pending[:5]
	}
	return h.render(w, r, http.StatusOK, "admin_dashboard.html", "dashboard", map[string]interface{}{
		"Stats":   stats,
		"Pending": pending,
	})
}

// --- generic resource screens ---

func (h *AdminHandler) resource(r *http.Request) (admin.Resource, *middleware.AppError) {
	res, ok := h.registry.Get(chi.URLParam(r, "resource"))
	if !ok {
		return nil, middleware.NotFound(errors.New("unknown admin resource " + chi.URLParam(r, "resource")))
	}
	return res, nil
}

func (h *AdminHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	res, appErr := h.resource(r)
	if appErr != nil {
		return appErr
	}
	meta := res.Meta()
	rows, err := res.List(r.Context())
	if err != nil {
		return middleware.Internal(err, "Impossible de charger la liste")
	}
	q := admin.ListQuery{Search: r.URL.Query().Get("q"), Status: r.URL.Query().Get("status")}
	filtered := admin.Filter(rows, q)
	return h.render(w, r, http.StatusOK, "admin_list.html", meta.Slug, map[string]interface{}{
		"Meta":  meta,
		"Rows":  filtered,
		"Total": len(rows),
		"Query": q,
	})
}

func (h *AdminHandler) newHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	res, appErr := h.resource(r)
	if appErr != nil {
		return appErr
	}
	if !res.Meta().CanCreate {
		return middleware.NotFound(admin.ErrReadOnly)
	}
	return h.renderForm(w, r, http.StatusOK, res, 0, defaultValues(res.Meta().Slug), nil, "")
}

// defaultValues pre-fills new records.
func defaultValues(slug string) map[string]string {
	switch slug {
	case "navigation", "knowledge":
		return map[string]string{"is_active": "on"}
	case "posts":
		return map[string]string{"status": data.PostDraft}
	case "contacts":
		return map[string]string{"status": data.ContactNew}
	case "meetings":
		return map[string]string{"status": data.MeetingPending, "duration_minutes": "30"}
	case "users":
		return map[string]string{"role": data.RoleEditor, "is_active": "on"}
	default:
		return map[string]string{}
	}
}

func (h *AdminHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, res admin.Resource, id int64, values map[string]string, errs validate.Errors, formError string) *middleware.AppError {
	meta := res.Meta()
	fields, err := res.Fields(r.Context())
	if err != nil {
		return middleware.Internal(err, "Impossible de préparer le formulaire")
	}
	action := "/admin/" + meta.Slug
	if id > 0 {
		action += "/" + strconv.FormatInt(id, 10)
	}
	return h.render(w, r, status, "admin_form.html", meta.Slug, map[string]interface{}{
		"Meta":      meta,
		"Fields":    fields,
		"Values":    values,
		"Errors":    errs,
		"FormError": formError,
		"ID":        id,
		"Action":    action,
	})
}

// saveFailed re-displays the form for refusals the user can fix and turns
// anything else into an error page.
func (h *AdminHandler) saveFailed(w http.ResponseWriter, r *http.Request, res admin.Resource, id int64, err error) *middleware.AppError {
	values := formValues(r.PostForm)
	delete(values, "password")
	if verrs, ok := fieldErrors(err); ok {
		return h.renderForm(w, r, http.StatusUnprocessableEntity, res, id, values, verrs, "Le formulaire contient des erreurs.")
	}
	if errors.Is(err, service.ErrLastAdmin) {
		return h.renderForm(w, r, http.StatusUnprocessableEntity, res, id, values, nil, "Il doit rester au moins un administrateur actif.")
	}
	if errors.Is(err, admin.ErrReadOnly) {
		return middleware.NotFound(err)
	}
	return middleware.Internal(err, "Impossible d'enregistrer")
}

func (h *AdminHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	res, appErr := h.resource(r)
	if appErr != nil {
		return appErr
	}
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Formulaire illisible", Code: http.StatusBadRequest}
	}
	meta := res.Meta()
	id, err := res.Create(r.Context(), r.PostForm)
	if err != nil {
		return h.saveFailed(w, r, res, 0, err)
	}
	h.log.With(map[string]interface{}{"resource": meta.Slug, "id": id}).Info("Record created")
	h.flash(r, session.FlashSuccess, "Enregistrement créé.")
	redirect(w, r, "/admin/"+meta.Slug)
	return nil
}

func (h *AdminHandler) editHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	res, appErr := h.resource(r)
	if appErr != nil {
		return appErr
	}
	id, err := idParam(r, "id")
	if err != nil {
		return middleware.NotFound(err)
	}
	if !res.Meta().CanEdit {
		return middleware.NotFound(admin.ErrReadOnly)
	}
	values, err := res.Values(r.Context(), id)
	if err != nil {
		return middleware.Internal(err, "Impossible de charger l'enregistrement")
	}
	return h.renderForm(w, r, http.StatusOK, res, id, values, nil, "")
}

func (h *AdminHandler) updateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	res, appErr := h.resource(r)
	if appErr != nil {
		return appErr
	}
	id, err := idParam(r, "id")
	if err != nil {
		return middleware.NotFound(err)
	}
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Formulaire illisible", Code: http.StatusBadRequest}
	}
	meta := res.Meta()
	if err := res.Update(r.Context(), id, r.PostForm); err != nil {
		return h.saveFailed(w, r, res, id, err)
	}
	h.log.With(map[string]interface{}{"resource": meta.Slug, "id": id}).Info("Record updated")
	h.flash(r, session.FlashSuccess, "Modifications enregistrées.")
	redirect(w, r, "/admin/"+meta.Slug)
	return nil
}

// findRow returns the list row of a record, for the delete confirmation.
func findRow(ctx context.Context, res admin.Resource, id int64) (*admin.Row, error) {
	rows, err := res.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i], nil
		}
	}
	return nil, data.ErrNotFound
}

func (h *AdminHandler) deleteConfirmHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	res, appErr := h.resource(r)
	if appErr != nil {
		return appErr
	}
	id, err := idParam(r, "id")
	if err != nil {
		return middleware.NotFound(err)
	}
	row, err := findRow(r.Context(), res, id)
	if err != nil {
		return middleware.Internal(err, "Impossible de charger l'enregistrement")
	}
	return h.render(w, r, http.StatusOK, "admin_delete.html", res.Meta().Slug, map[string]interface{}{
		"Meta": res.Meta(),
		"Row":  row,
	})
}

func (h *AdminHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	res, appErr := h.resource(r)
	if appErr != nil {
		return appErr
	}
	id, err := idParam(r, "id")
	if err != nil {
		return middleware.NotFound(err)
	}
	meta := res.Meta()
	if err := res.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrLastAdmin) {
			h.flash(r, session.FlashError, "Impossible de supprimer le dernier administrateur actif.")
			redirect(w, r, "/admin/"+meta.Slug)
			return nil
		}
		return middleware.Internal(err, "Impossible de supprimer")
	}
	h.log.With(map[string]interface{}{"resource": meta.Slug, "id": id}).Info("Record deleted")
	h.flash(r, session.FlashSuccess, "Enregistrement supprimé.")
	redirect(w, r, "/admin/"+meta.Slug)
	return nil
}

// --- comment moderation ---

var moderationFilters = []admin.Option{
	{Value: data.CommentPending, Label: "En attente"},
	{Value: data.CommentApproved, Label: "Approuvés"},
	{Value: data.CommentRejected, Label: "Rejetés"},
	{Value: "all", Label: "Tous"},
}

func moderationStatus(v string) string {
	switch v {
	case data.CommentApproved, data.CommentRejected, "all":
		return v
	default:
		return data.CommentPending
	}
}

func (h *AdminHandler) commentsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	status := moderationStatus(r.URL.Query().Get("status"))
	filter := status
	if filter == "all" {
		filter = ""
	}
	threads, err := h.comments.Moderation(r.Context(), filter)
	if err != nil {
		return middleware.Internal(err, "Impossible de charger les commentaires")
	}
	return h.render(w, r, http.StatusOK, "admin_comments.html", "comments", map[string]interface{}{
		"Threads": threads,
		"Status":  status,
		"Filters": moderationFilters,
	})
}

// commentActionHandler applies approve, reject, delete or reply to a
// comment and returns to the moderation list it was sent from.
func (h *AdminHandler) commentActionHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r, "id")
	if err != nil {
		return middleware.NotFound(err)
	}
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Formulaire illisible", Code: http.StatusBadRequest}
	}
	ctx := r.Context()
	back := "/admin/comments?status=" + url.QueryEscape(moderationStatus(r.PostForm.Get("status")))

	var message string
	switch action := chi.URLParam(r, "action"); action {
	case "approve":
		_, err = h.comments.Approve(ctx, id)
		message = "Commentaire approuvé."
	case "reject":
		err = h.comments.Reject(ctx, id)
		message = "Commentaire rejeté."
	case "delete":
		err = h.comments.Delete(ctx, id)
		message = "Commentaire supprimé."
	case "reply":
		user := middleware.GetUserInfo(ctx)
		_, err = h.comments.Reply(ctx, id, r.PostForm.Get("content"), service.Replier{Name: user.Name, Email: user.Email})
		message = "Réponse publiée."
	default:
		return middleware.NotFound(errors.New("unknown comment action " + action))
	}
	if err != nil {
		if verrs, ok := fieldErrors(err); ok {
			h.flash(r, session.FlashError, "Réponse vide : "+strings.ToLower(verrs.Get("content")))
			redirect(w, r, back)
			return nil
		}
		return middleware.Internal(err, "Action impossible sur ce commentaire")
	}
	h.flash(r, session.FlashSuccess, message)
	redirect(w, r, back)
	return nil
}

// --- markdown import ---

func (h *AdminHandler) importHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		h.flash(r, session.FlashError, "Fichier trop volumineux ou illisible.")
		redirect(w, r, "/admin/posts")
		return nil
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.flash(r, session.FlashError, "Choisissez un fichier markdown.")
		redirect(w, r, "/admin/posts")
		return nil
	}
	defer file.Close()

	post, err := h.blog.Import(r.Context(), file, middleware.GetUserInfo(r.Context()).UserID)
	if err != nil {
		if verrs, ok := fieldErrors(err); ok {
			h.flash(r, session.FlashError, "Import refusé : "+verrs.Error())
			redirect(w, r, "/admin/posts")
			return nil
		}
		return middleware.Internal(err, "Impossible d'importer l'article")
	}
	h.flash(r, session.FlashSuccess, "Article « "+post.Title+" » importé.")
	redirect(w, r, "/admin/posts/"+strconv.FormatInt(post.ID, 10)+"/edit")
	return nil
}
