package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"studio-site/internal/admin"
	"studio-site/internal/logger"
	"studio-site/internal/middleware"
	"studio-site/internal/service"
	"studio-site/internal/session"
	"studio-site/internal/validate"
	"studio-site/internal/view"

	"github.com/go-chi/chi/v5"
)

const homeLatestPosts = 3

// SiteHandler serves the public marketing pages and their forms.
type SiteHandler struct {
	renderer
	site       *service.SiteService
	blog       *service.BlogService
	inbox      *service.InboxService
	newsletter *service.NewsletterService
	chatbot    *service.ChatbotService
	log        logger.Logger
}

// SiteServices groups the services behind the public pages.
type SiteServices struct {
	Site       *service.SiteService
	Blog       *service.BlogService
	Inbox      *service.InboxService
	Newsletter *service.NewsletterService
	Chatbot    *service.ChatbotService
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(s SiteServices, v *view.View, sm session.Manager, log logger.Logger) *SiteHandler {
	return &SiteHandler{
		renderer:   renderer{view: v, sm: sm},
		site:       s.Site,
		blog:       s.Blog,
		inbox:      s.Inbox,
		newsletter: s.Newsletter,
		chatbot:    s.Chatbot,
		log:        log,
	}
}

func (h *SiteHandler) homeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	home, err := h.site.Home(ctx)
	if err != nil {
		return middleware.Internal(err, "Impossible de charger la page d'accueil")
	}
	latest, err := h.blog.ListPublished(ctx, service.BlogQuery{Page: 1})
	if err != nil {
		return middleware.Internal(err, "Impossible de charger les articles")
	}
	posts := latest.Posts
	if len(posts) > homeLatestPosts {
		posts = posts[:homeLatestPosts]
	}
	return h.page(w, r, http.StatusOK, "home.html", map[string]interface{}{
		"Home":         home,
		"Posts":        posts,
		"ChatGreeting": h.chatbot.Greeting(ctx),
	})
}

func (h *SiteHandler) legalHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.page(w, r, http.StatusOK, "legal.html", nil)
}

func (h *SiteHandler) privacyHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.page(w, r, http.StatusOK, "privacy.html", nil)
}

func (h *SiteHandler) contactFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.page(w, r, http.StatusOK, "contact.html", map[string]interface{}{
		"Form": map[string]string{"subject": r.URL.Query().Get("sujet")},
	})
}

func (h *SiteHandler) contactSubmitHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Formulaire illisible", Code: http.StatusBadRequest}
	}
	in := service.ContactInput{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Phone:   r.PostForm.Get("phone"),
		Company: r.PostForm.Get("company"),
		Subject: r.PostForm.Get("subject"),
		Message: r.PostForm.Get("message"),
	}
	if _, err := h.inbox.SubmitContact(r.Context(), in); err != nil {
		if verrs, ok := fieldErrors(err); ok {
			return h.page(w, r, http.StatusUnprocessableEntity, "contact.html", map[string]interface{}{
				"Form":   formValues(r.PostForm),
				"Errors": verrs,
			})
		}
		return middleware.Internal(err, "Impossible d'envoyer votre message")
	}
	h.flash(r, session.FlashSuccess, "Merci, votre message a bien été envoyé. Nous revenons vers vous rapidement.")
	redirect(w, r, "/contact")
	return nil
}

func (h *SiteHandler) bookingFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.page(w, r, http.StatusOK, "reserver.html", map[string]interface{}{
		"Form":      map[string]string{"duration_minutes": "30"},
		"Durations": bookingDurations,
		"MinDate":   time.Now().Add(time.Hour).Format(admin.DateTimeLayout),
	})
}

func (h *SiteHandler) bookingSubmitHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Formulaire illisible", Code: http.StatusBadRequest}
	}
	errs := validate.Errors{}
	in := service.MeetingInput{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Phone:   r.PostForm.Get("phone"),
		Company: r.PostForm.Get("company"),
		Topic:   r.PostForm.Get("topic"),
		Message: r.PostForm.Get("message"),
	}
	if v := strings.TrimSpace(r.PostForm.Get("preferred_at")); v != "" {
		t, err := time.ParseInLocation(admin.DateTimeLayout, v, time.Local)
		if err != nil {
			errs.Add("preferred_at", "Date invalide.")
		}
		in.PreferredAt = t
	}
	if v := strings.TrimSpace(r.PostForm.Get("duration_minutes")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs.Add("duration_minutes", "Valeur non autorisée.")
		}
		in.DurationMinutes = n
	}

	var err error
	if len(errs) == 0 {
		_, err = h.inbox.RequestMeeting(r.Context(), in)
	} else {
		err = errs
	}
	if err != nil {
		if verrs, ok := fieldErrors(err); ok {
			return h.page(w, r, http.StatusUnprocessableEntity, "reserver.html", map[string]interface{}{
				"Form":      formValues(r.PostForm),
				"Errors":    verrs,
				"Durations": bookingDurations,
				"MinDate":   time.Now().Add(time.Hour).Format(admin.DateTimeLayout),
			})
		}
		return middleware.Internal(err, "Impossible d'enregistrer votre demande")
	}
	h.flash(r, session.FlashSuccess, "Votre demande de rendez-vous est enregistrée. Nous vous confirmons le créneau par e-mail.")
	redirect(w, r, "/reserver")
	return nil
}

var bookingDurations = []int{15, 30, 45, 60, 90}

// newsletterHandler takes sign-ups from the footer form of every page and
// sends the visitor back where they came from.
func (h *SiteHandler) newsletterHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Formulaire illisible", Code: http.StatusBadRequest}
	}
	back := localPath(r.PostForm.Get("next"), "/")
	in := service.SubscribeInput{
		Email: r.PostForm.Get("email"),
		Name:  r.PostForm.Get("name"),
	}
	if _, err := h.newsletter.Subscribe(r.Context(), in); err != nil {
		if verrs, ok := fieldErrors(err); ok {
			h.flash(r, session.FlashError, "Inscription impossible : "+verrs.Get("email"))
			redirect(w, r, back)
			return nil
		}
		return middleware.Internal(err, "Impossible d'enregistrer votre inscription")
	}
	h.flash(r, session.FlashSuccess, "Merci, votre inscription à la newsletter est enregistrée.")
	redirect(w, r, back)
	return nil
}

func (h *SiteHandler) unsubscribeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	sub, err := h.newsletter.Unsubscribe(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		return middleware.Internal(err, "Impossible de traiter la désinscription")
	}
	return h.page(w, r, http.StatusOK, "unsubscribe.html", map[string]interface{}{"Subscriber": sub})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatError struct {
	Error string `json:"error"`
}

// chatHandler answers the chat widget. It speaks JSON only.
func (h *SiteHandler) chatHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatError{Error: "Requête invalide."})
		return
	}
	reply, err := h.chatbot.Ask(r.Context(), req.SessionID, req.Message)
	if err != nil {
		if verrs, ok := fieldErrors(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, chatError{Error: verrs.Get("message")})
			return
		}
		h.log.Error(err, "Chatbot failed to answer")
		writeJSON(w, http.StatusInternalServerError, chatError{Error: "Le service est momentanément indisponible."})
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// notFoundHandler renders the error page for unknown routes.
func notFoundHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return middleware.NotFound(errors.New("no route for " + r.URL.Path))
}
