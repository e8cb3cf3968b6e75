package data

import (
	"html/template"
	"time"
)

// Post statuses.
const (
	PostDraft     = "draft"
	PostPublished = "published"
)

// Comment moderation statuses.
const (
	CommentPending  = "pending"
	CommentApproved = "approved"
	CommentRejected = "rejected"
)

// Contact message statuses.
const (
	ContactNew      = "new"
	ContactRead     = "read"
	ContactArchived = "archived"
)

// Meeting request statuses.
const (
	MeetingPending   = "pending"
	MeetingConfirmed = "confirmed"
	MeetingCancelled = "cancelled"
)

// Admin user roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Subscriber statuses.
const (
	SubscriberActive       = "subscribed"
	SubscriberUnsubscribed = "unsubscribed"
)

// NavigationItem is a link in the public site header.
type NavigationItem struct {
	ID           int64     `db:"id" json:"id"`
	Label        string    `db:"label" json:"label"`
	Href         string    `db:"href" json:"href"`
	Position     int       `db:"position" json:"position"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	OpenInNewTab bool      `db:"open_in_new_tab" json:"open_in_new_tab"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Service is an offering shown on the home page.
type Service struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Slug        string    `db:"slug" json:"slug"`
	Summary     string    `db:"summary" json:"summary"`
	Description string    `db:"description" json:"description"`
	Icon        string    `db:"icon" json:"icon"`
	Position    int       `db:"position" json:"position"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Skill is a competence bar in the about section.
type Skill struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Level     int       `db:"level" json:"level"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Project is a portfolio entry.
type Project struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Slug        string    `db:"slug" json:"slug"`
	Client      string    `db:"client" json:"client"`
	Summary     string    `db:"summary" json:"summary"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	LinkURL     string    `db:"link_url" json:"link_url"`
	Position    int       `db:"position" json:"position"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Category groups blog posts.
type Category struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Post is a blog article. Content is markdown; HTMLContent is filled on render.
type Post struct {
	ID           int64         `db:"id"`
	Title        string        `db:"title"`
	Slug         string        `db:"slug"`
	Excerpt      string        `db:"excerpt"`
	Content      string        `db:"content"`
	HTMLContent  template.HTML `db:"-"`
	CoverImage   string        `db:"cover_image"`
	CategoryID   *int64        `db:"category_id"`
	CategoryName string        `db:"category_name"`
	CategorySlug string        `db:"category_slug"`
	AuthorID     *int64        `db:"author_id"`
	Status       string        `db:"status"`
	PublishedAt  *time.Time    `db:"published_at"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

// IsPublished reports whether the post is visible on the public blog.
func (p *Post) IsPublished() bool {
	return p.Status == PostPublished
}

// Comment is a reader comment on a post. ParentID points at another comment
// of the same post; the parent may have been deleted since.
type Comment struct {
	ID           int64     `db:"id"`
	PostID       int64     `db:"post_id"`
	ParentID     *int64    `db:"parent_id"`
	AuthorName   string    `db:"author_name"`
	AuthorEmail  string    `db:"author_email"`
	Content      string    `db:"content"`
	Status       string    `db:"status"`
	IsAdminReply bool      `db:"is_admin_reply"`
	PostTitle    string    `db:"post_title"`
	PostSlug     string    `db:"post_slug"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// Contact is a message sent through the contact form.
type Contact struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Company   string    `db:"company"`
	Subject   string    `db:"subject"`
	Message   string    `db:"message"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Meeting is a booking request made on the reservation page.
type Meeting struct {
	ID              int64     `db:"id"`
	Name            string    `db:"name"`
	Email           string    `db:"email"`
	Phone           string    `db:"phone"`
	Company         string    `db:"company"`
	Topic           string    `db:"topic"`
	PreferredAt     time.Time `db:"preferred_at"`
	DurationMinutes int       `db:"duration_minutes"`
	Message         string    `db:"message"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// User is a back-office account.
type User struct {
	ID           int64      `db:"id"`
	Email        string     `db:"email"`
	Name         string     `db:"name"`
	Role         string     `db:"role"`
	PasswordHash string     `db:"password_hash"`
	IsActive     bool       `db:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Setting is a key/value pair editable from the back-office.
type Setting struct {
	ID          int64     `db:"id" json:"id"`
	Key         string    `db:"setting_key" json:"key"`
	Value       string    `db:"value" json:"value"`
	Description string    `db:"description" json:"description"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// KnowledgeEntry is a question/answer pair the chatbot can match.
type KnowledgeEntry struct {
	ID        int64     `db:"id" json:"id"`
	Question  string    `db:"question" json:"question"`
	Answer    string    `db:"answer" json:"answer"`
	Keywords  string    `db:"keywords" json:"keywords"`
	Category  string    `db:"category" json:"category"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Conversation is one logged chatbot exchange.
type Conversation struct {
	ID        int64     `db:"id"`
	SessionID string    `db:"session_id"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	EntryID   *int64    `db:"entry_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Subscriber is a newsletter sign-up. Synced is false while the record only
// exists locally.
type Subscriber struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	Status    string    `db:"status"`
	Synced    bool      `db:"synced"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}
