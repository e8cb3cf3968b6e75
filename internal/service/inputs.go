package service

import "time"

// Form inputs accepted by the services. Field names follow the HTML form.

// NavigationInput is the editable part of a navigation item.
type NavigationInput struct {
	Label        string `form:"label" validate:"required,max=60"`
	Href         string `form:"href" validate:"required,max=255"`
	Position     int    `form:"position" validate:"gte=0,lte=1000"`
	IsActive     bool   `form:"is_active"`
	OpenInNewTab bool   `form:"open_in_new_tab"`
}

// ServiceInput is the editable part of a service offering.
type ServiceInput struct {
	Title       string `form:"title" validate:"required,max=120"`
	Slug        string `form:"slug" validate:"omitempty,max=140,slug"`
	Summary     string `form:"summary" validate:"max=300"`
	Description string `form:"description" validate:"max=5000"`
	Icon        string `form:"icon" validate:"max=60"`
	Position    int    `form:"position" validate:"gte=0,lte=1000"`
	IsPublished bool   `form:"is_published"`
}

// SkillInput is the editable part of a skill.
type SkillInput struct {
	Name     string `form:"name" validate:"required,max=80"`
	Category string `form:"category" validate:"max=80"`
	Level    int    `form:"level" validate:"gte=0,lte=100"`
	Position int    `form:"position" validate:"gte=0,lte=1000"`
}

// ProjectInput is the editable part of a portfolio project.
type ProjectInput struct {
	Title       string `form:"title" validate:"required,max=120"`
	Slug        string `form:"slug" validate:"omitempty,max=140,slug"`
	Client      string `form:"client" validate:"max=120"`
	Summary     string `form:"summary" validate:"max=500"`
	ImageURL    string `form:"image_url" validate:"omitempty,url,max=500"`
	LinkURL     string `form:"link_url" validate:"omitempty,url,max=500"`
	Position    int    `form:"position" validate:"gte=0,lte=1000"`
	IsPublished bool   `form:"is_published"`
}

// SettingInput is the editable part of a setting.
type SettingInput struct {
	Key         string `form:"setting_key" validate:"required,max=100,key"`
	Value       string `form:"value" validate:"max=5000"`
	Description string `form:"description" validate:"max=255"`
}

// CategoryInput is the editable part of a blog category.
type CategoryInput struct {
	Name        string `form:"name" validate:"required,max=80"`
	Slug        string `form:"slug" validate:"omitempty,max=100,slug"`
	Description string `form:"description" validate:"max=500"`
}

// PostInput is the editable part of a blog post. A zero CategoryID means
// no category.
type PostInput struct {
	Title      string `form:"title" validate:"required,max=200"`
	Slug       string `form:"slug" validate:"omitempty,max=220,slug"`
	Excerpt    string `form:"excerpt" validate:"max=500"`
	Content    string `form:"content" validate:"required"`
	CoverImage string `form:"cover_image" validate:"omitempty,url,max=500"`
	CategoryID int64  `form:"category_id" validate:"gte=0"`
	Status     string `form:"status" validate:"required,oneof=draft published"`
}

// CommentInput is a reader comment. A zero ParentID starts a new thread.
type CommentInput struct {
	AuthorName  string `form:"author_name" validate:"required,max=100"`
	AuthorEmail string `form:"author_email" validate:"required,email,max=254"`
	Content     string `form:"content" validate:"required,max=5000"`
	ParentID    int64  `form:"parent_id" validate:"gte=0"`
}

// ContactInput is a message from the contact form.
type ContactInput struct {
	Name    string `form:"name" validate:"required,max=120"`
	Email   string `form:"email" validate:"required,email,max=254"`
	Phone   string `form:"phone" validate:"max=30"`
	Company string `form:"company" validate:"max=120"`
	Subject string `form:"subject" validate:"max=200"`
	Message string `form:"message" validate:"required,max=5000"`
}

// MeetingInput is a booking request.
type MeetingInput struct {
	Name            string    `form:"name" validate:"required,max=120"`
	Email           string    `form:"email" validate:"required,email,max=254"`
	Phone           string    `form:"phone" validate:"max=30"`
	Company         string    `form:"company" validate:"max=120"`
	Topic           string    `form:"topic" validate:"required,max=200"`
	PreferredAt     time.Time `form:"preferred_at" validate:"required"`
	DurationMinutes int       `form:"duration_minutes" validate:"oneof=15 30 45 60 90"`
	Message         string    `form:"message" validate:"max=2000"`
}

// SubscribeInput is a newsletter sign-up.
type SubscribeInput struct {
	Email string `form:"email" validate:"required,email,max=254"`
	Name  string `form:"name" validate:"max=120"`
}

// KnowledgeInput is the editable part of a chatbot knowledge entry.
type KnowledgeInput struct {
	Question string `form:"question" validate:"required,max=300"`
	Answer   string `form:"answer" validate:"required,max=3000"`
	Keywords string `form:"keywords" validate:"max=500"`
	Category string `form:"category" validate:"max=100"`
	IsActive bool   `form:"is_active"`
}

// UserInput is the editable part of a back-office user. Password may be
// empty on update to keep the current one.
type UserInput struct {
	Email    string `form:"email" validate:"required,email,max=254"`
	Name     string `form:"name" validate:"required,max=120"`
	Role     string `form:"role" validate:"required,oneof=admin editor"`
	Password string `form:"password" validate:"omitempty,min=8,max=72"`
	IsActive bool   `form:"is_active"`
}
