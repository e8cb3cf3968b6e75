package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/notify"
	"studio-site/internal/validate"

	"github.com/microcosm-cc/bluemonday"
)

// CommentRepository defines the database operations on comments.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID int64, status string) ([]*data.Comment, error)
	ListAll(ctx context.Context, status string) ([]*data.Comment, error)
	GetByID(ctx context.Context, id int64) (*data.Comment, error)
	Create(ctx context.Context, comment *data.Comment) error
	SetStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// PostReader looks posts up for the comment workflow.
type PostReader interface {
	GetByID(ctx context.Context, id int64) (*data.Post, error)
	GetBySlug(ctx context.Context, slug string) (*data.Post, error)
}

// Replier identifies the back-office user answering a comment.
type Replier struct {
	Name  string
	Email string
}

// CommentService provides the comment workflow: submission, moderation,
// admin replies and threading.
type CommentService struct {
	comments  CommentRepository
	posts     PostReader
	notifier  *Notifier
	sanitizer *bluemonday.Policy
	log       logger.Logger
}

// NewCommentService creates a new CommentService. notifier may be nil.
func NewCommentService(comments CommentRepository, posts PostReader, notifier *Notifier, log logger.Logger) *CommentService {
	return &CommentService{
		comments:  comments,
		posts:     posts,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
}

// Thread returns the approved comments of a post as threads.
func (s *CommentService) Thread(ctx context.Context, postID int64) ([]*CommentNode, error) {
	comments, err := s.comments.ListByPost(ctx, postID, data.CommentApproved)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

// Moderation returns the comments of every post in the given status (all
// statuses when empty) as threads.
func (s *CommentService) Moderation(ctx context.Context, status string) ([]*CommentNode, error) {
	comments, err := s.comments.ListAll(ctx, status)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

// Submit records a reader comment on a published post. It waits for
// moderation and the studio is notified.
func (s *CommentService) Submit(ctx context.Context, postSlug string, in CommentInput) (*data.Comment, error) {
	in.AuthorName = strings.TrimSpace(in.AuthorName)
	in.AuthorEmail = strings.TrimSpace(in.AuthorEmail)
	in.Content = s.plainText(in.Content)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		return nil, fmt.Errorf("post %q is not published: %w", postSlug, data.ErrNotFound)
	}

	comment := &data.Comment{
		PostID:      post.ID,
		AuthorName:  s.plainText(in.AuthorName),
		AuthorEmail: in.AuthorEmail,
		Content:     in.Content,
		Status:      data.CommentPending,
	}
	if in.ParentID > 0 {
		parent, err := s.comments.GetByID(ctx, in.ParentID)
		if err != nil || parent.PostID != post.ID || parent.Status != data.CommentApproved {
			return nil, validate.Errors{"parent_id": "Ce commentaire n'accepte pas de réponse."}
		}
		comment.ParentID = &parent.ID
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.notifier.toAdmin(ctx, notify.KindCommentNew, map[string]interface{}{
		"PostTitle":  post.Title,
		"AuthorName": comment.AuthorName,
		"Content":    comment.Content,
		"AdminURL":   s.notifier.URL("/admin/comments?status=pending"),
	}, comment.AuthorEmail)
	return comment, nil
}

// Approve publishes a comment and tells its author. When the comment is a
// reply, the author of the parent comment is told as well.
func (s *CommentService) Approve(ctx context.Context, id int64) (*data.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.Status == data.CommentApproved {
		return comment, nil
	}
	if err := s.comments.SetStatus(ctx, id, data.CommentApproved); err != nil {
		return nil, err
	}
	comment.Status = data.CommentApproved

	if !comment.IsAdminReply {
		s.notifier.send(ctx, notify.KindCommentApproved, comment.AuthorEmail, map[string]interface{}{
			"AuthorName": comment.AuthorName,
			"PostTitle":  comment.PostTitle,
			"Content":    comment.Content,
			"PostURL":    s.postURL(comment),
		}, "")
	}
	s.notifyParent(ctx, comment)
	return comment, nil
}

// Reject hides a comment from the public thread.
func (s *CommentService) Reject(ctx context.Context, id int64) error {
	return s.comments.SetStatus(ctx, id, data.CommentRejected)
}

// Delete removes a comment. Its replies are kept.
func (s *CommentService) Delete(ctx context.Context, id int64) error {
	return s.comments.Delete(ctx, id)
}

// Reply posts an approved studio answer under comment id and tells the
// author of that comment.
func (s *CommentService) Reply(ctx context.Context, id int64, content string, by Replier) (*data.Comment, error) {
	content = s.plainText(content)
	if content == "" {
		return nil, validate.Errors{"content": "Ce champ est obligatoire."}
	}
	parent, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if parent.Status != data.CommentApproved {
		if err := s.comments.SetStatus(ctx, parent.ID, data.CommentApproved); err != nil {
			return nil, err
		}
		parent.Status = data.CommentApproved
	}

	reply := &data.Comment{
		PostID:       parent.PostID,
		ParentID:     &parent.ID,
		AuthorName:   by.Name,
		AuthorEmail:  by.Email,
		Content:      content,
		Status:       data.CommentApproved,
		IsAdminReply: true,
		PostTitle:    parent.PostTitle,
		PostSlug:     parent.PostSlug,
	}
	if err := s.comments.Create(ctx, reply); err != nil {
		return nil, err
	}
	s.notifyParent(ctx, reply)
	return reply, nil
}

// plainText strips markup from reader input. The result is stored as text and
// escaped when rendered.
func (s *CommentService) plainText(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(in)))
}

// notifyParent tells the author of the parent comment about an approved
// reply, unless they wrote the reply themselves.
func (s *CommentService) notifyParent(ctx context.Context, reply *data.Comment) {
	if reply.ParentID == nil {
		return
	}
	parent, err := s.comments.GetByID(ctx, *reply.ParentID)
	if err != nil {
		if !errors.Is(err, data.ErrNotFound) {
			s.log.Error(err, "Failed to load parent comment")
		}
		return
	}
	if parent.AuthorEmail == "" || strings.EqualFold(parent.AuthorEmail, reply.AuthorEmail) {
		return
	}
	s.notifier.send(ctx, notify.KindCommentReply, parent.AuthorEmail, map[string]interface{}{
		"RecipientName": parent.AuthorName,
		"AuthorName":    reply.AuthorName,
		"PostTitle":     parent.PostTitle,
		"Content":       reply.Content,
		"PostURL":       s.postURL(parent),
	}, "")
}

func (s *CommentService) postURL(c *data.Comment) string {
	return s.notifier.URL("/blog/" + c.PostSlug + "#comment-" + fmt.Sprint(c.ID))
}
