package service

import (
	"context"

	"studio-site/internal/data"
)

// StatusCounter counts the rows of a table in one status.
type StatusCounter interface {
	CountByStatus(ctx context.Context, status string) (int, error)
}

// SubscriberCounter counts active newsletter subscribers.
type SubscriberCounter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardStats are the counters shown on the back-office home.
type DashboardStats struct {
	PendingComments int
	NewContacts     int
	PendingMeetings int
	PublishedPosts  int
	DraftPosts      int
	Subscribers     int
}

// DashboardService gathers the back-office counters.
type DashboardService struct {
	posts       StatusCounter
	comments    StatusCounter
	contacts    StatusCounter
	meetings    StatusCounter
	subscribers SubscriberCounter
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(posts, comments, contacts, meetings StatusCounter, subscribers SubscriberCounter) *DashboardService {
	return &DashboardService{posts: posts, comments: comments, contacts: contacts, meetings: meetings, subscribers: subscribers}
}

// Stats returns the current counters.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	counts := []struct {
		counter StatusCounter
		status  string
		dest    *int
	}{
		{s.comments, data.CommentPending, &stats.PendingComments},
		{s.contacts, data.ContactNew, &stats.NewContacts},
		{s.meetings, data.MeetingPending, &stats.PendingMeetings},
		{s.posts, data.PostPublished, &stats.PublishedPosts},
		{s.posts, data.PostDraft, &stats.DraftPosts},
	}
	for _, c := range counts {
		n, err := c.counter.CountByStatus(ctx, c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}
	n, err := s.subscribers.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Subscribers = n
	return &stats, nil
}
