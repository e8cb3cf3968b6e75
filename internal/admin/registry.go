package admin

import "studio-site/internal/service"

// Services are the application services behind the standard screens.
type Services struct {
	Site       *service.SiteService
	Blog       *service.BlogService
	Inbox      *service.InboxService
	Chatbot    *service.ChatbotService
	Users      *service.UserService
	Newsletter *service.NewsletterService
}

// Standard registers every back-office screen in menu order. Comment
// moderation has its own screen and is not a resource.
func Standard(s Services) *Registry {
	return NewRegistry(
		NewPostResource(s.Blog),
		NewCategoryResource(s.Blog),
		NewContactResource(s.Inbox),
		NewMeetingResource(s.Inbox),
		NewServiceResource(s.Site),
		NewProjectResource(s.Site),
		NewSkillResource(s.Site),
		NewNavigationResource(s.Site),
		NewKnowledgeResource(s.Chatbot),
		NewConversationResource(s.Chatbot),
		NewSubscriberResource(s.Newsletter),
		NewUserResource(s.Users),
		NewSettingResource(s.Site),
	)
}
