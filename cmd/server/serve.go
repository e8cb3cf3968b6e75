package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"studio-site/internal/admin"
	"studio-site/internal/auth"
	"studio-site/internal/cache"
	"studio-site/internal/data"
	"studio-site/internal/handler"
	"studio-site/internal/logger"
	"studio-site/internal/markdown"
	"studio-site/internal/middleware"
	"studio-site/internal/notify"
	"studio-site/internal/service"
	"studio-site/internal/session"
	"studio-site/internal/view"
	"studio-site/web"

	"github.com/spf13/cobra"
)

const cachePurgeInterval = 30 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// --- Configuration Loading ---
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB); err != nil {
		return err
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	readCache, err := cache.New(cfg.Cache)
	if err != nil {
		return err
	}
	defer readCache.Close()
	log.Info("Cache initialized.")

	// --- Session Management Setup ---
	secure := cfg.Server.TLS.Enabled || strings.HasPrefix(cfg.Server.BaseURL, "https://")
	sessionManager := session.New(cfg.Session, cfg.DB.Driver, db, secure)

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	enforcer, err := auth.NewEnforcer(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return err
	}
	if err := auth.SeedDefaultPolicies(enforcer, log); err != nil {
		return err
	}
	var sso handler.SSOProvider
	if cfg.OIDC.Enabled() {
		authenticator, err := auth.NewAuthenticator(cmd.Context(), cfg.OIDC)
		if err != nil {
			return err
		}
		sso = authenticator
		log.Info("Single sign-on enabled.")
	}
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		return err
	}
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return err
	}
	log.Info("View templates initialized.")

	// --- Dependency Injection and Handler Initialization ---
	settings := data.NewSettingRepository(db)
	posts := data.NewPostRepository(db)
	comments := data.NewCommentRepository(db)
	contacts := data.NewContactRepository(db)
	meetings := data.NewMeetingRepository(db)
	subscribers := data.NewSubscriberRepository(db)

	mailer := notify.NewMailer(cfg.Email, log)
	notifier := service.NewNotifier(mailer, settings, cfg.Email.AdminAddress, cfg.Server.BaseURL, log)

	siteService := service.NewSiteService(service.SiteRepositories{
		Navigation: data.NewNavigationRepository(db),
		Services:   data.NewServiceRepository(db),
		Skills:     data.NewSkillRepository(db),
		Projects:   data.NewProjectRepository(db),
		Settings:   settings,
	}, readCache, log)
	blogService := service.NewBlogService(posts, data.NewCategoryRepository(db), markdown.NewRenderer(), log)
	commentService := service.NewCommentService(comments, posts, notifier, log)
	inboxService := service.NewInboxService(contacts, meetings, notifier, log)
	newsletterService := service.NewNewsletterService(subscribers, notify.NewListProvider(cfg.Newsletter), log)
	chatbotService := service.NewChatbotService(data.NewKnowledgeRepository(db), data.NewConversationRepository(db), settings, readCache, log)
	userService := service.NewUserService(data.NewUserRepository(db), log)
	dashboardService := service.NewDashboardService(posts, comments, contacts, meetings, subscribers)

	registry := admin.Standard(admin.Services{
		Site:       siteService,
		Blog:       blogService,
		Inbox:      inboxService,
		Chatbot:    chatbotService,
		Users:      userService,
		Newsletter: newsletterService,
	})

	// --- Router Setup ---
	router := handler.NewRouter(handler.RouterConfig{
		Site: handler.NewSiteHandler(handler.SiteServices{
			Site:       siteService,
			Blog:       blogService,
			Inbox:      inboxService,
			Newsletter: newsletterService,
			Chatbot:    chatbotService,
		}, viewService, sessionManager, log),
		Blog: handler.NewBlogHandler(blogService, commentService, viewService, sessionManager, log),
		Seo:  handler.NewSeoHandler(blogService, cfg.Server.BaseURL, log),
		Auth: handler.NewAuthHandler(userService, sso, viewService, sessionManager, log),
		Admin: handler.NewAdminHandler(handler.AdminDeps{
			Registry: registry,
			Stats:    dashboardService,
			Comments: commentService,
			Blog:     blogService,
			Enforcer: enforcer,
		}, viewService, sessionManager, log),
		Session:     sessionManager,
		Authz:       middleware.Authorizer(enforcer, sessionManager),
		SiteContext: middleware.SiteContext(siteService, cfg.Server.BaseURL, cfg.Analytics.MeasurementID, log),
		Errors:      middleware.Error(log, viewService),
		Static:      static,
		Log:         log,
	})

	// --- Server Initialization and Graceful Shutdown ---
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go purgeCache(ctx, readCache, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			serveErr <- server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
			return
		}
		log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Warn("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server exiting")
	return nil
}

// purgeCache drops expired cache entries until ctx is done.
func purgeCache(ctx context.Context, c *cache.Cache, log logger.Logger) {
	ticker := time.NewTicker(cachePurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.Purge(ctx)
			if err != nil {
				log.Error(err, "Failed to purge cache")
				continue
			}
			if n > 0 {
				log.With(map[string]interface{}{"entries": n}).Debug("Purged expired cache entries")
			}
		}
	}
}
