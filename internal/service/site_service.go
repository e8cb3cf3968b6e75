package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/slug"
	"studio-site/internal/validate"
)

// NavigationRepository defines the database operations on navigation items.
type NavigationRepository interface {
	List(ctx context.Context) ([]*data.NavigationItem, error)
	ListActive(ctx context.Context) ([]*data.NavigationItem, error)
	GetByID(ctx context.Context, id int64) (*data.NavigationItem, error)
	Create(ctx context.Context, item *data.NavigationItem) error
	Update(ctx context.Context, item *data.NavigationItem) error
	Delete(ctx context.Context, id int64) error
}

// ServiceRepository defines the database operations on service offerings.
type ServiceRepository interface {
	List(ctx context.Context) ([]*data.Service, error)
	ListPublished(ctx context.Context) ([]*data.Service, error)
	GetByID(ctx context.Context, id int64) (*data.Service, error)
	GetBySlug(ctx context.Context, slug string) (*data.Service, error)
	Create(ctx context.Context, service *data.Service) error
	Update(ctx context.Context, service *data.Service) error
	Delete(ctx context.Context, id int64) error
}

// SkillRepository defines the database operations on skills.
type SkillRepository interface {
	List(ctx context.Context) ([]*data.Skill, error)
	GetByID(ctx context.Context, id int64) (*data.Skill, error)
	Create(ctx context.Context, skill *data.Skill) error
	Update(ctx context.Context, skill *data.Skill) error
	Delete(ctx context.Context, id int64) error
}

// ProjectRepository defines the database operations on portfolio projects.
type ProjectRepository interface {
	List(ctx context.Context) ([]*data.Project, error)
	ListPublished(ctx context.Context) ([]*data.Project, error)
	GetByID(ctx context.Context, id int64) (*data.Project, error)
	GetBySlug(ctx context.Context, slug string) (*data.Project, error)
	Create(ctx context.Context, project *data.Project) error
	Update(ctx context.Context, project *data.Project) error
	Delete(ctx context.Context, id int64) error
}

// SettingRepository defines the database operations on settings.
type SettingRepository interface {
	List(ctx context.Context) ([]*data.Setting, error)
	GetAll(ctx context.Context) (map[string]string, error)
	GetByID(ctx context.Context, id int64) (*data.Setting, error)
	GetByKey(ctx context.Context, key string) (*data.Setting, error)
	Create(ctx context.Context, setting *data.Setting) error
	Update(ctx context.Context, setting *data.Setting) error
	Delete(ctx context.Context, id int64) error
}

// SiteRepositories groups the repositories behind the site content.
type SiteRepositories struct {
	Navigation NavigationRepository
	Services   ServiceRepository
	Skills     SkillRepository
	Projects   ProjectRepository
	Settings   SettingRepository
}

// SiteInfo is what every public page needs.
type SiteInfo struct {
	Settings   map[string]string
	Navigation []*data.NavigationItem
}

// HomeContent is the content of the landing page.
type HomeContent struct {
	Services []*data.Service
	Skills   []*data.Skill
	Projects []*data.Project
}

// SiteService manages the marketing content of the site and its settings.
type SiteService struct {
	repos SiteRepositories
	cache Cache
	log   logger.Logger
}

// NewSiteService creates a new SiteService. cache may be nil.
func NewSiteService(repos SiteRepositories, cache Cache, log logger.Logger) *SiteService {
	return &SiteService{repos: repos, cache: cache, log: log}
}

// SiteInfo returns the settings and the active navigation.
func (s *SiteService) SiteInfo(ctx context.Context) (*SiteInfo, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	nav, err := cached(ctx, s.cache, s.log, keyNavigation, s.repos.Navigation.ListActive)
	if err != nil {
		return nil, err
	}
	return &SiteInfo{Settings: settings, Navigation: nav}, nil
}

// Settings returns every setting as a key/value map.
func (s *SiteService) Settings(ctx context.Context) (map[string]string, error) {
	return cached(ctx, s.cache, s.log, keySettings, s.repos.Settings.GetAll)
}

// Home returns the published services and projects and every skill.
func (s *SiteService) Home(ctx context.Context) (*HomeContent, error) {
	services, err := cached(ctx, s.cache, s.log, keyServices, s.repos.Services.ListPublished)
	if err != nil {
		return nil, err
	}
	skills, err := cached(ctx, s.cache, s.log, keySkills, s.repos.Skills.List)
	if err != nil {
		return nil, err
	}
	projects, err := cached(ctx, s.cache, s.log, keyProjects, s.repos.Projects.ListPublished)
	if err != nil {
		return nil, err
	}
	return &HomeContent{Services: services, Skills: skills, Projects: projects}, nil
}

// --- Navigation ---

// ListNavigation returns every navigation item.
func (s *SiteService) ListNavigation(ctx context.Context) ([]*data.NavigationItem, error) {
	return s.repos.Navigation.List(ctx)
}

// GetNavigation returns one navigation item.
func (s *SiteService) GetNavigation(ctx context.Context, id int64) (*data.NavigationItem, error) {
	return s.repos.Navigation.GetByID(ctx, id)
}

// CreateNavigation validates and stores a new navigation item.
func (s *SiteService) CreateNavigation(ctx context.Context, in NavigationInput) (*data.NavigationItem, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	item := &data.NavigationItem{}
	applyNavigation(item, in)
	if err := s.repos.Navigation.Create(ctx, item); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keyNavigation)
	return item, nil
}

// UpdateNavigation validates and saves a navigation item.
func (s *SiteService) UpdateNavigation(ctx context.Context, id int64, in NavigationInput) (*data.NavigationItem, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	item, err := s.repos.Navigation.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyNavigation(item, in)
	if err := s.repos.Navigation.Update(ctx, item); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keyNavigation)
	return item, nil
}

// DeleteNavigation removes a navigation item.
func (s *SiteService) DeleteNavigation(ctx context.Context, id int64) error {
	if err := s.repos.Navigation.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log, keyNavigation)
	return nil
}

func applyNavigation(item *data.NavigationItem, in NavigationInput) {
	item.Label = strings.TrimSpace(in.Label)
	item.Href = strings.TrimSpace(in.Href)
	item.Position = in.Position
	item.IsActive = in.IsActive
	item.OpenInNewTab = in.OpenInNewTab
}

// --- Settings ---

// ListSettings returns every setting.
func (s *SiteService) ListSettings(ctx context.Context) ([]*data.Setting, error) {
	return s.repos.Settings.List(ctx)
}

// GetSetting returns one setting.
func (s *SiteService) GetSetting(ctx context.Context, id int64) (*data.Setting, error) {
	return s.repos.Settings.GetByID(ctx, id)
}

// CreateSetting validates and stores a new setting. Keys are unique.
func (s *SiteService) CreateSetting(ctx context.Context, in SettingInput) (*data.Setting, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.checkSettingKey(ctx, in.Key, 0); err != nil {
		return nil, err
	}
	setting := &data.Setting{Key: in.Key, Value: in.Value, Description: in.Description}
	if err := s.repos.Settings.Create(ctx, setting); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keySettings)
	return setting, nil
}

// UpdateSetting validates and saves a setting.
func (s *SiteService) UpdateSetting(ctx context.Context, id int64, in SettingInput) (*data.Setting, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	setting, err := s.repos.Settings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSettingKey(ctx, in.Key, id); err != nil {
		return nil, err
	}
	setting.Key, setting.Value, setting.Description = in.Key, in.Value, in.Description
	if err := s.repos.Settings.Update(ctx, setting); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keySettings)
	return setting, nil
}

// DeleteSetting removes a setting.
func (s *SiteService) DeleteSetting(ctx context.Context, id int64) error {
	if err := s.repos.Settings.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log, keySettings)
	return nil
}

func (s *SiteService) checkSettingKey(ctx context.Context, key string, id int64) error {
	existing, err := s.repos.Settings.GetByKey(ctx, key)
	if err != nil {
		return notTaken(err, "setting_key")
	}
	return takenBy(existing.ID, id, "setting_key")
}

// --- Services ---

// ListServices returns every service offering.
func (s *SiteService) ListServices(ctx context.Context) ([]*data.Service, error) {
	return s.repos.Services.List(ctx)
}

// GetService returns one service offering.
func (s *SiteService) GetService(ctx context.Context, id int64) (*data.Service, error) {
	return s.repos.Services.GetByID(ctx, id)
}

// CreateService validates and stores a new service offering. A blank slug
// is derived from the title.
func (s *SiteService) CreateService(ctx context.Context, in ServiceInput) (*data.Service, error) {
	in.Slug = slugOr(in.Slug, in.Title)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.checkServiceSlug(ctx, in.Slug, 0); err != nil {
		return nil, err
	}
	svc := &data.Service{}
	applyService(svc, in)
	if err := s.repos.Services.Create(ctx, svc); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keyServices)
	return svc, nil
}

// UpdateService validates and saves a service offering.
func (s *SiteService) UpdateService(ctx context.Context, id int64, in ServiceInput) (*data.Service, error) {
	in.Slug = slugOr(in.Slug, in.Title)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	svc, err := s.repos.Services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkServiceSlug(ctx, in.Slug, id); err != nil {
		return nil, err
	}
	applyService(svc, in)
	if err := s.repos.Services.Update(ctx, svc); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keyServices)
	return svc, nil
}

// DeleteService removes a service offering.
func (s *SiteService) DeleteService(ctx context.Context, id int64) error {
	if err := s.repos.Services.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log, keyServices)
	return nil
}

func (s *SiteService) checkServiceSlug(ctx context.Context, value string, id int64) error {
	existing, err := s.repos.Services.GetBySlug(ctx, value)
	if err != nil {
		return notTaken(err, "slug")
	}
	return takenBy(existing.ID, id, "slug")
}

func applyService(svc *data.Service, in ServiceInput) {
	svc.Title = strings.TrimSpace(in.Title)
	svc.Slug = in.Slug
	svc.Summary = in.Summary
	svc.Description = in.Description
	svc.Icon = in.Icon
	svc.Position = in.Position
	svc.IsPublished = in.IsPublished
}

// --- Skills ---

// ListSkills returns every skill.
func (s *SiteService) ListSkills(ctx context.Context) ([]*data.Skill, error) {
	return s.repos.Skills.List(ctx)
}

// GetSkill returns one skill.
func (s *SiteService) GetSkill(ctx context.Context, id int64) (*data.Skill, error) {
	return s.repos.Skills.GetByID(ctx, id)
}

// CreateSkill validates and stores a new skill.
func (s *SiteService) CreateSkill(ctx context.Context, in SkillInput) (*data.Skill, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	skill := &data.Skill{Name: strings.TrimSpace(in.Name), Category: in.Category, Level: in.Level, Position: in.Position}
	if err := s.repos.Skills.Create(ctx, skill); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keySkills)
	return skill, nil
}

// UpdateSkill validates and saves a skill.
func (s *SiteService) UpdateSkill(ctx context.Context, id int64, in SkillInput) (*data.Skill, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	skill, err := s.repos.Skills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	skill.Name, skill.Category, skill.Level, skill.Position = strings.TrimSpace(in.Name), in.Category, in.Level, in.Position
	if err := s.repos.Skills.Update(ctx, skill); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keySkills)
	return skill, nil
}

// DeleteSkill removes a skill.
func (s *SiteService) DeleteSkill(ctx context.Context, id int64) error {
	if err := s.repos.Skills.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log, keySkills)
	return nil
}

// --- Projects ---

// ListProjects returns every portfolio project.
func (s *SiteService) ListProjects(ctx context.Context) ([]*data.Project, error) {
	return s.repos.Projects.List(ctx)
}

// GetProject returns one portfolio project.
func (s *SiteService) GetProject(ctx context.Context, id int64) (*data.Project, error) {
	return s.repos.Projects.GetByID(ctx, id)
}

// CreateProject validates and stores a new portfolio project.
func (s *SiteService) CreateProject(ctx context.Context, in ProjectInput) (*data.Project, error) {
	in.Slug = slugOr(in.Slug, in.Title)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.checkProjectSlug(ctx, in.Slug, 0); err != nil {
		return nil, err
	}
	project := &data.Project{}
	applyProject(project, in)
	if err := s.repos.Projects.Create(ctx, project); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keyProjects)
	return project, nil
}

// UpdateProject validates and saves a portfolio project.
func (s *SiteService) UpdateProject(ctx context.Context, id int64, in ProjectInput) (*data.Project, error) {
	in.Slug = slugOr(in.Slug, in.Title)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	project, err := s.repos.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkProjectSlug(ctx, in.Slug, id); err != nil {
		return nil, err
	}
	applyProject(project, in)
	if err := s.repos.Projects.Update(ctx, project); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keyProjects)
	return project, nil
}

// DeleteProject removes a portfolio project.
func (s *SiteService) DeleteProject(ctx context.Context, id int64) error {
	if err := s.repos.Projects.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log, keyProjects)
	return nil
}

func (s *SiteService) checkProjectSlug(ctx context.Context, value string, id int64) error {
	existing, err := s.repos.Projects.GetBySlug(ctx, value)
	if err != nil {
		return notTaken(err, "slug")
	}
	return takenBy(existing.ID, id, "slug")
}

func applyProject(project *data.Project, in ProjectInput) {
	project.Title = strings.TrimSpace(in.Title)
	project.Slug = in.Slug
	project.Client = in.Client
	project.Summary = in.Summary
	project.ImageURL = in.ImageURL
	project.LinkURL = in.LinkURL
	project.Position = in.Position
	project.IsPublished = in.IsPublished
}

// --- helpers shared by the services ---

// slugOr returns value, or a slug made from title when value is blank.
func slugOr(value, title string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return slug.Make(title)
}

// notTaken interprets a failed lookup by a unique column: no row means
// the value is free.
func notTaken(lookupErr error, field string) error {
	if errors.Is(lookupErr, data.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("failed to check %s: %w", field, lookupErr)
}

// takenBy returns a field error when the value belongs to another record.
func takenBy(ownerID, selfID int64, field string) error {
	if ownerID != selfID {
		return validate.Errors{field: "Cette valeur est déjà utilisée."}
	}
	return nil
}
