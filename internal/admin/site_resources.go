package admin

import (
	"context"
	"net/url"

	"studio-site/internal/data"
	"studio-site/internal/service"
)

// NavigationStore is the part of the site service behind the navigation screen.
type NavigationStore interface {
	ListNavigation(ctx context.Context) ([]*data.NavigationItem, error)
	GetNavigation(ctx context.Context, id int64) (*data.NavigationItem, error)
	CreateNavigation(ctx context.Context, in service.NavigationInput) (*data.NavigationItem, error)
	UpdateNavigation(ctx context.Context, id int64, in service.NavigationInput) (*data.NavigationItem, error)
	DeleteNavigation(ctx context.Context, id int64) error
}

type navigationResource struct {
	store NavigationStore
}

// NewNavigationResource manages the header links.
func NewNavigationResource(store NavigationStore) Resource {
	return &navigationResource{store: store}
}

func (r *navigationResource) Meta() Meta {
	return Meta{
		Slug:      "navigation",
		Title:     "Navigation",
		Singular:  "lien",
		Columns:   []string{"Position", "Libellé", "Lien", "Actif"},
		CanCreate: true,
		CanEdit:   true,
	}
}

func (r *navigationResource) Fields(ctx context.Context) ([]Field, error) {
	return []Field{
		{Name: "label", Label: "Libellé", Kind: KindText, Required: true},
		{Name: "href", Label: "Lien", Kind: KindText, Required: true, Help: "Chemin interne (/blog) ou adresse complète."},
		{Name: "position", Label: "Position", Kind: KindNumber},
		{Name: "is_active", Label: "Affiché", Kind: KindCheckbox},
		{Name: "open_in_new_tab", Label: "Ouvrir dans un nouvel onglet", Kind: KindCheckbox},
	}, nil
}

func (r *navigationResource) List(ctx context.Context) ([]Row, error) {
	items, err := r.store.ListNavigation(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{ID: it.ID, Cells: []string{intValue(it.Position), it.Label, it.Href, yesNo(it.IsActive)}})
	}
	return rows, nil
}

func (r *navigationResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	it, err := r.store.GetNavigation(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"label":           it.Label,
		"href":            it.Href,
		"position":        intValue(it.Position),
		"is_active":       boolValue(it.IsActive),
		"open_in_new_tab": boolValue(it.OpenInNewTab),
	}, nil
}

func (r *navigationResource) input(values url.Values) (service.NavigationInput, error) {
	f := newForm(values)
	in := service.NavigationInput{
		Label:        f.str("label"),
		Href:         f.str("href"),
		Position:     f.int("position"),
		IsActive:     f.bool("is_active"),
		OpenInNewTab: f.bool("open_in_new_tab"),
	}
	return in, f.check(in)
}

func (r *navigationResource) Create(ctx context.Context, values url.Values) (int64, error) {
	in, err := r.input(values)
	if err != nil {
		return 0, err
	}
	it, err := r.store.CreateNavigation(ctx, in)
	if err != nil {
		return 0, err
	}
	return it.ID, nil
}

func (r *navigationResource) Update(ctx context.Context, id int64, values url.Values) error {
	in, err := r.input(values)
	if err != nil {
		return err
	}
	_, err = r.store.UpdateNavigation(ctx, id, in)
	return err
}

func (r *navigationResource) Delete(ctx context.Context, id int64) error {
	return r.store.DeleteNavigation(ctx, id)
}

// ServiceStore is the part of the site service behind the services screen.
type ServiceStore interface {
	ListServices(ctx context.Context) ([]*data.Service, error)
	GetService(ctx context.Context, id int64) (*data.Service, error)
	CreateService(ctx context.Context, in service.ServiceInput) (*data.Service, error)
	UpdateService(ctx context.Context, id int64, in service.ServiceInput) (*data.Service, error)
	DeleteService(ctx context.Context, id int64) error
}

type serviceResource struct {
	store ServiceStore
}

// NewServiceResource manages the agency's service offerings.
func NewServiceResource(store ServiceStore) Resource {
	return &serviceResource{store: store}
}

func (r *serviceResource) Meta() Meta {
	return Meta{
		Slug:      "services",
		Title:     "Services",
		Singular:  "service",
		Columns:   []string{"Position", "Titre", "Slug", "Publié"},
		CanCreate: true,
		CanEdit:   true,
	}
}

func (r *serviceResource) Fields(ctx context.Context) ([]Field, error) {
	return []Field{
		{Name: "title", Label: "Titre", Kind: KindText, Required: true},
		{Name: "slug", Label: "Slug", Kind: KindText, Help: "Généré à partir du titre si vide."},
		{Name: "summary", Label: "Résumé", Kind: KindTextarea},
		{Name: "description", Label: "Description", Kind: KindMarkdown},
		{Name: "icon", Label: "Icône", Kind: KindText},
		{Name: "position", Label: "Position", Kind: KindNumber},
		{Name: "is_published", Label: "Publié", Kind: KindCheckbox},
	}, nil
}

func (r *serviceResource) List(ctx context.Context) ([]Row, error) {
	services, err := r.store.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(services))
	for _, s := range services {
		rows = append(rows, Row{ID: s.ID, Cells: []string{intValue(s.Position), s.Title, s.Slug, yesNo(s.IsPublished)}})
	}
	return rows, nil
}

func (r *serviceResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	s, err := r.store.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"title":        s.Title,
		"slug":         s.Slug,
		"summary":      s.Summary,
		"description":  s.Description,
		"icon":         s.Icon,
		"position":     intValue(s.Position),
		"is_published": boolValue(s.IsPublished),
	}, nil
}

func (r *serviceResource) input(values url.Values) (service.ServiceInput, error) {
	f := newForm(values)
	in := service.ServiceInput{
		Title:       f.str("title"),
		Slug:        f.str("slug"),
		Summary:     f.text("summary"),
		Description: f.text("description"),
		Icon:        f.str("icon"),
		Position:    f.int("position"),
		IsPublished: f.bool("is_published"),
	}
	return in, f.check(in)
}

func (r *serviceResource) Create(ctx context.Context, values url.Values) (int64, error) {
	in, err := r.input(values)
	if err != nil {
		return 0, err
	}
	s, err := r.store.CreateService(ctx, in)
	if err != nil {
		return 0, err
	}
	return s.ID, nil
}

func (r *serviceResource) Update(ctx context.Context, id int64, values url.Values) error {
	in, err := r.input(values)
	if err != nil {
		return err
	}
	_, err = r.store.UpdateService(ctx, id, in)
	return err
}

func (r *serviceResource) Delete(ctx context.Context, id int64) error {
	return r.store.DeleteService(ctx, id)
}

// SkillStore is the part of the site service behind the skills screen.
type SkillStore interface {
	ListSkills(ctx context.Context) ([]*data.Skill, error)
	GetSkill(ctx context.Context, id int64) (*data.Skill, error)
	CreateSkill(ctx context.Context, in service.SkillInput) (*data.Skill, error)
	UpdateSkill(ctx context.Context, id int64, in service.SkillInput) (*data.Skill, error)
	DeleteSkill(ctx context.Context, id int64) error
}

type skillResource struct {
	store SkillStore
}

// NewSkillResource manages the skill bars of the about section.
func NewSkillResource(store SkillStore) Resource {
	return &skillResource{store: store}
}

func (r *skillResource) Meta() Meta {
	return Meta{
		Slug:      "skills",
		Title:     "Compétences",
		Singular:  "compétence",
		Columns:   []string{"Position", "Nom", "Catégorie", "Niveau"},
		CanCreate: true,
		CanEdit:   true,
	}
}

func (r *skillResource) Fields(ctx context.Context) ([]Field, error) {
	return []Field{
		{Name: "name", Label: "Nom", Kind: KindText, Required: true},
		{Name: "category", Label: "Catégorie", Kind: KindText},
		{Name: "level", Label: "Niveau (0 à 100)", Kind: KindNumber},
		{Name: "position", Label: "Position", Kind: KindNumber},
	}, nil
}

func (r *skillResource) List(ctx context.Context) ([]Row, error) {
	skills, err := r.store.ListSkills(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, Row{ID: s.ID, Cells: []string{intValue(s.Position), s.Name, s.Category, intValue(s.Level) + " %"}})
	}
	return rows, nil
}

func (r *skillResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	s, err := r.store.GetSkill(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"name":     s.Name,
		"category": s.Category,
		"level":    intValue(s.Level),
		"position": intValue(s.Position),
	}, nil
}

func (r *skillResource) input(values url.Values) (service.SkillInput, error) {
	f := newForm(values)
	in := service.SkillInput{
		Name:     f.str("name"),
		Category: f.str("category"),
		Level:    f.int("level"),
		Position: f.int("position"),
	}
	return in, f.check(in)
}

func (r *skillResource) Create(ctx context.Context, values url.Values) (int64, error) {
	in, err := r.input(values)
	if err != nil {
		return 0, err
	}
	s, err := r.store.CreateSkill(ctx, in)
	if err != nil {
		return 0, err
	}
	return s.ID, nil
}

func (r *skillResource) Update(ctx context.Context, id int64, values url.Values) error {
	in, err := r.input(values)
	if err != nil {
		return err
	}
	_, err = r.store.UpdateSkill(ctx, id, in)
	return err
}

func (r *skillResource) Delete(ctx context.Context, id int64) error {
	return r.store.DeleteSkill(ctx, id)
}

// ProjectStore is the part of the site service behind the portfolio screen.
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]*data.Project, error)
	GetProject(ctx context.Context, id int64) (*data.Project, error)
	CreateProject(ctx context.Context, in service.ProjectInput) (*data.Project, error)
	UpdateProject(ctx context.Context, id int64, in service.ProjectInput) (*data.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

type projectResource struct {
	store ProjectStore
}

// NewProjectResource manages the portfolio.
func NewProjectResource(store ProjectStore) Resource {
	return &projectResource{store: store}
}

func (r *projectResource) Meta() Meta {
	return Meta{
		Slug:      "projects",
		Title:     "Portfolio",
		Singular:  "projet",
		Columns:   []string{"Position", "Titre", "Client", "Publié"},
		CanCreate: true,
		CanEdit:   true,
	}
}

func (r *projectResource) Fields(ctx context.Context) ([]Field, error) {
	return []Field{
		{Name: "title", Label: "Titre", Kind: KindText, Required: true},
		{Name: "slug", Label: "Slug", Kind: KindText, Help: "Généré à partir du titre si vide."},
		{Name: "client", Label: "Client", Kind: KindText},
		{Name: "summary", Label: "Résumé", Kind: KindTextarea},
		{Name: "image_url", Label: "Image", Kind: KindURL},
		{Name: "link_url", Label: "Lien du projet", Kind: KindURL},
		{Name: "position", Label: "Position", Kind: KindNumber},
		{Name: "is_published", Label: "Publié", Kind: KindCheckbox},
	}, nil
}

func (r *projectResource) List(ctx context.Context) ([]Row, error) {
	projects, err := r.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, Row{ID: p.ID, Cells: []string{intValue(p.Position), p.Title, p.Client, yesNo(p.IsPublished)}})
	}
	return rows, nil
}

func (r *projectResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	p, err := r.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"title":        p.Title,
		"slug":         p.Slug,
		"client":       p.Client,
		"summary":      p.Summary,
		"image_url":    p.ImageURL,
		"link_url":     p.LinkURL,
		"position":     intValue(p.Position),
		"is_published": boolValue(p.IsPublished),
	}, nil
}

func (r *projectResource) input(values url.Values) (service.ProjectInput, error) {
	f := newForm(values)
	in := service.ProjectInput{
		Title:       f.str("title"),
		Slug:        f.str("slug"),
		Client:      f.str("client"),
		Summary:     f.text("summary"),
		ImageURL:    f.str("image_url"),
		LinkURL:     f.str("link_url"),
		Position:    f.int("position"),
		IsPublished: f.bool("is_published"),
	}
	return in, f.check(in)
}

func (r *projectResource) Create(ctx context.Context, values url.Values) (int64, error) {
	in, err := r.input(values)
	if err != nil {
		return 0, err
	}
	p, err := r.store.CreateProject(ctx, in)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *projectResource) Update(ctx context.Context, id int64, values url.Values) error {
	in, err := r.input(values)
	if err != nil {
		return err
	}
	_, err = r.store.UpdateProject(ctx, id, in)
	return err
}

func (r *projectResource) Delete(ctx context.Context, id int64) error {
	return r.store.DeleteProject(ctx, id)
}

// SettingStore is the part of the site service behind the settings screen.
type SettingStore interface {
	ListSettings(ctx context.Context) ([]*data.Setting, error)
	GetSetting(ctx context.Context, id int64) (*data.Setting, error)
	CreateSetting(ctx context.Context, in service.SettingInput) (*data.Setting, error)
	UpdateSetting(ctx context.Context, id int64, in service.SettingInput) (*data.Setting, error)
	DeleteSetting(ctx context.Context, id int64) error
}

type settingResource struct {
	store SettingStore
}

// NewSettingResource manages the key/value site settings.
func NewSettingResource(store SettingStore) Resource {
	return &settingResource{store: store}
}

func (r *settingResource) Meta() Meta {
	return Meta{
		Slug:      "settings",
		Title:     "Paramètres",
		Singular:  "paramètre",
		Columns:   []string{"Clé", "Valeur", "Description"},
		CanCreate: true,
		CanEdit:   true,
	}
}

func (r *settingResource) Fields(ctx context.Context) ([]Field, error) {
	return []Field{
		{Name: "setting_key", Label: "Clé", Kind: KindText, Required: true, Help: "Lettres minuscules, chiffres et tirets bas."},
		{Name: "value", Label: "Valeur", Kind: KindTextarea},
		{Name: "description", Label: "Description", Kind: KindText},
	}, nil
}

func (r *settingResource) List(ctx context.Context) ([]Row, error) {
	settings, err := r.store.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(settings))
	for _, s := range settings {
		rows = append(rows, Row{ID: s.ID, Cells: []string{s.Key, s.Value, s.Description}})
	}
	return rows, nil
}

func (r *settingResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	s, err := r.store.GetSetting(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"setting_key": s.Key,
		"value":       s.Value,
		"description": s.Description,
	}, nil
}

func (r *settingResource) input(values url.Values) service.SettingInput {
	f := newForm(values)
	return service.SettingInput{
		Key:         f.str("setting_key"),
		Value:       f.text("value"),
		Description: f.str("description"),
	}
}

func (r *settingResource) Create(ctx context.Context, values url.Values) (int64, error) {
	s, err := r.store.CreateSetting(ctx, r.input(values))
	if err != nil {
		return 0, err
	}
	return s.ID, nil
}

func (r *settingResource) Update(ctx context.Context, id int64, values url.Values) error {
	_, err := r.store.UpdateSetting(ctx, id, r.input(values))
	return err
}

func (r *settingResource) Delete(ctx context.Context, id int64) error {
	return r.store.DeleteSetting(ctx, id)
}
