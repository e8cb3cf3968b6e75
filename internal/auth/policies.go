package auth

import (
	"fmt"

	"studio-site/internal/logger"

	"github.com/casbin/casbin/v2"
)

// Subjects known to the policy set. Signed-in users act as their role.
const (
	SubjectAnonymous = "anonymous"
	SubjectEditor    = "editor"
	SubjectAdmin     = "admin"
)

// DefaultPolicies is the baseline rule set. Editors inherit anonymous rules
// and admins inherit editor rules.
var DefaultPolicies = [][]string{
	{SubjectAnonymous, "/admin/login", "GET"},
	{SubjectAnonymous, "/admin/login", "POST"},

	{SubjectEditor, "/admin", "GET"},
	{SubjectEditor, "/admin/logout", "POST"},
	{SubjectEditor, "/admin/posts", "*"},
	{SubjectEditor, "/admin/posts/*", "*"},
	{SubjectEditor, "/admin/categories", "*"},
	{SubjectEditor, "/admin/categories/*", "*"},
	{SubjectEditor, "/admin/comments", "*"},
	{SubjectEditor, "/admin/comments/*", "*"},

	{SubjectAdmin, "/admin/*", "*"},
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each rule exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) error {
	log.Info("Seeding default authorization policies...")

	for _, p := range DefaultPolicies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", p, err)
			}
		}
	}

	inheritance := [][2]string{
		{SubjectEditor, SubjectAnonymous},
		{SubjectAdmin, SubjectEditor},
	}
	for _, g := range inheritance {
		if has, _ := e.HasRoleForUser(g[0], g[1]); !has {
			if _, err := e.AddRoleForUser(g[0], g[1]); err != nil {
				return fmt.Errorf("failed to add role %s -> %s: %w", g[0], g[1], err)
			}
		}
	}
	log.Info("Policy seeding complete.")
	return nil
}
