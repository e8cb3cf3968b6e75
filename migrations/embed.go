// Package migrations embeds the SQL schema migrations for each supported
// database dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql mysql/*.sql
var FS embed.FS

// Dir returns the migration directory for a database driver name.
func Dir(driver string) string {
	if driver == "mysql" {
		return "mysql"
	}
	return "sqlite"
}
