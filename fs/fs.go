package appfs

import "embed"

// FS holds the files shipped inside the binary: SQL migrations, translation tables,
// email & page templates and the catalog seed data.
//go:embed migrations locales templates data
var FS embed.FS
