// Package appfs embeds the static assets shipped with the binary:
// goose migrations, email templates and the common-passwords list.
package appfs

import "embed"

//go:embed migrations all:templates common-passwords.txt.gz
var FS embed.FS
