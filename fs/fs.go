// Package appfs exposes static assets (DB migrations, email templates)
// embedded into the binary so deployments stay a single artifact.
package appfs

import "embed"

//go:embed migrations templates
var FS embed.FS
