// Package migrations embebe el SQL de goose de cada motor.
package migrations

import "embed"

// FS tiene un directorio por dialecto: postgres/ y sqlite/.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
