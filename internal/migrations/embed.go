package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var files embed.FS

// FS returns the migrations shipped with the binary.
func FS() fs.FS { return files }
