// assets/embed.go
//
// Files compiled into the binary:
//   - palette.yaml: default colors and rules (see internal/palette).
//   - sql/*.sql:    schema migrations, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed palette.yaml
var paletteYAML []byte

//go:embed sql/*.sql
var migrations embed.FS

// PaletteYAML returns the embedded default palette document.
func PaletteYAML() []byte {
	return paletteYAML
}

// Migrations returns the migration scripts rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		// The directory is embedded above; Sub only fails on a bad path.
		panic(err)
	}
	return sub
}
