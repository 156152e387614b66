package assets

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed clues.json sql/*.sql
var FS embed.FS

// Clues returns the raw embedded clue library.
func Clues() ([]byte, error) {
	return FS.ReadFile("clues.json")
}

// Migrations lists the embedded SQL migration files in lexical order.
func Migrations() ([]string, error) {
	names, err := fs.Glob(FS, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
