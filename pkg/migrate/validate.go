package migrate

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// Validate checks every dialect directory under root: filenames, goose headers, and
// that all dialects carry the same set of versions.
func Validate(fsys fs.FS, root string) error {
	var (
		reference     map[string]string
		referenceName string
	)
	for _, dialect := range Dialects {
		versions, err := validateDialect(fsys, path.Join(root, dialect))
		if err != nil {
			return err
		}
		if reference == nil {
			reference, referenceName = versions, dialect
			continue
		}
		if err := sameVersions(referenceName, reference, dialect, versions); err != nil {
			return err
		}
	}
	return nil
}

func validateDialect(fsys fs.FS, dir string) (map[string]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", name, err)
		}
		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
	}
	return seen, nil
}

func sameVersions(aName string, a map[string]string, bName string, b map[string]string) error {
	for v, file := range a {
		if _, ok := b[v]; !ok {
			return fmt.Errorf("migration %s (%s) has no %s counterpart", file, aName, bName)
		}
	}
	for v, file := range b {
		if _, ok := a[v]; !ok {
			return fmt.Errorf("migration %s (%s) has no %s counterpart", file, bName, aName)
		}
	}
	return nil
}
