package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"time"
)

var (
	upTemplate = template.Must(template.New("up").Parse(`-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
-- Description: {{.Description}}
--
-- Keep internal/infrastructure/persistence/models in step: SQLite databases
-- are built from the GORM models, not from these files.
-- Monetary columns are NUMERIC(10, 2).

`))
	downTemplate = template.Must(template.New("down").Parse(`-- Migration: {{.Name}} (Rollback)
-- Created: {{.Timestamp}}

`))
)

// MigrationFile is a newly created up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// MigrationInfo describes one migration found in a source
type MigrationInfo struct {
	Version string
	Name    string
	HasDown bool
}

// String returns the migration base name, e.g. 20261017090000_create_tables
func (m MigrationInfo) String() string {
	return m.Version + "_" + m.Name
}

// CreateMigration writes an empty up/down pair named after the current UTC
// time. Existing files are never overwritten.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := time.Now().UTC()
	version := now.Format("20060102150405")
	base := filepath.Join(migrationsDir, version+"_"+slug)

	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   now.Format(time.RFC3339),
		UpPath:      base + ".up.sql",
		DownPath:    base + ".down.sql",
	}

	if err := writeTemplate(mf.UpPath, upTemplate, mf); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := writeTemplate(mf.DownPath, downTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

func writeTemplate(path string, tmpl *template.Template, data *MigrationFile) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(f, data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// sanitizeName lowercases name and collapses every run of separators into a
// single underscore. Other characters are dropped.
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the migrations in fsys ordered by version. A
// missing directory yields an empty list.
func ListMigrations(fsys fs.FS) ([]MigrationInfo, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []MigrationInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	downs := make(map[string]bool)
	var found []MigrationInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".down.sql"); ok {
			downs[base] = true
			continue
		}
		base, ok := strings.CutSuffix(entry.Name(), ".up.sql")
		if !ok {
			continue
		}
		version, name, ok := strings.Cut(base, "_")
		if !ok || version == "" {
			continue
		}
		found = append(found, MigrationInfo{Version: version, Name: name})
	}

	for i := range found {
		found[i].HasDown = downs[found[i].String()]
	}
	slices.SortFunc(found, func(a, b MigrationInfo) int { return strings.Compare(a.Version, b.Version) })
	return found, nil
}
