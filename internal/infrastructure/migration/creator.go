package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const upTemplate = `-- Migration: %s
-- Created: %s

BEGIN;

-- TODO: write the forward migration

COMMIT;
`

const downTemplate = `-- Rollback: %s
-- Created: %s

BEGIN;

-- TODO: write the rollback

COMMIT;
`

// CreateMigration writes an empty timestamped .up.sql/.down.sql pair
// into dir and returns the two created paths.
func CreateMigration(dir, name string) (string, string, error) {
	if strings.TrimSpace(name) == "" {
		return "", "", fmt.Errorf("migration name cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	slug := sanitizeName(name)

	upPath := filepath.Join(dir, fmt.Sprintf("%s_%s.up.sql", version, slug))
	downPath := filepath.Join(dir, fmt.Sprintf("%s_%s.down.sql", version, slug))

	created := now.Format(time.RFC3339)
	if err := os.WriteFile(upPath, []byte(fmt.Sprintf(upTemplate, name, created)), 0o644); err != nil {
		return "", "", fmt.Errorf("writing up migration: %w", err)
	}
	if err := os.WriteFile(downPath, []byte(fmt.Sprintf(downTemplate, name, created)), 0o644); err != nil {
		os.Remove(upPath)
		return "", "", fmt.Errorf("writing down migration: %w", err)
	}

	return upPath, downPath, nil
}

// ListMigrations returns the sorted migration file names under dir.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

var invalidNameChars = regexp.MustCompile(`[^a-z0-9_]+`)

func sanitizeName(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = strings.ReplaceAll(slug, "-", "_")
	slug = invalidNameChars.ReplaceAllString(slug, "")
	return strings.Trim(slug, "_")
}
