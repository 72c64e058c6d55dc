package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const (
	upMarker   = "-- +goose Up"
	downMarker = "-- +goose Down"
)

// CartTables are the tables the cart service reads and writes.
var CartTables = []string{"cart_snapshots"}

var (
	sqlFileRe     = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	createTableRe = regexp.MustCompile(`(?i)create\s+table\s+(?:if\s+not\s+exists\s+)?"?([a-z0-9_]+)"?`)
	dropTableRe   = regexp.MustCompile(`(?i)drop\s+table\s+(?:if\s+exists\s+)?"?([a-z0-9_]+)"?`)
)

type sqlMigration struct {
	name string
	up   string
	down string
}

// ValidateDir checks a goose migration directory: filenames, unique versions,
// an Up section ahead of its Down section, and that every table created in Up
// is dropped in the same file's Down. Each of requiredTables must be created
// by some migration.
func ValidateDir(dir string, requiredTables ...string) error {
	files, err := readMigrations(dir)
	if err != nil {
		return err
	}

	created := map[string]string{}
	for _, f := range files {
		dropped := tableNames(dropTableRe, f.down)
		for table := range tableNames(createTableRe, f.up) {
			if _, ok := dropped[table]; !ok {
				return fmt.Errorf("migration %q creates table %s but its Down does not drop it", f.name, table)
			}
			if prev, ok := created[table]; ok {
				return fmt.Errorf("table %s created by both %q and %q", table, prev, f.name)
			}
			created[table] = f.name
		}
	}

	for _, table := range requiredTables {
		if _, ok := created[strings.ToLower(table)]; !ok {
			return fmt.Errorf("no migration creates required table %s", table)
		}
	}
	return nil
}

func readMigrations(dir string) ([]sqlMigration, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	var files []sqlMigration
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", full, err)
		}
		f, err := splitSections(name, string(b))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

func splitSections(name, txt string) (sqlMigration, error) {
	up := strings.Index(txt, upMarker)
	if up < 0 {
		return sqlMigration{}, fmt.Errorf("migration %q missing %q", name, upMarker)
	}
	down := strings.Index(txt, downMarker)
	if down < 0 {
		return sqlMigration{}, fmt.Errorf("migration %q missing %q", name, downMarker)
	}
	if down < up {
		return sqlMigration{}, fmt.Errorf("migration %q has its Down section before Up", name)
	}
	return sqlMigration{
		name: name,
		up:   txt[up+len(upMarker) : down],
		down: txt[down+len(downMarker):],
	}, nil
}

func tableNames(re *regexp.Regexp, section string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			out[strings.ToLower(m[1])] = struct{}{}
		}
	}
	return out
}
