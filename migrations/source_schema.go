package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SourceSchemaCheck describes a table/column requirement for host-owned tables
// the signal source reads.
type SourceSchemaCheck struct {
	Table   string
	Columns []string
}

// DefaultSourceSchemaChecks captures the minimal columns go-homebrief expects
// on the host tables behind the default signal source.
var DefaultSourceSchemaChecks = []SourceSchemaCheck{
	{
		Table: "packages",
		Columns: []string{
			"building_id",
			"status",
		},
	},
	{
		Table: "building_events",
		Columns: []string{
			"building_id",
			"starts_at",
		},
	},
	{
		Table: "posts",
		Columns: []string{
			"building_id",
			"created_at",
		},
	},
	{
		Table: "bulletin_listings",
		Columns: []string{
			"building_id",
			"created_at",
		},
	},
	{
		Table: "building_residents",
		Columns: []string{
			"building_id",
			"joined_at",
		},
	},
}

// SourceSchemaOption customizes source schema validation.
type SourceSchemaOption func(*sourceSchemaConfig)

type sourceSchemaConfig struct {
	checks []SourceSchemaCheck
}

// WithSourceSchemaChecks replaces the default checks with a custom list. Hosts
// that remap table names via signals.BunSourceConfig should pass matching
// checks here.
func WithSourceSchemaChecks(checks []SourceSchemaCheck) SourceSchemaOption {
	return func(cfg *sourceSchemaConfig) {
		cfg.checks = checks
	}
}

// SourceSchemaValidationError summarizes missing host tables/columns.
type SourceSchemaValidationError struct {
	MissingTables  []string
	MissingColumns map[string][]string
}

func (e *SourceSchemaValidationError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if len(e.MissingTables) > 0 {
		parts = append(parts, fmt.Sprintf("missing tables: %s", strings.Join(e.MissingTables, ", ")))
	}
	if len(e.MissingColumns) > 0 {
		tableKeys := make([]string, 0, len(e.MissingColumns))
		for table := range e.MissingColumns {
			tableKeys = append(tableKeys, table)
		}
		sort.Strings(tableKeys)
		cols := make([]string, 0, len(tableKeys))
		for _, table := range tableKeys {
			missing := e.MissingColumns[table]
			sort.Strings(missing)
			cols = append(cols, fmt.Sprintf("%s(%s)", table, strings.Join(missing, ", ")))
		}
		parts = append(parts, fmt.Sprintf("missing columns: %s", strings.Join(cols, "; ")))
	}
	if len(parts) == 0 {
		return "source schema validation failed"
	}
	return "source schema validation failed: " + strings.Join(parts, "; ")
}

// ValidateSourceSchema ensures host-owned tables expose the columns the signal
// aggregator queries rely on. Run it at boot so a schema drift surfaces as a
// startup error instead of a permanently degraded brief.
func ValidateSourceSchema(ctx context.Context, db *sql.DB, dialect string, opts ...SourceSchemaOption) error {
	if db == nil {
		return errors.New("migrations: db required")
	}
	normalized := strings.ToLower(strings.TrimSpace(dialect))
	switch normalized {
	case "postgres", "postgresql":
		normalized = "postgres"
	case "sqlite", "sqlite3":
		normalized = "sqlite"
	default:
		return fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}

	cfg := sourceSchemaConfig{
		checks: DefaultSourceSchemaChecks,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.checks) == 0 {
		return nil
	}

	missingTables := make([]string, 0)
	missingColumns := make(map[string][]string)
	for _, check := range cfg.checks {
		if strings.TrimSpace(check.Table) == "" {
			continue
		}
		cols, err := fetchColumns(ctx, db, normalized, check.Table)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			missingTables = append(missingTables, check.Table)
			continue
		}
		for _, col := range check.Columns {
			normalizedCol := strings.ToLower(strings.TrimSpace(col))
			if normalizedCol == "" {
				continue
			}
			if !cols[normalizedCol] {
				missingColumns[check.Table] = append(missingColumns[check.Table], normalizedCol)
			}
		}
	}

	if len(missingTables) == 0 && len(missingColumns) == 0 {
		return nil
	}
	sort.Strings(missingTables)
	return &SourceSchemaValidationError{
		MissingTables:  missingTables,
		MissingColumns: missingColumns,
	}
}

func fetchColumns(ctx context.Context, db *sql.DB, dialect, table string) (map[string]bool, error) {
	switch dialect {
	case "postgres":
		return fetchColumnsPostgres(ctx, db, table)
	case "sqlite":
		return fetchColumnsSQLite(ctx, db, table)
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}

func fetchColumnsPostgres(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
	`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}

func fetchColumnsSQLite(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}
