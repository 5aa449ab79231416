package schema

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/bridge/dialect"
	"github.com/syssam/bridge/dialect/sql"
)

// planName is the name given to migration plans.
const planName = "bridge"

// Plan renders the statements that create the tables on an empty
// database of the dialect. No database connection is needed.
func Plan(ctx context.Context, d string, tables []*Table) ([]string, error) {
	planner, err := planApplier(d)
	if err != nil {
		return nil, err
	}
	changes := make([]schema.Change, 0, len(tables))
	for _, t := range tables {
		at, err := t.Atlas(d)
		if err != nil {
			return nil, err
		}
		changes = append(changes, &schema.AddTable{T: at})
	}
	plan, err := planner.PlanChanges(ctx, planName, changes)
	if err != nil {
		return nil, fmt.Errorf("schema: plan %s: %w", d, err)
	}
	return commands(plan), nil
}

func planApplier(d string) (migrate.PlanApplier, error) {
	switch d {
	case dialect.SQLite:
		return sqlite.DefaultPlan, nil
	case dialect.MySQL:
		return mysql.DefaultPlan, nil
	case dialect.Postgres:
		return postgres.DefaultPlan, nil
	}
	return nil, fmt.Errorf("schema: unsupported dialect %q", d)
}

func commands(plan *migrate.Plan) []string {
	cmds := make([]string, len(plan.Changes))
	for i, c := range plan.Changes {
		cmds[i] = c.Cmd
	}
	return cmds
}

// Migrate inspects and migrates a live database.
type Migrate struct {
	drv        *sql.Driver
	logger     *slog.Logger
	dropColumn bool
	dropIndex  bool
}

// MigrateOption allows configuring Migrate using functional arguments.
type MigrateOption func(*Migrate)

// WithDropColumn sets the columns dropping option to the migration.
// Defaults to false.
func WithDropColumn(b bool) MigrateOption {
	return func(m *Migrate) {
		m.dropColumn = b
	}
}

// WithDropIndex sets the indexes dropping option to the migration.
// Defaults to false.
func WithDropIndex(b bool) MigrateOption {
	return func(m *Migrate) {
		m.dropIndex = b
	}
}

// WithLogger sets the logger of the migration.
func WithLogger(l *slog.Logger) MigrateOption {
	return func(m *Migrate) {
		m.logger = l
	}
}

// NewMigrate returns a migration for the database of drv.
func NewMigrate(drv *sql.Driver, opts ...MigrateOption) *Migrate {
	m := &Migrate{drv: drv, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Migrate) atlas() (migrate.Driver, error) {
	db := m.drv.DB()
	switch d := m.drv.Dialect(); d {
	case dialect.SQLite:
		return sqlite.Open(db)
	case dialect.MySQL:
		return mysql.Open(db)
	case dialect.Postgres:
		return postgres.Open(db)
	default:
		return nil, fmt.Errorf("schema: unsupported dialect %q", d)
	}
}

// Inspect returns the tables of the connected schema, sorted by name.
func (m *Migrate) Inspect(ctx context.Context) ([]*Table, error) {
	drv, err := m.atlas()
	if err != nil {
		return nil, err
	}
	s, err := drv.InspectSchema(ctx, "", nil)
	if err != nil {
		return nil, fmt.Errorf("schema: inspect: %w", err)
	}
	tables := make([]*Table, 0, len(s.Tables))
	for _, at := range s.Tables {
		t, err := FromAtlas(at)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	slices.SortFunc(tables, func(a, b *Table) int { return strings.Compare(a.Name, b.Name) })
	return tables, nil
}

// Diff returns the statements that bring the database to the given
// tables without executing them. Tables of the database that are not
// given are kept.
func (m *Migrate) Diff(ctx context.Context, tables ...*Table) ([]string, error) {
	drv, changes, err := m.changes(ctx, tables)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, nil
	}
	plan, err := drv.PlanChanges(ctx, planName, changes)
	if err != nil {
		return nil, fmt.Errorf("schema: plan: %w", err)
	}
	return commands(plan), nil
}

// Create brings the database to the given tables.
func (m *Migrate) Create(ctx context.Context, tables ...*Table) error {
	drv, changes, err := m.changes(ctx, tables)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		m.logger.DebugContext(ctx, "schema is up to date")
		return nil
	}
	if err := drv.ApplyChanges(ctx, changes); err != nil {
		return fmt.Errorf("schema: apply: %w", err)
	}
	m.logger.InfoContext(ctx, "schema migrated", slog.Int("changes", len(changes)))
	return nil
}

func (m *Migrate) changes(ctx context.Context, tables []*Table) (migrate.Driver, []schema.Change, error) {
	drv, err := m.atlas()
	if err != nil {
		return nil, nil, err
	}
	current, err := drv.InspectSchema(ctx, "", nil)
	if err != nil {
		return nil, nil, fmt.Errorf("schema: inspect: %w", err)
	}
	desired, err := Atlas(m.drv.Dialect(), current.Name, tables)
	if err != nil {
		return nil, nil, err
	}
	changes, err := drv.SchemaDiff(current, desired)
	if err != nil {
		return nil, nil, fmt.Errorf("schema: diff: %w", err)
	}
	return drv, m.filter(changes), nil
}

// filter removes the drop changes that are not enabled. Tables are
// never dropped.
func (m *Migrate) filter(changes []schema.Change) []schema.Change {
	out := changes[:0]
	for _, c := range changes {
		switch c := c.(type) {
		case *schema.DropTable:
			continue
		case *schema.ModifyTable:
			c.Changes = slices.DeleteFunc(c.Changes, func(c schema.Change) bool {
				switch c.(type) {
				case *schema.DropColumn:
					return !m.dropColumn
				case *schema.DropIndex:
					return !m.dropIndex
				}
				return false
			})
			if len(c.Changes) == 0 {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
