package schema

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates if this is a breaking change.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges reports whether any error or warning is a
// breaking change.
func (r *ValidationResult) HasBreakingChanges() bool {
	isBreaking := func(e *ValidationError) bool { return e.Breaking }
	return slices.ContainsFunc(r.Errors, isBreaking) || slices.ContainsFunc(r.Warnings, isBreaking)
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	if !r.HasErrors() && !r.HasWarnings() {
		return "No issues found"
	}
	var sb strings.Builder
	write := func(title string, errs []*ValidationError) {
		if len(errs) == 0 {
			return
		}
		sb.WriteString(title + ":\n")
		for _, e := range errs {
			sb.WriteString("  - " + e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	return sb.String()
}

func (r *ValidationResult) merge(o *ValidationResult) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

func (r *ValidationResult) errorf(table, column, format string, args ...any) {
	r.Errors = append(r.Errors, &ValidationError{Table: table, Column: column, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(table, column, format string, args ...any) {
	r.Warnings = append(r.Warnings, &ValidationError{Table: table, Column: column, Message: fmt.Sprintf(format, args...)})
}

// breaking records a breaking change, as a warning if it was allowed.
func (r *ValidationResult) breaking(allowed bool, table, column, msg string) {
	e := &ValidationError{Table: table, Column: column, Message: msg, Breaking: true}
	if allowed {
		r.Warnings = append(r.Warnings, e)
	} else {
		r.Errors = append(r.Errors, e)
	}
}

// ValidateOption configures ValidateDiff.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	dropColumn, dropIndex, nullToNotNull bool
}

// AllowDropColumn reports dropped columns as warnings.
func AllowDropColumn() ValidateOption {
	return func(c *validateConfig) { c.dropColumn = true }
}

// AllowDropIndex reports dropped indexes as warnings.
func AllowDropIndex() ValidateOption {
	return func(c *validateConfig) { c.dropIndex = true }
}

// AllowNullToNotNull reports nullable columns becoming NOT NULL as warnings.
func AllowNullToNotNull() ValidateOption {
	return func(c *validateConfig) { c.nullToNotNull = true }
}

// ValidateDiff reports the drift between the current tables, usually
// inspected from a database, and the desired tables built from the
// entity declarations. Tables missing from the database are reported as
// warnings; tables of the database missing from the declarations are
// ignored.
//
//	result := schema.ValidateDiff(current, desired)
//	if result.HasBreakingChanges() {
//	    return errors.New(result.String())
//	}
func ValidateDiff(current, desired []*Table, opts ...ValidateOption) *ValidationResult {
	var cfg validateConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &ValidationResult{}
	byName := make(map[string]*Table, len(current))
	for _, t := range current {
		byName[t.Name] = t
	}
	for _, d := range desired {
		if c, ok := byName[d.Name]; ok {
			r.diffTable(c, d, cfg)
		} else {
			r.warnf(d.Name, "", "table does not exist")
		}
	}
	return r
}

func (r *ValidationResult) diffTable(cur, want *Table, cfg validateConfig) {
	name := cur.Name
	for _, c := range cur.Columns {
		if !want.HasColumn(c.Name) {
			r.breaking(cfg.dropColumn, name, c.Name, "column is not declared")
		}
	}
	for _, wc := range want.Columns {
		cc, ok := cur.Column(wc.Name)
		if !ok {
			msg := "column does not exist"
			if !wc.Nullable && wc.Default == nil && !wc.Increment {
				msg += "; adding it as NOT NULL without default may fail if table has data"
			}
			r.warnf(name, wc.Name, "%s", msg)
			continue
		}
		if ct, wt := cc.TypeName(), wc.TypeName(); ct != wt {
			r.warnf(name, wc.Name, "column type changing from %s to %s", ct, wt)
		}
		if cc.Nullable && !wc.Nullable && !wc.PrimaryKey {
			r.breaking(cfg.nullToNotNull, name, wc.Name, "column changing from NULL to NOT NULL may fail if column has NULL values")
		}
		if cs, ws := cc.size(), wc.size(); cs > 0 && ws > 0 && ws < cs {
			r.warnf(name, wc.Name, "column size reducing from %d to %d may truncate data", cs, ws)
		}
		if !cc.Unique && wc.Unique && !wc.PrimaryKey {
			r.warnf(name, wc.Name, "adding UNIQUE constraint may fail if duplicate values exist")
		}
	}
	for _, idx := range cur.Indexes {
		if !slices.ContainsFunc(want.Indexes, func(i *TableIndex) bool { return i.Name == idx.Name }) {
			r.breaking(cfg.dropIndex, name, "", fmt.Sprintf("index %q is not declared", idx.Name))
		}
	}
}

// ValidateTable checks a table built from declarations for columns
// and properties that cannot be created or resolved.
func ValidateTable(t *Table) *ValidationResult {
	r := &ValidationResult{}
	if len(t.PrimaryKey) == 0 {
		r.warnf(t.Name, "", "table has no primary key")
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if seen[c.Name] {
			r.errorf(t.Name, c.Name, "duplicate column name")
		}
		seen[c.Name] = true
		switch {
		case c.Type == nil:
			r.errorf(t.Name, c.Name, "column has no type")
		case c.TypeName() == "Unicode":
			r.errorf(t.Name, c.Name, "unicode column has no length")
		}
		if _, ok := c.Type.(Numeric); ok && (c.Length <= 0 || c.Precision < 0 || c.Precision > c.Length) {
			r.errorf(t.Name, c.Name, "numeric precision %d and scale %d are invalid", c.Length, c.Precision)
		}
		if c.Increment && !c.PrimaryKey {
			r.errorf(t.Name, c.Name, "auto-increment column is not a primary key")
		}
		if _, ok := t.Deferral(c); ok && c.PrimaryKey {
			r.errorf(t.Name, c.Name, "primary key column is deferred")
		}
	}
	indexes := make(map[string]bool, len(t.Indexes))
	for _, idx := range t.Indexes {
		if indexes[idx.Name] {
			r.errorf(t.Name, "", "duplicate index name: %s", idx.Name)
		}
		indexes[idx.Name] = true
		for _, c := range idx.Columns {
			if c != nil && !seen[c.Name] {
				r.errorf(t.Name, "", "index %q references non-existent column %q", idx.Name, c.Name)
			}
		}
	}
	for _, name := range t.PropertyNames() {
		if _, _, err := t.Resolve(name); err != nil {
			r.errorf(t.Name, "", "property %q: %v", name, err)
		}
	}
	return r
}

// ValidateSchema validates the tables and their names.
func ValidateSchema(tables []*Table) *ValidationResult {
	r := &ValidationResult{}
	names := make(map[string]bool, len(tables))
	for _, t := range tables {
		if names[t.Name] {
			r.errorf(t.Name, "", "duplicate table name")
		}
		names[t.Name] = true
		r.merge(ValidateTable(t))
	}
	return r
}
