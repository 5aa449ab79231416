package load

import (
	"errors"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/syssam/bridge"
	"github.com/syssam/bridge/dialect/sqlschema"
	"github.com/syssam/bridge/schema"
	"github.com/syssam/bridge/schema/field"
	"github.com/syssam/bridge/schema/mixin"
)

// Entity is an entity declared in a model file.
type Entity struct {
	Name    string            `yaml:"name"`
	Table   string            `yaml:"table"`
	Comment string            `yaml:"comment"`
	Check   string            `yaml:"check"`
	Checks  map[string]string `yaml:"checks"`
	Mixins  []string          `yaml:"mixins"`
	Fields  []*Field          `yaml:"fields"`
	// Pos is the position of the declaration, as "file:line".
	Pos string `yaml:"-"`
}

// Field is a field declared in a model file. Options that do not apply
// to the kind are reported when the schema is built.
type Field struct {
	Name          string    `yaml:"name"`
	Kind          string    `yaml:"kind"`
	Column        string    `yaml:"column"`
	Synonym       string    `yaml:"synonym"`
	Deferred      Deferred  `yaml:"deferred"`
	Null          bool      `yaml:"null"`
	Blank         bool      `yaml:"blank"`
	Unique        bool      `yaml:"unique"`
	Index         bool      `yaml:"index"`
	PrimaryKey    bool      `yaml:"primary_key"`
	Editable      *bool     `yaml:"editable"`
	Default       any       `yaml:"default"`
	DefaultExpr   string    `yaml:"default_expr"`
	MaxLength     int       `yaml:"max_length"`
	MaxDigits     int       `yaml:"max_digits"`
	DecimalPlaces int       `yaml:"decimal_places"`
	Choices       []*Choice `yaml:"choices"`
	AutoNow       bool      `yaml:"auto_now"`
	AutoNowAdd    bool      `yaml:"auto_now_add"`
	VerboseName   string    `yaml:"verbose_name"`
	HelpText      string    `yaml:"help_text"`
	Path          string    `yaml:"path"`
	Match         string    `yaml:"match"`
	Recursive     bool      `yaml:"recursive"`
	UploadTo      string    `yaml:"upload_to"`
	WidthField    string    `yaml:"width_field"`
	HeightField   string    `yaml:"height_field"`
	SchemaPath    string    `yaml:"schema_path"`
	VerifyExists  *bool     `yaml:"verify_exists"`
	Collation     string    `yaml:"collation"`
	Check         string    `yaml:"check"`
	Comments      *bool     `yaml:"comments"`
}

// Choice is one allowed value of a field.
type Choice struct {
	Value any    `yaml:"value"`
	Label string `yaml:"label"`
}

// Deferred is the deferred option of a field. In model files it is
// either a boolean or the name of a deferred group.
type Deferred struct {
	Enabled bool
	Group   string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Deferred) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: deferred must be a boolean or a group name", n.Line)
	}
	if n.Tag == "!!bool" {
		return n.Decode(&d.Enabled)
	}
	if n.Value == "" {
		return fmt.Errorf("line %d: deferred group must not be empty", n.Line)
	}
	d.Enabled, d.Group = true, n.Value
	return nil
}

// mixins are the mixins model files may name.
var mixins = map[string]bridge.Mixin{
	"auto_id":    mixin.AutoID{},
	"timestamps": mixin.Timestamps{},
}

// Schema is the bridge.Interface of a declared entity.
type Schema struct {
	bridge.Schema
	decl   *Entity
	kinds  []field.Kind
	mixins []bridge.Mixin
}

// NewSchema checks the declaration and returns its schema.
func NewSchema(e *Entity) (*Schema, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("%s: entity has no name", e.Pos)
	}
	s := &Schema{decl: e}
	var errs []error
	for _, name := range e.Mixins {
		m, ok := mixins[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown mixin %q", name))
			continue
		}
		s.mixins = append(s.mixins, m)
	}
	for _, f := range e.Fields {
		k, ok := field.ParseKind(f.Kind)
		if !ok {
			errs = append(errs, fmt.Errorf("field %q: unknown kind %q", f.Name, f.Kind))
		}
		s.kinds = append(s.kinds, k)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("%s: entity %s: %w", e.Pos, e.Name, err)
	}
	return s, nil
}

// Name returns the entity name.
func (s *Schema) Name() string { return s.decl.Name }

// Fields returns new builders for the declared fields.
func (s *Schema) Fields() []bridge.Field {
	fields := make([]bridge.Field, len(s.decl.Fields))
	for i, f := range s.decl.Fields {
		fields[i] = f.builder(s.kinds[i])
	}
	return fields
}

// Mixin returns the named mixins.
func (s *Schema) Mixin() []bridge.Mixin { return s.mixins }

// Annotations returns the table options of the declaration.
func (s *Schema) Annotations() []schema.Annotation {
	var ants []schema.Annotation
	if s.decl.Table != "" {
		ants = append(ants, sqlschema.Table(s.decl.Table))
	}
	if s.decl.Check != "" {
		ants = append(ants, sqlschema.Check(s.decl.Check))
	}
	if len(s.decl.Checks) > 0 {
		ants = append(ants, sqlschema.Checks(maps.Clone(s.decl.Checks)))
	}
	if s.decl.Comment != "" {
		ants = append(ants, schema.Comment(s.decl.Comment))
	}
	return ants
}

// builder applies the declared options to a builder of the kind. Only
// options that were set are applied, so the builder reports options
// the kind does not support.
func (f *Field) builder(k field.Kind) *field.Builder {
	b := field.New(k, f.Name)
	if f.Column != "" {
		b.Column(f.Column)
	}
	if f.Synonym != "" {
		b.Synonym(f.Synonym)
	}
	switch d := f.Deferred; {
	case d.Group != "":
		b.DeferredGroup(d.Group)
	case d.Enabled:
		b.Deferred()
	}
	if f.Null {
		b.Null()
	}
	if f.Blank {
		b.Blank()
	}
	if f.Unique {
		b.Unique()
	}
	if f.Index {
		b.Index()
	}
	if f.PrimaryKey {
		b.PrimaryKey()
	}
	if f.Editable != nil {
		b.Editable(*f.Editable)
	}
	if f.Default != nil {
		b.Default(f.Default)
	}
	if f.MaxLength != 0 {
		b.MaxLen(f.MaxLength)
	}
	if f.MaxDigits != 0 {
		b.MaxDigits(f.MaxDigits)
	}
	if f.DecimalPlaces != 0 {
		b.DecimalPlaces(f.DecimalPlaces)
	}
	for _, c := range f.Choices {
		label := c.Label
		if label == "" {
			label = fmt.Sprint(c.Value)
		}
		b.Choices(field.Choice{Value: c.Value, Label: label})
	}
	if f.AutoNow {
		b.AutoNow()
	}
	if f.AutoNowAdd {
		b.AutoNowAdd()
	}
	if f.VerboseName != "" {
		b.VerboseName(f.VerboseName)
	}
	if f.HelpText != "" {
		b.HelpText(f.HelpText)
	}
	if f.Path != "" {
		b.Path(f.Path)
	}
	if f.Match != "" {
		b.Match(f.Match)
	}
	if f.Recursive {
		b.Recursive()
	}
	if f.UploadTo != "" {
		b.UploadTo(f.UploadTo)
	}
	if f.WidthField != "" {
		b.WidthField(f.WidthField)
	}
	if f.HeightField != "" {
		b.HeightField(f.HeightField)
	}
	if f.SchemaPath != "" {
		b.SchemaPath(f.SchemaPath)
	}
	if f.VerifyExists != nil {
		b.VerifyExists(*f.VerifyExists)
	}
	ant := sqlschema.Annotation{
		Check:        f.Check,
		Collation:    f.Collation,
		DefaultExpr:  f.DefaultExpr,
		WithComments: f.Comments,
	}
	if ant.Check != "" || ant.Collation != "" || ant.DefaultExpr != "" || ant.WithComments != nil {
		b.Annotations(ant)
	}
	return b
}
