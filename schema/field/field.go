package field

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/syssam/bridge/schema"
)

// A Descriptor holds the framework metadata of one declared field.
type Descriptor struct {
	Name          string              // attribute name.
	Kind          Kind                // field kind.
	VerboseName   string              // human-readable name.
	HelpText      string              // help text, used as column comment.
	Column        string              // explicit storage column name.
	Synonym       string              // alias attribute for the same column.
	Deferred      Deferral            // deferred loading.
	Null          bool                // nullable in storage.
	Blank         bool                // empty values pass validation.
	Unique        bool                // unique constraint.
	Index         bool                // indexed column.
	PrimaryKey    bool                // primary key column.
	Editable      bool                // editable by users.
	Default       any                 // default value or func() T.
	MaxLength     int                 // maximum length of textual kinds.
	MaxDigits     int                 // total digits of decimal kinds.
	DecimalPlaces int                 // decimal places of decimal kinds.
	Choices       []Choice            // allowed values.
	AutoNow       bool                // set to now on every save.
	AutoNowAdd    bool                // set to now on insert.
	Path          string              // file path kinds: directory to list.
	Match         string              // file path kinds: file name pattern.
	Recursive     bool                // file path kinds: include subdirectories.
	UploadTo      string              // file kinds: upload directory.
	WidthField    string              // image kinds: attribute holding the width.
	HeightField   string              // image kinds: attribute holding the height.
	SchemaPath    string              // xml kinds: path of the validating schema.
	VerifyExists  bool                // url kinds: verify the target exists.
	Annotations   []schema.Annotation // field annotations.
	Validators    []func(any) error   // user validators.
	Err           error
}

// A Deferral describes deferred loading of a field. A field in a named
// group is loaded together with the other members of the group on first
// access to any of them; a field without a group is loaded on its own.
type Deferral struct {
	Enabled bool
	Group   string
}

// String implements fmt.Stringer.
func (d Deferral) String() string {
	switch {
	case !d.Enabled:
		return "eager"
	case d.Group != "":
		return "deferred(" + d.Group + ")"
	default:
		return "deferred"
	}
}

// A Choice is one allowed value of a field.
type Choice struct {
	Value any
	Label string
}

// StorageName returns the explicit column name, or the attribute name
// when none was given.
func (d *Descriptor) StorageName() string {
	if d.Column != "" {
		return d.Column
	}
	return d.Name
}

// HasDefault reports if the field declares a default value.
func (d *Descriptor) HasDefault() bool {
	return d.Default != nil
}

// DefaultValue returns the default value. Function defaults are called.
func (d *Descriptor) DefaultValue() any {
	if d.Default == nil {
		return nil
	}
	rv := reflect.ValueOf(d.Default)
	if rv.Kind() == reflect.Func {
		return rv.Call(nil)[0].Interface()
	}
	return d.Default
}

// DefaultFunc reports if the default value is a function.
func (d *Descriptor) DefaultFunc() bool {
	return d.Default != nil && reflect.TypeOf(d.Default).Kind() == reflect.Func
}

// Builder is the builder of all field kinds. Options that do not apply to
// the builder's kind are recorded in Descriptor.Err.
type Builder struct {
	desc *Descriptor
	err  error
}

func newBuilder(kind Kind, name string) *Builder {
	return &Builder{desc: &Descriptor{
		Name:     name,
		Kind:     kind,
		Editable: true,
	}}
}

// Column sets the storage column name. By default the attribute name is used.
func (b *Builder) Column(name string) *Builder {
	b.desc.Column = name
	return b
}

// Synonym exposes the field under a second attribute name.
func (b *Builder) Synonym(name string) *Builder {
	b.desc.Synonym = name
	return b
}

// Deferred defers loading of the field until first access.
func (b *Builder) Deferred() *Builder {
	b.desc.Deferred = Deferral{Enabled: true}
	return b
}

// DeferredGroup defers loading of the field and loads it together with
// the other fields of the group.
func (b *Builder) DeferredGroup(group string) *Builder {
	if group == "" {
		b.fail(errors.New("deferred group must not be empty"))
		return b
	}
	b.desc.Deferred = Deferral{Enabled: true, Group: group}
	return b
}

// Null allows NULL values in storage.
func (b *Builder) Null() *Builder {
	b.desc.Null = true
	return b
}

// Blank allows empty values in validation.
func (b *Builder) Blank() *Builder {
	b.desc.Blank = true
	return b
}

// Unique adds a unique constraint on the column.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// Index adds an index on the column.
func (b *Builder) Index() *Builder {
	b.desc.Index = true
	return b
}

// PrimaryKey makes the field the primary key of its entity.
func (b *Builder) PrimaryKey() *Builder {
	b.desc.PrimaryKey = true
	return b
}

// Editable marks the field as editable or not.
func (b *Builder) Editable(v bool) *Builder {
	b.desc.Editable = v
	return b
}

// Default sets the default value. A function with no arguments and one
// result is called whenever a default is needed.
func (b *Builder) Default(v any) *Builder {
	if rt := reflect.TypeOf(v); rt != nil && rt.Kind() == reflect.Func && (rt.NumIn() != 0 || rt.NumOut() != 1) {
		b.fail(fmt.Errorf("default function must have no arguments and one result, got %s", rt))
		return b
	}
	b.desc.Default = v
	return b
}

// Choices restricts the field to the given choices.
func (b *Builder) Choices(choices ...Choice) *Builder {
	b.desc.Choices = append(b.desc.Choices, choices...)
	return b
}

// Values restricts the field to the given values, labelled by themselves.
func (b *Builder) Values(values ...any) *Builder {
	for _, v := range values {
		b.desc.Choices = append(b.desc.Choices, Choice{Value: v, Label: fmt.Sprint(v)})
	}
	return b
}

// VerboseName sets the human-readable name.
func (b *Builder) VerboseName(s string) *Builder {
	b.desc.VerboseName = s
	return b
}

// HelpText sets the help text of the field.
func (b *Builder) HelpText(s string) *Builder {
	b.desc.HelpText = s
	return b
}

// Annotations adds annotations to the field.
func (b *Builder) Annotations(ants ...schema.Annotation) *Builder {
	b.desc.Annotations = append(b.desc.Annotations, ants...)
	return b
}

// Validate adds a user validator.
func (b *Builder) Validate(fn func(any) error) *Builder {
	b.desc.Validators = append(b.desc.Validators, fn)
	return b
}

// MaxLen sets the maximum length of textual kinds.
func (b *Builder) MaxLen(n int) *Builder {
	if b.supports("MaxLen", b.desc.Kind.Sized()) {
		b.desc.MaxLength = n
	}
	return b
}

// MaxDigits sets the total number of digits of decimal kinds.
func (b *Builder) MaxDigits(n int) *Builder {
	if b.supports("MaxDigits", b.desc.Kind == KindDecimal) {
		b.desc.MaxDigits = n
	}
	return b
}

// DecimalPlaces sets the number of decimal places of decimal kinds.
func (b *Builder) DecimalPlaces(n int) *Builder {
	if b.supports("DecimalPlaces", b.desc.Kind == KindDecimal) {
		b.desc.DecimalPlaces = n
	}
	return b
}

// AutoNow sets the field to the current time on every save.
func (b *Builder) AutoNow() *Builder {
	if b.supports("AutoNow", b.desc.Kind.Temporal()) {
		b.desc.AutoNow = true
		b.desc.Editable, b.desc.Blank = false, true
	}
	return b
}

// AutoNowAdd sets the field to the current time when the row is inserted.
func (b *Builder) AutoNowAdd() *Builder {
	if b.supports("AutoNowAdd", b.desc.Kind.Temporal()) {
		b.desc.AutoNowAdd = true
		b.desc.Editable, b.desc.Blank = false, true
	}
	return b
}

// Path sets the directory listed by file path kinds.
func (b *Builder) Path(p string) *Builder {
	if b.supports("Path", b.desc.Kind == KindFilePath) {
		b.desc.Path = p
	}
	return b
}

// Match sets the file name pattern of file path kinds.
func (b *Builder) Match(pattern string) *Builder {
	if b.supports("Match", b.desc.Kind == KindFilePath) {
		b.desc.Match = pattern
	}
	return b
}

// Recursive includes subdirectories of Path for file path kinds.
func (b *Builder) Recursive() *Builder {
	if b.supports("Recursive", b.desc.Kind == KindFilePath) {
		b.desc.Recursive = true
	}
	return b
}

// UploadTo sets the upload directory of file kinds.
func (b *Builder) UploadTo(dir string) *Builder {
	if b.supports("UploadTo", b.desc.Kind.Is(KindFile)) {
		b.desc.UploadTo = dir
	}
	return b
}

// WidthField names the attribute that stores the image width.
func (b *Builder) WidthField(name string) *Builder {
	if b.supports("WidthField", b.desc.Kind == KindImage) {
		b.desc.WidthField = name
	}
	return b
}

// HeightField names the attribute that stores the image height.
func (b *Builder) HeightField(name string) *Builder {
	if b.supports("HeightField", b.desc.Kind == KindImage) {
		b.desc.HeightField = name
	}
	return b
}

// SchemaPath sets the validating schema of xml kinds.
func (b *Builder) SchemaPath(p string) *Builder {
	if b.supports("SchemaPath", b.desc.Kind == KindXML) {
		b.desc.SchemaPath = p
	}
	return b
}

// VerifyExists sets whether url kinds verify the target exists.
func (b *Builder) VerifyExists(v bool) *Builder {
	if b.supports("VerifyExists", b.desc.Kind == KindURL) {
		b.desc.VerifyExists = v
	}
	return b
}

// Descriptor implements the bridge.Field interface by returning its descriptor.
func (b *Builder) Descriptor() *Descriptor {
	d := b.desc
	if d.VerboseName == "" {
		d.VerboseName = strings.ReplaceAll(d.Name, "_", " ")
	}
	errs := []error{b.err}
	switch k := d.Kind; {
	case k == KindAuto:
		d.PrimaryKey, d.Blank = true, true
	case k == KindNullBool:
		d.Null, d.Blank = true, true
	case k.Sized() && d.MaxLength <= 0:
		errs = append(errs, fmt.Errorf("%s requires a positive max length", k.Class()))
	case k == KindDecimal && d.MaxDigits <= 0:
		errs = append(errs, errors.New("DecimalField requires positive max digits"))
	case k == KindDecimal && (d.DecimalPlaces < 0 || d.DecimalPlaces > d.MaxDigits):
		errs = append(errs, fmt.Errorf("DecimalField decimal places %d out of range [0, %d]", d.DecimalPlaces, d.MaxDigits))
	}
	if d.PrimaryKey {
		d.Null = false
	}
	if d.AutoNow && d.AutoNowAdd {
		errs = append(errs, errors.New("AutoNow and AutoNowAdd are mutually exclusive"))
	}
	if d.PrimaryKey && d.Deferred.Enabled {
		errs = append(errs, errors.New("primary key may not be deferred"))
	}
	if dv := d.Default; dv != nil && !d.DefaultFunc() && len(d.Choices) > 0 {
		if !d.hasChoice(dv) {
			errs = append(errs, fmt.Errorf("default value %v is not one of the choices", dv))
		}
	}
	d.Err = errors.Join(errs...)
	return d
}

// supports records an error when the option does not apply to the kind.
func (b *Builder) supports(option string, ok bool) bool {
	if !ok {
		b.fail(fmt.Errorf("%s is not supported by %s", option, b.desc.Kind.Class()))
	}
	return ok
}

func (b *Builder) fail(err error) {
	b.err = errors.Join(b.err, err)
}
