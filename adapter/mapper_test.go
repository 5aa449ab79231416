package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/bridge"
	"github.com/syssam/bridge/dialect/sql/schema"
	"github.com/syssam/bridge/dialect/sqlschema"
	"github.com/syssam/bridge/schema/field"
)

func TestDefault_ColumnTypes(t *testing.T) {
	r := Default()
	tests := []struct {
		field bridge.Field
		want  schema.Type
	}{
		{field.Auto("id"), schema.Integer{}},
		{field.Bool("active"), schema.Boolean{}},
		{field.NullBool("flag"), schema.Boolean{}},
		{field.Char("title").MaxLen(100), schema.Unicode{Length: 100}},
		{field.CommaSeparatedInt("ids").MaxLen(40), schema.Unicode{Length: 40}},
		{field.Email("email"), schema.Unicode{Length: 75}},
		{field.File("doc"), schema.Unicode{Length: 100}},
		{field.Image("photo"), schema.Unicode{Length: 100}},
		{field.FilePath("path").Path("/tmp"), schema.Unicode{Length: 100}},
		{field.IPAddress("ip"), schema.Unicode{Length: 15}},
		{field.Slug("slug"), schema.Unicode{Length: 50}},
		{field.URL("home"), schema.Unicode{Length: 200}},
		{field.Text("body"), schema.UnicodeText{}},
		{field.XML("layout").SchemaPath("layout.xsd"), schema.UnicodeText{}},
		{field.Date("born"), schema.Date{}},
		{field.Time("opens"), schema.Time{}},
		{field.DateTime("seen"), schema.DateTime{}},
		{field.Decimal("price").MaxDigits(10).DecimalPlaces(2), schema.Numeric{}},
		{field.Float("ratio"), schema.Float{}},
		{field.Int("count"), schema.Integer{}},
		{field.PositiveInt("stock"), schema.Integer{}},
		{field.Ordering("order"), schema.Integer{}},
		{field.SmallInt("rank"), schema.SmallInteger{}},
		{field.PositiveSmallInt("level"), schema.SmallInteger{}},
		{field.PhoneNumber("phone"), schema.Unicode{Length: 20}},
		{field.USState("state"), schema.Unicode{Length: 2}},
	}
	require.Len(t, tests, len(field.Kinds()), "every kind is covered")
	for _, tt := range tests {
		d := tt.field.Descriptor()
		t.Run(d.Kind.String(), func(t *testing.T) {
			require.NoError(t, d.Err)
			got, err := r.Lookup(d.Kind).ColumnType(d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBase_ColumnType(t *testing.T) {
	d := field.Char("title").MaxLen(10).Descriptor()
	_, err := Base{}.ColumnType(d)
	require.ErrorIs(t, err, bridge.ErrUnimplementedType)
	var te *bridge.TypeMappingError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "CharField", te.Kind)
	assert.Equal(t, "title", te.Field)

	_, err = Typed{}.ColumnType(d)
	assert.ErrorIs(t, err, bridge.ErrUnimplementedType)
}

func TestBase_Annotations(t *testing.T) {
	d := field.Char("code").MaxLen(8).HelpText("product code").Annotations(
		sqlschema.Check("length(code) > 2"),
		sqlschema.Checks(map[string]string{"z_upper": "code = upper(code)", "a_ascii": "code NOT GLOB '*[^ -~]*'"}),
		sqlschema.Collation("NOCASE"),
		sqlschema.DefaultExpr("'AAA'"),
	).Descriptor()

	args := Base{}.ColumnArgs(d)
	c := schema.NewColumn("code", schema.Unicode{Length: 8}, args, Base{}.ColumnOptions(d)...)
	require.Len(t, c.Checks, 3)
	assert.Equal(t, &schema.Check{Expr: "length(code) > 2"}, c.Checks[0])
	assert.Equal(t, "a_ascii", c.Checks[1].Name)
	assert.Equal(t, "z_upper", c.Checks[2].Name)
	assert.Equal(t, "NOCASE", c.Collation)
	assert.Equal(t, schema.Expr("'AAA'"), c.Default)
	assert.Equal(t, "product code", c.Comment)

	d = field.Char("code").MaxLen(8).HelpText("hidden").Annotations(sqlschema.WithComments(false)).Descriptor()
	c = schema.NewColumn("code", schema.Unicode{Length: 8}, Base{}.ColumnArgs(d), Base{}.ColumnOptions(d)...)
	assert.Empty(t, c.Comment)
	assert.Empty(t, c.Checks)

	assert.Nil(t, Base{}.ColumnArgs(field.Int("n").Descriptor()))
}

func TestDecimal_ColumnOptions(t *testing.T) {
	d := field.Decimal("price").MaxDigits(10).DecimalPlaces(2).Descriptor()
	c := schema.NewColumn("price", schema.Numeric{}, nil, Decimal{}.ColumnOptions(d)...)
	assert.Equal(t, 10, c.Length)
	assert.Equal(t, 2, c.Precision)
}

func TestAuto_ColumnOptions(t *testing.T) {
	d := &field.Descriptor{Name: "id", Kind: field.KindAuto, Null: true}
	opts := append([]schema.ColumnOption{schema.PrimaryKey(false), schema.Nullable(true)}, Auto{}.ColumnOptions(d)...)
	c := schema.NewColumn("id", schema.Integer{}, nil, opts...)
	assert.True(t, c.PrimaryKey)
	assert.True(t, c.Increment)
	assert.False(t, c.Nullable)
}

func TestChar_ColumnType(t *testing.T) {
	_, err := Char{}.ColumnType(&field.Descriptor{Name: "title", Kind: field.KindChar})
	assert.EqualError(t, err, `adapter: CharField "title" has no max length`)

	typ, err := Char{Width: 20}.ColumnType(&field.Descriptor{Name: "phone", Kind: field.KindPhoneNumber, MaxLength: 5})
	require.NoError(t, err)
	assert.Equal(t, schema.Unicode{Length: 20}, typ)
}
