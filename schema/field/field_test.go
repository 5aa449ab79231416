package field_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/syssam/bridge/schema"
	"github.com/syssam/bridge/schema/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChar(t *testing.T) {
	fd := field.Char("title").
		MaxLen(100).
		HelpText("headline").
		Descriptor()
	require.NoError(t, fd.Err)
	assert.Equal(t, "title", fd.Name)
	assert.Equal(t, field.KindChar, fd.Kind)
	assert.Equal(t, 100, fd.MaxLength)
	assert.Equal(t, "headline", fd.HelpText)
	assert.Equal(t, "title", fd.VerboseName)
	assert.Equal(t, "title", fd.StorageName())
	assert.True(t, fd.Editable)
	assert.False(t, fd.Null)

	fd = field.Char("first_name").MaxLen(30).Column("fname").Descriptor()
	assert.Equal(t, "fname", fd.Column)
	assert.Equal(t, "fname", fd.StorageName())
	assert.Equal(t, "first name", fd.VerboseName)

	fd = field.Char("title").Descriptor()
	assert.EqualError(t, fd.Err, "CharField requires a positive max length")
	fd = field.CommaSeparatedInt("ids").Descriptor()
	assert.Error(t, fd.Err)
}

func TestDescriptor_Idempotent(t *testing.T) {
	b := field.Char("title")
	fd1 := b.Descriptor()
	fd2 := b.Descriptor()
	assert.Same(t, fd1, fd2)
	assert.EqualError(t, fd2.Err, "CharField requires a positive max length")
}

func TestDefaultMaxLengths(t *testing.T) {
	tests := []struct {
		b    *field.Builder
		kind field.Kind
		max  int
	}{
		{field.Email("e"), field.KindEmail, 75},
		{field.File("f"), field.KindFile, 100},
		{field.FilePath("p"), field.KindFilePath, 100},
		{field.Image("i"), field.KindImage, 100},
		{field.IPAddress("ip"), field.KindIPAddress, 15},
		{field.Slug("s"), field.KindSlug, 50},
		{field.URL("u"), field.KindURL, 200},
		{field.USState("st"), field.KindUSState, 2},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			fd := tt.b.Descriptor()
			require.NoError(t, fd.Err)
			assert.Equal(t, tt.kind, fd.Kind)
			assert.Equal(t, tt.max, fd.MaxLength)
		})
	}
	assert.True(t, field.Slug("s").Descriptor().Index)
	assert.True(t, field.URL("u").Descriptor().VerifyExists)
	assert.False(t, field.URL("u").VerifyExists(false).Descriptor().VerifyExists)
}

func TestAuto(t *testing.T) {
	fd := field.Auto("id").Null().Descriptor()
	require.NoError(t, fd.Err)
	assert.Equal(t, field.KindAuto, fd.Kind)
	assert.True(t, fd.PrimaryKey)
	assert.True(t, fd.Blank)
	assert.False(t, fd.Null, "primary keys are never null")
}

func TestBool(t *testing.T) {
	fd := field.Bool("active").Default(true).Descriptor()
	require.NoError(t, fd.Err)
	assert.True(t, fd.Blank)
	assert.False(t, fd.Null)
	assert.Equal(t, true, fd.DefaultValue())

	fd = field.NullBool("flag").Descriptor()
	assert.True(t, fd.Null)
	assert.True(t, fd.Blank)
}

func TestDecimal(t *testing.T) {
	fd := field.Decimal("price").MaxDigits(10).DecimalPlaces(2).Descriptor()
	require.NoError(t, fd.Err)
	assert.Equal(t, 10, fd.MaxDigits)
	assert.Equal(t, 2, fd.DecimalPlaces)

	fd = field.Decimal("price").Descriptor()
	assert.EqualError(t, fd.Err, "DecimalField requires positive max digits")
	fd = field.Decimal("price").MaxDigits(3).DecimalPlaces(5).Descriptor()
	assert.EqualError(t, fd.Err, "DecimalField decimal places 5 out of range [0, 3]")
}

func TestFilePath(t *testing.T) {
	fd := field.FilePath("tpl").Path("/srv/tpl").Match(`\.html$`).Recursive().Descriptor()
	require.NoError(t, fd.Err)
	assert.Equal(t, "/srv/tpl", fd.Path)
	assert.Equal(t, `\.html$`, fd.Match)
	assert.True(t, fd.Recursive)

	fd = field.FilePath("tpl").Match(`\.txt$`).Descriptor()
	assert.False(t, fd.Recursive, "match must not leak into recursive")
}

func TestFileAndImage(t *testing.T) {
	fd := field.Image("photo").UploadTo("photos").WidthField("w").HeightField("h").Descriptor()
	require.NoError(t, fd.Err)
	assert.Equal(t, "photos", fd.UploadTo)
	assert.Equal(t, "w", fd.WidthField)
	assert.Equal(t, "h", fd.HeightField)

	fd = field.File("doc").WidthField("w").Descriptor()
	assert.EqualError(t, fd.Err, "WidthField is not supported by FileField")
}

func TestXML(t *testing.T) {
	fd := field.XML("doc").SchemaPath("/schemas/doc.rng").Descriptor()
	require.NoError(t, fd.Err)
	assert.Equal(t, "/schemas/doc.rng", fd.SchemaPath)
}

func TestUnsupportedOptions(t *testing.T) {
	tests := []struct {
		name string
		fd   *field.Descriptor
		err  string
	}{
		{"max len on int", field.Int("n").MaxLen(3).Descriptor(), "MaxLen is not supported by IntegerField"},
		{"max len on text", field.Text("t").MaxLen(3).Descriptor(), "MaxLen is not supported by TextField"},
		{"digits on float", field.Float("f").MaxDigits(3).Descriptor(), "MaxDigits is not supported by FloatField"},
		{"places on char", field.Char("c").MaxLen(3).DecimalPlaces(1).Descriptor(), "DecimalPlaces is not supported by CharField"},
		{"auto now on char", field.Char("c").MaxLen(3).AutoNow().Descriptor(), "AutoNow is not supported by CharField"},
		{"path on file", field.File("f").Path("/").Descriptor(), "Path is not supported by FileField"},
		{"schema on text", field.Text("t").SchemaPath("x").Descriptor(), "SchemaPath is not supported by TextField"},
		{"verify on char", field.Char("c").MaxLen(3).VerifyExists(true).Descriptor(), "VerifyExists is not supported by CharField"},
		{"upload on int", field.Int("n").UploadTo("x").Descriptor(), "UploadTo is not supported by IntegerField"},
		{"empty group", field.Text("t").DeferredGroup("").Descriptor(), "deferred group must not be empty"},
		{"bad default func", field.Int("n").Default(func(int) int { return 0 }).Descriptor(), "default function must have no arguments and one result, got func(int) int"},
		{"default not a choice", field.Int("n").Values(1, 2).Default(3).Descriptor(), "default value 3 is not one of the choices"},
		{"auto now both", field.Date("d").AutoNow().AutoNowAdd().Descriptor(), "AutoNow and AutoNowAdd are mutually exclusive"},
		{"deferred auto", field.Auto("id").Deferred().Descriptor(), "primary key may not be deferred"},
		{"deferred primary key", field.Char("code").MaxLen(8).PrimaryKey().DeferredGroup("meta").Descriptor(), "primary key may not be deferred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.fd.Err, tt.err)
		})
	}
}

func TestDeferral(t *testing.T) {
	fd := field.Text("body").Descriptor()
	assert.False(t, fd.Deferred.Enabled)
	assert.Equal(t, "eager", fd.Deferred.String())

	fd = field.Text("body").Deferred().Descriptor()
	assert.Equal(t, field.Deferral{Enabled: true}, fd.Deferred)
	assert.Equal(t, "deferred", fd.Deferred.String())

	fd = field.Text("body").DeferredGroup("content").Descriptor()
	assert.Equal(t, field.Deferral{Enabled: true, Group: "content"}, fd.Deferred)
	assert.Equal(t, "deferred(content)", fd.Deferred.String())
}

func TestCommonOptions(t *testing.T) {
	ant := schema.Comment("x")
	fd := field.Int("rank").
		Synonym("position").
		Null().
		Unique().
		Index().
		VerboseName("Rank").
		Annotations(ant).
		Choices(field.Choice{Value: 1, Label: "first"}).
		Values(2).
		Descriptor()
	require.NoError(t, fd.Err)
	assert.Equal(t, "position", fd.Synonym)
	assert.True(t, fd.Null)
	assert.True(t, fd.Unique)
	assert.True(t, fd.Index)
	assert.Equal(t, "Rank", fd.VerboseName)
	assert.Equal(t, []schema.Annotation{ant}, fd.Annotations)
	assert.Equal(t, []field.Choice{{Value: 1, Label: "first"}, {Value: 2, Label: "2"}}, fd.Choices)

	fd = field.Char("code").MaxLen(3).PrimaryKey().Null().Descriptor()
	assert.True(t, fd.PrimaryKey)
	assert.False(t, fd.Null)

	fd = field.Ordering("order").Descriptor()
	assert.False(t, fd.Editable)
}

func TestDefaultFunc(t *testing.T) {
	calls := 0
	fd := field.Int("n").Default(func() int { calls++; return 42 }).Descriptor()
	require.NoError(t, fd.Err)
	assert.True(t, fd.HasDefault())
	assert.True(t, fd.DefaultFunc())
	assert.Equal(t, 42, fd.DefaultValue())
	assert.Equal(t, 1, calls)

	fd = field.Int("n").Descriptor()
	assert.False(t, fd.HasDefault())
	assert.False(t, fd.DefaultFunc())
	assert.Nil(t, fd.DefaultValue())
}

func TestNew(t *testing.T) {
	for _, k := range field.Kinds() {
		fd := field.New(k, "f").Descriptor()
		assert.Equal(t, k, fd.Kind)
	}
	assert.Equal(t, 75, field.New(field.KindEmail, "e").Descriptor().MaxLength)
	fd := field.New(field.KindInvalid, "f").Descriptor()
	assert.EqualError(t, fd.Err, "invalid field kind 0")
}

func TestAutoNow(t *testing.T) {
	fd := field.DateTime("modified").AutoNow().Descriptor()
	require.NoError(t, fd.Err)
	assert.True(t, fd.AutoNow)
	assert.False(t, fd.Editable)
	assert.True(t, fd.Blank)

	fd = field.Time("at").AutoNowAdd().Descriptor()
	require.NoError(t, fd.Err)
	assert.True(t, fd.AutoNowAdd)
}

func TestPreSave(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

	fd := field.DateTime("modified").AutoNow().Descriptor()
	assert.Equal(t, now, fd.PreSave(nil, false, now))
	assert.Equal(t, now, fd.PreSave(time.Time{}, true, now))

	fd = field.Date("created").AutoNowAdd().Descriptor()
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), fd.PreSave(nil, true, now))
	assert.Nil(t, fd.PreSave(nil, false, now))

	fd = field.Char("status").MaxLen(10).Default("draft").Descriptor()
	assert.Equal(t, "draft", fd.PreSave(nil, true, now))
	assert.Equal(t, "live", fd.PreSave("live", true, now))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		fd   *field.Descriptor
		v    any
		err  error
	}{
		{"char ok", field.Char("c").MaxLen(5).Descriptor(), "hello", nil},
		{"char too long", field.Char("c").MaxLen(5).Descriptor(), "hello!", field.ErrMaxLength},
		{"char runes", field.Char("c").MaxLen(2).Descriptor(), "你好", nil},
		{"char blank", field.Char("c").MaxLen(5).Descriptor(), "", field.ErrBlank},
		{"char blank allowed", field.Char("c").MaxLen(5).Blank().Descriptor(), "", nil},
		{"char null", field.Char("c").MaxLen(5).Descriptor(), nil, field.ErrNull},
		{"char null allowed", field.Char("c").MaxLen(5).Null().Descriptor(), nil, nil},
		{"char type", field.Char("c").MaxLen(5).Descriptor(), 5, field.ErrType},
		{"auto nil", field.Auto("id").Descriptor(), nil, nil},
		{"int ok", field.Int("n").Descriptor(), int64(-3), nil},
		{"int type", field.Int("n").Descriptor(), "3", field.ErrType},
		{"positive", field.PositiveInt("n").Descriptor(), -1, field.ErrRange},
		{"positive zero", field.PositiveInt("n").Descriptor(), 0, nil},
		{"small int range", field.SmallInt("n").Descriptor(), 40000, field.ErrRange},
		{"small int ok", field.SmallInt("n").Descriptor(), -32768, nil},
		{"positive small", field.PositiveSmallInt("n").Descriptor(), uint8(7), nil},
		{"positive small neg", field.PositiveSmallInt("n").Descriptor(), -7, field.ErrRange},
		{"ordering", field.Ordering("o").Descriptor(), 3, nil},
		{"bool", field.Bool("b").Descriptor(), true, nil},
		{"bool type", field.Bool("b").Descriptor(), 1, field.ErrType},
		{"null bool nil", field.NullBool("b").Descriptor(), nil, nil},
		{"float", field.Float("f").Descriptor(), 1.5, nil},
		{"float int", field.Float("f").Descriptor(), 2, nil},
		{"decimal ok", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), "123.45", nil},
		{"decimal places", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), "1.234", field.ErrRange},
		{"decimal digits", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), "1234.5", field.ErrRange},
		{"decimal float", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), 12.5, nil},
		{"decimal format", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), "abc", field.ErrFormat},
		{"decimal nan", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), "NaN", field.ErrFormat},
		{"decimal inf", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), "+Inf", field.ErrFormat},
		{"decimal float nan", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), math.NaN(), field.ErrFormat},
		{"decimal float inf", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), math.Inf(1), field.ErrFormat},
		{"decimal exponent", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), "1e2", nil},
		{"decimal exponent whole", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), "1e3", field.ErrRange},
		{"decimal exponent places", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), "5E-3", field.ErrRange},
		{"decimal int", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), 999, nil},
		{"decimal trailing zero", field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor(), "1.500", field.ErrRange},
		{"date", field.Date("d").Descriptor(), time.Now(), nil},
		{"date type", field.Date("d").Descriptor(), "2024-01-01", field.ErrType},
		{"email", field.Email("e").Descriptor(), "ann@example.com", nil},
		{"email bad", field.Email("e").Descriptor(), "ann@", field.ErrFormat},
		{"email no dot", field.Email("e").Descriptor(), "ann@localhost", field.ErrFormat},
		{"url", field.URL("u").Descriptor(), "https://example.com/a", nil},
		{"url bad", field.URL("u").Descriptor(), "example.com", field.ErrFormat},
		{"ip", field.IPAddress("ip").Descriptor(), "10.0.0.1", nil},
		{"ip v6", field.IPAddress("ip").Descriptor(), "::1", field.ErrFormat},
		{"slug", field.Slug("s").Descriptor(), "hello-world_2", nil},
		{"slug bad", field.Slug("s").Descriptor(), "hello world", field.ErrFormat},
		{"phone", field.PhoneNumber("p").Descriptor(), "555-123-4567", nil},
		{"phone bad", field.PhoneNumber("p").Descriptor(), "5551234567", field.ErrFormat},
		{"us state", field.USState("s").Descriptor(), "CA", nil},
		{"us state bad", field.USState("s").Descriptor(), "ZZ", field.ErrFormat},
		{"comma ints", field.CommaSeparatedInt("c").MaxLen(20).Descriptor(), "1,2,30", nil},
		{"comma ints bad", field.CommaSeparatedInt("c").MaxLen(20).Descriptor(), "1,,2", field.ErrFormat},
		{"choice", field.Char("c").MaxLen(1).Values("a", "b").Descriptor(), "a", nil},
		{"choice bad", field.Char("c").MaxLen(1).Values("a", "b").Descriptor(), "c", field.ErrChoice},
		{"choice int64", field.Int("n").Values(1, 2).Descriptor(), int64(2), nil},
		{"choice int32", field.SmallInt("n").Values(int64(1), int64(2)).Descriptor(), int32(1), nil},
		{"choice float", field.Float("f").Values(0.5, 1).Descriptor(), 1, nil},
		{"choice number bad", field.Int("n").Values(1, 2).Descriptor(), int64(3), field.ErrChoice},
		{"text", field.Text("t").Descriptor(), "anything at all", nil},
		{"xml", field.XML("x").Descriptor(), "<a/>", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fd.Validate(tt.v)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestValidate_DecimalMessages(t *testing.T) {
	fd := field.Decimal("d").MaxDigits(5).DecimalPlaces(2).Descriptor()
	assert.EqualError(t, fd.Validate("1e300"), "value is out of range: 301 digits, max 5")
	assert.EqualError(t, fd.Validate("1234.5"), "value is out of range: 4 digits before the decimal point, max 3")
	assert.EqualError(t, fd.Validate("0.001"), "value is out of range: 3 decimal places, max 2")
	assert.EqualError(t, fd.Validate("Inf"), `value has an invalid format: decimal "Inf"`)
}

func TestValidate_UncomparableChoices(t *testing.T) {
	fd := field.Char("c").MaxLen(3).Choices(field.Choice{Value: []byte("a"), Label: "A"}).Descriptor()
	require.NoError(t, fd.Err)
	var err error
	require.NotPanics(t, func() { err = fd.Validate([]byte("a")) })
	assert.NotErrorIs(t, err, field.ErrChoice)
	assert.ErrorIs(t, err, field.ErrType)

	require.NotPanics(t, func() { err = fd.Validate([]byte("b")) })
	assert.ErrorIs(t, err, field.ErrChoice)
}

func TestDefault_NumericChoice(t *testing.T) {
	fd := field.Int("n").Values(1, 2).Default(int64(2)).Descriptor()
	assert.NoError(t, fd.Err)
}

func TestValidate_UserValidators(t *testing.T) {
	errOdd := errors.New("odd")
	fd := field.Int("n").Validate(func(v any) error {
		if v.(int)%2 != 0 {
			return errOdd
		}
		return nil
	}).Descriptor()
	assert.NoError(t, fd.Validate(2))
	assert.ErrorIs(t, fd.Validate(3), errOdd)

	fd = field.Int("n").Values(2, 4).Validate(func(any) error { return errOdd }).Descriptor()
	err := fd.Validate(3)
	assert.ErrorIs(t, err, field.ErrChoice)
	assert.ErrorIs(t, err, errOdd)
}
