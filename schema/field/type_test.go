package field_test

import (
	"testing"

	"github.com/syssam/bridge/schema/field"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "char", field.KindChar.String())
	assert.Equal(t, "CharField", field.KindChar.Class())
	assert.Equal(t, "invalid", field.KindInvalid.String())
	assert.Equal(t, "invalid", field.Kind(200).String())
	assert.Equal(t, "invalid", field.Kind(200).Class())
}

func TestKindConstName(t *testing.T) {
	tests := map[field.Kind]string{
		field.KindBool:              "KindBool",
		field.KindNullBool:          "KindNullBool",
		field.KindCommaSeparatedInt: "KindCommaSeparatedInt",
		field.KindPositiveSmallInt:  "KindPositiveSmallInt",
		field.KindIPAddress:         "KindIPAddress",
		field.KindUSState:           "KindUSState",
		field.KindDateTime:          "KindDateTime",
	}
	for k, want := range tests {
		assert.Equal(t, want, k.ConstName())
	}
	assert.Equal(t, "invalid", field.Kind(200).ConstName())
}

func TestKindValid(t *testing.T) {
	assert.True(t, field.KindXML.Valid())
	assert.False(t, field.KindInvalid.Valid())
	assert.False(t, field.Kind(200).Valid())
	assert.Len(t, field.Kinds(), 26)
}

func TestKindParent(t *testing.T) {
	p, ok := field.KindEmail.Parent()
	assert.True(t, ok)
	assert.Equal(t, field.KindChar, p)
	_, ok = field.KindChar.Parent()
	assert.False(t, ok)

	assert.True(t, field.KindImage.Is(field.KindFile))
	assert.True(t, field.KindPositiveSmallInt.Is(field.KindInt))
	assert.True(t, field.KindChar.Is(field.KindChar))
	assert.False(t, field.KindText.Is(field.KindChar))
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, field.KindAuto.Integer())
	assert.True(t, field.KindOrdering.Integer())
	assert.False(t, field.KindPhoneNumber.Integer())
	assert.True(t, field.KindPhoneNumber.Textual())
	assert.False(t, field.KindPhoneNumber.Sized())
	assert.True(t, field.KindDateTime.Temporal())
	assert.True(t, field.KindTime.Temporal())
	assert.True(t, field.KindXML.Textual())
	assert.False(t, field.KindXML.Sized())
	assert.True(t, field.KindFilePath.Sized())
	assert.False(t, field.KindDecimal.Textual())
}

func TestParseKind(t *testing.T) {
	for _, k := range field.Kinds() {
		got, ok := field.ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
		got, ok = field.ParseKind(k.Class())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := field.ParseKind("uuid")
	assert.False(t, ok)
}
