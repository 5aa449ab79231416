package field

import "strings"

// A Kind identifies a field kind of the source framework.
type Kind uint8

// List of field kinds.
const (
	KindInvalid Kind = iota
	KindAuto
	KindBool
	KindNullBool
	KindChar
	KindCommaSeparatedInt
	KindDate
	KindDateTime
	KindDecimal
	KindEmail
	KindFile
	KindFilePath
	KindFloat
	KindImage
	KindInt
	KindIPAddress
	KindOrdering
	KindPhoneNumber
	KindPositiveInt
	KindPositiveSmallInt
	KindSlug
	KindSmallInt
	KindText
	KindTime
	KindURL
	KindUSState
	KindXML
	endKinds
)

var (
	kindNames = [...]string{
		KindInvalid:           "invalid",
		KindAuto:              "auto",
		KindBool:              "bool",
		KindNullBool:          "null_bool",
		KindChar:              "char",
		KindCommaSeparatedInt: "comma_separated_int",
		KindDate:              "date",
		KindDateTime:          "datetime",
		KindDecimal:           "decimal",
		KindEmail:             "email",
		KindFile:              "file",
		KindFilePath:          "file_path",
		KindFloat:             "float",
		KindImage:             "image",
		KindInt:               "int",
		KindIPAddress:         "ip_address",
		KindOrdering:          "ordering",
		KindPhoneNumber:       "phone_number",
		KindPositiveInt:       "positive_int",
		KindPositiveSmallInt:  "positive_small_int",
		KindSlug:              "slug",
		KindSmallInt:          "small_int",
		KindText:              "text",
		KindTime:              "time",
		KindURL:               "url",
		KindUSState:           "us_state",
		KindXML:               "xml",
	}
	kindClasses = [...]string{
		KindInvalid:           "invalid",
		KindAuto:              "AutoField",
		KindBool:              "BooleanField",
		KindNullBool:          "NullBooleanField",
		KindChar:              "CharField",
		KindCommaSeparatedInt: "CommaSeparatedIntegerField",
		KindDate:              "DateField",
		KindDateTime:          "DateTimeField",
		KindDecimal:           "DecimalField",
		KindEmail:             "EmailField",
		KindFile:              "FileField",
		KindFilePath:          "FilePathField",
		KindFloat:             "FloatField",
		KindImage:             "ImageField",
		KindInt:               "IntegerField",
		KindIPAddress:         "IPAddressField",
		KindOrdering:          "OrderingField",
		KindPhoneNumber:       "PhoneNumberField",
		KindPositiveInt:       "PositiveIntegerField",
		KindPositiveSmallInt:  "PositiveSmallIntegerField",
		KindSlug:              "SlugField",
		KindSmallInt:          "SmallIntegerField",
		KindText:              "TextField",
		KindTime:              "TimeField",
		KindURL:               "URLField",
		KindUSState:           "USStateField",
		KindXML:               "XMLField",
	}
	// kindParents records which kind a kind specializes. A kind without
	// an entry stands on its own.
	kindParents = map[Kind]Kind{
		KindCommaSeparatedInt: KindChar,
		KindEmail:             KindChar,
		KindSlug:              KindChar,
		KindURL:               KindChar,
		KindImage:             KindFile,
		KindDateTime:          KindDate,
		KindOrdering:          KindInt,
		KindPhoneNumber:       KindInt,
		KindPositiveInt:       KindInt,
		KindPositiveSmallInt:  KindInt,
		KindSmallInt:          KindInt,
		KindXML:               KindText,
	}
)

// String returns the short name of the kind, as used in model files.
func (k Kind) String() string {
	if k < endKinds {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Class returns the framework class name of the kind (e.g. "CharField").
func (k Kind) Class() string {
	if k < endKinds {
		return kindClasses[k]
	}
	return kindClasses[KindInvalid]
}

// ConstName returns the constant name of the kind.
func (k Kind) ConstName() string {
	if !k.Valid() {
		return "invalid"
	}
	name := strings.TrimSuffix(k.Class(), "Field")
	return "Kind" + strings.NewReplacer("Boolean", "Bool", "Integer", "Int").Replace(name)
}

// Valid reports if the kind is a known kind.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < endKinds
}

// Parent returns the kind that k specializes, and false if k
// stands on its own.
func (k Kind) Parent() (Kind, bool) {
	p, ok := kindParents[k]
	return p, ok
}

// Is reports whether k is kind or specializes it.
func (k Kind) Is(kind Kind) bool {
	for ok := true; ok; k, ok = k.Parent() {
		if k == kind {
			return true
		}
	}
	return false
}

// Integer reports if the kind holds integer values.
func (k Kind) Integer() bool {
	return k == KindAuto || k.Is(KindInt) && k != KindPhoneNumber
}

// Temporal reports if the kind holds date or time values.
func (k Kind) Temporal() bool {
	return k.Is(KindDate) || k == KindTime
}

// Textual reports if the kind holds string values.
func (k Kind) Textual() bool {
	switch {
	case k.Is(KindChar), k.Is(KindText), k.Is(KindFile):
		return true
	case k == KindFilePath, k == KindIPAddress, k == KindUSState, k == KindPhoneNumber:
		return true
	}
	return false
}

// Sized reports if the kind carries a max length.
func (k Kind) Sized() bool {
	return k.Textual() && !k.Is(KindText) && k != KindPhoneNumber
}

// ParseKind returns the kind with the given short name or class name.
func ParseKind(s string) (Kind, bool) {
	for k := KindAuto; k < endKinds; k++ {
		if strings.EqualFold(s, kindNames[k]) || strings.EqualFold(s, kindClasses[k]) {
			return k, true
		}
	}
	return KindInvalid, false
}

// Kinds returns all valid kinds in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, endKinds-1)
	for k := KindAuto; k < endKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
