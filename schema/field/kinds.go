package field

// Default max lengths of the framework's textual kinds.
const (
	EmailMaxLength     = 75
	FileMaxLength      = 100
	IPAddressMaxLength = 15
	SlugMaxLength      = 50
	URLMaxLength       = 200
	USStateMaxLength   = 2
)

// Auto returns a new auto-increment primary key field.
func Auto(name string) *Builder {
	return newBuilder(KindAuto, name)
}

// Bool returns a new boolean field.
func Bool(name string) *Builder {
	return newBuilder(KindBool, name).Blank()
}

// NullBool returns a new boolean field that also accepts NULL.
func NullBool(name string) *Builder {
	return newBuilder(KindNullBool, name)
}

// Char returns a new bounded string field. MaxLen is required.
//
//	field.Char("title").MaxLen(200)
func Char(name string) *Builder {
	return newBuilder(KindChar, name)
}

// CommaSeparatedInt returns a new string field holding comma separated
// integers. MaxLen is required.
func CommaSeparatedInt(name string) *Builder {
	return newBuilder(KindCommaSeparatedInt, name)
}

// Date returns a new date field.
func Date(name string) *Builder {
	return newBuilder(KindDate, name)
}

// DateTime returns a new date and time field.
func DateTime(name string) *Builder {
	return newBuilder(KindDateTime, name)
}

// Decimal returns a new fixed-precision decimal field. MaxDigits and
// DecimalPlaces are required.
//
//	field.Decimal("price").MaxDigits(10).DecimalPlaces(2)
func Decimal(name string) *Builder {
	return newBuilder(KindDecimal, name)
}

// Email returns a new email address field.
func Email(name string) *Builder {
	return newBuilder(KindEmail, name).MaxLen(EmailMaxLength)
}

// File returns a new file reference field.
func File(name string) *Builder {
	return newBuilder(KindFile, name).MaxLen(FileMaxLength)
}

// FilePath returns a new field holding a path chosen from a directory.
//
//	field.FilePath("template").Path("/srv/templates").Match(`\.html$`).Recursive()
func FilePath(name string) *Builder {
	return newBuilder(KindFilePath, name).MaxLen(FileMaxLength)
}

// Float returns a new floating point field.
func Float(name string) *Builder {
	return newBuilder(KindFloat, name)
}

// Image returns a new image file reference field.
func Image(name string) *Builder {
	return newBuilder(KindImage, name).MaxLen(FileMaxLength)
}

// Int returns a new integer field.
func Int(name string) *Builder {
	return newBuilder(KindInt, name)
}

// IPAddress returns a new IPv4 address field.
func IPAddress(name string) *Builder {
	return newBuilder(KindIPAddress, name).MaxLen(IPAddressMaxLength)
}

// Ordering returns a new integer field holding an ordering position.
// It is not editable.
func Ordering(name string) *Builder {
	return newBuilder(KindOrdering, name).Editable(false)
}

// PhoneNumber returns a new US phone number field (XXX-XXX-XXXX).
func PhoneNumber(name string) *Builder {
	return newBuilder(KindPhoneNumber, name)
}

// PositiveInt returns a new non-negative integer field.
func PositiveInt(name string) *Builder {
	return newBuilder(KindPositiveInt, name)
}

// PositiveSmallInt returns a new non-negative small integer field.
func PositiveSmallInt(name string) *Builder {
	return newBuilder(KindPositiveSmallInt, name)
}

// Slug returns a new indexed slug field.
func Slug(name string) *Builder {
	return newBuilder(KindSlug, name).MaxLen(SlugMaxLength).Index()
}

// SmallInt returns a new small integer field.
func SmallInt(name string) *Builder {
	return newBuilder(KindSmallInt, name)
}

// Text returns a new unbounded text field.
func Text(name string) *Builder {
	return newBuilder(KindText, name)
}

// Time returns a new time of day field.
func Time(name string) *Builder {
	return newBuilder(KindTime, name)
}

// URL returns a new URL field.
func URL(name string) *Builder {
	return newBuilder(KindURL, name).MaxLen(URLMaxLength).VerifyExists(true)
}

// USState returns a new two-letter US state field.
func USState(name string) *Builder {
	return newBuilder(KindUSState, name).MaxLen(USStateMaxLength)
}

// XML returns a new XML text field.
func XML(name string) *Builder {
	return newBuilder(KindXML, name)
}

// New returns a builder for the given kind. It is used by loaders that
// read the kind from a model file.
func New(kind Kind, name string) *Builder {
	switch kind {
	case KindBool:
		return Bool(name)
	case KindEmail:
		return Email(name)
	case KindFile:
		return File(name)
	case KindFilePath:
		return FilePath(name)
	case KindImage:
		return Image(name)
	case KindIPAddress:
		return IPAddress(name)
	case KindOrdering:
		return Ordering(name)
	case KindSlug:
		return Slug(name)
	case KindURL:
		return URL(name)
	case KindUSState:
		return USState(name)
	}
	b := newBuilder(kind, name)
	if !kind.Valid() {
		b.fail(errInvalidKind(kind))
	}
	return b
}
