// Package field provides builders for the source framework's field kinds.
//
// Every builder takes the attribute name of the field. Options follow the
// framework's field arguments:
//
//	field.Char("title").MaxLen(200)                    // CharField(max_length=200)
//	field.Char("title").MaxLen(200).Column("ttl")      // CharField(max_length=200, name="ttl")
//	field.Decimal("price").MaxDigits(10).DecimalPlaces(2)
//	field.DateTime("modified").AutoNow()
//	field.Email("contact").Null().Blank()
//	field.Slug("slug").Unique()
//
// # Kinds
//
//	Auto, Bool, NullBool, Char, CommaSeparatedInt, Date, DateTime, Decimal,
//	Email, File, FilePath, Float, Image, Int, IPAddress, Ordering,
//	PhoneNumber, PositiveInt, PositiveSmallInt, Slug, SmallInt, Text, Time,
//	URL, USState, XML
//
// Some kinds specialize others (an Email is a Char, an Image is a File);
// Kind.Parent reports the relation.
//
// # Mapping options
//
// Three options only concern the mapped entity, not the framework:
//
//	field.Text("body").Deferred()             // loaded on first access
//	field.Text("body").DeferredGroup("text")  // loaded with the "text" group
//	field.Char("name").MaxLen(50).Synonym("title")
//
// # Validation
//
// Descriptor.Validate applies the framework's rules to a value (null and
// blank handling, choices, max length, email/URL/IP/slug/state/phone
// formats, integer ranges, decimal digits) and any validators added with
// Validate. Descriptor.PreSave applies AutoNow, AutoNowAdd and defaults.
//
// Options that do not apply to a kind, and missing required options, are
// reported through Descriptor.Err.
package field
