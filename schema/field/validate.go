package field

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/mail"
	"net/url"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors. Validate wraps them with the offending value.
var (
	ErrNull      = errors.New("value may not be null")
	ErrBlank     = errors.New("value may not be blank")
	ErrChoice    = errors.New("value is not a valid choice")
	ErrMaxLength = errors.New("value is too long")
	ErrType      = errors.New("value has the wrong type")
	ErrFormat    = errors.New("value has an invalid format")
	ErrRange     = errors.New("value is out of range")
)

var (
	slugRe   = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	phoneRe  = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	commaRe  = regexp.MustCompile(`^\d+(,\d+)*$`)
	usStates = []string{
		"AA", "AE", "AK", "AL", "AP", "AR", "AS", "AZ", "CA", "CO", "CT", "DC", "DE", "FL", "FM", "GA",
		"GU", "HI", "IA", "ID", "IL", "IN", "KS", "KY", "LA", "MA", "MD", "ME", "MH", "MI", "MN", "MO",
		"MP", "MS", "MT", "NC", "ND", "NE", "NH", "NJ", "NM", "NV", "NY", "OH", "OK", "OR", "PA", "PR",
		"PW", "RI", "SC", "SD", "TN", "TX", "UT", "VA", "VI", "VT", "WA", "WI", "WV", "WY",
	}
)

func errInvalidKind(k Kind) error {
	return fmt.Errorf("invalid field kind %d", uint8(k))
}

// Validate checks v against the field's framework rules: nullability,
// blankness, choices, max length, kind-specific formats and ranges, and
// the user validators. It returns all failures joined.
func (d *Descriptor) Validate(v any) error {
	if v == nil {
		if d.Null || d.Blank && !d.Kind.Textual() || d.Kind == KindAuto {
			return nil
		}
		return ErrNull
	}
	if s, ok := v.(string); ok && s == "" && d.Kind.Textual() {
		if d.Blank {
			return nil
		}
		return ErrBlank
	}
	var errs []error
	if len(d.Choices) > 0 && !d.hasChoice(v) {
		errs = append(errs, fmt.Errorf("%w: %v", ErrChoice, v))
	}
	if err := d.validateKind(v); err != nil {
		errs = append(errs, err)
	}
	for _, fn := range d.Validators {
		if err := fn(v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Descriptor) validateKind(v any) error {
	k := d.Kind
	switch {
	case k.Textual():
		s, ok := v.(string)
		if !ok {
			return typeError(v, "string")
		}
		return d.validateString(s)
	case k.Integer():
		n, ok := toInt64(v)
		if !ok {
			return typeError(v, "integer")
		}
		return d.validateInt(n)
	case k == KindBool, k == KindNullBool:
		if _, ok := v.(bool); !ok {
			return typeError(v, "bool")
		}
	case k == KindFloat:
		if _, ok := toFloat64(v); !ok {
			return typeError(v, "float")
		}
	case k == KindDecimal:
		return d.validateDecimal(v)
	case k.Temporal():
		if _, ok := v.(time.Time); !ok {
			return typeError(v, "time.Time")
		}
	default:
		return errInvalidKind(k)
	}
	return nil
}

func (d *Descriptor) validateString(s string) error {
	if d.MaxLength > 0 && utf8.RuneCountInString(s) > d.MaxLength {
		return fmt.Errorf("%w: %d characters, max %d", ErrMaxLength, utf8.RuneCountInString(s), d.MaxLength)
	}
	var ok bool
	switch d.Kind {
	case KindEmail:
		a, err := mail.ParseAddress(s)
		ok = err == nil && a.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
	case KindURL:
		u, err := url.ParseRequestURI(s)
		ok = err == nil && u.Host != "" && slices.Contains([]string{"http", "https", "ftp", "ftps"}, u.Scheme)
	case KindIPAddress:
		ip := net.ParseIP(s)
		ok = ip != nil && ip.To4() != nil && strings.Count(s, ".") == 3
	case KindSlug:
		ok = slugRe.MatchString(s)
	case KindPhoneNumber:
		ok = phoneRe.MatchString(s)
	case KindCommaSeparatedInt:
		ok = commaRe.MatchString(s)
	case KindUSState:
		ok = slices.Contains(usStates, strings.ToUpper(s))
	default:
		ok = true
	}
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrFormat, d.Kind, s)
	}
	return nil
}

func (d *Descriptor) validateInt(n int64) error {
	switch d.Kind {
	case KindPositiveInt:
		if n < 0 {
			return fmt.Errorf("%w: %d is negative", ErrRange, n)
		}
	case KindPositiveSmallInt:
		if n < 0 || n > math.MaxInt16 {
			return fmt.Errorf("%w: %d not in [0, %d]", ErrRange, n, math.MaxInt16)
		}
	case KindSmallInt:
		if n < math.MinInt16 || n > math.MaxInt16 {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrRange, n, math.MinInt16, math.MaxInt16)
		}
	}
	return nil
}

// validateDecimal accepts decimal strings and numbers and checks the
// number of digits and decimal places. Digits are counted on the
// coefficient and exponent, so "1e2" has three whole digits and
// trailing zeros after the point count as decimal places.
func (d *Descriptor) validateDecimal(v any) error {
	var dec decimal.Decimal
	switch v := v.(type) {
	case string:
		var err error
		if dec, err = decimal.NewFromString(v); err != nil {
			return fmt.Errorf("%w: decimal %q", ErrFormat, v)
		}
	case decimal.Decimal:
		dec = v
	default:
		if n, ok := toInt64(v); ok {
			dec = decimal.NewFromInt(n)
			break
		}
		f, ok := toFloat64(v)
		if !ok {
			return typeError(v, "decimal")
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: decimal %v", ErrFormat, f)
		}
		dec = decimal.NewFromFloat(f)
	}
	digits, places := decimalDigits(dec)
	if digits > d.MaxDigits {
		return fmt.Errorf("%w: %d digits, max %d", ErrRange, digits, d.MaxDigits)
	}
	if places > d.DecimalPlaces {
		return fmt.Errorf("%w: %d decimal places, max %d", ErrRange, places, d.DecimalPlaces)
	}
	if whole := digits - places; whole > d.MaxDigits-d.DecimalPlaces {
		return fmt.Errorf("%w: %d digits before the decimal point, max %d", ErrRange, whole, d.MaxDigits-d.DecimalPlaces)
	}
	return nil
}

// decimalDigits returns the total number of digits of dec and how many
// of them follow the decimal point.
func decimalDigits(dec decimal.Decimal) (digits, places int) {
	coef := new(big.Int).Abs(dec.Coefficient()).String()
	exp := int(dec.Exponent())
	switch {
	case exp >= 0:
		digits = len(coef)
		if coef != "0" {
			digits += exp
		}
		return digits, 0
	case -exp > len(coef):
		return -exp, -exp
	default:
		return len(coef), -exp
	}
}

// PreSave returns the value to store for v. Fields with AutoNow get now on
// every save, fields with AutoNowAdd get now when add is true, and missing
// values take the declared default.
func (d *Descriptor) PreSave(v any, add bool, now time.Time) any {
	if d.AutoNow || d.AutoNowAdd && add {
		switch d.Kind {
		case KindDate:
			y, m, day := now.Date()
			return time.Date(y, m, day, 0, 0, 0, 0, now.Location())
		default:
			return now
		}
	}
	if v == nil && d.HasDefault() {
		return d.DefaultValue()
	}
	return v
}

// hasChoice reports whether v is one of the choice values. Numbers
// compare by value whatever their Go type, so a choice loaded as int
// matches an int64 read from a database.
func (d *Descriptor) hasChoice(v any) bool {
	return slices.ContainsFunc(d.Choices, func(c Choice) bool { return sameValue(c.Value, v) })
}

func sameValue(a, b any) bool {
	if x, ok := toInt64(a); ok {
		y, ok := toInt64(b)
		if !ok {
			f, fok := toFloat64(b)
			return fok && float64(x) == f
		}
		return x == y
	}
	if x, ok := toFloat64(a); ok {
		y, ok := toFloat64(b)
		return ok && x == y
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta != nil && !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func typeError(v any, want string) error {
	return fmt.Errorf("%w: got %T, want %s", ErrType, v, want)
}

func toInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	if n, ok := toInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}
