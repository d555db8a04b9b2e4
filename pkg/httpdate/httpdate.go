// Package httpdate implements the HTTPDate value: a parser for the three
// RFC 2616 date formats (RFC 1123, RFC 850, asctime) that always emits the
// RFC 1123 canonical form.
//
// The tokenizer and field-assignment rules are adapted line-for-line from
// Panda3D's HTTPDate (panda/src/downloader/httpDate.cxx): tokens are
// classified as weekday/month names or decimal integers, and integers are
// bound to hour/minute/second/day/year by position and by the punctuation
// that follows them, rather than by matching a fixed format string. That
// is what lets a single parser accept all three legacy formats.
package httpdate

import (
	"strconv"
	"strings"
	"time"
)

var weekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var months = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Layout is the canonical RFC 1123 wire format this package always emits.
const Layout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Date is seconds-since-epoch in UTC plus a validity flag.
type Date struct {
	seconds int64
	valid   bool
}

// Now returns the current time as a valid Date, truncated to the second.
func Now() Date {
	return FromTime(time.Now())
}

// FromTime converts a time.Time (normalized to UTC) to a valid Date.
func FromTime(t time.Time) Date {
	return Date{seconds: t.UTC().Unix(), valid: true}
}

// Parse decodes format as an HTTP-date in any of the three legal RFC 2616
// forms. It returns the zero, invalid Date if the string cannot be parsed.
func Parse(format string) Date {
	return parseWithNow(format, time.Now())
}

// parseWithNow is Parse with an explicit "now", used for two-digit-year
// century resolution and exercised directly by tests so they don't depend
// on wall-clock time.
func parseWithNow(format string, now time.Time) Date {
	var (
		gotWeekday, gotMonth, gotDay, gotYear bool
		gotHour, gotMinute, gotSecond         bool
		weekday, month, day, year             int
		hour, minute, second                  int
	)

	const (
		expectNone = iota
		expectSecond
		expectYear
	)
	expectNext := expectNone

	pos := 0
	for {
		token, next := nextToken(format, pos)
		if token == "" {
			break
		}
		pos = next
		expected := expectNext
		expectNext = expectNone

		if isDigitToken(token) {
			value, _ := strconv.Atoi(leadingDigits(token))
			switch {
			case strings.HasSuffix(token, ":"):
				switch {
				case !gotHour:
					hour, gotHour = value, true
				case !gotMinute:
					minute, gotMinute = value, true
					expectNext = expectSecond
				default:
					return Date{}
				}
			case strings.HasSuffix(token, "/"):
				switch {
				case !gotMonth:
					month, gotMonth = value-1, true
				case !gotDay:
					day, gotDay = value, true
					expectNext = expectYear
				default:
					return Date{}
				}
			default:
				switch {
				case expected == expectSecond:
					second, gotSecond = value, true
				case expected == expectYear:
					year, gotYear = value, true
				case !gotDay:
					day, gotDay = value, true
				case !gotYear:
					year, gotYear = value, true
				case !gotHour:
					hour, gotHour = value, true
				case !gotMinute:
					minute, gotMinute = value, true
				case !gotSecond:
					second, gotSecond = value, true
				default:
					return Date{}
				}
			}
			continue
		}

		matched := false
		for i, w := range weekdays {
			if token == w {
				if gotWeekday {
					return Date{}
				}
				matched, gotWeekday, weekday = true, true, i
				break
			}
		}
		for i, m := range months {
			if !matched && token == m {
				if gotMonth {
					return Date{}
				}
				matched, gotMonth, month = true, true, i
				break
			}
		}
		if !matched && token == "Gmt" {
			matched = true
		}
		if !matched {
			return Date{}
		}
	}
	_ = weekday

	if !(gotMonth && gotDay && gotYear && gotHour && gotMinute) {
		return Date{}
	}
	if !gotSecond {
		second = 0
	}

	if year < 100 {
		century := (now.Year() / 100) * 100
		year += century
		if year-now.Year() > 50 {
			year -= 100
		}
	} else if year < 1900 {
		return Date{}
	}

	if !(month >= 0 && month < len(months)) {
		return Date{}
	}
	if !(day >= 1 && day <= 31) {
		return Date{}
	}
	if !(hour >= 0 && hour < 60) {
		return Date{}
	}
	if !(minute >= 0 && minute < 60) {
		return Date{}
	}
	if !(second >= 0 && second < 62) {
		return Date{}
	}

	t := time.Date(year, time.Month(month+1), day, hour, minute, second, 0, time.UTC)
	return Date{seconds: t.Unix(), valid: true}
}

// isDigitToken reports whether token begins with a decimal digit (it may
// be followed by a trailing ':' or '/').
func isDigitToken(token string) bool {
	return len(token) > 0 && token[0] >= '0' && token[0] <= '9'
}

// leadingDigits returns the leading run of decimal digits in token,
// ignoring whatever single trailing punctuation character nextToken
// happened to sweep up with it.
func leadingDigits(token string) string {
	i := 0
	for i < len(token) && isDigit(token[i]) {
		i++
	}
	return token[:i]
}

// nextToken extracts the next token from str starting at pos. A token is
// a contiguous run of letters (folded to "Titlecase", truncated to three
// characters) or a contiguous run of digits, plus one trailing punctuation
// character so that "hh:" and "mm/dd" style separators survive into the
// token. It returns ("", pos) once the string is exhausted.
func nextToken(str string, pos int) (string, int) {
	start := pos
	for start < len(str) && !isAlnum(str[start]) {
		start++
	}
	if start >= len(str) {
		return "", len(str)
	}

	if isAlpha(str[start]) {
		var b strings.Builder
		b.WriteByte(toUpper(str[start]))
		p := start + 1
		for p < len(str) && isAlpha(str[p]) {
			if b.Len() < 3 {
				b.WriteByte(toLower(str[p]))
			}
			p++
		}
		return b.String(), p
	}

	p := start + 1
	for p < len(str) && isDigit(str[p]) {
		p++
	}
	if p < len(str) && !isAlpha(str[p]) {
		p++
	}
	return str[start:p], p
}

func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }
func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// IsValid reports whether the Date was successfully parsed or constructed.
func (d Date) IsValid() bool { return d.valid }

// Unix returns the seconds-since-epoch value. Undefined if !IsValid().
func (d Date) Unix() int64 { return d.seconds }

// Time returns the UTC time.Time equivalent.
func (d Date) Time() time.Time { return time.Unix(d.seconds, 0).UTC() }

// String formats the date in RFC 1123 canonical form, or "Invalid Date" if
// the value is not valid.
func (d Date) String() string {
	if !d.valid {
		return "Invalid Date"
	}
	return d.Time().Format(Layout)
}

// Add returns a Date offset by the given number of seconds.
func (d Date) Add(seconds int64) Date {
	return Date{seconds: d.seconds + seconds, valid: d.valid}
}

// Sub returns the difference, in seconds, between d and other.
func (d Date) Sub(other Date) int64 { return d.seconds - other.seconds }

// Compare returns -1, 0, or 1 as d is before, equal to, or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.seconds < other.seconds:
		return -1
	case d.seconds > other.seconds:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.seconds < other.seconds }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.seconds > other.seconds }
