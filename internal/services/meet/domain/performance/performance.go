package performance

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
)

// Kind tags which payload a Performance carries.
type Kind int

const (
	KindMalformed Kind = iota
	KindTime
	KindDistance
	KindNonFinish
)

func (k Kind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindDistance:
		return "distance"
	case KindNonFinish:
		return "non-finish"
	default:
		return "malformed"
	}
}

// NonFinish is a sentinel result recorded instead of a measurement.
type NonFinish string

const (
	DNF NonFinish = "DNF"
	DIS NonFinish = "DIS"
)

// Performance is a decoded result.
type Performance struct {
	Kind     Kind
	Millis   int64
	Distance float64
	Status   NonFinish
	Text     string
}

// Numeric reports whether p carries a measured value.
func (p Performance) Numeric() bool {
	return p.Kind == KindTime || p.Kind == KindDistance
}

// Finished reports whether p is a measured value or malformed text, i.e. not a
// DNF/DIS sentinel.
func (p Performance) Finished() bool {
	return p.Kind != KindNonFinish
}

// Sentinel reports whether text is one of the reserved non-finish tokens.
func Sentinel(text string) (NonFinish, bool) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case string(DNF):
		return DNF, true
	case string(DIS):
		return DIS, true
	default:
		return "", false
	}
}

// Parse decodes text as a time for time-based categories and as a distance
// otherwise. Malformed text still returns a Performance of KindMalformed
// alongside a MALFORMED_PERFORMANCE error so callers can rank it last.
func Parse(text string, category meet.Category) (Performance, error) {
	if status, ok := Sentinel(text); ok {
		return Performance{Kind: KindNonFinish, Status: status, Text: string(status)}, nil
	}
	if category.TimeBased() {
		return ParseTime(text)
	}
	return ParseDistance(text)
}

// ParseTime decodes a time performance.
func ParseTime(text string) (Performance, error) {
	if status, ok := Sentinel(text); ok {
		return Performance{Kind: KindNonFinish, Status: status, Text: string(status)}, nil
	}
	if !hasDigit(text) {
		return Performance{Kind: KindMalformed, Text: text}, malformed(text)
	}
	return Performance{Kind: KindTime, Millis: DecodeTime(text), Text: text}, nil
}

// ParseDistance decodes a distance performance.
func ParseDistance(text string) (Performance, error) {
	if status, ok := Sentinel(text); ok {
		return Performance{Kind: KindNonFinish, Status: status, Text: string(status)}, nil
	}
	value, ok := leadingDecimal(text)
	if !ok {
		return Performance{Kind: KindMalformed, Text: text}, malformed(text)
	}
	return Performance{Kind: KindDistance, Distance: value, Text: text}, nil
}

// Format renders p for result sheets.
func Format(p Performance) string {
	switch p.Kind {
	case KindTime:
		return EncodeTime(p.Millis)
	case KindDistance:
		return strconv.FormatFloat(p.Distance, 'f', 2, 64)
	case KindNonFinish:
		return string(p.Status)
	default:
		return ""
	}
}

func malformed(text string) error {
	return apperrors.WithMetadata(apperrors.CodeMalformedPerformance, "malformed performance "+strconv.Quote(text), map[string]string{
		"Performance": text,
	})
}
