package performance

import (
	"fmt"
	"strconv"
	"strings"
)

const timeDigits = 8

// DecodeTime strips every non-digit, right-pads with zeros (or truncates) to
// eight digits and returns (hh*3600 + mm*60 + ss)*1000 + cc.
func DecodeTime(text string) int64 {
	digits := timeDigitString(text)
	hh := twoDigits(digits[0:2])
	mm := twoDigits(digits[2:4])
	ss := twoDigits(digits[4:6])
	cc := twoDigits(digits[6:8])
	return (hh*3600+mm*60+ss)*1000 + cc
}

// EncodeTime renders ms as HH:MM:SS:CC where CC is ms mod 1000 padded to
// two digits. Values whose remainder exceeds 99 print three digits and do not
// round-trip through DecodeTime.
func EncodeTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hh := ms / 3_600_000
	mm := (ms / 60_000) % 60
	ss := (ms / 1000) % 60
	cc := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hh, mm, ss, cc)
}

// DecodeDistance reads the leading decimal number of text, 0 when none.
func DecodeDistance(text string) float64 {
	value, _ := leadingDecimal(text)
	return value
}

func timeDigitString(text string) string {
	var b strings.Builder
	b.Grow(timeDigits)
	for _, r := range text {
		if r < '0' || r > '9' {
			continue
		}
		if b.Len() == timeDigits {
			break
		}
		b.WriteRune(r)
	}
	digits := b.String()
	if len(digits) < timeDigits {
		digits += strings.Repeat("0", timeDigits-len(digits))
	}
	return digits
}

func hasDigit(text string) bool {
	return strings.ContainsAny(text, "0123456789")
}

func twoDigits(field string) int64 {
	return int64(field[0]-'0')*10 + int64(field[1]-'0')
}

// leadingDecimal parses an optional '+', digits and an optional fraction at
// the start of text, ignoring surrounding whitespace and trailing units.
// Distances cannot be negative, so a leading '-' is unreadable.
func leadingDecimal(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	end := 0
	if end < len(trimmed) && trimmed[end] == '+' {
		end++
	}
	digitsStart := end
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	intDigits := end - digitsStart
	fracDigits := 0
	if end < len(trimmed) && trimmed[end] == '.' {
		fracStart := end + 1
		fracEnd := fracStart
		for fracEnd < len(trimmed) && trimmed[fracEnd] >= '0' && trimmed[fracEnd] <= '9' {
			fracEnd++
		}
		fracDigits = fracEnd - fracStart
		if fracDigits > 0 {
			end = fracEnd
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed[:end], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
