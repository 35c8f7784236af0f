package validation

import (
	"strconv"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MaxLen(field, value string, limit int, v Violations) {
	if len(value) > limit {
		v[field] = "too_long"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func RangeInt(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

// Digits requires an exact count of ASCII digits (e.g. local phone numbers).
func Digits(field, value string, count int, v Violations) {
	ok := len(value) == count
	if ok {
		for _, r := range value {
			if r < '0' || r > '9' {
				ok = false
				break
			}
		}
	}
	if !ok {
		v[field] = "must_have_" + strconv.Itoa(count) + "_digits"
	}
}
