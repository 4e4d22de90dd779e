package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Int parses a base-10 integer. Surrounding whitespace and a leading sign
// are allowed.
func Int(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("%q is out of range", s)
		}
		return 0, fmt.Errorf("%q is not a valid integer", s)
	}
	return n, nil
}

// String returns the line unchanged.
func String(raw string) (string, error) {
	return raw, nil
}

// Between accepts integers in [lo, hi].
func Between(lo, hi int64) Validator[int64] {
	return func(v int64) error {
		if v < lo || v > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// AtLeast accepts integers >= lo.
func AtLeast(lo int64) Validator[int64] {
	return func(v int64) error {
		if v < lo {
			return fmt.Errorf("must be at least %d", lo)
		}
		return nil
	}
}

// OneOf accepts integers from the given set.
func OneOf(allowed ...int64) Validator[int64] {
	return func(v int64) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of %v", allowed)
	}
}

// YesNo asks q and accepts "yes" or "no" in any letter case, with no
// surrounding whitespace. The result is true only for "yes".
func YesNo(p *Prompter, q Question) (bool, error) {
	v, err := Ask(p, q, String, validateYesNo)
	if err != nil {
		return false, err
	}
	return normalizeYesNo(v) == "yes", nil
}

func validateYesNo(v string) error {
	switch normalizeYesNo(v) {
	case "yes", "no":
		return nil
	default:
		return fmt.Errorf("expected yes/no")
	}
}

// normalizeYesNo only folds case; " yes " is not an answer.
func normalizeYesNo(v string) string {
	return strings.ToLower(v)
}
