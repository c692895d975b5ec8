// Copyright © 2026 The FXLINT authors

package catalog

import (
	"strconv"
	"strings"
	"unicode"
)

// validatorFunc performs a rule specific check after arity has been
// verified.  It returns a message and false when args are rejected.
type validatorFunc func(r *Rule, args []string) (string, bool)

var validators = map[string]validatorFunc{
	"record-first":    recordFirst,
	"nonzero-divisor": nonzeroDivisor,
}

// recordFirst requires the first argument to be a record: a record literal,
// a call that may produce one, or a name that may refer to one.  Other
// literals are rejected.
func recordFirst(r *Rule, args []string) (string, bool) {
	if len(args) == 0 {
		return "", true
	}
	arg := strings.TrimSpace(args[0])
	if strings.HasPrefix(arg, "{") || strings.HasPrefix(arg, "(") {
		return "", true
	}
	if arg != "" {
		c := []rune(arg)[0]
		if unicode.IsLetter(c) || c == '_' || c == '\'' {
			return "", true
		}
	}
	return "First argument of " + r.Name + " must be a record or record-producing function", false
}

// nonzeroDivisor rejects a divisor written as a literal zero.
func nonzeroDivisor(r *Rule, args []string) (string, bool) {
	if len(args) < 2 {
		return "", true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
	if err != nil || f != 0 {
		return "", true
	}
	return r.Name + " operator requires exactly two operands and divisor cannot be zero", false
}
