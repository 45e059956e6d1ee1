package binder

import (
	"strconv"
	"strings"
)

// parseIntLiteral decodes a C# integer literal (decimal, hex, binary, digit
// separators, u/l suffixes).
func parseIntLiteral(text string) (int64, bool) {
	s := strings.ReplaceAll(text, "_", "")
	s = strings.TrimRight(s, "uUlL")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	}
	if v, err := strconv.ParseInt(s, base, 64); err == nil {
		return v, true
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	return int64(v), true // #nosec G115 -- ulong constants wrap like C# unchecked casts
}

func unaryInt(op string, v int64) (int64, bool) {
	switch op {
	case "-":
		return -v, true
	case "+":
		return v, true
	case "~":
		return ^v, true
	}
	return 0, false
}

func binaryInt(op string, l, r int64) (int64, bool) {
	switch op {
	case "|":
		return l | r, true
	case "&":
		return l & r, true
	case "^":
		return l ^ r, true
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "<<":
		if r < 0 || r > 63 {
			return 0, false
		}
		return l << uint(r), true
	}
	return 0, false
}
