package lexer

import (
	"strconv"
	"strings"
)

// decodeString returns the value of a quoted string or char literal. Unknown
// escapes are kept verbatim.
func decodeString(lit string, verbatim bool) string {
	if verbatim {
		body := strings.TrimPrefix(lit, "@")
		body = body[1 : len(body)-1]
		return strings.ReplaceAll(body, `""`, `"`)
	}
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case 'e':
			sb.WriteByte(0x1b)
		case '\\', '"', '\'':
			sb.WriteByte(body[i])
		case 'u', 'x':
			end := i + 1
			for end < len(body) && end < i+5 && isHex(body[end]) {
				end++
			}
			if n, err := strconv.ParseUint(body[i+1:end], 16, 32); err == nil && end > i+1 {
				sb.WriteRune(rune(n))
				i = end - 1
			} else {
				sb.WriteByte('\\')
				sb.WriteByte(body[i])
			}
		default:
			sb.WriteByte('\\')
			sb.WriteByte(body[i])
		}
	}
	return sb.String()
}
