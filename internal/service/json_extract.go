package service

import "strings"

// extractFirstJSONValue devuelve el primer objeto o array JSON balanceado a
// partir del delimitador open/close dados, respetando strings y escapes.
func extractFirstJSONValue(input string, open, close byte) string {
	start := strings.IndexByte(input, open)
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
			if depth < 0 {
				return ""
			}
		}
	}

	return ""
}

func extractFirstJSONObject(input string) string {
	return extractFirstJSONValue(input, '{', '}')
}

func extractFirstJSONArray(input string) string {
	return extractFirstJSONValue(input, '[', ']')
}
