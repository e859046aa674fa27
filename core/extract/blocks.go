package extract

// splitBlocks returns the top-level {...} and [...] blocks of a dump in order.
// Brackets inside single, double or backtick quoted strings are ignored, and a
// backslash always escapes the following byte so escaped dumps split the same way.
// An unterminated trailing block is dropped.
func splitBlocks(text string) []string {
	var blocks []string
	depth, start := 0, -1
	var quote byte

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\\' {
			i++
			continue
		}
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			if depth > 0 {
				quote = c
			}
		case '{', '[':
			if depth == 0 {
				start = i
			}
			depth++
		case '}', ']':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				blocks = append(blocks, text[start:i+1])
				start = -1
			}
		}
	}
	return blocks
}

// maskQuotedValues blanks the contents of quoted string values so the numeric
// field patterns only see keys. A quoted token followed by a colon is a key and
// is kept. Quotes only open a string right after ':', ',', '{', '[' or '(', so
// apostrophes inside bare names and a dump wrapped in one quoted literal are left alone.
func maskQuotedValues(text string) string {
	buf := []byte(text)
	for i := 0; i < len(buf); i++ {
		c := buf[i]
		if c == '\\' {
			i++
			continue
		}
		if (c != '\'' && c != '"' && c != '`') || !atValueStart(buf, i) {
			continue
		}

		end := i + 1
		for end < len(buf) && buf[end] != c {
			if buf[end] == '\\' {
				end++
			}
			end++
		}
		if end >= len(buf) {
			break
		}
		if !followedByColon(buf, end+1) {
			for j := i + 1; j < end; j++ {
				if buf[j] != '\n' {
					buf[j] = ' '
				}
			}
		}
		i = end
	}
	return string(buf)
}

func atValueStart(buf []byte, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch buf[j] {
		case ' ', '\t', '\r', '\n':
			continue
		case ':', ',', '{', '[', '(':
			return true
		default:
			return false
		}
	}
	return false
}

func followedByColon(buf []byte, i int) bool {
	for ; i < len(buf); i++ {
		switch buf[i] {
		case ' ', '\t':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}
