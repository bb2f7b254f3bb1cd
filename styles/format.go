package styles

import "strings"

const indentUnit = "  "

// Format pretty-prints raw CSS: one declaration per line, blocks indented
// two spaces per nesting level, brace placement normalized. Selectors,
// properties, and values pass through verbatim — string literals, comments,
// and parenthesised values (so a semicolon inside url(data:...) never
// breaks a line) are preserved as written.
//
// Format is idempotent: formatting already-formatted output returns it
// unchanged.
func Format(raw string) string {
	var out, line strings.Builder
	depth := 0
	paren := 0
	var quote byte
	escaped := false
	lastSpace := false

	writeIndent := func() {
		for i := 0; i < depth; i++ {
			out.WriteString(indentUnit)
		}
	}
	flush := func(suffix string) {
		text := strings.TrimSpace(line.String())
		line.Reset()
		lastSpace = false
		if text == "" {
			return
		}
		writeIndent()
		out.WriteString(text)
		out.WriteString(suffix)
		out.WriteByte('\n')
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if quote != 0 {
			line.WriteByte(c)
			// Track escape state explicitly: looking back one byte would
			// misread an escaped backslash before the closing quote.
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}

		switch {
		case c == '"' || c == '\'':
			quote = c
			line.WriteByte(c)
			lastSpace = false
		case c == '/' && i+1 < len(raw) && raw[i+1] == '*':
			// Copy the whole comment verbatim.
			end := strings.Index(raw[i+2:], "*/")
			if end < 0 {
				line.WriteString(raw[i:])
				i = len(raw)
			} else {
				line.WriteString(raw[i : i+2+end+2])
				i += 2 + end + 1
			}
			lastSpace = false
		case c == '(':
			paren++
			line.WriteByte(c)
			lastSpace = false
		case c == ')':
			if paren > 0 {
				paren--
			}
			line.WriteByte(c)
			lastSpace = false
		case c == '{' && paren == 0:
			sel := strings.TrimSpace(line.String())
			line.Reset()
			lastSpace = false
			writeIndent()
			if sel != "" {
				out.WriteString(sel)
				out.WriteByte(' ')
			}
			out.WriteString("{\n")
			depth++
		case c == '}' && paren == 0:
			flush("")
			if depth > 0 {
				depth--
			}
			writeIndent()
			out.WriteString("}\n")
		case c == ';' && paren == 0:
			flush(";")
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			if line.Len() > 0 && !lastSpace {
				line.WriteByte(' ')
				lastSpace = true
			}
		default:
			line.WriteByte(c)
			lastSpace = false
		}
	}
	flush("")

	return out.String()
}
