// Package dialect describes the placeholder syntax of the SQL flavours a
// statement can be written in.
package dialect

import "strings"

type Dialect interface {
	Name() string
	// CountPlaceholders reports the number of distinct parameters the SQL text
	// expects. Placeholders inside literals, quoted identifiers and comments
	// are ignored.
	CountPlaceholders(sql string) int
}

// walk calls visit for every byte of sql that sits outside string literals,
// quoted identifiers and comments. visit returns how many extra bytes it
// consumed. postgres enables dollar-quoted strings and E'' escape strings.
func walk(sql string, postgres bool, visit func(sql string, i int) int) {
	for i := 0; i < len(sql); i++ {
		switch c := sql[i]; {
		case c == '\'':
			i = skipQuoted(sql, i, c, postgres && escapeString(sql, i))
		case c == '"' || c == '`':
			i = skipQuoted(sql, i, c, false)
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				return
			}
			i += 2 + end + 1
		case c == '$' && postgres:
			if tag, ok := dollarTag(sql, i); ok {
				end := strings.Index(sql[i+len(tag):], tag)
				if end < 0 {
					return
				}
				i += len(tag) + end + len(tag) - 1
				continue
			}
			i += visit(sql, i)
		default:
			i += visit(sql, i)
		}
	}
}

// skipQuoted returns the index of the closing quote, treating a doubled quote
// as an escaped one. With backslash set, a backslash escapes the next byte.
func skipQuoted(sql string, start int, quote byte, backslash bool) int {
	for i := start + 1; i < len(sql); i++ {
		if backslash && sql[i] == '\\' {
			i++
			continue
		}
		if sql[i] != quote {
			continue
		}
		if i+1 < len(sql) && sql[i+1] == quote {
			i++
			continue
		}
		return i
	}
	return len(sql)
}

// dollarTag recognises $$ and $tag$ openers of Postgres dollar-quoted strings.
func dollarTag(sql string, start int) (string, bool) {
	for i := start + 1; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '$':
			return sql[start : i+1], true
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case c >= '0' && c <= '9' && i > start+1:
		default:
			return "", false
		}
	}
	return "", false
}

// escapeString reports whether the quote at i opens a Postgres E'' string.
func escapeString(sql string, i int) bool {
	if i == 0 || (sql[i-1] != 'E' && sql[i-1] != 'e') {
		return false
	}
	return i == 1 || !isIdentByte(sql[i-2])
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
