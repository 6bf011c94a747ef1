package table

import (
	"strings"
	"unicode"
)

// Tokenize splits one delimited line into fields.
//
// Splitting is strict: a single delimiter rune, no quoting, no escaping. A
// trailing delimiter is appended internally so the last field is cut the same
// way as every other one, which means "a,b" yields two fields and "a,b,"
// yields three (the last one empty). Fields made only of whitespace or
// non-printable runes become empty and every empty field is replaced with
// Sentinel.
func Tokenize(line string, delim rune) []string {
	line += string(delim)
	fields := make([]string, 0, strings.Count(line, string(delim)))
	for {
		i := strings.IndexRune(line, delim)
		if i < 0 {
			break
		}
		fields = append(fields, normalizeField(line[:i]))
		line = line[i+len(string(delim)):]
	}
	return fields
}

// normalizeField maps blank fields to the sentinel and keeps everything else
// byte for byte.
func normalizeField(s string) string {
	if strings.IndexFunc(s, isVisible) < 0 {
		return Sentinel
	}
	return s
}

func isVisible(r rune) bool {
	return unicode.IsPrint(r) && !unicode.IsSpace(r)
}
