// Package slug приводит произвольные строки к виду, пригодному для
// локальной части email-адреса: нижний регистр, латиница, цифры,
// точки и дефисы, без повторов разделителей.
package slug

import "strings"

// Make возвращает slug входной строки. Диакритика и прочие символы
// вне [a-z0-9.-] отбрасываются, пробелы заменяются точкой.
func Make(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSep := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSep = false
		case r == ' ' || r == '.' || r == '-' || r == '_' || r == '\'':
			if !lastSep {
				if r == '-' {
					b.WriteRune('-')
				} else {
					b.WriteRune('.')
				}
				lastSep = true
			}
		}
	}

	return strings.Trim(b.String(), ".-")
}
