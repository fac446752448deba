package xmlutils

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoOFXRoot is returned when a document has no <OFX> element.
var ErrNoOFXRoot = errors.New("no <OFX> root element")

var (
	tagPattern = regexp.MustCompile(`<(/?)([A-Za-z0-9_.]+)>`)
	entityRef  = regexp.MustCompile(`^&(#[0-9]+|#x[0-9A-Fa-f]+|[A-Za-z][A-Za-z0-9]*);`)
)

// NormalizeSGML turns an OFX 1.x SGML document into well-formed XML.
//
// The key/value header before <OFX> is dropped and leaf elements written
// without an end tag get one. Documents that are already XML pass through
// with only the header removed.
func NormalizeSGML(doc string) (string, error) {
	start := strings.Index(strings.ToUpper(doc), "<OFX>")
	if start < 0 {
		return "", ErrNoOFXRoot
	}
	body := doc[start:]

	tags := tagPattern.FindAllStringSubmatchIndex(body, -1)
	var b strings.Builder
	b.Grow(len(body) + len(body)/4)

	for i, m := range tags {
		closing := m[3] > m[2]
		name := body[m[4]:m[5]]

		textEnd := len(body)
		if i+1 < len(tags) {
			textEnd = tags[i+1][0]
		}
		text := body[m[1]:textEnd]

		b.WriteString(body[m[0]:m[1]])
		if closing || strings.TrimSpace(text) == "" {
			b.WriteString(text)
			continue
		}

		b.WriteString(escapeText(strings.TrimSpace(text)))
		if !closesNext(body, tags, i, name) {
			b.WriteString("</" + name + ">\n")
		}
	}

	return b.String(), nil
}

func closesNext(body string, tags [][]int, i int, name string) bool {
	if i+1 >= len(tags) {
		return false
	}
	next := tags[i+1]
	return next[3] > next[2] && body[next[4]:next[5]] == name
}

// escapeText escapes markup characters in element text, leaving entity
// references that are already present untouched.
func escapeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '&':
			if entityRef.MatchString(text[i:]) {
				b.WriteByte(c)
			} else {
				b.WriteString("&amp;")
			}
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
