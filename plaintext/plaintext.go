// Package plaintext converts HTML fragments into plain text suitable for
// search indexing and emptiness checks.
package plaintext

import (
	"strings"

	"golang.org/x/net/html"
)

var blockElements = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "dd": {}, "div": {},
	"dl": {}, "dt": {}, "figcaption": {}, "figure": {}, "footer": {}, "h1": {}, "h2": {},
	"h3": {}, "h4": {}, "h5": {}, "h6": {}, "header": {}, "hr": {}, "li": {}, "main": {},
	"nav": {}, "ol": {}, "p": {}, "pre": {}, "section": {}, "table": {}, "tr": {}, "ul": {},
}

var skippedElements = map[string]struct{}{
	"script": {}, "style": {}, "template": {}, "noscript": {},
}

// FromHTML returns the text content of s with entities decoded. Block level
// elements and <br> become line breaks; leading and trailing whitespace is
// trimmed.
func FromHTML(s string) string {
	if s == "" {
		return ""
	}
	z := html.NewTokenizer(strings.NewReader(s))
	buf := &strings.Builder{}
	newline := func() {
		if buf.Len() > 0 && !strings.HasSuffix(buf.String(), "\n") {
			buf.WriteByte('\n')
		}
	}
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(buf.String())
		case html.TextToken:
			if skip == 0 {
				buf.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if _, ok := skippedElements[tag]; ok && tt == html.StartTagToken {
				skip++
				continue
			}
			if tag == "br" {
				buf.WriteByte('\n')
				continue
			}
			if _, ok := blockElements[tag]; ok {
				newline()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if _, ok := skippedElements[tag]; ok {
				if skip > 0 {
					skip--
				}
				continue
			}
			if _, ok := blockElements[tag]; ok {
				newline()
			}
		}
	}
}

// IsEmpty reports whether s has no visible text.
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(FromHTML(s))) == 0
}
