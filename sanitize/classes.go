package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// filterClasses rewrites the class attribute of every start tag so that it
// only keeps the classes allowed for that tag. Tags without an entry in
// allowed lose the attribute entirely. Everything else is copied through
// untouched for bluemonday to deal with. Attribute names are matched after
// the tokenizer lowercases them, so CLASS and Class are filtered too.
func filterClasses(raw string, allowed map[string]map[string]struct{}) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	buf := &strings.Builder{}
	buf.Grow(len(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, or a tokenizer error; either way there is nothing
			// more to read and bluemonday gets what we have.
			return buf.String()
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if !hasAttr(tok.Attr, "class") {
				buf.WriteString(tok.String())
				continue
			}
			tok.Attr = keepClasses(tok.Attr, allowed[tok.Data])
			buf.WriteString(tok.String())
		default:
			buf.Write(z.Raw())
		}
	}
}

func hasAttr(attrs []html.Attribute, key string) bool {
	for _, attr := range attrs {
		if attr.Namespace == "" && attr.Key == key {
			return true
		}
	}
	return false
}

func keepClasses(attrs []html.Attribute, allowed map[string]struct{}) []html.Attribute {
	out := attrs[:0]
	for _, attr := range attrs {
		if attr.Namespace != "" || attr.Key != "class" {
			out = append(out, attr)
			continue
		}
		var kept []string
		for _, class := range strings.Fields(attr.Val) {
			if _, ok := allowed[class]; ok {
				kept = append(kept, class)
			}
		}
		if len(kept) == 0 {
			continue
		}
		attr.Val = strings.Join(kept, " ")
		out = append(out, attr)
	}
	return out
}
