package richtext

import (
	"strings"

	"github.com/bokwoon95/richtext/sanitize"
)

// baselineTags are allowed whatever the toolbar says.
var baselineTags = []string{"br", "p"}

// toolTags returns the tags a toolbar item makes legal. Items that don't
// produce markup of their own, including "styles" which is handled
// separately, return nil.
func toolTags(item string) []string {
	switch item {
	case ToolBold:
		return []string{"b", "strong"}
	case ToolItalic:
		return []string{"i", "em"}
	case ToolStrike:
		return []string{"s"}
	case ToolLink:
		return []string{"a"}
	case ToolHorizontalRule:
		return []string{"hr"}
	case ToolBulletList:
		return []string{"ul", "li"}
	case ToolOrderedList:
		return []string{"ol", "li"}
	case ToolBlockquote:
		return []string{"blockquote"}
	case ToolCodeBlock:
		return []string{"pre", "code"}
	}
	return nil
}

// toolAttributes returns the tag and the attributes on it that a toolbar
// item makes legal.
func toolAttributes(item string) (tag string, attributes []string) {
	switch item {
	case ToolLink:
		return "a", []string{"href", "id", "name", "target"}
	}
	return "", nil
}

// orderedSet is a set of strings that remembers insertion order, so that
// derived policies come out the same way every time.
type orderedSet struct {
	index map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]struct{})}
}

func (set *orderedSet) add(items ...string) {
	for _, item := range items {
		if _, ok := set.index[item]; ok {
			continue
		}
		set.index[item] = struct{}{}
		set.items = append(set.items, item)
	}
}

func (set *orderedSet) has(item string) bool {
	_, ok := set.index[item]
	return ok
}

func (set *orderedSet) list() []string {
	items := make([]string, len(set.items))
	copy(items, set.items)
	return items
}

// AllowedTags returns the tags legalized by toolbar, starting with the
// baseline tags. The "styles" item legalizes the tag of every style
// definition. Unknown items are ignored.
func AllowedTags(toolbar []string, styles []StyleDefinition) []string {
	tags := newOrderedSet()
	tags.add(baselineTags...)
	for _, item := range toolbar {
		if item == ToolStyles {
			for _, style := range styles {
				if style.Tag == "" {
					continue
				}
				tags.add(style.Tag)
			}
			continue
		}
		tags.add(toolTags(item)...)
	}
	return tags.list()
}

// AllowedAttributes returns the attributes legalized by toolbar, keyed by
// tag. Tags that no toolbar item refers to are absent from the result.
func AllowedAttributes(toolbar []string) map[string][]string {
	buckets := make(map[string]*orderedSet)
	for _, item := range toolbar {
		tag, attributes := toolAttributes(item)
		if len(attributes) == 0 {
			continue
		}
		if buckets[tag] == nil {
			buckets[tag] = newOrderedSet()
		}
		buckets[tag].add(attributes...)
	}
	return flatten(buckets)
}

// AllowedClasses returns the classes of every style definition keyed by the
// style's tag, provided toolbar contains "styles". A tag that only appears
// in styles without classes still gets an entry, with an empty list.
func AllowedClasses(toolbar []string, styles []StyleDefinition) map[string][]string {
	buckets := make(map[string]*orderedSet)
	if newOrderedSetOf(toolbar).has(ToolStyles) {
		for _, style := range styles {
			if style.Tag == "" {
				continue
			}
			if buckets[style.Tag] == nil {
				buckets[style.Tag] = newOrderedSet()
			}
			buckets[style.Tag].add(StyleClasses(style)...)
		}
	}
	return flatten(buckets)
}

// StyleClasses splits the class field of a style definition on whitespace.
func StyleClasses(style StyleDefinition) []string {
	return strings.Fields(style.Class)
}

// BuildPolicy derives the full sanitization policy from the effective
// options of an area.
func BuildPolicy(opts Options) sanitize.Policy {
	return sanitize.Policy{
		AllowedTags:       AllowedTags(opts.Toolbar, opts.Styles),
		AllowedAttributes: AllowedAttributes(opts.Toolbar),
		AllowedClasses:    AllowedClasses(opts.Toolbar, opts.Styles),
	}
}

func newOrderedSetOf(items []string) *orderedSet {
	set := newOrderedSet()
	set.add(items...)
	return set
}

func flatten(buckets map[string]*orderedSet) map[string][]string {
	m := make(map[string][]string, len(buckets))
	for tag, set := range buckets {
		m[tag] = set.list()
	}
	return m
}
