// Package sanitize cleans untrusted HTML against an allow-list Policy. The
// heavy lifting is done by bluemonday; this package only translates a Policy
// into a bluemonday policy and filters class names token by token, which
// bluemonday cannot do on its own.
package sanitize

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/blake2b"
)

// Policy is the allow-list handed over by the caller. AllowedClasses holds
// class names per tag; a tag mapped to an empty list allows no classes.
type Policy struct {
	AllowedTags       []string            `json:"allowedTags"`
	AllowedAttributes map[string][]string `json:"allowedAttributes"`
	AllowedClasses    map[string][]string `json:"allowedClasses"`
}

// Config is a Policy together with the settings the sanitizer applies
// regardless of the allow-list.
type Config struct {
	Policy
	// AllowedSchemes restricts the URL schemes of href, src, cite and the
	// other URL-valued attributes bluemonday knows about.
	AllowedSchemes    []string `json:"allowedSchemes"`
	AllowRelativeURLs bool     `json:"allowRelativeURLs"`
	NonTextTags       []string `json:"nonTextTags"`
}

// DefaultConfig returns the baseline settings. Its Policy is empty: callers
// replace it with their own allow-list.
func DefaultConfig() Config {
	return Config{
		AllowedSchemes:    []string{"http", "https", "ftp", "mailto", "tel"},
		AllowRelativeURLs: true,
		NonTextTags:       []string{"script", "style", "textarea", "option"},
	}
}

// DefaultCacheSize is how many compiled policies a Sanitizer keeps unless
// told otherwise.
const DefaultCacheSize = 256

// Sanitizer compiles Configs into bluemonday policies and keeps the most
// recently used ones. The zero value is not usable, call New.
type Sanitizer struct {
	cacheSize int
	policies  *lru.Cache[[blake2b.Size256]byte, compiledPolicy]
}

type compiledPolicy struct {
	bm      *bluemonday.Policy
	classes map[string]map[string]struct{}
}

type Option func(*Sanitizer)

// CacheSize sets the number of compiled policies kept. Values below 1 are
// ignored.
func CacheSize(size int) Option {
	return func(s *Sanitizer) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(s)
	}
	policies, err := lru.New[[blake2b.Size256]byte, compiledPolicy](s.cacheSize)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	s.policies = policies
	return s
}

// Sanitize returns html stripped of everything cfg does not allow. Text
// inside disallowed tags is kept, except for cfg.NonTextTags whose content
// is dropped along with the tag.
func (s *Sanitizer) Sanitize(html string, cfg Config) string {
	cp := s.compile(cfg)
	return cp.bm.Sanitize(filterClasses(html, cp.classes))
}

// Len reports how many compiled policies are cached.
func (s *Sanitizer) Len() int {
	return s.policies.Len()
}

func (s *Sanitizer) compile(cfg Config) compiledPolicy {
	key := configKey(cfg)
	if cp, ok := s.policies.Get(key); ok {
		return cp
	}
	cp := compiledPolicy{
		bm:      Compile(cfg),
		classes: classSets(cfg.AllowedClasses),
	}
	s.policies.Add(key, cp)
	return cp
}

// configKey hashes the JSON form of cfg. encoding/json sorts map keys so
// equal configs always hash the same.
func configKey(cfg Config) [blake2b.Size256]byte {
	b, err := json.Marshal(cfg)
	if err != nil {
		// Config holds only strings, slices and maps of strings.
		panic(err)
	}
	return blake2b.Sum256(b)
}

// Compile translates cfg into a bluemonday policy. Class attributes are
// only accepted when every class in them is allowed for the tag; run
// filterClasses first to drop the disallowed ones.
func Compile(cfg Config) *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	if len(cfg.AllowedTags) > 0 {
		p.AllowElements(cfg.AllowedTags...)
		p.AllowNoAttrs().OnElements(cfg.AllowedTags...)
	}
	for _, tag := range sortedKeys(cfg.AllowedAttributes) {
		attrs := cfg.AllowedAttributes[tag]
		if len(attrs) == 0 {
			continue
		}
		p.AllowAttrs(attrs...).OnElements(tag)
	}
	for _, tag := range sortedKeys(cfg.AllowedClasses) {
		re := classPattern(cfg.AllowedClasses[tag])
		if re == nil {
			continue
		}
		p.AllowAttrs("class").Matching(re).OnElements(tag)
	}
	if len(cfg.AllowedSchemes) > 0 {
		p.RequireParseableURLs(true)
		p.AllowURLSchemes(cfg.AllowedSchemes...)
		p.AllowRelativeURLs(cfg.AllowRelativeURLs)
	}
	if len(cfg.NonTextTags) > 0 {
		p.SkipElementsContent(cfg.NonTextTags...)
	}
	return p
}

// classPattern matches a whitespace separated list drawn from classes.
func classPattern(classes []string) *regexp.Regexp {
	var quoted []string
	for _, c := range classes {
		if c == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(c))
	}
	if len(quoted) == 0 {
		return nil
	}
	sort.Strings(quoted)
	alt := `(?:` + strings.Join(quoted, "|") + `)`
	return regexp.MustCompile(`^` + alt + `(?:\s+` + alt + `)*$`)
}

func classSets(allowed map[string][]string) map[string]map[string]struct{} {
	sets := make(map[string]map[string]struct{}, len(allowed))
	for tag, classes := range allowed {
		set := make(map[string]struct{}, len(classes))
		for _, c := range classes {
			set[c] = struct{}{}
		}
		sets[tag] = set
	}
	return sets
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
