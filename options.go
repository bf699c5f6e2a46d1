package richtext

import (
	"encoding/json"

	"github.com/bokwoon95/erro"
)

// StyleDefinition is a tag-bound formatting preset offered by the "styles"
// tool. Only Tag and Class matter for sanitizing; the rest is passed to the
// editor as is.
type StyleDefinition struct {
	Tag            string                 `json:"tag"`
	Label          string                 `json:"label,omitempty"`
	Class          string                 `json:"class,omitempty"`
	Type           string                 `json:"type,omitempty"`
	TypeParameters map[string]interface{} `json:"typeParameters,omitempty"`
	Command        string                 `json:"command,omitempty"`
}

// Options are the rich text options of an area. A nil Toolbar or Styles
// means the key is absent, which is not the same as an empty list when
// merging. A JSON null decodes to an empty list. Extra holds any other keys
// so that they survive a round trip through the editor.
type Options struct {
	Toolbar []string
	Styles  []StyleDefinition
	Extra   map[string]interface{}
}

// MergeOptions returns defaults overlaid with overrides. The merge is
// shallow: a key present in overrides replaces the same key in defaults
// wholesale, lists are never concatenated.
func MergeOptions(defaults, overrides Options) Options {
	merged := Options{
		Toolbar: defaults.Toolbar,
		Styles:  defaults.Styles,
	}
	if overrides.Toolbar != nil {
		merged.Toolbar = overrides.Toolbar
	}
	if overrides.Styles != nil {
		merged.Styles = overrides.Styles
	}
	if len(defaults.Extra) > 0 || len(overrides.Extra) > 0 {
		merged.Extra = make(map[string]interface{}, len(defaults.Extra)+len(overrides.Extra))
		for k, v := range defaults.Extra {
			merged.Extra[k] = v
		}
		for k, v := range overrides.Extra {
			merged.Extra[k] = v
		}
	}
	return merged
}

// MarshalJSON flattens Extra next to toolbar and styles.
func (opts Options) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(opts.Extra)+2)
	for k, v := range opts.Extra {
		m[k] = v
	}
	if opts.Toolbar != nil {
		m[keyToolbar] = opts.Toolbar
	}
	if opts.Styles != nil {
		m[keyStyles] = opts.Styles
	}
	return json.Marshal(m)
}

func (opts *Options) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	err := json.Unmarshal(b, &raw)
	if err != nil {
		return erro.Wrap(err)
	}
	*opts = Options{}
	for key, value := range raw {
		switch key {
		case keyToolbar:
			var toolbar []string
			if err = json.Unmarshal(value, &toolbar); err != nil {
				return erro.Wrap(err)
			}
			if toolbar == nil {
				// null is still a key: it overrides the defaults with nothing
				toolbar = []string{}
			}
			opts.Toolbar = toolbar
		case keyStyles:
			var styles []StyleDefinition
			if err = json.Unmarshal(value, &styles); err != nil {
				return erro.Wrap(err)
			}
			if styles == nil {
				styles = []StyleDefinition{}
			}
			opts.Styles = styles
		default:
			var v interface{}
			if err = json.Unmarshal(value, &v); err != nil {
				return erro.Wrap(err)
			}
			if opts.Extra == nil {
				opts.Extra = make(map[string]interface{})
			}
			opts.Extra[key] = v
		}
	}
	return nil
}

// EditorTool describes how the editor renders one toolbar item.
type EditorTool struct {
	Component string `json:"component"`
	Label     string `json:"label,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Command   string `json:"command,omitempty"`
}

// Components names the editor components of the widget.
type Components struct {
	WidgetEditor string `json:"widgetEditor"`
	Widget       string `json:"widget"`
}
