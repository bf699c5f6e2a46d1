package richtext

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bokwoon95/erro"
	"github.com/dop251/goja"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Config is the project-level configuration of the widget, usually loaded
// from a widget-config.js file. Zero fields leave the built-in defaults
// alone.
type Config struct {
	Label          string                `json:"label,omitempty"`
	Icon           string                `json:"icon,omitempty"`
	DefaultOptions *Options              `json:"defaultOptions,omitempty"`
	Components     *Components           `json:"components,omitempty"`
	EditorTools    map[string]EditorTool `json:"editorTools,omitempty"`
}

// WithConfig applies a Config loaded with LoadConfig or ParseConfig.
func WithConfig(cfg Config) Option {
	return func(rt *Widget) {
		if cfg.Label != "" {
			rt.label = cfg.Label
		}
		if cfg.Icon != "" {
			rt.icon = cfg.Icon
		}
		if cfg.DefaultOptions != nil {
			rt.defaultOptions = *cfg.DefaultOptions
		}
		if cfg.Components != nil {
			rt.components = *cfg.Components
		}
		for name, tool := range cfg.EditorTools {
			rt.editorTools[name] = tool
		}
	}
}

// LoadConfig evaluates the JavaScript file at path as the body of a
// function and parses the object it returns. The variable $CONFIG_DIR holds
// the directory of the file, with a trailing slash.
//
//	// widget-config.js
//	return {
//	  defaultOptions: {
//	    toolbar: ["styles", "bold", "link"],
//	    styles: [{ tag: "h2", label: "Heading", class: "title" }],
//	  },
//	};
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, erro.Wrap(err)
	}
	vm := goja.New()
	vm.Set("$CONFIG_DIR", filepath.ToSlash(filepath.Dir(path))+"/")
	res, err := vm.RunString("(function(){" + string(b) + "})()")
	if err != nil {
		return Config{}, erro.Wrap(err)
	}
	cfg, err := ParseConfig(res.Export())
	if err != nil {
		return cfg, erro.Wrap(fmt.Errorf("%s: %w", path, err))
	}
	return cfg, nil
}

// ParseConfig validates data, as exported from a JavaScript value or
// decoded from JSON, and converts it into a Config.
func ParseConfig(data interface{}) (Config, error) {
	var cfg Config
	if data == nil {
		return cfg, fmt.Errorf("widget config must be an object, got nothing")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return cfg, erro.Wrap(err)
	}
	var doc interface{}
	err = json.Unmarshal(b, &doc)
	if err != nil {
		return cfg, erro.Wrap(err)
	}
	sch, err := configSchema()
	if err != nil {
		return cfg, erro.Wrap(err)
	}
	err = sch.Validate(doc)
	if err != nil {
		return cfg, fmt.Errorf("invalid widget config: %w", err)
	}
	err = json.Unmarshal(b, &cfg)
	if err != nil {
		return cfg, erro.Wrap(err)
	}
	return cfg, nil
}

var (
	configSchemaOnce     sync.Once
	configSchemaCompiled *jsonschema.Schema
	configSchemaErr      error
)

func configSchema() (*jsonschema.Schema, error) {
	configSchemaOnce.Do(func() {
		var doc interface{}
		configSchemaErr = json.Unmarshal([]byte(configSchemaJSON), &doc)
		if configSchemaErr != nil {
			return
		}
		c := jsonschema.NewCompiler()
		configSchemaErr = c.AddResource("widget-config.json", doc)
		if configSchemaErr != nil {
			return
		}
		configSchemaCompiled, configSchemaErr = c.Compile("widget-config.json")
	})
	return configSchemaCompiled, configSchemaErr
}

const configSchemaJSON = `{
  "type": "object",
  "properties": {
    "label": {"type": "string"},
    "icon": {"type": "string"},
    "defaultOptions": {
      "type": "object",
      "properties": {
        "toolbar": {"type": "array", "items": {"type": "string"}},
        "styles": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["tag"],
            "properties": {
              "tag": {"type": "string", "minLength": 1},
              "label": {"type": "string"},
              "class": {"type": "string"},
              "type": {"type": "string"},
              "typeParameters": {"type": "object"},
              "command": {"type": "string"}
            }
          }
        }
      }
    },
    "components": {
      "type": "object",
      "properties": {
        "widgetEditor": {"type": "string"},
        "widget": {"type": "string"}
      }
    },
    "editorTools": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["component"],
        "properties": {
          "component": {"type": "string"},
          "label": {"type": "string"},
          "icon": {"type": "string"},
          "command": {"type": "string"}
        }
      }
    }
  }
}`
