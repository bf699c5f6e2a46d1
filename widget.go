// Package richtext implements the rich text widget type: its editor
// configuration, and the sanitization of its content against an allow-list
// derived from the toolbar of the area it lives in, so that h4 can be legal
// in one area and illegal in another.
package richtext

import (
	"context"

	"github.com/bokwoon95/richtext/plaintext"
	"github.com/bokwoon95/richtext/sanitize"
	"go.uber.org/zap"
)

type Widget struct {
	name                  string
	label                 string
	icon                  string
	icons                 map[string]string
	contextual            bool
	className             bool
	defaultData           Data
	minimumDefaultOptions Options
	defaultOptions        Options // effective: minimumDefaultOptions overlaid with the configured defaults
	components            Components
	editorTools           map[string]EditorTool
	base                  Base
	sanitizer             *sanitize.Sanitizer
	indexer               SearchIndexer
	logger                *zap.Logger
	maxBodySize           int64
}

type Option func(*Widget)

func New(opts ...Option) *Widget {
	rt := &Widget{
		name:                  DefaultName,
		label:                 "Rich Text",
		icon:                  "format-text-icon",
		icons:                 map[string]string{"format-text-icon": "FormatText"},
		contextual:            true,
		minimumDefaultOptions: MinimumDefaultOptions(),
		components: Components{
			WidgetEditor: "AposRichTextWidgetEditor",
			Widget:       "AposRichTextWidget",
		},
		editorTools: DefaultEditorTools(),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.defaultOptions = MergeOptions(rt.minimumDefaultOptions, rt.defaultOptions)
	if rt.base == nil {
		rt.base = WidgetType{
			Name:        rt.name,
			Label:       rt.label,
			Icon:        rt.icon,
			Icons:       rt.icons,
			Contextual:  rt.contextual,
			ClassName:   rt.className,
			DefaultData: rt.defaultData,
		}
	}
	if rt.sanitizer == nil {
		rt.sanitizer = sanitize.New()
	}
	if rt.logger == nil {
		rt.logger = zap.NewNop()
	}
	return rt
}

func WithName(name string) Option {
	return func(rt *Widget) { rt.name = name }
}

func WithLabel(label string) Option {
	return func(rt *Widget) { rt.label = label }
}

func WithIcon(icon string) Option {
	return func(rt *Widget) { rt.icon = icon }
}

// WithDefaultOptions sets the configured default options. They are merged
// over the minimum default options, key by key.
func WithDefaultOptions(opts Options) Option {
	return func(rt *Widget) { rt.defaultOptions = opts }
}

func WithMinimumDefaultOptions(opts Options) Option {
	return func(rt *Widget) { rt.minimumDefaultOptions = opts }
}

func WithComponents(components Components) Option {
	return func(rt *Widget) { rt.components = components }
}

// WithEditorTools adds or replaces editor tool definitions.
func WithEditorTools(tools map[string]EditorTool) Option {
	return func(rt *Widget) {
		for name, tool := range tools {
			rt.editorTools[name] = tool
		}
	}
}

func WithBase(base Base) Option {
	return func(rt *Widget) { rt.base = base }
}

func WithSanitizer(sanitizer *sanitize.Sanitizer) Option {
	return func(rt *Widget) { rt.sanitizer = sanitizer }
}

func WithSearchIndexer(indexer SearchIndexer) Option {
	return func(rt *Widget) { rt.indexer = indexer }
}

func WithLogger(logger *zap.Logger) Option {
	return func(rt *Widget) { rt.logger = logger }
}

// WithMaxBodySize caps the size of a ServeSanitize request body in bytes.
// Values below 1 keep DefaultMaxBodySize.
func WithMaxBodySize(n int64) Option {
	return func(rt *Widget) {
		if n > 0 {
			rt.maxBodySize = n
		}
	}
}

func (rt *Widget) Name() string { return rt.name }

// DefaultOptions returns the effective default options.
func (rt *Widget) DefaultOptions() Options { return rt.defaultOptions }

// GetRichText returns the content of a widget, which is empty if it has not
// been edited yet.
func (rt *Widget) GetRichText(data Data) string {
	return data.Content
}

// Load has nothing to load for rich text widgets.
func (rt *Widget) Load(ctx context.Context, widgets []Data) error {
	return nil
}

// OptionsToSanitizeHTML converts area options into a sanitizer config: the
// sanitizer's defaults with the allow-list replaced by the one derived from
// opts.
func (rt *Widget) OptionsToSanitizeHTML(opts Options) sanitize.Config {
	cfg := sanitize.DefaultConfig()
	cfg.Policy = BuildPolicy(opts)
	return cfg
}

// Sanitize cleans a widget submitted for an area with the given options.
// The base widget type sees the input first; the content of its output is
// then replaced with the input content, cleaned against the allow-list of
// the effective options.
func (rt *Widget) Sanitize(ctx context.Context, input Data, opts Options) (Data, error) {
	rteOptions := MergeOptions(rt.defaultOptions, opts)
	output, err := rt.base.Sanitize(ctx, input, rteOptions)
	if err != nil {
		return output, err
	}
	cfg := rt.OptionsToSanitizeHTML(rteOptions)
	output.Content = rt.sanitizer.Sanitize(input.Content, cfg)
	rt.logger.Debug("sanitized rich text",
		zap.String("widget_id", output.ID),
		zap.Strings("allowed_tags", cfg.AllowedTags),
		zap.Int("input_len", len(input.Content)),
		zap.Int("output_len", len(output.Content)),
	)
	return output, nil
}

// GetBrowserData returns the base browser data together with the editor
// components, tools and effective default options.
func (rt *Widget) GetBrowserData(ctx context.Context) map[string]interface{} {
	initialData := rt.base.BrowserData(ctx)
	finalData := make(map[string]interface{}, len(initialData)+3)
	for k, v := range initialData {
		finalData[k] = v
	}
	finalData["components"] = rt.components
	finalData["tools"] = rt.editorTools
	finalData["defaultOptions"] = rt.defaultOptions
	return finalData
}

// IsEmpty reports whether the widget has no visible text.
func (rt *Widget) IsEmpty(data Data) bool {
	return plaintext.IsEmpty(data.Content)
}

// MinimumDefaultOptions are the options every area gets unless configured
// otherwise.
func MinimumDefaultOptions() Options {
	return Options{
		Toolbar: []string{
			ToolStyles,
			ToolBold,
			ToolItalic,
			ToolStrike,
			ToolLink,
			ToolBulletList,
			ToolOrderedList,
			ToolBlockquote,
		},
		Styles: []StyleDefinition{
			{Tag: "p", Label: "Paragraph (P)", Type: "paragraph", Command: "setParagraph"},
			{Tag: "h2", Label: "Heading 2 (H2)", Type: "heading", TypeParameters: map[string]interface{}{"level": 2}, Command: "toggleHeading"},
			{Tag: "h3", Label: "Heading 3 (H3)", Type: "heading", TypeParameters: map[string]interface{}{"level": 3}, Command: "toggleHeading"},
			{Tag: "h4", Label: "Heading 4 (H4)", Type: "heading", TypeParameters: map[string]interface{}{"level": 4}, Command: "toggleHeading"},
		},
	}
}

func DefaultEditorTools() map[string]EditorTool {
	return map[string]EditorTool{
		ToolStyles:         {Component: "AposTiptapStyles", Label: "Styles"},
		ToolDivider:        {Component: "AposTiptapDivider"},
		ToolBold:           {Component: "AposTiptapButton", Label: "Bold", Icon: "format-bold-icon", Command: "toggleBold"},
		ToolItalic:         {Component: "AposTiptapButton", Label: "Italic", Icon: "format-italic-icon", Command: "toggleItalic"},
		ToolUnderline:      {Component: "AposTiptapButton", Label: "Underline", Icon: "format-underline-icon", Command: "toggleUnderline"},
		ToolHorizontalRule: {Component: "AposTiptapButton", Label: "Horizontal Rule", Icon: "minus-icon", Command: "setHorizontalRule"},
		ToolLink:           {Component: "AposTiptapLink", Label: "Link", Icon: "link-icon"},
		ToolBulletList:     {Component: "AposTiptapButton", Label: "Bulleted List", Icon: "format-list-bulleted-icon", Command: "toggleBulletList"},
		ToolOrderedList:    {Component: "AposTiptapButton", Label: "Ordered List", Icon: "format-list-numbered-icon", Command: "toggleOrderedList"},
		ToolStrike:         {Component: "AposTiptapButton", Label: "Strike", Icon: "format-strikethrough-variant-icon", Command: "toggleStrike"},
		ToolBlockquote:     {Component: "AposTiptapButton", Label: "Blockquote", Icon: "format-quote-close-icon", Command: "toggleBlockquote"},
		ToolCodeBlock:      {Component: "AposTiptapButton", Label: "Code Block", Icon: "code-tags-icon", Command: "toggleCode"},
		ToolUndo:           {Component: "AposTiptapButton", Label: "Undo", Icon: "undo-icon"},
		ToolRedo:           {Component: "AposTiptapButton", Label: "Redo", Icon: "redo-icon"},
	}
}
