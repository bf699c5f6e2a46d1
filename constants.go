package richtext

// Toolbar items understood by the editor.
const (
	ToolStyles         = "styles"
	ToolDivider        = "|"
	ToolBold           = "bold"
	ToolItalic         = "italic"
	ToolUnderline      = "underline"
	ToolHorizontalRule = "horizontal_rule"
	ToolLink           = "link"
	ToolBulletList     = "bullet_list"
	ToolOrderedList    = "ordered_list"
	ToolStrike         = "strike"
	ToolBlockquote     = "blockquote"
	ToolCodeBlock      = "code_block"
	ToolUndo           = "undo"
	ToolRedo           = "redo"
)

const (
	keyToolbar = "toolbar"
	keyStyles  = "styles"
)

const (
	DefaultName = "rich-text"
	metaType    = "widget"

	searchTextWeight = 10

	// DefaultMaxBodySize is the largest sanitize request body accepted.
	DefaultMaxBodySize = 1 << 20
)
