package richtext

import (
	"context"
	"regexp"

	"github.com/google/uuid"
)

// Data is a stored rich text widget.
type Data struct {
	ID       string `json:"_id"`
	Type     string `json:"type"`
	MetaType string `json:"metaType"`
	Content  string `json:"content"`
}

// Base is the generic widget type the rich text widget builds upon. Its
// Sanitize is run before the content field is cleaned, and its browser data
// is the starting point of GetBrowserData.
type Base interface {
	Sanitize(ctx context.Context, input Data, opts Options) (Data, error)
	BrowserData(ctx context.Context) map[string]interface{}
}

// WidgetType is the default Base.
type WidgetType struct {
	Name        string
	Label       string
	Icon        string
	Icons       map[string]string
	Contextual  bool
	ClassName   bool
	DefaultData Data
}

var rxWidgetID = regexp.MustCompile(`^[\w-]+$`)

// Sanitize keeps a well formed input ID, otherwise assigns a fresh one, and
// stamps the widget type. Content is copied as is.
func (wt WidgetType) Sanitize(ctx context.Context, input Data, opts Options) (Data, error) {
	output := Data{
		ID:       input.ID,
		Type:     wt.Name,
		MetaType: metaType,
		Content:  input.Content,
	}
	if !rxWidgetID.MatchString(output.ID) {
		output.ID = uuid.NewString()
	}
	return output, nil
}

func (wt WidgetType) BrowserData(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"name":        wt.Name,
		"label":       wt.Label,
		"icon":        wt.Icon,
		"icons":       wt.Icons,
		"contextual":  wt.Contextual,
		"className":   wt.ClassName,
		"defaultData": wt.DefaultData,
	}
}
