package richtext

import (
	"context"

	"github.com/bokwoon95/richtext/plaintext"
)

// SearchText is a weighted piece of plain text contributed to the search
// index by a widget. Silent texts are indexed but never shown in results.
type SearchText struct {
	Weight int    `json:"weight"`
	Text   string `json:"text"`
	Silent bool   `json:"silent"`
}

// SearchIndexer stores the search texts of a widget, replacing any texts
// previously stored for it.
type SearchIndexer interface {
	IndexTexts(ctx context.Context, widgetID string, texts []SearchText) error
}

// AddSearchTexts appends the plain text of the widget content to texts.
func (rt *Widget) AddSearchTexts(data Data, texts []SearchText) []SearchText {
	return append(texts, SearchText{
		Weight: searchTextWeight,
		Text:   plaintext.FromHTML(data.Content),
		Silent: false,
	})
}
