package richtext

import (
	"context"
	"errors"
	"testing"

	"github.com/bokwoon95/richtext/testutil"
)

type recordingBase struct {
	WidgetType
	calls   []string
	gotOpts Options
	err     error
}

func (b *recordingBase) Sanitize(ctx context.Context, input Data, opts Options) (Data, error) {
	b.calls = append(b.calls, "base")
	b.gotOpts = opts
	if b.err != nil {
		return Data{}, b.err
	}
	output, _ := b.WidgetType.Sanitize(ctx, input, opts)
	output.Content = "overwritten by the widget"
	return output, nil
}

func Test_WidgetSanitize(t *testing.T) {
	ctx := context.Background()

	t.Run("default toolbar", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		rt := New()
		got, err := rt.Sanitize(ctx, Data{
			ID:      "abc-123",
			Content: `<h2>Title</h2><h5>Small</h5><p><u>under</u> <strong>bold</strong></p><img src="x.png">`,
		}, Options{})
		is.NoErr(err)
		is.Equal(Data{
			ID:       "abc-123",
			Type:     DefaultName,
			MetaType: "widget",
			Content:  `<h2>Title</h2>Small<p>under <strong>bold</strong></p>`,
		}, got)
	})

	t.Run("area options override the toolbar", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		rt := New()
		got, err := rt.Sanitize(ctx, Data{ID: "a", Content: `<h2>Title</h2><p><b>x</b></p>`}, Options{
			Toolbar: []string{"italic"},
		})
		is.NoErr(err)
		is.Equal(`Title<p>x</p>`, got.Content)
	})

	t.Run("style classes", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		rt := New(WithDefaultOptions(Options{
			Styles: []StyleDefinition{{Tag: "h2", Class: "big bold"}},
		}))
		got, err := rt.Sanitize(ctx, Data{ID: "a", Content: `<h2 class="big evil">T</h2><p class="big">x</p>`}, Options{})
		is.NoErr(err)
		is.Equal(`<h2 class="big">T</h2><p>x</p>`, got.Content)
	})

	t.Run("base runs first and the input content wins", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		base := &recordingBase{WidgetType: WidgetType{Name: "custom"}}
		rt := New(WithBase(base), WithDefaultOptions(Options{Extra: map[string]interface{}{"limit": 1}}))
		got, err := rt.Sanitize(ctx, Data{ID: "a", Content: `<p>kept</p>`}, Options{Toolbar: []string{"bold"}})
		is.NoErr(err)
		is.Equal([]string{"base"}, base.calls)
		is.Equal([]string{"bold"}, base.gotOpts.Toolbar)
		is.Equal(MinimumDefaultOptions().Styles, base.gotOpts.Styles)
		is.Equal(1, base.gotOpts.Extra["limit"])
		is.Equal(`<p>kept</p>`, got.Content)
		is.Equal("custom", got.Type)
	})

	t.Run("base errors are returned unchanged", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		errBase := errors.New("base rejected the widget")
		rt := New(WithBase(&recordingBase{err: errBase}))
		_, err := rt.Sanitize(ctx, Data{Content: "<p>x</p>"}, Options{})
		is.True(err == errBase)
	})

	t.Run("malformed ids are replaced", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		rt := New()
		got, err := rt.Sanitize(ctx, Data{ID: `"><script>`, Content: ""}, Options{})
		is.NoErr(err)
		is.True(rxWidgetID.MatchString(got.ID))
		is.Equal("", got.Content)
	})
}

func Test_WidgetDefaults(t *testing.T) {
	t.Run("minimum defaults", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		is.Equal(MinimumDefaultOptions(), New().DefaultOptions())
	})
	t.Run("configured defaults are merged over the minimum", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		rt := New(WithDefaultOptions(Options{Toolbar: []string{"bold"}}))
		is.Equal([]string{"bold"}, rt.DefaultOptions().Toolbar)
		is.Equal(MinimumDefaultOptions().Styles, rt.DefaultOptions().Styles)
	})
}

func Test_WidgetBrowserData(t *testing.T) {
	is := testutil.New(t, testutil.Parallel)
	rt := New(WithEditorTools(map[string]EditorTool{
		"sparkles": {Component: "SparkleButton", Label: "Sparkles"},
	}))
	data := rt.GetBrowserData(context.Background())
	is.Equal(DefaultName, data["name"])
	is.Equal("Rich Text", data["label"])
	is.Equal(true, data["contextual"])
	is.Equal(Components{WidgetEditor: "AposRichTextWidgetEditor", Widget: "AposRichTextWidget"}, data["components"])
	is.Equal(rt.DefaultOptions(), data["defaultOptions"])
	tools, ok := data["tools"].(map[string]EditorTool)
	is.True(ok)
	is.Equal(EditorTool{Component: "SparkleButton", Label: "Sparkles"}, tools["sparkles"])
	is.Equal(EditorTool{Component: "AposTiptapLink", Label: "Link", Icon: "link-icon"}, tools[ToolLink])
	is.Equal(15, len(tools))
}

func Test_WidgetSearchTexts(t *testing.T) {
	is := testutil.New(t, testutil.Parallel)
	rt := New()
	texts := rt.AddSearchTexts(Data{Content: `<p>Hello <b>world</b></p>`}, []SearchText{{Weight: 1, Text: "title"}})
	is.Equal([]SearchText{
		{Weight: 1, Text: "title"},
		{Weight: 10, Text: "Hello world"},
	}, texts)
}

func Test_WidgetIsEmpty(t *testing.T) {
	is := testutil.New(t, testutil.Parallel)
	rt := New()
	is.True(rt.IsEmpty(Data{}))
	is.True(rt.IsEmpty(Data{Content: "<p></p>"}))
	is.True(rt.IsEmpty(Data{Content: "<p>  <br> </p>"}))
	is.True(!rt.IsEmpty(Data{Content: "<p>x</p>"}))
	is.Equal("<p>x</p>", rt.GetRichText(Data{Content: "<p>x</p>"}))
	is.NoErr(rt.Load(context.Background(), []Data{{Content: "<p>x</p>"}}))
}
