package richtext

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bokwoon95/richtext/testutil"
)

func Test_MergeOptions(t *testing.T) {
	defaults := Options{
		Toolbar: []string{"bold", "italic"},
		Styles:  []StyleDefinition{{Tag: "h2"}},
		Extra:   map[string]interface{}{"placeholder": "Type here", "limit": 3},
	}

	t.Run("absent keys keep the defaults", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		is.Equal(defaults, MergeOptions(defaults, Options{}))
	})

	t.Run("overrides win", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		got := MergeOptions(defaults, Options{
			Toolbar: []string{"link"},
			Extra:   map[string]interface{}{"limit": 5},
		})
		is.Equal(Options{
			Toolbar: []string{"link"},
			Styles:  []StyleDefinition{{Tag: "h2"}},
			Extra:   map[string]interface{}{"placeholder": "Type here", "limit": 5},
		}, got)
	})

	t.Run("an empty list is an override", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		got := MergeOptions(defaults, Options{Toolbar: []string{}})
		is.Equal([]string{}, got.Toolbar)
		is.Equal([]string{"br", "p"}, AllowedTags(got.Toolbar, got.Styles))
	})

	t.Run("merging does not touch the inputs", func(t *testing.T) {
		is := testutil.New(t, testutil.Parallel)
		overrides := Options{Extra: map[string]interface{}{"limit": 5}}
		MergeOptions(defaults, overrides)
		is.Equal(3, defaults.Extra["limit"])
		is.Equal(map[string]interface{}{"limit": 5}, overrides.Extra)
	})
}

func Test_OptionsJSON(t *testing.T) {
	is := testutil.New(t, testutil.Parallel)
	var opts Options
	err := json.Unmarshal([]byte(`{
		"toolbar": [],
		"styles": [{"tag": "h2", "label": "Heading", "class": "big", "typeParameters": {"level": 2}}],
		"placeholder": "Type here"
	}`), &opts)
	is.NoErr(err)
	is.Equal(Options{
		Toolbar: []string{},
		Styles: []StyleDefinition{{
			Tag:            "h2",
			Label:          "Heading",
			Class:          "big",
			TypeParameters: map[string]interface{}{"level": float64(2)},
		}},
		Extra: map[string]interface{}{"placeholder": "Type here"},
	}, opts)

	b, err := json.Marshal(opts)
	is.NoErr(err)
	is.Equal(`{"placeholder":"Type here","styles":[{"tag":"h2","label":"Heading","class":"big","typeParameters":{"level":2}}],"toolbar":[]}`, string(b))

	b, err = json.Marshal(Options{})
	is.NoErr(err)
	is.Equal(`{}`, string(b))
}

func Test_OptionsJSONNull(t *testing.T) {
	is := testutil.New(t, testutil.Parallel)
	var opts Options
	is.NoErr(json.Unmarshal([]byte(`{"toolbar": null, "styles": null}`), &opts))
	is.Equal([]string{}, opts.Toolbar)
	is.Equal([]StyleDefinition{}, opts.Styles)

	merged := MergeOptions(MinimumDefaultOptions(), opts)
	is.Equal([]string{"br", "p"}, AllowedTags(merged.Toolbar, merged.Styles))

	rt := New()
	got, err := rt.Sanitize(context.Background(), Data{ID: "a", Content: `<h2>T</h2><b>x</b>`}, opts)
	is.NoErr(err)
	is.Equal(`Tx`, got.Content)
}
