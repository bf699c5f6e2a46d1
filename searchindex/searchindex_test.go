package searchindex

import (
	"context"
	"testing"

	"github.com/bokwoon95/richtext"
	"github.com/bokwoon95/richtext/testutil"
)

func openTestIndex(t *testing.T) *Index {
	is := testutil.New(t, testutil.FailFast)
	idx, err := Open(context.Background(), DriverSQLite3, ":memory:")
	is.NoErr(err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func Test_Index(t *testing.T) {
	ctx := context.Background()

	t.Run("texts round trip in order", func(t *testing.T) {
		is := testutil.New(t)
		idx := openTestIndex(t)
		texts := []richtext.SearchText{
			{Weight: 10, Text: "Hello world"},
			{Weight: 1, Text: "metadata", Silent: true},
		}
		is.NoErr(idx.IndexTexts(ctx, "w1", texts))
		got, err := idx.Texts(ctx, "w1")
		is.NoErr(err)
		is.Equal(texts, got)
	})

	t.Run("indexing again replaces the previous texts", func(t *testing.T) {
		is := testutil.New(t)
		idx := openTestIndex(t)
		is.NoErr(idx.IndexTexts(ctx, "w1", []richtext.SearchText{{Weight: 10, Text: "old"}}))
		is.NoErr(idx.IndexTexts(ctx, "w1", []richtext.SearchText{{Weight: 10, Text: "new"}}))
		got, err := idx.Texts(ctx, "w1")
		is.NoErr(err)
		is.Equal([]richtext.SearchText{{Weight: 10, Text: "new"}}, got)
	})

	t.Run("search", func(t *testing.T) {
		is := testutil.New(t)
		idx := openTestIndex(t)
		is.NoErr(idx.IndexTexts(ctx, "w1", []richtext.SearchText{{Weight: 10, Text: "Gopher facts"}}))
		is.NoErr(idx.IndexTexts(ctx, "w2", []richtext.SearchText{{Weight: 20, Text: "Everything about gophers"}}))
		is.NoErr(idx.IndexTexts(ctx, "w3", []richtext.SearchText{{Weight: 30, Text: "gopher", Silent: true}}))
		is.NoErr(idx.IndexTexts(ctx, "w4", []richtext.SearchText{{Weight: 40, Text: "100% cotton"}}))

		ids, err := idx.Search(ctx, "GOPHER")
		is.NoErr(err)
		is.Equal([]string{"w2", "w1"}, ids)

		ids, err = idx.Search(ctx, "0%")
		is.NoErr(err)
		is.Equal([]string{"w4"}, ids)

		ids, err = idx.Search(ctx, "  ")
		is.NoErr(err)
		is.Equal(0, len(ids))
	})

	t.Run("search folds non-ascii case", func(t *testing.T) {
		is := testutil.New(t)
		idx := openTestIndex(t)
		is.NoErr(idx.IndexTexts(ctx, "w1", []richtext.SearchText{{Weight: 10, Text: "Über Österreich"}}))
		for _, q := range []string{"über", "Über", "ÖSTERREICH"} {
			ids, err := idx.Search(ctx, q)
			is.NoErr(err)
			is.Equal([]string{"w1"}, ids)
		}
		got, err := idx.Texts(ctx, "w1")
		is.NoErr(err)
		is.Equal("Über Österreich", got[0].Text)
	})
}

func Test_IndexWithWidget(t *testing.T) {
	is := testutil.New(t)
	ctx := context.Background()
	idx := openTestIndex(t)
	rt := richtext.New(richtext.WithSearchIndexer(idx))
	data, err := rt.Sanitize(ctx, richtext.Data{ID: "w1", Content: `<h2>Title</h2><p>Body <script>x()</script></p>`}, richtext.Options{})
	is.NoErr(err)
	is.NoErr(idx.IndexTexts(ctx, data.ID, rt.AddSearchTexts(data, nil)))
	got, err := idx.Texts(ctx, "w1")
	is.NoErr(err)
	is.Equal([]richtext.SearchText{{Weight: 10, Text: "Title\nBody"}}, got)
}

func Test_rebind(t *testing.T) {
	is := testutil.New(t, testutil.Parallel)
	pg := &Index{driver: DriverPostgres}
	is.Equal(`SELECT a FROM t WHERE b = $1 AND c = $2`, pg.rebind(`SELECT a FROM t WHERE b = ? AND c = ?`))
	lite := &Index{driver: DriverSQLite3}
	is.Equal(`SELECT a FROM t WHERE b = ?`, lite.rebind(`SELECT a FROM t WHERE b = ?`))
}
