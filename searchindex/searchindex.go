// Package searchindex stores the search texts of widgets in a SQL database
// and finds widgets by text. sqlite3 and postgres are supported.
package searchindex

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/bokwoon95/erro"
	"github.com/bokwoon95/richtext"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite3  = "sqlite3"
	DriverPostgres = "postgres"
)

type Index struct {
	db     *sql.DB
	driver string
}

var _ richtext.SearchIndexer = (*Index)(nil)

// Open opens the database and creates the search_texts table if it doesn't
// exist yet.
func Open(ctx context.Context, driver, dsn string) (*Index, error) {
	switch driver {
	case DriverSQLite3, DriverPostgres:
	default:
		return nil, fmt.Errorf("searchindex: unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, erro.Wrap(err)
	}
	if driver == DriverSQLite3 && strings.Contains(dsn, ":memory:") {
		// every connection to :memory: gets its own empty database
		db.SetMaxOpenConns(1)
	}
	idx := &Index{db: db, driver: driver}
	err = idx.EnsureTables(ctx)
	if err != nil {
		db.Close()
		return nil, erro.Wrap(err)
	}
	return idx, nil
}

func (idx *Index) Close() error {
	return idx.db.Close()
}

func (idx *Index) EnsureTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS search_texts (
			search_text_id TEXT PRIMARY KEY
			,widget_id TEXT NOT NULL
			,ord INT NOT NULL
			,weight INT NOT NULL
			,text TEXT NOT NULL
			,text_lower TEXT NOT NULL
			,silent BOOLEAN NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS search_texts_widget_id_idx ON search_texts (widget_id)`,
	}
	for _, stmt := range stmts {
		_, err := idx.db.ExecContext(ctx, stmt)
		if err != nil {
			return erro.Wrap(err)
		}
	}
	return nil
}

// IndexTexts replaces the search texts stored for widgetID.
func (idx *Index) IndexTexts(ctx context.Context, widgetID string, texts []richtext.SearchText) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return erro.Wrap(err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, idx.rebind(`DELETE FROM search_texts WHERE widget_id = ?`), widgetID)
	if err != nil {
		return erro.Wrap(err)
	}
	query := idx.rebind(`INSERT INTO search_texts (search_text_id, widget_id, ord, weight, text, text_lower, silent) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for i, text := range texts {
		_, err = tx.ExecContext(ctx, query, uuid.NewString(), widgetID, i, text.Weight, text.Text, strings.ToLower(text.Text), text.Silent)
		if err != nil {
			return erro.Wrap(err)
		}
	}
	err = tx.Commit()
	if err != nil {
		return erro.Wrap(err)
	}
	return nil
}

// Texts returns the search texts of widgetID in the order they were indexed.
func (idx *Index) Texts(ctx context.Context, widgetID string) ([]richtext.SearchText, error) {
	rows, err := idx.db.QueryContext(ctx, idx.rebind(
		`SELECT weight, text, silent FROM search_texts WHERE widget_id = ? ORDER BY ord`,
	), widgetID)
	if err != nil {
		return nil, erro.Wrap(err)
	}
	defer rows.Close()
	var texts []richtext.SearchText
	for rows.Next() {
		var text richtext.SearchText
		err = rows.Scan(&text.Weight, &text.Text, &text.Silent)
		if err != nil {
			return nil, erro.Wrap(err)
		}
		texts = append(texts, text)
	}
	if err = rows.Err(); err != nil {
		return nil, erro.Wrap(err)
	}
	return texts, nil
}

// Search returns the IDs of widgets with a non-silent text containing q,
// ignoring case. Widgets whose best matching text weighs more come first.
// Case folding happens in Go on both sides, since sqlite's LOWER only
// knows ASCII.
func (idx *Index) Search(ctx context.Context, q string) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	rows, err := idx.db.QueryContext(ctx, idx.rebind(
		`SELECT widget_id, MAX(weight) AS max_weight FROM search_texts`+
			` WHERE NOT silent AND text_lower LIKE ? ESCAPE '\'`+
			` GROUP BY widget_id ORDER BY max_weight DESC, widget_id`,
	), pattern)
	if err != nil {
		return nil, erro.Wrap(err)
	}
	defer rows.Close()
	var widgetIDs []string
	for rows.Next() {
		var widgetID string
		var weight int
		err = rows.Scan(&widgetID, &weight)
		if err != nil {
			return nil, erro.Wrap(err)
		}
		widgetIDs = append(widgetIDs, widgetID)
	}
	if err = rows.Err(); err != nil {
		return nil, erro.Wrap(err)
	}
	return widgetIDs, nil
}

// rebind rewrites ? placeholders into $1, $2... for postgres.
func (idx *Index) rebind(query string) string {
	if idx.driver != DriverPostgres {
		return query
	}
	buf := &strings.Builder{}
	n := 0
	for _, r := range query {
		if r != '?' {
			buf.WriteRune(r)
			continue
		}
		n++
		buf.WriteString("$" + strconv.Itoa(n))
	}
	return buf.String()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
