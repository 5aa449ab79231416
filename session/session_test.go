package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/bridge"
	"github.com/syssam/bridge/dialect"
	"github.com/syssam/bridge/dialect/sql"
	"github.com/syssam/bridge/dialect/sql/schema"
	"github.com/syssam/bridge/entity"
	"github.com/syssam/bridge/schema/field"
	"github.com/syssam/bridge/schema/mixin"
)

type Doc struct{ bridge.Schema }

func (Doc) Fields() []bridge.Field {
	return []bridge.Field{
		field.Char("title").MaxLen(20),
		field.Text("body").DeferredGroup("content"),
		field.Text("summary").DeferredGroup("content"),
		field.Text("notes").Null().Deferred(),
		field.Char("headline").MaxLen(40).Column("head").Synonym("caption").Null(),
	}
}

func mockSession(t *testing.T, opts ...Option) (*Session, *entity.Entity, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	e, err := entity.New("Doc", Doc{})
	require.NoError(t, err)
	return New(sql.OpenDB(dialect.SQLite, db), opts...), e, mock
}

func TestSession_GetDeferred(t *testing.T) {
	ctx := context.Background()
	s, e, mock := mockSession(t)
	mock.ExpectQuery(`SELECT "id", "title", "head" FROM "docs" WHERE "id" = ? LIMIT 1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "head"}).AddRow(1, "hello", "Hi"))
	doc, err := s.Get(ctx, e, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PK())
	assert.Same(t, e, doc.Entity())
	assert.True(t, doc.Loaded("title"))
	assert.False(t, doc.Loaded("body"))
	assert.False(t, doc.Loaded("summary"))
	assert.False(t, doc.Loaded("missing"))

	v, err := doc.Get(ctx, "caption")
	require.NoError(t, err)
	assert.Equal(t, "Hi", v)

	// Loading one attribute of a group loads the whole group.
	mock.ExpectQuery(`SELECT "body", "summary" FROM "docs" WHERE "id" = ? LIMIT 1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"body", "summary"}).AddRow("long body", "short"))
	v, err = doc.Get(ctx, "summary")
	require.NoError(t, err)
	assert.Equal(t, "short", v)
	assert.True(t, doc.Loaded("body"))
	assert.False(t, doc.Loaded("notes"))
	v, err = doc.Get(ctx, "body")
	require.NoError(t, err)
	assert.Equal(t, "long body", v)

	// Individually deferred attributes load alone.
	mock.ExpectQuery(`SELECT "notes" FROM "docs" WHERE "id" = ? LIMIT 1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"notes"}).AddRow(nil))
	v, err = doc.Get(ctx, "notes")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = doc.Get(ctx, "missing")
	assert.ErrorIs(t, err, schema.ErrUnknownAttribute)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_GetNotFound(t *testing.T) {
	s, e, mock := mockSession(t)
	mock.ExpectQuery(`SELECT "id", "title", "head" FROM "docs" WHERE "id" = ? LIMIT 1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "head"}))
	_, err := s.Get(context.Background(), e, 7)
	require.True(t, bridge.IsNotFound(err))
	var nf *bridge.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 7, nf.ID())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_Cache(t *testing.T) {
	ctx := context.Background()
	cache := bridge.NewMemoryCache()
	s, e, mock := mockSession(t, WithCache(cache, time.Minute))
	eager := `SELECT "id", "title", "head" FROM "docs" WHERE "id" = ? LIMIT 1`
	mock.ExpectQuery(eager).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "head"}).AddRow(1, "hello", nil))
	mock.ExpectQuery(`SELECT "body", "summary" FROM "docs" WHERE "id" = ? LIMIT 1`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"body", "summary"}).AddRow("long body", "short"))
	mock.ExpectQuery(eager).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "head"}).AddRow(1, "hello", nil))

	first, err := s.Get(ctx, e, 1)
	require.NoError(t, err)
	_, err = first.Get(ctx, "body")
	require.NoError(t, err)
	b, err := cache.Get(ctx, bridge.CacheKey{Table: "docs", PK: "1", Group: "content"}.String())
	require.NoError(t, err)
	require.NotNil(t, b)

	// The group of another instance of the row comes from the cache.
	second, err := s.Get(ctx, e, 1)
	require.NoError(t, err)
	v, err := second.Get(ctx, "summary")
	require.NoError(t, err)
	assert.Equal(t, "short", v)
	require.NoError(t, mock.ExpectationsWereMet())

	// Updates drop the cached groups of the row.
	mock.ExpectExec(`UPDATE "docs" SET "title" = ? WHERE "id" = ?`).
		WithArgs("bye", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Update(ctx, e, 1, map[string]any{"title": "bye"}))
	b, err = cache.Get(ctx, bridge.CacheKey{Table: "docs", PK: "1", Group: "content"}.String())
	require.NoError(t, err)
	assert.Nil(t, b)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_Insert(t *testing.T) {
	ctx := context.Background()
	s, e, mock := mockSession(t)
	mock.ExpectExec(`INSERT INTO "docs" ("title", "body", "summary", "head") VALUES (?, ?, ?, ?)`).
		WithArgs("hello", "text", "sum", "Hi").
		WillReturnResult(sqlmock.NewResult(42, 1))
	id, err := s.Insert(ctx, e, map[string]any{
		"title":   "hello",
		"body":    "text",
		"summary": "sum",
		"caption": "Hi",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_InsertConstraint(t *testing.T) {
	ctx := context.Background()
	s, e, mock := mockSession(t)
	mock.ExpectExec(`INSERT INTO "docs" ("title", "body", "summary") VALUES (?, ?, ?)`).
		WithArgs("hello", "text", "sum").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: docs.title (2067)"))
	_, err := s.Insert(ctx, e, map[string]any{"title": "hello", "body": "text", "summary": "sum"})
	require.Error(t, err)
	var me *bridge.MutationError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "insert", me.Op)
	assert.True(t, sql.IsUniqueConstraintError(err))
	var ce *sql.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "unique", ce.Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_InsertValidation(t *testing.T) {
	ctx := context.Background()
	s, e, mock := mockSession(t)
	_, err := s.Insert(ctx, e, map[string]any{
		"title": "a title longer than twenty characters",
		"body":  "text",
	})
	require.Error(t, err)
	assert.True(t, bridge.IsValidationError(err))
	assert.ErrorIs(t, err, field.ErrMaxLength)
	assert.ErrorIs(t, err, field.ErrNull, "summary is required")
	var agg *bridge.AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 2)

	_, err = s.Insert(ctx, e, map[string]any{"nope": 1})
	assert.ErrorIs(t, err, schema.ErrUnknownAttribute)

	_, err = s.Insert(ctx, e, map[string]any{"headline": "a", "caption": "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `attribute "headline" is set more than once`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_Update(t *testing.T) {
	ctx := context.Background()
	s, e, mock := mockSession(t)
	mock.ExpectExec(`UPDATE "docs" SET "title" = ? WHERE "id" = ?`).
		WithArgs("new", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT "id" FROM "docs" WHERE "id" = ? LIMIT 1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	err := s.Update(ctx, e, 3, map[string]any{"title": "new"})
	assert.True(t, bridge.IsNotFound(err))

	err = s.Update(ctx, e, 3, map[string]any{"id": 4})
	assert.Contains(t, err.Error(), `primary key "id" cannot be updated`)

	err = s.Update(ctx, e, 3, map[string]any{"title": ""})
	assert.ErrorIs(t, err, field.ErrBlank)

	require.NoError(t, s.Update(ctx, e, 3, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_UpdateUnchanged(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	e, err := entity.New("Doc", Doc{})
	require.NoError(t, err)
	cache := bridge.NewMemoryCache()
	s := New(sql.OpenDB(dialect.MySQL, db), WithCache(cache, 0))
	ctx := context.Background()
	key := bridge.CacheKey{Table: "docs", PK: "1", Group: "content"}
	require.NoError(t, cache.Set(ctx, key.String(), []byte("stale"), 0))

	// The row exists but no column changed, so MySQL reports 0 rows.
	mock.ExpectExec("UPDATE `docs` SET `title` = ? WHERE `id` = ?").
		WithArgs("same", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT `id` FROM `docs` WHERE `id` = ? LIMIT 1").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	require.NoError(t, s.Update(ctx, e, 1, map[string]any{"title": "same"}))
	b, err := cache.Get(ctx, key.String())
	require.NoError(t, err)
	assert.Nil(t, b, "cached groups are dropped")

	mock.ExpectExec("UPDATE `docs` SET `title` = ? WHERE `id` = ?").
		WithArgs("same", 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT `id` FROM `docs` WHERE `id` = ? LIMIT 1").
		WithArgs(2).
		WillReturnError(assert.AnError)
	err = s.Update(ctx, e, 2, map[string]any{"title": "same"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, bridge.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_InsertReturning(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	e, err := entity.New("Doc", Doc{})
	require.NoError(t, err)
	s := New(sql.OpenDB(dialect.Postgres, db))
	mock.ExpectQuery(`INSERT INTO "docs" ("title", "body", "summary") VALUES ($1, $2, $3) RETURNING "id"`).
		WithArgs("t", "b", "s").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))
	id, err := s.Insert(context.Background(), e, map[string]any{"title": "t", "body": "b", "summary": "s"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

type Post struct{ bridge.Schema }

func (Post) Fields() []bridge.Field {
	return []bridge.Field{
		field.Char("title").MaxLen(50),
		field.Slug("slug").Synonym("permalink"),
		field.Text("body").DeferredGroup("content"),
		field.PositiveSmallInt("rank").Default(1),
	}
}

func (Post) Mixin() []bridge.Mixin {
	return []bridge.Mixin{mixin.Timestamps{}}
}

func TestSession_SQLite(t *testing.T) {
	ctx := context.Background()
	drv, err := sql.Open("sqlite", "file:session?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer drv.Close()
	e, err := entity.New("Post", Post{})
	require.NoError(t, err)
	require.NoError(t, schema.NewMigrate(drv).Create(ctx, e.Descriptor()))

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := New(drv, WithClock(func() time.Time { return now }))
	id, err := s.Insert(ctx, e, map[string]any{
		"title":     "Hello",
		"permalink": "hello-world",
		"body":      "Once upon a time",
	})
	require.NoError(t, err)

	p, err := s.Get(ctx, e, id)
	require.NoError(t, err)
	v, err := p.Get(ctx, "title")
	require.NoError(t, err)
	assert.Equal(t, "Hello", v)
	v, err = p.Get(ctx, "permalink")
	require.NoError(t, err)
	assert.Equal(t, "hello-world", v)
	v, err = p.Get(ctx, "rank")
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
	assert.True(t, p.Loaded("created_at"))
	assert.False(t, p.Loaded("body"))
	v, err = p.Get(ctx, "body")
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time", v)

	_, err = s.Insert(ctx, e, map[string]any{"title": "Bad", "slug": "not a slug", "body": "x"})
	assert.ErrorIs(t, err, field.ErrFormat)

	require.NoError(t, s.Update(ctx, e, id, map[string]any{"title": "Hello again"}))
	p, err = s.Get(ctx, e, id)
	require.NoError(t, err)
	v, err = p.Get(ctx, "title")
	require.NoError(t, err)
	assert.Equal(t, "Hello again", v)

	_, err = s.Get(ctx, e, 1000)
	assert.True(t, bridge.IsNotFound(err))
}
