package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vbonduro/itemstore/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	dsn := "file:" + filepath.Join(t.TempDir(), "store.db") + "?_pragma=case_sensitive_like(1)"
	d, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	// Apply the same schema db.Open installs.
	schema, err := os.ReadFile(filepath.Join("..", "db", "migrations", "sqlite", "000001_create_item.up.sql"))
	require.NoError(t, err)
	_, err = d.Exec(string(schema))
	require.NoError(t, err)

	return d
}

func intPtr(v int) *int { return &v }

func names(items []*domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ItemName)
	}
	return out
}

func seedFruit(t *testing.T, items *ItemStore) {
	t.Helper()
	ctx := context.Background()
	for _, it := range []domain.Item{
		{ItemName: "apple", Price: 100, Quantity: 1},
		{ItemName: "banana", Price: 200, Quantity: 2},
		{ItemName: "appleband", Price: 50, Quantity: 3},
	} {
		_, err := items.Save(ctx, &it)
		require.NoError(t, err)
	}
}

func TestItemStoreSave(t *testing.T) {
	items := NewItemStore(openTestDB(t), DialectSQLite)
	ctx := context.Background()

	item := &domain.Item{ItemName: "itemA", Price: 10000, Quantity: 10}
	saved, err := items.Save(ctx, item)
	require.NoError(t, err)
	assert.Same(t, item, saved)
	assert.NotZero(t, saved.ID)

	found, ok, err := items.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved, found)
}

func TestItemStoreSave_AssignsDistinctIDs(t *testing.T) {
	items := NewItemStore(openTestDB(t), DialectSQLite)
	ctx := context.Background()

	first, err := items.Save(ctx, &domain.Item{ItemName: "first", Price: 1, Quantity: 1})
	require.NoError(t, err)
	second, err := items.Save(ctx, &domain.Item{ItemName: "second", Price: 2, Quantity: 2})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestItemStoreSave_ConstraintViolation(t *testing.T) {
	d := openTestDB(t)
	_, err := d.Exec(`CREATE UNIQUE INDEX idx_item_name ON item(item_name)`)
	require.NoError(t, err)
	items := NewItemStore(d, DialectSQLite)
	ctx := context.Background()

	_, err = items.Save(ctx, &domain.Item{ItemName: "dup", Price: 1, Quantity: 1})
	require.NoError(t, err)

	_, err = items.Save(ctx, &domain.Item{ItemName: "dup", Price: 2, Quantity: 2})
	assert.Error(t, err)
}

func TestItemStoreFindByID_NotFound(t *testing.T) {
	items := NewItemStore(openTestDB(t), DialectSQLite)

	item, ok, err := items.FindByID(context.Background(), 99999)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, item)
}

func TestItemStoreUpdate(t *testing.T) {
	items := NewItemStore(openTestDB(t), DialectSQLite)
	ctx := context.Background()

	item, err := items.Save(ctx, &domain.Item{ItemName: "item1", Price: 10000, Quantity: 10})
	require.NoError(t, err)

	err = items.Update(ctx, item.ID, domain.ItemUpdate{ItemName: "item2", Price: 20000, Quantity: 30})
	require.NoError(t, err)

	updated, ok, err := items.FindByID(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, &domain.Item{ID: item.ID, ItemName: "item2", Price: 20000, Quantity: 30}, updated)
}

func TestItemStoreUpdate_NotFound(t *testing.T) {
	items := NewItemStore(openTestDB(t), DialectSQLite)
	ctx := context.Background()

	existing, err := items.Save(ctx, &domain.Item{ItemName: "keep", Price: 5, Quantity: 5})
	require.NoError(t, err)

	err = items.Update(ctx, existing.ID+100, domain.ItemUpdate{ItemName: "changed", Price: 1, Quantity: 1})
	require.NoError(t, err)

	all, err := items.FindAll(ctx, domain.ItemSearchCond{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, existing, all[0])
}

func TestItemStoreFindAll(t *testing.T) {
	items := NewItemStore(openTestDB(t), DialectSQLite)
	seedFruit(t, items)
	ctx := context.Background()

	tests := []struct {
		name string
		cond domain.ItemSearchCond
		want []string
	}{
		{"no filter", domain.ItemSearchCond{}, []string{"apple", "banana", "appleband"}},
		{"blank name ignored", domain.ItemSearchCond{ItemName: "   "}, []string{"apple", "banana", "appleband"}},
		{"name only", domain.ItemSearchCond{ItemName: "apple"}, []string{"apple", "appleband"}},
		{"name substring", domain.ItemSearchCond{ItemName: "ban"}, []string{"banana", "appleband"}},
		{"max price only", domain.ItemSearchCond{MaxPrice: intPtr(100)}, []string{"apple", "appleband"}},
		{"max price inclusive", domain.ItemSearchCond{MaxPrice: intPtr(200)}, []string{"apple", "banana", "appleband"}},
		{"name and max price", domain.ItemSearchCond{ItemName: "apple", MaxPrice: intPtr(100)}, []string{"apple", "appleband"}},
		{"intersection narrows", domain.ItemSearchCond{ItemName: "ban", MaxPrice: intPtr(60)}, []string{"appleband"}},
		{"no match", domain.ItemSearchCond{ItemName: "cherry"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := items.FindAll(ctx, tt.cond)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, names(got))
		})
	}
}

func TestItemStoreFindAll_CaseSensitive(t *testing.T) {
	items := NewItemStore(openTestDB(t), DialectSQLite)
	ctx := context.Background()

	_, err := items.Save(ctx, &domain.Item{ItemName: "Apple", Price: 1, Quantity: 1})
	require.NoError(t, err)

	results, err := items.FindAll(ctx, domain.ItemSearchCond{ItemName: "apple"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestItemStoreFindAll_LiteralWildcards(t *testing.T) {
	items := NewItemStore(openTestDB(t), DialectSQLite)
	ctx := context.Background()

	for _, name := range []string{"100% juice", "1000 juice", "a_b", "axb", "wow!"} {
		_, err := items.Save(ctx, &domain.Item{ItemName: name, Price: 1, Quantity: 1})
		require.NoError(t, err)
	}

	results, err := items.FindAll(ctx, domain.ItemSearchCond{ItemName: "0%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% juice"}, names(results))

	results, err = items.FindAll(ctx, domain.ItemSearchCond{ItemName: "_"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a_b"}, names(results))

	results, err = items.FindAll(ctx, domain.ItemSearchCond{ItemName: "!"})
	require.NoError(t, err)
	assert.Equal(t, []string{"wow!"}, names(results))
}

func TestItemStoreFindAll_Empty(t *testing.T) {
	items := NewItemStore(openTestDB(t), DialectSQLite)

	results, err := items.FindAll(context.Background(), domain.ItemSearchCond{})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestItemStoreClosedDB(t *testing.T) {
	d := openTestDB(t)
	items := NewItemStore(d, DialectSQLite)
	require.NoError(t, d.Close())
	ctx := context.Background()

	_, err := items.Save(ctx, &domain.Item{ItemName: "x"})
	assert.Error(t, err)

	_, _, err = items.FindByID(ctx, 1)
	assert.Error(t, err)

	err = items.Update(ctx, 1, domain.ItemUpdate{ItemName: "x"})
	assert.Error(t, err)

	_, err = items.FindAll(ctx, domain.ItemSearchCond{})
	assert.Error(t, err)
}
