package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/itemstore/internal/domain"
)

const itemColumns = "id, item_name, price, quantity"

type ItemStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewItemStore(db *sql.DB, dialect Dialect) *ItemStore {
	return &ItemStore{db: db, dialect: dialect}
}

// Save inserts item, assigns the generated id onto it and returns it.
func (s *ItemStore) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	query := "INSERT INTO item (item_name, price, quantity) VALUES (" + s.dialect.binds(1, 3) + ")"
	args := []any{item.ItemName, item.Price, item.Quantity}

	if s.dialect.returningID() {
		if err := s.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("failed to create item: %w", err)
		}
		return item, nil
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id

	return item, nil
}

// Update overwrites name, price and quantity of the item with the given id.
// An unknown id affects no rows and is not reported.
func (s *ItemStore) Update(ctx context.Context, id int64, param domain.ItemUpdate) error {
	d := s.dialect
	query := "UPDATE item SET item_name = " + d.bind(1) + ", price = " + d.bind(2) +
		", quantity = " + d.bind(3) + " WHERE id = " + d.bind(4)

	if _, err := s.db.ExecContext(ctx, query, param.ItemName, param.Price, param.Quantity, id); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	return nil
}

// FindByID reports found=false with a nil error when no row has the id.
func (s *ItemStore) FindByID(ctx context.Context, id int64) (*domain.Item, bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM item WHERE id = "+s.dialect.bind(1), id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get item: %w", err)
	}

	return item, true, nil
}

// FindAll lists items matching cond. Results are in storage order.
func (s *ItemStore) FindAll(ctx context.Context, cond domain.ItemSearchCond) ([]*domain.Item, error) {
	where := whereBuilder{dialect: s.dialect}
	if cond.HasItemName() {
		where.contains("item_name", cond.ItemName)
	}
	if cond.MaxPrice != nil {
		where.add("price", opLTE, *cond.MaxPrice)
	}
	clause, args := where.build(1)

	query := "SELECT " + itemColumns + " FROM item" + clause
	slog.Debug("find all items", "sql", query)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem reads one row selected with itemColumns.
func scanItem(row rowScanner) (*domain.Item, error) {
	item := &domain.Item{}
	if err := row.Scan(&item.ID, &item.ItemName, &item.Price, &item.Quantity); err != nil {
		return nil, err
	}
	return item, nil
}
