package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/itemstore/internal/domain"
)

var (
	// ErrItemNotFound is returned when an operation targets an id with no item.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidItem wraps validation failures on item input.
	ErrInvalidItem = errors.New("invalid item")
)

const maxItemNameLen = 200

// itemRepository is the subset of store.ItemStore that ItemService requires.
type itemRepository interface {
	Save(ctx context.Context, item *domain.Item) (*domain.Item, error)
	Update(ctx context.Context, id int64, param domain.ItemUpdate) error
	FindByID(ctx context.Context, id int64) (*domain.Item, bool, error)
	FindAll(ctx context.Context, cond domain.ItemSearchCond) ([]*domain.Item, error)
}

type ItemService struct {
	items  itemRepository
	logger *slog.Logger
}

func NewItemService(items itemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{items: items, logger: logger}
}

func (s *ItemService) CreateItem(ctx context.Context, name string, price, quantity int) (*domain.Item, error) {
	name = strings.TrimSpace(name)
	if err := validate(name, price, quantity); err != nil {
		return nil, err
	}

	item, err := s.items.Save(ctx, &domain.Item{ItemName: name, Price: price, Quantity: quantity})
	if err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}
	s.logger.Info("item created", "item_id", item.ID, "name", item.ItemName)
	return item, nil
}

// UpdateItem applies param and returns the stored result. The repository
// does not report unknown ids, so absence is detected by reading back.
func (s *ItemService) UpdateItem(ctx context.Context, id int64, param domain.ItemUpdate) (*domain.Item, error) {
	param.ItemName = strings.TrimSpace(param.ItemName)
	if err := validate(param.ItemName, param.Price, param.Quantity); err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, id, param); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	item, ok, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if !ok {
		return nil, ErrItemNotFound
	}
	s.logger.Info("item updated", "item_id", id)
	return item, nil
}

func (s *ItemService) GetItem(ctx context.Context, id int64) (*domain.Item, bool, error) {
	return s.items.FindByID(ctx, id)
}

func (s *ItemService) SearchItems(ctx context.Context, cond domain.ItemSearchCond) ([]*domain.Item, error) {
	items, err := s.items.FindAll(ctx, cond)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	s.logger.Debug("items searched", "name", cond.ItemName, "results", len(items))
	return items, nil
}

func validate(name string, price, quantity int) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name required", ErrInvalidItem)
	case len(name) > maxItemNameLen:
		return fmt.Errorf("%w: name too long", ErrInvalidItem)
	case price < 0:
		return fmt.Errorf("%w: negative price", ErrInvalidItem)
	case quantity < 0:
		return fmt.Errorf("%w: negative quantity", ErrInvalidItem)
	}
	return nil
}
