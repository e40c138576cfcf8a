package service

import (
	"errors"
	"strings"
	"sync"

	"menugenius/domain"
	"menugenius/kiosk/internal/state"
	"menugenius/kiosk/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Basket is the single customer basket. It is the only writer of its items;
// every mutation is persisted and republished.
type Basket struct {
	store  storage.KV
	logger *zap.Logger

	mu    sync.Mutex
	items *state.Cell[[]domain.BasketItem]
	count *state.Cell[int]
}

// NewBasket restores the persisted basket. Unreadable storage starts empty.
func NewBasket(store storage.KV, logger *zap.Logger) *Basket {
	var items []domain.BasketItem
	if err := storage.GetJSON(store, storage.KeyBasket, &items); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("failed to load basket from storage", zap.Error(err))
		items = nil
	}
	items = compact(items)

	return &Basket{
		store:  store,
		logger: logger,
		items:  state.NewCell(items),
		count:  state.NewCell(countOf(items)),
	}
}

func (b *Basket) Items() []domain.BasketItem {
	return domain.SnapshotItems(b.items.Get())
}

func (b *Basket) ItemCount() int {
	return b.count.Get()
}

func (b *Basket) ItemsStream() state.Observable[[]domain.BasketItem] {
	return b.items
}

func (b *Basket) CountStream() state.Observable[int] {
	return b.count
}

// TotalAmount is recomputed from the current entries on every call.
func (b *Basket) TotalAmount() decimal.Decimal {
	return domain.TotalOf(b.items.Get())
}

// AddToBasket adds quantity of item, merging with an existing entry. An
// entry whose quantity ends up at or below zero is dropped.
func (b *Basket) AddToBasket(item domain.MenuItem, quantity int) {
	b.mutate(func(items []domain.BasketItem) []domain.BasketItem {
		for i := range items {
			if items[i].MenuItem.ID == item.ID {
				items[i].Quantity += quantity
				return items
			}
		}
		return append(items, domain.BasketItem{MenuItem: item.Clone(), Quantity: quantity})
	})
}

func (b *Basket) RemoveFromBasket(menuItemID int) {
	b.mutate(func(items []domain.BasketItem) []domain.BasketItem {
		out := items[:0]
		for _, it := range items {
			if it.MenuItem.ID != menuItemID {
				out = append(out, it)
			}
		}
		return out
	})
}

// UpdateQuantity sets the quantity of an entry; zero or less removes it.
func (b *Basket) UpdateQuantity(menuItemID, quantity int) {
	if quantity <= 0 {
		b.RemoveFromBasket(menuItemID)
		return
	}
	b.mutate(func(items []domain.BasketItem) []domain.BasketItem {
		for i := range items {
			if items[i].MenuItem.ID == menuItemID {
				items[i].Quantity = quantity
			}
		}
		return items
	})
}

func (b *Basket) UpdateSpecialInstructions(menuItemID int, text string) {
	b.mutate(func(items []domain.BasketItem) []domain.BasketItem {
		for i := range items {
			if items[i].MenuItem.ID == menuItemID {
				items[i].SpecialInstructions = strings.TrimSpace(text)
			}
		}
		return items
	})
}

func (b *Basket) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.store.Delete(storage.KeyBasket); err != nil {
		b.logger.Warn("failed to clear basket in storage", zap.Error(err))
	}
	b.items.Set(nil)
	b.count.Set(0)
}

// mutate hands fn a private copy of the entries so published snapshots are
// never changed after the fact.
func (b *Basket) mutate(fn func([]domain.BasketItem) []domain.BasketItem) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := compact(fn(domain.SnapshotItems(b.items.Get())))
	if err := storage.SetJSON(b.store, storage.KeyBasket, items); err != nil {
		b.logger.Warn("failed to persist basket", zap.Error(err), zap.Int("entries", len(items)))
	}
	b.items.Set(items)
	b.count.Set(countOf(items))
}

func compact(items []domain.BasketItem) []domain.BasketItem {
	out := make([]domain.BasketItem, 0, len(items))
	for _, it := range items {
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}

func countOf(items []domain.BasketItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
