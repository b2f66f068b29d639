package service

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"web3dir/catalog-service/internal/app/catalog/entity"

	"github.com/google/uuid"
)

// memorySavedRepo - хранилище сохраненных товаров в памяти
type memorySavedRepo struct {
	mu       sync.Mutex
	saved    map[string][]uuid.UUID
	writeErr error
	adds     int
	removes  int

	// listGate задерживает следующий ListIDs после снятия снимка набора
	listGate  chan struct{}
	listTaken chan struct{}
}

func newMemorySavedRepo() *memorySavedRepo {
	return &memorySavedRepo{saved: make(map[string][]uuid.UUID)}
}

func (r *memorySavedRepo) ListIDs(_ context.Context, userID string) ([]uuid.UUID, error) {
	r.mu.Lock()
	ids := append([]uuid.UUID{}, r.saved[userID]...)
	gate, taken := r.listGate, r.listTaken
	r.listGate, r.listTaken = nil, nil
	r.mu.Unlock()

	if gate != nil {
		close(taken)
		<-gate
	}
	return ids, nil
}

func (r *memorySavedRepo) Add(_ context.Context, userID string, productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adds++
	if r.writeErr != nil {
		return r.writeErr
	}
	if !slices.Contains(r.saved[userID], productID) {
		r.saved[userID] = append([]uuid.UUID{productID}, r.saved[userID]...)
	}
	return nil
}

func (r *memorySavedRepo) Remove(_ context.Context, userID string, productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removes++
	if r.writeErr != nil {
		return r.writeErr
	}
	r.saved[userID] = slices.DeleteFunc(r.saved[userID], func(id uuid.UUID) bool { return id == productID })
	return nil
}

// memoryCache - RedisCache в памяти
type memoryCache struct {
	mu       sync.Mutex
	saved    map[string][]uuid.UUID
	products []entity.Product
}

func newMemoryCache() *memoryCache {
	return &memoryCache{saved: make(map[string][]uuid.UUID)}
}

func (c *memoryCache) GetSavedIDs(_ context.Context, userID string) ([]uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, ok := c.saved[userID]
	if !ok {
		return nil, nil
	}
	return append([]uuid.UUID{}, ids...), nil
}

func (c *memoryCache) SetSavedIDs(_ context.Context, userID string, ids []uuid.UUID, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saved[userID] = append([]uuid.UUID{}, ids...)
	return nil
}

func (c *memoryCache) SetSavedIDsIfAbsent(_ context.Context, userID string, ids []uuid.UUID, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.saved[userID]; !ok {
		c.saved[userID] = append([]uuid.UUID{}, ids...)
	}
	return nil
}

func (c *memoryCache) DeleteSavedIDs(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.saved, userID)
	return nil
}

func (c *memoryCache) cached(userID string) ([]uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, ok := c.saved[userID]
	return ids, ok
}

func (c *memoryCache) GetProducts(context.Context) ([]entity.Product, error) {
	return c.products, nil
}

func (c *memoryCache) SetProducts(_ context.Context, products []entity.Product, _ time.Duration) error {
	c.products = products
	return nil
}

func (c *memoryCache) DeleteProducts(context.Context) error {
	c.products = nil
	return nil
}

func (c *memoryCache) Close() error { return nil }

// recordingPublisher запоминает отправленные события
type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.SavedEvent
}

func (p *recordingPublisher) PublishMessage(_ context.Context, _ string, value []byte) error {
	var event entity.SavedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}
