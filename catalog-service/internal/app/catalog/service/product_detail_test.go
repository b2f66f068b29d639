package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"web3dir/catalog-service/internal/app/catalog/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedFetcher отдает товар только после сигнала в gate соответствующего ID
type gatedFetcher struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
	gates    map[uuid.UUID]chan struct{}
	err      error
}

func newGatedFetcher(products ...*entity.Product) *gatedFetcher {
	f := &gatedFetcher{
		products: make(map[uuid.UUID]*entity.Product),
		gates:    make(map[uuid.UUID]chan struct{}),
	}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

// hold заставляет загрузку товара ждать release
func (f *gatedFetcher) hold(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[id] = make(chan struct{})
}

func (f *gatedFetcher) release(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.gates[id])
}

func (f *gatedFetcher) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	f.mu.Lock()
	gate := f.gates[id]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// stubSaved - SavedController с управляемой задержкой записи
type stubSaved struct {
	mu         sync.Mutex
	saved      map[uuid.UUID]bool
	writeErr   error
	writeGate  chan struct{}
	writeStart chan struct{}
	readDone   chan struct{}
	isSavedErr error
}

func newStubSaved() *stubSaved {
	return &stubSaved{saved: make(map[uuid.UUID]bool)}
}

func (s *stubSaved) IsSaved(_ context.Context, userID string, productID uuid.UUID) (bool, error) {
	if s.isSavedErr != nil {
		return false, s.isSavedErr
	}
	if userID == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readDone != nil {
		defer close(s.readDone)
	}
	return s.saved[productID], nil
}

func (s *stubSaved) Toggle(_ context.Context, userID string, productID uuid.UUID) (ToggleResult, error) {
	if userID == "" {
		return ToggleResult{Outcome: OutcomeAuthRequired, ProductID: productID}, nil
	}
	if s.writeStart != nil {
		close(s.writeStart)
	}
	if s.writeGate != nil {
		<-s.writeGate
	}
	if s.writeErr != nil {
		return ToggleResult{}, s.writeErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[productID] = !s.saved[productID]
	outcome := OutcomeUnsaved
	if s.saved[productID] {
		outcome = OutcomeSaved
	}
	return ToggleResult{Outcome: outcome, ProductID: productID, Saved: s.saved[productID]}, nil
}

func waitDetail(t *testing.T, d *ProductDetail) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
}

func TestProductDetail_DisabledWithoutProduct(t *testing.T) {
	d := NewProductDetail(newGatedFetcher(), newStubSaved(), "u1")

	d.Select(context.Background(), nil)
	waitDetail(t, d)

	view := d.View()
	assert.Equal(t, DetailIdle, view.State)
	assert.False(t, view.IsLoading)
	assert.Nil(t, view.Product)
	assert.Nil(t, view.ProductID)
	assert.NoError(t, view.Err)
}

func TestProductDetail_LoadingThenReady(t *testing.T) {
	// Arrange
	product := &entity.Product{ID: uuid.New(), Name: "Uniswap"}
	fetcher := newGatedFetcher(product)
	saved := newStubSaved()
	saved.saved[product.ID] = true
	fetcher.hold(product.ID)
	d := NewProductDetail(fetcher, saved, "u1")

	// Act
	d.Select(context.Background(), &product.ID)
	loading := d.View()
	fetcher.release(product.ID)
	waitDetail(t, d)
	ready := d.View()

	// Assert
	assert.Equal(t, DetailLoading, loading.State)
	assert.True(t, loading.IsLoading)
	assert.Nil(t, loading.Product)

	assert.Equal(t, DetailReady, ready.State)
	assert.False(t, ready.IsLoading)
	assert.Equal(t, product, ready.Product)
	assert.True(t, ready.IsSaved)
	require.NotNil(t, ready.ProductID)
	assert.Equal(t, product.ID, *ready.ProductID)
}

func TestProductDetail_FetchErrorSurfaces(t *testing.T) {
	d := NewProductDetail(newGatedFetcher(), newStubSaved(), "u1")
	missing := uuid.New()

	d.Select(context.Background(), &missing)
	waitDetail(t, d)

	view := d.View()
	assert.Equal(t, DetailErrored, view.State)
	assert.ErrorIs(t, view.Err, ErrProductNotFound)
	assert.False(t, view.IsLoading)
	assert.Nil(t, view.Product)
}

func TestProductDetail_SavedLookupFailureStillShowsProduct(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Dune"}
	saved := newStubSaved()
	saved.isSavedErr = errors.New("redis down")
	d := NewProductDetail(newGatedFetcher(product), saved, "u1")

	d.Select(context.Background(), &product.ID)
	waitDetail(t, d)

	view := d.View()
	assert.Equal(t, DetailReady, view.State)
	assert.False(t, view.IsSaved)
	assert.NoError(t, view.Err)
}

func TestProductDetail_StaleResultDiscarded(t *testing.T) {
	// Arrange
	first := &entity.Product{ID: uuid.New(), Name: "First"}
	second := &entity.Product{ID: uuid.New(), Name: "Second"}
	fetcher := newGatedFetcher(first, second)
	fetcher.hold(first.ID)
	d := NewProductDetail(fetcher, newStubSaved(), "u1")

	// Act: первый товар еще грузится, выбираем второй
	d.Select(context.Background(), &first.ID)
	d.mu.Lock()
	staleDone := d.done
	d.mu.Unlock()

	d.Select(context.Background(), &second.ID)
	waitDetail(t, d)

	fetcher.release(first.ID)
	<-staleDone

	// Assert
	view := d.View()
	assert.Equal(t, DetailReady, view.State)
	assert.Equal(t, "Second", view.Product.Name)
	assert.Equal(t, second.ID, *view.ProductID)
}

func TestProductDetail_ClearingDiscardsLateResult(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Late"}
	fetcher := newGatedFetcher(product)
	fetcher.hold(product.ID)
	d := NewProductDetail(fetcher, newStubSaved(), "u1")

	d.Select(context.Background(), &product.ID)
	d.mu.Lock()
	staleDone := d.done
	d.mu.Unlock()

	d.Select(context.Background(), nil)
	fetcher.release(product.ID)
	<-staleDone

	view := d.View()
	assert.Equal(t, DetailIdle, view.State)
	assert.Nil(t, view.Product)
	assert.False(t, view.IsLoading)
}

func TestProductDetail_ToggleSaveCountsAsLoading(t *testing.T) {
	// Arrange
	product := &entity.Product{ID: uuid.New(), Name: "Rabby"}
	saved := newStubSaved()
	saved.writeGate = make(chan struct{})
	saved.writeStart = make(chan struct{})
	d := NewProductDetail(newGatedFetcher(product), saved, "u1")
	d.Select(context.Background(), &product.ID)
	waitDetail(t, d)

	// Act
	resultCh := make(chan ToggleResult, 1)
	go func() {
		result, _ := d.ToggleSave(context.Background())
		resultCh <- result
	}()
	<-saved.writeStart
	pending := d.View()
	close(saved.writeGate)
	result := <-resultCh
	done := d.View()

	// Assert
	assert.True(t, pending.IsLoading)
	assert.Equal(t, DetailReady, pending.State)
	assert.Equal(t, OutcomeSaved, result.Outcome)
	assert.False(t, done.IsLoading)
	assert.True(t, done.IsSaved)
}

func TestProductDetail_ToggleDuringFetchWins(t *testing.T) {
	// Arrange
	product := &entity.Product{ID: uuid.New(), Name: "Zerion"}
	fetcher := newGatedFetcher(product)
	fetcher.hold(product.ID)
	saved := newStubSaved()
	saved.readDone = make(chan struct{})
	d := NewProductDetail(fetcher, saved, "u1")

	// Act
	d.Select(context.Background(), &product.ID)
	<-saved.readDone
	result, err := d.ToggleSave(context.Background())
	require.NoError(t, err)
	loading := d.View()
	fetcher.release(product.ID)
	waitDetail(t, d)
	ready := d.View()

	// Assert
	assert.True(t, result.Saved)
	assert.True(t, loading.IsLoading)
	assert.True(t, loading.IsSaved)
	assert.Equal(t, DetailReady, ready.State)
	assert.Equal(t, product, ready.Product)
	assert.True(t, ready.IsSaved)
}

func TestProductDetail_ToggleSaveFailureKeepsProduct(t *testing.T) {
	// Arrange
	product := &entity.Product{ID: uuid.New(), Name: "Curve"}
	saved := newStubSaved()
	saved.writeErr = ErrWriteFailed
	d := NewProductDetail(newGatedFetcher(product), saved, "u1")
	d.Select(context.Background(), &product.ID)
	waitDetail(t, d)

	// Act
	_, err := d.ToggleSave(context.Background())

	// Assert
	assert.ErrorIs(t, err, ErrWriteFailed)
	view := d.View()
	assert.Equal(t, DetailReady, view.State)
	assert.Equal(t, product, view.Product)
	assert.NoError(t, view.Err)
	assert.False(t, view.IsLoading)
	assert.False(t, view.IsSaved)
}

func TestProductDetail_ToggleSaveAnonymous(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "MetaMask"}
	d := NewProductDetail(newGatedFetcher(product), newStubSaved(), "")
	d.Select(context.Background(), &product.ID)
	waitDetail(t, d)

	result, err := d.ToggleSave(context.Background())

	require.NoError(t, err)
	assert.Equal(t, OutcomeAuthRequired, result.Outcome)
	assert.False(t, d.View().IsSaved)
}

func TestProductDetail_ToggleSaveWithoutSelection(t *testing.T) {
	d := NewProductDetail(newGatedFetcher(), newStubSaved(), "u1")

	_, err := d.ToggleSave(context.Background())

	assert.ErrorIs(t, err, ErrNoProductSelected)
}

func TestProductDetail_WaitRespectsContext(t *testing.T) {
	product := &entity.Product{ID: uuid.New()}
	fetcher := newGatedFetcher(product)
	fetcher.hold(product.ID)
	d := NewProductDetail(fetcher, newStubSaved(), "u1")
	d.Select(context.Background(), &product.ID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)
	fetcher.release(product.ID)
}
