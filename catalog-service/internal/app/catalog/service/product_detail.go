package service

import (
	"context"
	"sync"

	"web3dir/catalog-service/internal/app/catalog/entity"
	"web3dir/pkg/logger"
	"web3dir/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DetailState - состояние карточки товара
type DetailState string

const (
	DetailIdle    DetailState = "idle"
	DetailLoading DetailState = "loading"
	DetailReady   DetailState = "ready"
	DetailErrored DetailState = "errored"
)

// ProductFetcher загружает один товар
type ProductFetcher interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
}

// SavedController - операции над сохраненными товарами, нужные карточке
type SavedController interface {
	IsSaved(ctx context.Context, userID string, productID uuid.UUID) (bool, error)
	Toggle(ctx context.Context, userID string, productID uuid.UUID) (ToggleResult, error)
}

// ProductDetailView - снимок состояния карточки
type ProductDetailView struct {
	State     DetailState     `json:"state"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Product   *entity.Product `json:"product,omitempty"`
	IsSaved   bool            `json:"is_saved"`
	IsLoading bool            `json:"is_loading"`
	// Err - только ошибка загрузки товара, ошибки сохранения сюда не попадают
	Err error `json:"-"`
}

// ProductDetail собирает товар и признак "сохранен" для одного выбранного товара.
// Смена товара запускает загрузку заново, результат загрузки для
// предыдущего товара отбрасывается по номеру поколения
type ProductDetail struct {
	products ProductFetcher
	saved    SavedController
	userID   string

	mu            sync.Mutex
	generation    uint64
	productID     *uuid.UUID
	state         DetailState
	product       *entity.Product
	isSaved       bool
	err           error
	fetching      bool
	pendingWrites int
	// savedVersion растет после каждой успешной записи "сохранить"
	savedVersion uint64
	done         chan struct{}
}

// NewProductDetail создает карточку в состоянии idle
func NewProductDetail(products ProductFetcher, saved SavedController, userID string) *ProductDetail {
	done := make(chan struct{})
	close(done)
	return &ProductDetail{
		products: products,
		saved:    saved,
		userID:   userID,
		state:    DetailIdle,
		done:     done,
	}
}

// Select выбирает товар. nil выключает карточку
func (d *ProductDetail) Select(ctx context.Context, productID *uuid.UUID) {
	d.mu.Lock()
	d.generation++
	generation := d.generation
	d.product = nil
	d.isSaved = false
	d.err = nil

	if productID == nil {
		d.productID = nil
		d.state = DetailIdle
		d.fetching = false
		done := make(chan struct{})
		close(done)
		d.done = done
		d.mu.Unlock()
		return
	}

	id := *productID
	d.productID = &id
	d.state = DetailLoading
	d.fetching = true
	savedVersion := d.savedVersion
	done := make(chan struct{})
	d.done = done
	d.mu.Unlock()

	go func() {
		defer close(done)
		d.fetch(ctx, generation, savedVersion, id)
	}()
}

func (d *ProductDetail) fetch(ctx context.Context, generation, savedVersion uint64, id uuid.UUID) {
	var (
		product *entity.Product
		isSaved bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := d.products.GetProduct(gctx, id)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	g.Go(func() error {
		saved, err := d.saved.IsSaved(gctx, d.userID, id)
		if err != nil {
			// без признака "сохранен" карточка все равно показывается
			logger.Ctx(ctx).Warn().Err(err).Str("product_id", id.String()).Msg("failed to resolve saved state")
			return nil
		}
		isSaved = saved
		return nil
	})
	err := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()

	if generation != d.generation {
		metrics.RecordStaleDetailDiscard()
		return
	}

	d.fetching = false
	if err != nil {
		d.state = DetailErrored
		d.err = err
		return
	}
	d.state = DetailReady
	d.product = product
	// запись, завершившаяся во время загрузки, новее прочитанного признака
	if savedVersion == d.savedVersion {
		d.isSaved = isSaved
	}
}

// Wait блокируется, пока текущая загрузка не завершится
func (d *ProductDetail) Wait(ctx context.Context) error {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// View возвращает текущее состояние карточки
func (d *ProductDetail) View() ProductDetailView {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == DetailIdle {
		return ProductDetailView{State: DetailIdle}
	}

	view := ProductDetailView{
		State:     d.state,
		Product:   d.product,
		IsSaved:   d.isSaved,
		IsLoading: d.fetching || d.pendingWrites > 0,
		Err:       d.err,
	}
	if d.productID != nil {
		id := *d.productID
		view.ProductID = &id
	}
	return view
}

// ToggleSave переключает "сохранить" для выбранного товара.
// Ошибка записи возвращается вызывающему и не меняет ни товар, ни Err карточки
func (d *ProductDetail) ToggleSave(ctx context.Context) (ToggleResult, error) {
	d.mu.Lock()
	if d.productID == nil {
		d.mu.Unlock()
		return ToggleResult{}, ErrNoProductSelected
	}
	id := *d.productID
	generation := d.generation
	d.pendingWrites++
	d.mu.Unlock()

	result, err := d.saved.Toggle(ctx, d.userID, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pendingWrites--
	if err == nil && generation == d.generation && result.Outcome != OutcomeAuthRequired {
		d.isSaved = result.Saved
		d.savedVersion++
	}

	return result, err
}
