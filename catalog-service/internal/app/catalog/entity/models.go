package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PriceTier - ценовая модель инструмента
type PriceTier string

const (
	PriceTierFree     PriceTier = "Free"
	PriceTierLow      PriceTier = "low"
	PriceTierMedium   PriceTier = "medium"
	PriceTierFreemium PriceTier = "freemium"
)

// Valid проверяет, что значение входит в перечисление
func (t PriceTier) Valid() bool {
	switch t {
	case PriceTierFree, PriceTierLow, PriceTierMedium, PriceTierFreemium:
		return true
	}
	return false
}

// Feature - пункт списка возможностей инструмента
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Media - скриншот или видео инструмента
type Media struct {
	Type string `json:"type"` // image, video
	URL  string `json:"url"`
}

// Features хранится в jsonb колонке
type Features []Feature

// Value реализует driver.Valuer для gorm
func (f Features) Value() (driver.Value, error) {
	return marshalJSONColumn(f)
}

// Scan реализует sql.Scanner для gorm
func (f *Features) Scan(src interface{}) error {
	return unmarshalJSONColumn(src, f)
}

// MediaList хранится в jsonb колонке
type MediaList []Media

func (m MediaList) Value() (driver.Value, error) {
	return marshalJSONColumn(m)
}

func (m *MediaList) Scan(src interface{}) error {
	return unmarshalJSONColumn(src, m)
}

// Product представляет инструмент в каталоге
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Category    string    `json:"category" gorm:"not null;index"`
	SignalScore float64   `json:"signal_score" gorm:"column:signal_score"`
	PriceTier   PriceTier `json:"price_tier" gorm:"column:price_tier"`
	Description string    `json:"description"`
	Website     string    `json:"website,omitempty"`
	Features    Features  `json:"features,omitempty" gorm:"type:jsonb"`
	Media       MediaList `json:"media,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName задает имя таблицы для gorm
func (Product) TableName() string {
	return "products"
}

func (p Product) ListingName() string     { return p.Name }
func (p Product) ListingCategory() string { return p.Category }
func (p Product) ListingScore() float64   { return p.SignalScore }

// SavedProduct - запись о сохраненном пользователем товаре
type SavedProduct struct {
	UserID    string    `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CuratedList - редакционная подборка инструментов
type CuratedList struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CoverImage  string    `json:"cover_image,omitempty" db:"cover_image"`
	IsPinned    bool      `json:"is_pinned" db:"is_pinned"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Типы событий каталога в Kafka
const (
	EventProductSaved   = "PRODUCT_SAVED"
	EventProductUnsaved = "PRODUCT_UNSAVED"
	EventSaveFailed     = "SAVE_FAILED"
	EventProductUpdated = "PRODUCT_UPDATED"
)

// SavedEvent - событие изменения набора сохраненных товаров
type SavedEvent struct {
	EventType string    `json:"event_type"` // PRODUCT_SAVED, PRODUCT_UNSAVED, SAVE_FAILED
	UserID    string    `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Operation string    `json:"operation,omitempty"` // save, unsave (для SAVE_FAILED)
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductEvent - событие изменения товара
type ProductEvent struct {
	EventType   string    `json:"event_type"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	SignalScore float64   `json:"signal_score"`
	Timestamp   time.Time `json:"timestamp"`
}

func marshalJSONColumn(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb column: %w", err)
	}
	return string(data), nil
}

func unmarshalJSONColumn(src interface{}, dst interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported jsonb column type")
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
