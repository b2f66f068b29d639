package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrProductNotFound     = errors.New("product not found")
	ErrCuratedListNotFound = errors.New("curated list not found")
	// ErrWriteFailed - хранилище отклонило сохранение или удаление из сохраненных
	ErrWriteFailed = errors.New("write failed")
	// ErrNoProductSelected - действие над карточкой товара без выбранного товара
	ErrNoProductSelected = errors.New("no product selected")
)
