package usecase

import (
	"errors"

	"github.com/truckparts/backend/internal/domain"
)

func isInsufficientStock(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrStockNotFound) ||
		errors.Is(err, domain.ErrProductNotFound) ||
		errors.Is(err, domain.ErrOrderNotFound)
}
