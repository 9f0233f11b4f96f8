package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-food/internal/common"
)

var (
	// ErrOrderNotFound is returned when the order does not exist or belongs to someone else.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotCancellable is returned once an order has moved past pickup_pending.
	ErrNotCancellable = errors.New("order cannot be cancelled")
	// ErrInvalidStatus is returned for a status outside the order lifecycle.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrNotDelivered rejects reviews before delivery.
	ErrNotDelivered = errors.New("order not delivered")
	// ErrAlreadyReviewed rejects a second review of the same order.
	ErrAlreadyReviewed = errors.New("order already reviewed")
	// ErrRatingRequired is returned when neither an overall nor any item rating is given.
	ErrRatingRequired = errors.New("rating required")
)

// AsAppError maps order errors onto API errors.
func AsAppError(err error) error {
	if err == nil || common.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, ErrOrderNotFound):
		return common.NewAppError("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound, err)
	case errors.Is(err, ErrNotCancellable):
		return common.NewAppError("ORDER_NOT_CANCELLABLE", "Order can no longer be cancelled", http.StatusConflict, err)
	case errors.Is(err, ErrInvalidStatus):
		return common.NewAppError("INVALID_STATUS", "Invalid order status", http.StatusBadRequest, err)
	case errors.Is(err, ErrNotDelivered):
		return common.NewAppError("ORDER_NOT_DELIVERED", "Reviews allowed only after delivery", http.StatusBadRequest, err)
	case errors.Is(err, ErrAlreadyReviewed):
		return common.NewAppError("REVIEW_EXISTS", "Order has already been reviewed", http.StatusConflict, err)
	case errors.Is(err, ErrRatingRequired):
		return common.NewAppError(common.CodeValidation, "Rating must be between 1 and 5", http.StatusBadRequest, err)
	}
	return common.NewAppError(common.CodeInternal, "internal server error", http.StatusInternalServerError, err)
}

func logEmitFailure(ctx context.Context, topic string, err error) {
	zerolog.Ctx(ctx).Warn().Err(err).Str("topic", topic).Msg("emit order event")
}

func decimalFromInt(n int32) decimal.Decimal {
	return decimal.NewFromInt32(n)
}
