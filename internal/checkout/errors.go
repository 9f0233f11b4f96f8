package checkout

import (
	"errors"
	"net/http"

	"github.com/noah-isme/backend-food/internal/cart"
	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/coupon"
	"github.com/noah-isme/backend-food/internal/lock"
	"github.com/noah-isme/backend-food/internal/pricing"
	"github.com/noah-isme/backend-food/internal/user"
)

// AsAppError maps checkout failures onto API errors. Coupon validity failures carry a
// "Coupon error: " prefix.
func AsAppError(err error) error {
	if err == nil {
		return nil
	}
	if common.IsAppError(err) {
		return err
	}
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		return common.NewAppError("ITEM_UNAVAILABLE", unavailable.Error(), http.StatusConflict, err)
	}
	var radius *pricing.OutOfRadiusError
	if errors.As(err, &radius) {
		return common.NewAppError("OUT_OF_DELIVERY_RADIUS", radius.Error(), http.StatusBadRequest, err)
	}
	switch {
	case errors.Is(err, pricing.ErrEmptyCart):
		return common.NewAppError("CART_EMPTY", "Cart is empty", http.StatusBadRequest, err)
	case errors.Is(err, ErrAddressRequired):
		return common.NewAppError("ADDRESS_REQUIRED", "Address is required for delivery", http.StatusBadRequest, err)
	case errors.Is(err, pricing.ErrLocationUnresolved):
		return common.NewAppError("LOCATION_UNRESOLVED", "Could not determine delivery location. Please try again.", http.StatusBadRequest, err)
	case errors.Is(err, ErrCouponExhausted):
		return common.NewAppError(coupon.ErrUsageLimit.Code, "Coupon error: "+coupon.ErrUsageLimit.Message, http.StatusConflict, err)
	case errors.Is(err, lock.ErrBusy):
		return common.NewAppError("CHECKOUT_IN_PROGRESS", "Another checkout is already in progress", http.StatusConflict, err)
	case errors.Is(err, ErrDuplicatePayment):
		return common.NewAppError("PAYMENT_ALREADY_PROCESSED", "Payment has already been used for an order", http.StatusConflict, err)
	case errors.Is(err, cart.ErrItemUnavailable):
		return cart.AsAppError(err)
	case errors.Is(err, user.ErrAddressNotFound):
		return user.AsAppError(err)
	}
	for _, validity := range []*coupon.Rejection{coupon.ErrInactive, coupon.ErrNotYetValid, coupon.ErrExpired, coupon.ErrUsageLimit} {
		if errors.Is(err, validity) {
			return common.NewAppError(validity.Code, "Coupon error: "+validity.Message, http.StatusBadRequest, err)
		}
	}
	if mapped := coupon.AsAppError(err); mapped != err {
		return mapped
	}
	return user.AsAppError(err)
}
