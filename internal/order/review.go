package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/db"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// ItemRating rates one line of a delivered order.
type ItemRating struct {
	OrderItemID string  `json:"order_item_id"`
	Rating      int32   `json:"rating"`
	Comment     *string `json:"comment"`
}

// ReviewInput is the payload of POST /orders/{id}/review.
type ReviewInput struct {
	OverallRating *int32       `json:"overall_rating" validate:"omitempty,min=1,max=5"`
	Comment       *string      `json:"comment" validate:"omitempty,max=1000"`
	Items         []ItemRating `json:"item_ratings"`
}

// ItemReview is a stored per-item rating.
type ItemReview struct {
	OrderItemID string  `json:"order_item_id"`
	Rating      int32   `json:"rating"`
	Comment     *string `json:"comment,omitempty"`
}

// Review is the stored review of an order.
type Review struct {
	ID            string       `json:"id"`
	OverallRating int32        `json:"overall_rating"`
	Comment       *string      `json:"comment,omitempty"`
	CreatedAt     *time.Time   `json:"created_at,omitempty"`
	Items         []ItemReview `json:"item_ratings"`
}

// Review returns the caller's review of an order, or nil when none exists.
func (s *Service) Review(ctx context.Context, userID, orderID string) (*Review, error) {
	row, err := s.loadForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.review(ctx, row.ID)
}

// SubmitReview stores the caller's review of a delivered order. Item ratings outside 1..5 or
// naming lines of another order are ignored; a missing overall rating defaults to the rounded
// average of the accepted item ratings.
func (s *Service) SubmitReview(ctx context.Context, userID, orderID string, in ReviewInput) (*Review, error) {
	row, err := s.loadForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if row.Status != dbgen.OrderStatusDelivered {
		return nil, ErrNotDelivered
	}
	if existing, err := s.review(ctx, row.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrAlreadyReviewed
	}
	lines, err := s.queries.ListOrderItems(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	owned := make(map[[16]byte]bool, len(lines))
	for _, l := range lines {
		owned[l.ID.Bytes] = true
	}
	accepted := make([]dbgen.CreateOrderItemReviewParams, 0, len(in.Items))
	seen := map[[16]byte]bool{}
	sum := 0
	for _, ir := range in.Items {
		if ir.Rating < 1 || ir.Rating > 5 {
			continue
		}
		id, err := common.ParseUUID(ir.OrderItemID)
		if err != nil || !owned[id.Bytes] || seen[id.Bytes] {
			continue
		}
		seen[id.Bytes] = true
		sum += int(ir.Rating)
		accepted = append(accepted, dbgen.CreateOrderItemReviewParams{
			OrderItemID: id,
			Rating:      ir.Rating,
			Comment:     common.TextPtr(ir.Comment),
		})
	}
	var overall int32
	switch {
	case in.OverallRating != nil:
		overall = *in.OverallRating
	case len(accepted) > 0:
		overall = int32(math.Round(float64(sum) / float64(len(accepted))))
	default:
		return nil, ErrRatingRequired
	}
	if overall < 1 || overall > 5 {
		return nil, ErrRatingRequired
	}

	write := func(w ReviewWriter) error {
		rev, err := w.CreateOrderReview(ctx, dbgen.CreateOrderReviewParams{
			OrderID:       row.ID,
			UserID:        row.UserID,
			OverallRating: overall,
			Comment:       common.TextPtr(in.Comment),
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrAlreadyReviewed
			}
			return fmt.Errorf("create review: %w", err)
		}
		for _, p := range accepted {
			p.ReviewID = rev.ID
			if _, err := w.CreateOrderItemReview(ctx, p); err != nil {
				return fmt.Errorf("create item review: %w", err)
			}
		}
		return nil
	}
	if s.pool != nil {
		err = db.InTx(ctx, s.pool, func(q *dbgen.Queries) error { return write(q) })
	} else {
		err = write(s.queries)
	}
	if err != nil {
		return nil, err
	}
	return s.review(ctx, row.ID)
}

func (s *Service) review(ctx context.Context, orderID pgtype.UUID) (*Review, error) {
	rev, err := s.queries.GetOrderReview(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	items, err := s.queries.ListOrderItemReviews(ctx, rev.ID)
	if err != nil {
		return nil, fmt.Errorf("list item reviews: %w", err)
	}
	out := &Review{
		ID:            common.UUIDString(rev.ID),
		OverallRating: rev.OverallRating,
		Comment:       textPtr(rev.Comment),
		CreatedAt:     common.TimePtr(rev.CreatedAt),
		Items:         make([]ItemReview, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, ItemReview{
			OrderItemID: common.UUIDString(it.OrderItemID),
			Rating:      it.Rating,
			Comment:     textPtr(it.Comment),
		})
	}
	return out, nil
}
