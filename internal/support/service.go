// Package support implements customer help tickets and their message threads.
package support

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/db"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/events"
)

// Ticket statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Message senders.
const (
	SenderCustomer = "customer"
	SenderAdmin    = "admin"
)

var categoryLabels = map[string]string{
	"general": "General Issue",
	"order":   "Order Related Issue",
}

var statusLabels = map[string]string{
	StatusOpen:       "Open",
	StatusInProgress: "In Progress",
	StatusResolved:   "Resolved",
	StatusClosed:     "Closed",
}

// Errors returned by Service.
var (
	ErrTicketNotFound = errors.New("support: ticket not found")
	ErrOrderNotFound  = errors.New("support: order not found")
	ErrEmptyMessage   = errors.New("support: message is empty")
	ErrInvalidStatus  = errors.New("support: invalid status")
)

// Querier is the persistence used by Service.
type Querier interface {
	CreateSupportTicket(ctx context.Context, arg dbgen.CreateSupportTicketParams) (dbgen.SupportTicket, error)
	CreateSupportMessage(ctx context.Context, arg dbgen.CreateSupportMessageParams) (dbgen.SupportMessage, error)
	GetSupportTicket(ctx context.Context, id pgtype.UUID) (dbgen.SupportTicket, error)
	GetSupportTicketForUser(ctx context.Context, arg dbgen.GetSupportTicketForUserParams) (dbgen.SupportTicket, error)
	ListSupportMessages(ctx context.Context, ticketID pgtype.UUID) ([]dbgen.SupportMessage, error)
	ListSupportTickets(ctx context.Context, arg dbgen.ListSupportTicketsParams) ([]dbgen.SupportTicket, error)
	ListSupportTicketsForUser(ctx context.Context, userID pgtype.UUID) ([]dbgen.SupportTicket, error)
	TouchSupportTicket(ctx context.Context, id pgtype.UUID) error
	UpdateSupportTicketStatus(ctx context.Context, arg dbgen.UpdateSupportTicketStatusParams) (dbgen.SupportTicket, error)
	GetOrderForUser(ctx context.Context, arg dbgen.GetOrderForUserParams) (dbgen.Order, error)
}

// Emitter publishes domain events.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error)
}

// Service manages support tickets.
type Service struct {
	Queries Querier
	Pool    db.TxBeginner
	Events  Emitter
}

// Ticket is the API view of a support ticket.
type Ticket struct {
	ID              string    `json:"id"`
	Category        string    `json:"category"`
	CategoryDisplay string    `json:"category_display"`
	Subject         string    `json:"subject"`
	Priority        string    `json:"priority"`
	Status          string    `json:"status"`
	StatusDisplay   string    `json:"status_display"`
	OrderID         *string   `json:"order_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Summary adds thread information to a ticket for list views.
type Summary struct {
	Ticket
	LastMessage *string `json:"last_message"`
	UnreadCount int     `json:"unread_count"`
}

// Message is one entry in a ticket thread.
type Message struct {
	ID         string    `json:"id"`
	SenderType string    `json:"sender_type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Thread is a ticket with its messages.
type Thread struct {
	Ticket   Ticket    `json:"ticket"`
	Messages []Message `json:"messages"`
}

// CreateInput is the payload of POST /support/tickets.
type CreateInput struct {
	Category string  `json:"category" validate:"required,oneof=general order"`
	Subject  string  `json:"subject" validate:"omitempty,max=200"`
	Priority string  `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	OrderID  *string `json:"order_id" validate:"omitempty,uuid"`
	Message  string  `json:"message" validate:"omitempty,max=4000"`
}

// Create opens a ticket, optionally linked to one of the caller's orders, with an optional first message.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Thread, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return Thread{}, ErrTicketNotFound
	}
	params := dbgen.CreateSupportTicketParams{
		UserID:   uid,
		Category: in.Category,
		Subject:  strings.TrimSpace(in.Subject),
		Priority: in.Priority,
	}
	if params.Subject == "" {
		params.Subject = categoryLabels[in.Category]
	}
	if params.Priority == "" {
		params.Priority = "medium"
	}
	if in.OrderID != nil && *in.OrderID != "" {
		orderID, err := common.ParseUUID(*in.OrderID)
		if err != nil {
			return Thread{}, ErrOrderNotFound
		}
		if _, err := s.Queries.GetOrderForUser(ctx, dbgen.GetOrderForUserParams{ID: orderID, UserID: uid}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Thread{}, ErrOrderNotFound
			}
			return Thread{}, fmt.Errorf("get order: %w", err)
		}
		params.OrderID = orderID
	}
	body := strings.TrimSpace(in.Message)

	var (
		ticket dbgen.SupportTicket
		msgs   []dbgen.SupportMessage
	)
	apply := func(q Querier) error {
		var err error
		ticket, err = q.CreateSupportTicket(ctx, params)
		if err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}
		if body == "" {
			return nil
		}
		msg, err := q.CreateSupportMessage(ctx, dbgen.CreateSupportMessageParams{TicketID: ticket.ID, Sender: SenderCustomer, Body: body})
		if err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		msgs = append(msgs, msg)
		return nil
	}
	if s.Pool != nil {
		err = db.InTx(ctx, s.Pool, func(q *dbgen.Queries) error { return apply(q) })
	} else {
		err = apply(s.Queries)
	}
	if err != nil {
		return Thread{}, err
	}
	s.emit(ctx, events.TopicSupportTicketOpen, ticket, SenderCustomer, body)
	return toThread(ticket, msgs), nil
}

// List returns the caller's tickets, most recently active first.
func (s *Service) List(ctx context.Context, userID string) ([]Summary, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return []Summary{}, nil
	}
	rows, err := s.Queries.ListSupportTicketsForUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	out := make([]Summary, 0, len(rows))
	for _, row := range rows {
		msgs, err := s.Queries.ListSupportMessages(ctx, row.ID)
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}
		sum := Summary{Ticket: toTicket(row)}
		if n := len(msgs); n > 0 {
			last := msgs[n-1].Body
			sum.LastMessage = &last
		}
		for _, m := range msgs {
			if m.Sender == SenderAdmin {
				sum.UnreadCount++
			}
		}
		out = append(out, sum)
	}
	return out, nil
}

// Thread returns one of the caller's tickets with all messages.
func (s *Service) Thread(ctx context.Context, userID, ticketID string) (Thread, error) {
	ticket, err := s.ticketForUser(ctx, userID, ticketID)
	if err != nil {
		return Thread{}, err
	}
	return s.thread(ctx, ticket)
}

// Post adds a customer message. A resolved or closed ticket is reopened.
func (s *Service) Post(ctx context.Context, userID, ticketID, body string) (Message, error) {
	ticket, err := s.ticketForUser(ctx, userID, ticketID)
	if err != nil {
		return Message{}, err
	}
	return s.post(ctx, ticket, SenderCustomer, body)
}

func (s *Service) post(ctx context.Context, ticket dbgen.SupportTicket, sender, body string) (Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Message{}, ErrEmptyMessage
	}
	next := nextStatus(ticket.Status, sender)
	var msg dbgen.SupportMessage
	apply := func(q Querier) error {
		var err error
		msg, err = q.CreateSupportMessage(ctx, dbgen.CreateSupportMessageParams{TicketID: ticket.ID, Sender: sender, Body: body})
		if err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		if next != ticket.Status {
			updated, err := q.UpdateSupportTicketStatus(ctx, dbgen.UpdateSupportTicketStatusParams{ID: ticket.ID, Status: next})
			if err != nil {
				return fmt.Errorf("update ticket status: %w", err)
			}
			ticket = updated
			return nil
		}
		if err := q.TouchSupportTicket(ctx, ticket.ID); err != nil {
			return fmt.Errorf("touch ticket: %w", err)
		}
		return nil
	}
	var err error
	if s.Pool != nil {
		err = db.InTx(ctx, s.Pool, func(q *dbgen.Queries) error { return apply(q) })
	} else {
		err = apply(s.Queries)
	}
	if err != nil {
		return Message{}, err
	}
	s.emit(ctx, events.TopicSupportMessage, ticket, sender, body)
	return toMessage(msg), nil
}

// nextStatus is the ticket status after sender posts a message.
func nextStatus(current, sender string) string {
	switch {
	case sender == SenderCustomer && (current == StatusResolved || current == StatusClosed):
		return StatusOpen
	case sender == SenderAdmin && current == StatusOpen:
		return StatusInProgress
	default:
		return current
	}
}

func (s *Service) ticketForUser(ctx context.Context, userID, ticketID string) (dbgen.SupportTicket, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return dbgen.SupportTicket{}, ErrTicketNotFound
	}
	tid, err := common.ParseUUID(ticketID)
	if err != nil {
		return dbgen.SupportTicket{}, ErrTicketNotFound
	}
	row, err := s.Queries.GetSupportTicketForUser(ctx, dbgen.GetSupportTicketForUserParams{ID: tid, UserID: uid})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.SupportTicket{}, ErrTicketNotFound
		}
		return dbgen.SupportTicket{}, fmt.Errorf("get ticket: %w", err)
	}
	return row, nil
}

func (s *Service) thread(ctx context.Context, ticket dbgen.SupportTicket) (Thread, error) {
	msgs, err := s.Queries.ListSupportMessages(ctx, ticket.ID)
	if err != nil {
		return Thread{}, fmt.Errorf("list messages: %w", err)
	}
	return toThread(ticket, msgs), nil
}

func (s *Service) emit(ctx context.Context, topic string, ticket dbgen.SupportTicket, sender, body string) {
	if s.Events == nil {
		return
	}
	payload := events.SupportPayload{
		TicketID: common.UUIDString(ticket.ID),
		UserID:   common.UUIDString(ticket.UserID),
		OrderID:  common.UUIDString(ticket.OrderID),
		Category: ticket.Category,
		Subject:  ticket.Subject,
		Priority: ticket.Priority,
		Status:   ticket.Status,
		Sender:   sender,
		Body:     body,
	}
	if _, err := s.Events.Emit(ctx, topic, ticket.ID, payload); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("topic", topic).Str("ticket_id", payload.TicketID).Msg("emit support event")
	}
}

func toTicket(row dbgen.SupportTicket) Ticket {
	return Ticket{
		ID:              common.UUIDString(row.ID),
		Category:        row.Category,
		CategoryDisplay: categoryLabels[row.Category],
		Subject:         row.Subject,
		Priority:        row.Priority,
		Status:          row.Status,
		StatusDisplay:   statusLabels[row.Status],
		OrderID:         common.UUIDPtr(row.OrderID),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}

func toMessage(row dbgen.SupportMessage) Message {
	return Message{
		ID:         common.UUIDString(row.ID),
		SenderType: row.Sender,
		Message:    row.Body,
		CreatedAt:  row.CreatedAt.Time,
	}
}

func toThread(ticket dbgen.SupportTicket, msgs []dbgen.SupportMessage) Thread {
	out := Thread{Ticket: toTicket(ticket), Messages: make([]Message, 0, len(msgs))}
	for _, m := range msgs {
		out.Messages = append(out.Messages, toMessage(m))
	}
	return out
}

// AsAppError maps support errors to HTTP responses.
func AsAppError(err error) *common.AppError {
	var appErr *common.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, ErrTicketNotFound):
		return common.NewAppError("TICKET_NOT_FOUND", "Ticket not found", http.StatusNotFound, err)
	case errors.Is(err, ErrOrderNotFound):
		return common.NewAppError("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound, err)
	case errors.Is(err, ErrEmptyMessage):
		return common.NewAppError(common.CodeValidation, "Message cannot be empty", http.StatusBadRequest, err)
	case errors.Is(err, ErrInvalidStatus):
		return common.NewAppError("INVALID_STATUS", "invalid ticket status", http.StatusBadRequest, err)
	default:
		return common.NewAppError(common.CodeInternal, "internal server error", http.StatusInternalServerError, err)
	}
}
