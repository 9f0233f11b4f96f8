package support

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// AdminList returns tickets across all customers, optionally filtered by status.
func (s *Service) AdminList(ctx context.Context, status string, page, perPage int) ([]Ticket, error) {
	if status != "" {
		if _, ok := statusLabels[status]; !ok {
			return nil, ErrInvalidStatus
		}
	}
	rows, err := s.Queries.ListSupportTickets(ctx, dbgen.ListSupportTicketsParams{
		Limit:  int32(perPage),
		Offset: common.Offset(page, perPage),
		Status: common.Text(status),
	})
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	out := make([]Ticket, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTicket(row))
	}
	return out, nil
}

// AdminThread returns any ticket with its messages.
func (s *Service) AdminThread(ctx context.Context, ticketID string) (Thread, error) {
	ticket, err := s.ticket(ctx, ticketID)
	if err != nil {
		return Thread{}, err
	}
	return s.thread(ctx, ticket)
}

// Reply posts a staff message. An open ticket moves to in_progress.
func (s *Service) Reply(ctx context.Context, ticketID, body string) (Message, error) {
	ticket, err := s.ticket(ctx, ticketID)
	if err != nil {
		return Message{}, err
	}
	return s.post(ctx, ticket, SenderAdmin, body)
}

// SetStatus moves a ticket to status.
func (s *Service) SetStatus(ctx context.Context, ticketID, status string) (Ticket, error) {
	if _, ok := statusLabels[status]; !ok {
		return Ticket{}, ErrInvalidStatus
	}
	ticket, err := s.ticket(ctx, ticketID)
	if err != nil {
		return Ticket{}, err
	}
	if ticket.Status == status {
		return toTicket(ticket), nil
	}
	row, err := s.Queries.UpdateSupportTicketStatus(ctx, dbgen.UpdateSupportTicketStatusParams{ID: ticket.ID, Status: status})
	if err != nil {
		return Ticket{}, fmt.Errorf("update ticket status: %w", err)
	}
	return toTicket(row), nil
}

func (s *Service) ticket(ctx context.Context, ticketID string) (dbgen.SupportTicket, error) {
	tid, err := common.ParseUUID(ticketID)
	if err != nil {
		return dbgen.SupportTicket{}, ErrTicketNotFound
	}
	row, err := s.Queries.GetSupportTicket(ctx, tid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.SupportTicket{}, ErrTicketNotFound
		}
		return dbgen.SupportTicket{}, fmt.Errorf("get ticket: %w", err)
	}
	return row, nil
}
