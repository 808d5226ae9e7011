package services

import "errors"

var (
	ErrRaffleNotFound     = errors.New("raffle not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketNotSelected  = errors.New("ticket is not selected")
	ErrNoTicketsSelected  = errors.New("select at least one ticket")
	ErrMissingBuyerInfo   = errors.New("buyer name and contact are required")
	ErrMissingName        = errors.New("raffle name is required")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownPayoutKey   = errors.New("unknown payout key type")
	ErrInvalidTicketPrice = errors.New("ticket price must be positive")
	ErrInvalidTicketCount = errors.New("invalid ticket count")
	ErrImmutablePrice     = errors.New("ticket price cannot change after creation")
	ErrImmutableTickets   = errors.New("tickets cannot be renumbered, resized or unsold")
	ErrMissingProductInfo = errors.New("product name and category are required")
)
