package domain

import (
	"fmt"
	"strings"
)

// Status is the order progression state. The ordinal values are part of the wire
// contract: PATCH .../status carries them as integers.
type Status int

const (
	StatusPending Status = iota
	StatusPreparing
	StatusReady
	StatusDelivering
	StatusCompleted
	StatusCancelled
)

var statusNames = [...]string{"Pending", "Preparing", "Ready", "Delivering", "Completed", "Cancelled"}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Progress is the completion percentage of the five-step progression.
// Cancelled orders report 0.
func (s Status) Progress() int {
	if s == StatusCancelled || !s.Valid() {
		return 0
	}
	return (int(s) + 1) * 100 / 5
}

// CanTransition reports whether moving from s to next is allowed. Orders only
// move forward; steps may be skipped. Any non-terminal order may be cancelled.
// Terminal orders never change.
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() || s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return next > s
}

// ValidateTransition returns an error wrapping ErrInvalidTransition when
// CanTransition refuses the move.
func ValidateTransition(from, to Status) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown order status %q", ErrValidation, name)
}

func StatusFromOrdinal(ordinal int) (Status, error) {
	s := Status(ordinal)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: unknown order status ordinal %d", ErrValidation, ordinal)
	}
	return s, nil
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: invalid order status %d", ErrValidation, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
