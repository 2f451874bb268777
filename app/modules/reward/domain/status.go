package rewarddomain

import (
	"errors"
	"fmt"
	"strings"
)

// GrantStatus is the settlement state of a reward grant.
type GrantStatus string

const (
	StatusPending    GrantStatus = "PENDING"
	StatusProcessing GrantStatus = "PROCESSING"
	StatusCompleted  GrantStatus = "COMPLETED"
	StatusFailed     GrantStatus = "FAILED"
)

var (
	ErrUnknownStatus     = errors.New("unknown grant status")
	ErrNotPending        = errors.New("reward is not pending")
	ErrInvalidTransition = errors.New("invalid grant transition")
)

var transitions = map[GrantStatus][]GrantStatus{
	StatusPending:    {StatusProcessing, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
}

func ParseGrantStatus(s string) (GrantStatus, error) {
	switch st := GrantStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// CheckTransition returns ErrNotPending when a grant that is not PENDING is
// moved to PROCESSING, and ErrInvalidTransition for any other move the state
// machine does not allow.
func CheckTransition(from, to GrantStatus) error {
	if to == StatusProcessing && from != StatusPending {
		return fmt.Errorf("%w: grant is %s", ErrNotPending, from)
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// CreditsEarnings reports whether a transition adds the grant amount to the
// participant's lifetime earnings. Only PENDING -> PROCESSING does.
func CreditsEarnings(from, to GrantStatus) bool {
	return from == StatusPending && to == StatusProcessing
}
