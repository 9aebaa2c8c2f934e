package domain

import "errors"

// Error taxonomy shared by services and handlers. Services wrap these with
// fmt.Errorf("...: %w") when they add context; handlers match with errors.Is.
var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrExternalService      = errors.New("external service failure")
	ErrInsufficientFunds    = errors.New("insufficient funds in pool")
	ErrNoContributions      = errors.New("no contributions found for project")
	ErrMilestoneNotActive   = errors.New("milestone is not the active milestone")
	ErrAlreadyReimbursed    = errors.New("milestone already reimbursed")
	ErrNotVerified          = errors.New("milestone evidence has not been verified")
	ErrVerificationRejected = errors.New("milestone evidence was rejected by verification")
	ErrProjectNotCompleted  = errors.New("project is not completed")
	ErrImmutableAmount      = errors.New("transaction amount cannot be changed")
)
