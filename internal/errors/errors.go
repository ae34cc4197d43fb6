// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
    CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
    return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
    return &ErrCampaignNotFound{CampaignID: id}
}

// ValidationError is returned synchronously from start() and from campaign
// creation when preconditions fail. The campaign stays in its current status.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
    return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
    var ve *ValidationError
    return errors.As(err, &ve)
}

// DispatchError classifies a failed outbound call request. Retryable errors
// (429, 5xx, network) get one more attempt; anything else terminates the
// contact's slot.
type DispatchError struct {
    Reason    string
    Retryable bool
    Err       error
}

func (e *DispatchError) Error() string {
    if e.Err != nil {
        return fmt.Sprintf("dispatch failed (%s): %v", e.Reason, e.Err)
    }
    return fmt.Sprintf("dispatch failed (%s)", e.Reason)
}

func (e *DispatchError) Unwrap() error { return e.Err }

func NewDispatch(reason string, retryable bool, err error) error {
    return &DispatchError{Reason: reason, Retryable: retryable, Err: err}
}

// IsRetryable reports whether err is a DispatchError marked retryable.
func IsRetryable(err error) bool {
    var de *DispatchError
    if errors.As(err, &de) {
        return de.Retryable
    }
    return false
}

// ErrInvalidStatus rejects a lifecycle action not allowed in the campaign's
// current status (e.g. starting a completed campaign).
type ErrInvalidStatus struct {
    CampaignID int
    Status     string
    Action     string
}

func (e *ErrInvalidStatus) Error() string {
    return fmt.Sprintf("cannot %s campaign %d in status %q", e.Action, e.CampaignID, e.Status)
}

func NewInvalidStatus(campaignID int, status, action string) error {
    return &ErrInvalidStatus{CampaignID: campaignID, Status: status, Action: action}
}
