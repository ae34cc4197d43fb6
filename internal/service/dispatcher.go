// internal/service/dispatcher.go
package service

import (
    appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
    "github.com/unclebandit/voiceleopard-backend/internal/metrics"
    "github.com/unclebandit/voiceleopard-backend/internal/model"
    "github.com/unclebandit/voiceleopard-backend/internal/voice"
)

// ContactDispatcher turns one contact into an outbound call request.
type ContactDispatcher interface {
    Dispatch(contact *model.Contact, agent *model.Agent, number *model.PhoneNumber) (*DispatchResult, error)
}

// DispatchResult carries what the execution needs to track the new call.
type DispatchResult struct {
    CallID   string
    ToNumber string
}

// CallDispatcher validates identities, normalizes the destination and places
// the call with the voice provider. It has no side effects beyond the
// request: the Call record is written by the execution only after dispatch
// succeeds, so a failed dispatch never leaves an orphan row.
type CallDispatcher struct {
    Client voice.Client
    Retry  RetryPolicy
    // DefaultCountryCode is used when a contact's number has no
    // international prefix.
    DefaultCountryCode string
}

func NewCallDispatcher(client voice.Client, defaultCountryCode string) *CallDispatcher {
    return &CallDispatcher{
        Client:             client,
        Retry:              DispatchRetryPolicy,
        DefaultCountryCode: defaultCountryCode,
    }
}

// Dispatch returns the provider's call id on success. Validation failures
// are non-retryable; provider errors carry their own classification.
func (d *CallDispatcher) Dispatch(contact *model.Contact, agent *model.Agent, number *model.PhoneNumber) (*DispatchResult, error) {
    if agent == nil || agent.ProviderAssistantID == "" {
        return nil, appErrors.NewValidation("agent", "missing provider assistant id")
    }
    if number == nil || number.ProviderNumberID == "" {
        return nil, appErrors.NewValidation("phone_number", "missing provider number id")
    }

    to := voice.NormalizePhone(contact.Phone, d.DefaultCountryCode)
    if to == "" {
        return nil, appErrors.NewValidation("contact", "phone number has no digits")
    }

    req := &voice.CreateCallRequest{
        AssistantID:   agent.ProviderAssistantID,
        PhoneNumberID: number.ProviderNumberID,
        Customer:      voice.Customer{Number: to},
    }

    var callID string
    err := d.Retry.Do(func() error {
        metrics.DispatchAttempts.Inc()
        resp, err := d.Client.CreateCall(req)
        if err != nil {
            if appErrors.IsRetryable(err) {
                metrics.DispatchFailures.WithLabelValues("true").Inc()
            } else {
                metrics.DispatchFailures.WithLabelValues("false").Inc()
            }
            return err
        }
        callID = resp.ID
        return nil
    })
    if err != nil {
        return nil, err
    }
    return &DispatchResult{CallID: callID, ToNumber: to}, nil
}

var _ ContactDispatcher = (*CallDispatcher)(nil)
