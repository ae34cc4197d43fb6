package service

import (
	"sync"
	"testing"
	"time"

	appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
	"github.com/unclebandit/voiceleopard-backend/internal/voice"
)

// fakeVoiceClient scripts provider responses per attempt.
type fakeVoiceClient struct {
	mu        sync.Mutex
	responses []error // error per attempt; nil means success
	attempts  int
	lastReq   *voice.CreateCallRequest
}

func (c *fakeVoiceClient) CreateCall(req *voice.CreateCallRequest) (*voice.CreateCallResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastReq = req
	attempt := c.attempts
	c.attempts++
	if attempt < len(c.responses) && c.responses[attempt] != nil {
		return nil, c.responses[attempt]
	}
	return &voice.CreateCallResponse{ID: "prov-call-ok"}, nil
}

func fastDispatcher(client voice.Client) *CallDispatcher {
	d := NewCallDispatcher(client, "254")
	d.Retry = RetryPolicy{MaxAttempts: 2, Backoff: time.Millisecond}
	return d
}

func TestDispatchNormalizesDestination(t *testing.T) {
	client := &fakeVoiceClient{}
	d := fastDispatcher(client)

	contact := &testContacts(1)[0]
	contact.Phone = "0712 000-001"

	res, err := d.Dispatch(contact, testAgent(), testNumber())
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if res.ToNumber != "+254712000001" {
		t.Fatalf("expected normalized number, got %s", res.ToNumber)
	}
	if client.lastReq.Customer.Number != "+254712000001" {
		t.Fatalf("provider got un-normalized number: %s", client.lastReq.Customer.Number)
	}
	if client.lastReq.AssistantID != "asst_1" || client.lastReq.PhoneNumberID != "num_1" {
		t.Fatalf("provider identities not forwarded: %+v", client.lastReq)
	}
}

func TestDispatchRejectsMissingIdentities(t *testing.T) {
	client := &fakeVoiceClient{}
	d := fastDispatcher(client)
	contact := &testContacts(1)[0]

	agent := testAgent()
	agent.ProviderAssistantID = ""
	if _, err := d.Dispatch(contact, agent, testNumber()); !appErrors.IsValidation(err) {
		t.Fatalf("expected ValidationError for agent, got %v", err)
	}

	number := testNumber()
	number.ProviderNumberID = ""
	if _, err := d.Dispatch(contact, testAgent(), number); !appErrors.IsValidation(err) {
		t.Fatalf("expected ValidationError for number, got %v", err)
	}

	if client.attempts != 0 {
		t.Fatalf("no provider request should be made on validation failure, got %d", client.attempts)
	}
}

// A retryable provider error gets exactly one more attempt.
func TestDispatchRetriesRetryableErrorOnce(t *testing.T) {
	client := &fakeVoiceClient{responses: []error{
		appErrors.NewDispatch("provider returned 429", true, nil),
	}}
	d := fastDispatcher(client)

	res, err := d.Dispatch(&testContacts(1)[0], testAgent(), testNumber())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if res.CallID != "prov-call-ok" {
		t.Fatalf("unexpected call id %s", res.CallID)
	}
	if client.attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", client.attempts)
	}
}

func TestDispatchRetryableTwiceIsTerminal(t *testing.T) {
	retryErr := appErrors.NewDispatch("provider returned 503", true, nil)
	client := &fakeVoiceClient{responses: []error{retryErr, retryErr}}
	d := fastDispatcher(client)

	if _, err := d.Dispatch(&testContacts(1)[0], testAgent(), testNumber()); err == nil {
		t.Fatal("expected the second retryable failure to be terminal")
	}
	if client.attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", client.attempts)
	}
}

func TestDispatchNonRetryableFailsImmediately(t *testing.T) {
	client := &fakeVoiceClient{responses: []error{
		appErrors.NewDispatch("provider returned 400", false, nil),
	}}
	d := fastDispatcher(client)

	if _, err := d.Dispatch(&testContacts(1)[0], testAgent(), testNumber()); err == nil {
		t.Fatal("expected dispatch to fail")
	}
	if client.attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", client.attempts)
	}
}
