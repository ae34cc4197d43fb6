// internal/service/execution.go
package service

import (
    "fmt"
    "log"
    "sync"
    "time"

    "github.com/unclebandit/voiceleopard-backend/internal/events"
    "github.com/unclebandit/voiceleopard-backend/internal/metrics"
    "github.com/unclebandit/voiceleopard-backend/internal/model"
    "github.com/unclebandit/voiceleopard-backend/internal/repository"
    "github.com/unclebandit/voiceleopard-backend/internal/voice"
)

// Completion sources. Both converge on HandleCompletion.
const (
    CompletionSourceWebhook  = "webhook"
    CompletionSourceWatchdog = "watchdog"
)

// CampaignExecution is the runtime state of one active campaign: the ordered
// contact queue with its cursor, the set of in-flight provider call ids and
// the concurrency budget. It exists only in memory; when the campaign reaches
// a terminal status the manager drops it.
//
// All mutable state (cursor, inFlight, active, canceled) is guarded by mu,
// because dispatch-driven and completion-driven admissions race on it.
type CampaignExecution struct {
    campaign *model.Campaign
    agent    *model.Agent
    number   *model.PhoneNumber
    contacts []model.Contact

    dispatcher ContactDispatcher
    calls      repository.CallRepositoryInterface
    events     events.Publisher
    watchdog   time.Duration

    // onFinished fires exactly once, when the queue and active set are both
    // empty. The bool reports whether the run ended by cancellation.
    onFinished func(canceled bool)

    mu       sync.Mutex
    cursor   int
    inFlight int
    active   map[string]*activeCall
    canceled bool
    finished bool
}

type activeCall struct {
    contact model.Contact
    timer   *time.Timer
}

func newCampaignExecution(
    campaign *model.Campaign,
    agent *model.Agent,
    number *model.PhoneNumber,
    contacts []model.Contact,
    dispatcher ContactDispatcher,
    calls repository.CallRepositoryInterface,
    publisher events.Publisher,
    watchdog time.Duration,
    onFinished func(canceled bool),
) (*CampaignExecution, error) {
    if dispatcher == nil {
        return nil, fmt.Errorf("campaign %d: no dispatcher configured", campaign.ID)
    }
    if calls == nil {
        return nil, fmt.Errorf("campaign %d: no call repository configured", campaign.ID)
    }
    if watchdog <= 0 {
        return nil, fmt.Errorf("campaign %d: watchdog interval must be positive", campaign.ID)
    }
    return &CampaignExecution{
        campaign:   campaign,
        agent:      agent,
        number:     number,
        contacts:   contacts,
        dispatcher: dispatcher,
        calls:      calls,
        events:     publisher,
        watchdog:   watchdog,
        onFinished: onFinished,
        active:     map[string]*activeCall{},
    }, nil
}

// Start admits min(concurrentCalls, queue length) contacts and returns.
// Dispatches run in their own goroutines, so the caller is never blocked on
// provider I/O.
func (e *CampaignExecution) Start() {
    e.fillSlots()
}

// Cancel stops all further admissions. In-flight calls run to natural
// completion and are still recorded.
func (e *CampaignExecution) Cancel() {
    e.mu.Lock()
    e.canceled = true
    e.mu.Unlock()
    e.fillSlots()
}

// ActiveCount reports how many calls are currently in flight.
func (e *CampaignExecution) ActiveCount() int {
    e.mu.Lock()
    defer e.mu.Unlock()
    return e.inFlight
}

// QueuedCount reports how many contacts have not been admitted yet.
func (e *CampaignExecution) QueuedCount() int {
    e.mu.Lock()
    defer e.mu.Unlock()
    return len(e.contacts) - e.cursor
}

// fillSlots admits contacts in queue order until the budget is exhausted,
// the queue is empty or the run is canceled. When nothing remains in flight
// it fires the finish callback, once.
func (e *CampaignExecution) fillSlots() {
    for {
        e.mu.Lock()
        if !e.canceled && e.cursor < len(e.contacts) && e.inFlight < e.campaign.ConcurrentCalls {
            contact := e.contacts[e.cursor]
            e.cursor++
            if contact.DoNotCall {
                e.mu.Unlock()
                log.Printf("⏭️ campaign %d: contact %d is do-not-call, skipping", e.campaign.ID, contact.ID)
                continue
            }
            e.inFlight++
            e.mu.Unlock()
            go e.dispatchContact(contact)
            continue
        }

        drained := e.inFlight == 0 && (e.canceled || e.cursor >= len(e.contacts))
        fire := drained && !e.finished
        if fire {
            e.finished = true
        }
        wasCanceled := e.canceled
        e.mu.Unlock()

        if fire && e.onFinished != nil {
            e.onFinished(wasCanceled)
        }
        return
    }
}

// dispatchContact owns one admitted slot. On success the call is tracked and
// a watchdog armed; on failure the slot is released so the next contact can
// be admitted. One bad contact never stalls the campaign.
func (e *CampaignExecution) dispatchContact(contact model.Contact) {
    res, err := e.dispatcher.Dispatch(&contact, e.agent, e.number)
    if err != nil {
        log.Printf("⚠️ campaign %d: dispatch failed for contact %d: %v", e.campaign.ID, contact.ID, err)
        ev := events.NewEvent(events.TypeDispatchFailed, e.campaign.ID)
        ev.ContactID = contact.ID
        ev.Reason = err.Error()
        e.publish(ev)

        e.mu.Lock()
        e.inFlight--
        e.mu.Unlock()
        e.fillSlots()
        return
    }

    call := &model.Call{
        AgentID:        e.campaign.AgentID,
        FromNumber:     e.number.Number,
        ToNumber:       res.ToNumber,
        Direction:      model.CallDirectionOutbound,
        ProviderCallID: res.CallID,
        Outcome:        model.CallOutcomeInProgress,
    }
    if err := e.calls.Create(call); err != nil {
        // Tracking continues regardless: losing the row is an operational
        // problem, leaking the slot would stall the campaign.
        log.Printf("⚠️ campaign %d: failed to persist call record for %s: %v", e.campaign.ID, res.CallID, err)
    }

    e.mu.Lock()
    ac := &activeCall{contact: contact}
    e.active[res.CallID] = ac
    ac.timer = time.AfterFunc(e.watchdog, func() {
        e.HandleCompletion(voice.CallEvent{
            CallID:      res.CallID,
            Status:      "ended",
            EndedReason: "watchdog-timeout",
        }, CompletionSourceWatchdog)
    })
    e.mu.Unlock()

    metrics.ActiveCalls.Inc()

    ev := events.NewEvent(events.TypeCallDispatched, e.campaign.ID)
    ev.ContactID = contact.ID
    ev.ProviderCallID = res.CallID
    e.publish(ev)
}

// HandleCompletion finalizes one call. It is fed by the webhook ingress and
// by the watchdog; whichever arrives first wins, the other is a no-op
// because the call id is gone from the active set. Returns whether the event
// belonged to this execution and was acted on.
func (e *CampaignExecution) HandleCompletion(ev voice.CallEvent, source string) bool {
    e.mu.Lock()
    ac, ok := e.active[ev.CallID]
    if !ok {
        e.mu.Unlock()
        return false
    }
    delete(e.active, ev.CallID)
    e.inFlight--
    e.mu.Unlock()

    if ac.timer != nil {
        ac.timer.Stop()
    }
    metrics.ActiveCalls.Dec()
    metrics.Completions.WithLabelValues(source).Inc()

    outcome := outcomeForEvent(ev, source)
    finalized, err := e.calls.Finalize(ev.CallID, outcome, ev.EndedReason, ev.DurationSeconds, ev.Cost, ev.RecordingURL)
    if err != nil {
        // Scheduling progress continues; the slot is freed below either way.
        log.Printf("⚠️ campaign %d: failed to finalize call %s: %v", e.campaign.ID, ev.CallID, err)
    } else if !finalized {
        log.Printf("campaign %d: call %s already finalized", e.campaign.ID, ev.CallID)
    }

    eventType := events.TypeCallCompleted
    if source == CompletionSourceWatchdog {
        eventType = events.TypeCallTimedOut
        metrics.WatchdogTimeouts.Inc()
    }
    out := events.NewEvent(eventType, e.campaign.ID)
    out.ContactID = ac.contact.ID
    out.ProviderCallID = ev.CallID
    out.Outcome = outcome
    out.Reason = ev.EndedReason
    e.publish(out)

    e.fillSlots()
    return true
}

func outcomeForEvent(ev voice.CallEvent, source string) string {
    if source == CompletionSourceWatchdog {
        return model.CallOutcomeTimeout
    }
    switch ev.EndedReason {
    case "no-answer", "customer-did-not-answer", "busy":
        return model.CallOutcomeNoAnswer
    case "error", "failed", "assistant-error":
        return model.CallOutcomeFailed
    }
    return model.CallOutcomeCompleted
}

func (e *CampaignExecution) publish(ev events.Event) {
    if e.events == nil {
        return
    }
    // A lost event is logged, never propagated: monitoring must not be able
    // to fail the campaign.
    if err := e.events.Publish(ev); err != nil {
        log.Printf("⚠️ failed to publish %s event: %v", ev.Type, err)
    }
}
