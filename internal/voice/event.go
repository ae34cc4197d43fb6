// internal/voice/event.go
package voice

// CallEvent is a completion signal for one call, keyed by the provider's
// call id. The webhook ingress and the local watchdog both produce this
// shape, so there is a single completion handler downstream.
type CallEvent struct {
    CallID          string  `json:"callId"`
    Status          string  `json:"status"`
    EndedReason     string  `json:"endedReason"`
    DurationSeconds int     `json:"durationSeconds"`
    Cost            float64 `json:"cost"`
    RecordingURL    string  `json:"recordingUrl,omitempty"`
}
