package relay

import "time"

// Status describes the terminal disposition of a submitted envelope.
type Status string

const (
	// StatusCompleted means a provider returned content.
	StatusCompleted Status = "completed"
	// StatusQueued means the envelope was durably queued for later dispatch.
	StatusQueued Status = "queued"
	// StatusFailed means every attempted provider failed.
	StatusFailed Status = "failed"
)

// Result is the outcome of submitting an envelope: a success payload, a
// queued acknowledgment, or an annotated terminal failure.
type Result struct {
	// RequestID echoes the envelope id.
	RequestID string `json:"requestId"`
	// Status is the disposition of the request.
	Status Status `json:"status"`
	// Provider and Model identify which backend configuration produced the
	// response. Empty for queued results.
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	// Content is the generated text for completed requests.
	Content string `json:"content,omitempty"`
	// Cost is the provider-reported cost of the request in USD.
	Cost float64 `json:"cost,omitempty"`
	// QueueID correlates a queued result with its later drain outcome.
	QueueID string `json:"queueId,omitempty"`
	// Attempted lists provider names in attempt order, including failures.
	Attempted []string `json:"attempted,omitempty"`
	// Retries is the number of retry attempts made beyond the first call,
	// summed across the fallback chain.
	Retries int `json:"retries,omitempty"`
	// Duration is the wall time from dispatch start to terminal outcome.
	Duration time.Duration `json:"duration,omitempty"`
	// Err holds the terminal error for failed results.
	Err error `json:"-"`
}
