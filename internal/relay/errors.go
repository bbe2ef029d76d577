package relay

import "errors"

// Classified relay failures. Callers branch on these; anything else coming
// out of the relay is a generic upstream/transport failure.
var (
	// ErrMissingFields means mentorId or message was absent. No outbound
	// call is made.
	ErrMissingFields = errors.New("missing required fields")

	// ErrAPIKeyMissing means the gateway credential is not configured. The
	// whole request fails before any outbound call.
	ErrAPIKeyMissing = errors.New("AI gateway API key is not configured")

	// ErrRateLimited maps an upstream 429. No retry is attempted here; the
	// caller decides whether to back off.
	ErrRateLimited = errors.New("rate limit exceeded, please try again later")

	// ErrQuotaExhausted maps an upstream 402.
	ErrQuotaExhausted = errors.New("AI credits depleted, please add credits to your workspace")

	// ErrUpstream covers every other non-success upstream status. The
	// upstream status and body are logged server-side, never surfaced.
	ErrUpstream = errors.New("AI gateway error")
)
