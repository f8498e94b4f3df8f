package topology

import (
	"strings"
	"time"

	"github.com/dd0wney/cantopo/pkg/device"
)

// DefaultFreshnessWindow is how long a last-seen timestamp keeps a
// device online absent a contrary state signal.
const DefaultFreshnessWindow = 300 * time.Second

// StatusRules derives the online/offline/error classification from a
// device's state string and optional last-seen timestamp.
type StatusRules struct {
	// ActiveStates are state tokens that count as online.
	ActiveStates map[string]bool
	// ErrorStates are state tokens that count as error.
	ErrorStates map[string]bool
	// FreshnessWindow keeps recently-heard devices online even when
	// their state token is not recognized.
	FreshnessWindow time.Duration
}

// DefaultStatusRules returns the stock classification rules.
func DefaultStatusRules() *StatusRules {
	return &StatusRules{
		ActiveStates: tokenSet(
			"on", "online", "open", "closed", "locked", "unlocked",
			"active", "running", "idle", "ok",
		),
		ErrorStates:     tokenSet("error", "fault", "failed"),
		FreshnessWindow: DefaultFreshnessWindow,
	}
}

// Classify maps a device to its status. Error tokens win over
// freshness; an active token or a fresh last-seen timestamp means
// online; everything else is offline.
func (r *StatusRules) Classify(d device.Device, now time.Time) Status {
	state := strings.ToLower(strings.TrimSpace(d.State))
	if r.ErrorStates[state] {
		return StatusError
	}
	if r.ActiveStates[state] {
		return StatusOnline
	}
	if !d.LastSeen.IsZero() && now.Sub(d.LastSeen) <= r.FreshnessWindow {
		return StatusOnline
	}
	return StatusOffline
}

func tokenSet(tokens ...string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
