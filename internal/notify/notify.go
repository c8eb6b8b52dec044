package notify

import "context"

// Notifier delivers an out-of-band message about a run. Delivery is
// best effort; callers log failures and move on.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}
