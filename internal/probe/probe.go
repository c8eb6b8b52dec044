package probe

import (
	"context"

	"github.com/harshil1002/website-monitor/internal/domain"
)

// Checker performs a single availability check for a target URL.
type Checker interface {
	Check(ctx context.Context, target string) domain.CheckOutcome
}
