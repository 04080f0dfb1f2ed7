package leave

import (
	"context"
)

// Applier applies inbound leave requests against local attendance state and
// reports which request ids it actually applied. The returned ids become the
// acknowledgement set carried on the next sync payload.
type Applier interface {
	ApplyLeaveRequests(ctx context.Context, requests []Request) ([]string, error)
}
