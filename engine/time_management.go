package engine

import (
	"context"
)

// TimeHandler tracks the cancellation state of one move selection.
type TimeHandler struct {
	ctx     context.Context
	stopped bool
}

func (th *TimeHandler) StartTime(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	th.ctx = ctx
	th.stopped = false
}

/*
  - True once the context is cancelled or its deadline passed
  - False while the search may continue
*/
func (th *TimeHandler) TimeStatus() bool {
	if th.stopped {
		return true
	}
	if th.ctx == nil {
		return false
	}
	select {
	case <-th.ctx.Done():
		th.stopped = true
	default:
	}
	return th.stopped
}
