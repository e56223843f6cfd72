package notifier

import (
	"context"

	"github.com/secmon-lab/triage/pkg/domain/model/errs"
	"github.com/secmon-lab/triage/pkg/utils/logging"
)

// Notifier reports operation outcomes through the structured logger.
// UI frontends substitute their own toast implementation through the
// interfaces.Notifier boundary; this one is the default for headless
// and server use.
type Notifier struct{}

func New() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Success(ctx context.Context, msg string) {
	logging.From(ctx).Info(msg, "kind", "notification")
}

func (n *Notifier) Error(ctx context.Context, origin string, err error) {
	if remote, ok := errs.AsRemote(err); ok {
		logging.From(ctx).Error("operation failed",
			"origin", origin,
			"status", remote.Status,
			"body", remote.Body,
		)
		return
	}
	logging.From(ctx).Error("operation failed", "origin", origin, logging.ErrAttr(err))
}
