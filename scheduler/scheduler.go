package scheduler

import (
	"context"

	"github.com/Dosada05/league-engine/services"
)

// AutoConfirmer is the part of services.MatchService the scheduler drives.
type AutoConfirmer interface {
	AutoConfirmDue(ctx context.Context) (*services.AutoConfirmSummary, error)
}

type Scheduler interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
