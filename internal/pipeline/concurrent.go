package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/model"
	"github.com/clearhull/claimwatch/internal/worker"
)

// StageIntake marks envelopes that could not be read at all.
const StageIntake = "intake"

// ProcessSpoolConcurrent drains the spool with a worker pool. Duplicate
// submissions racing each other across workers can both pass the duplicate
// check against the same registry snapshot; the registry itself still admits
// only one entry per claim number. Use a single worker when that window
// matters.
func (p *Pipeline) ProcessSpoolConcurrent(ctx context.Context, spool *Spool, pool *worker.Pool) ([]model.ProcessingResult, error) {
	files, err := spool.Pending()
	if err != nil {
		return nil, err
	}

	tasks := make([]worker.Task, len(files))
	for i, path := range files {
		path := path
		tasks[i] = func(ctx context.Context) model.ProcessingResult {
			env, err := spool.Load(path)
			if err != nil {
				p.logger.Error("unreadable envelope", zap.String("path", path), zap.Error(err))
				if err := spool.Fail(path); err != nil {
					p.logger.Error("could not move envelope aside", zap.Error(err))
				}
				return model.ProcessingResult{Status: model.StatusFailed, FailedStage: StageIntake}
			}

			result := p.ProcessEnvelope(ctx, env)
			if result.Status != model.StatusFailed {
				if err := spool.Archive(path); err != nil {
					p.logger.Error("could not archive envelope", zap.Error(err))
				}
			}
			return result
		}
	}

	return pool.Run(ctx, tasks), nil
}
