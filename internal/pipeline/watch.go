package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/model"
)

// ProcessSpool drains the spool once, returning one result per envelope.
// Cancellation is honored between claims: an in-flight claim always finishes
// so it is never half-registered.
func (p *Pipeline) ProcessSpool(ctx context.Context, spool *Spool) ([]model.ProcessingResult, error) {
	files, err := spool.Pending()
	if err != nil {
		return nil, err
	}

	var results []model.ProcessingResult
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		env, err := spool.Load(path)
		if err != nil {
			p.logger.Error("unreadable envelope", zap.String("path", path), zap.Error(err))
			if err := spool.Fail(path); err != nil {
				p.logger.Error("could not move envelope aside", zap.Error(err))
			}
			continue
		}

		result := p.ProcessEnvelope(ctx, env)
		results = append(results, result)

		switch result.Status {
		case model.StatusFailed:
			// Leave the envelope in place: the failure was persistence or
			// report I/O and a later run retries it.
			p.logger.Warn("envelope left in spool for retry",
				zap.String("path", path),
				zap.String("failed_stage", result.FailedStage))
		default:
			if err := spool.Archive(path); err != nil {
				p.logger.Error("could not archive envelope", zap.Error(err))
			}
		}
	}
	return results, nil
}

// Watch drains the spool, then re-checks on every interval tick until the
// context is canceled. A failing drain is logged and retried on the next
// tick, never fatal to the watcher.
func (p *Pipeline) Watch(ctx context.Context, spool *Spool, interval time.Duration) error {
	p.logger.Info("watching spool", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.ProcessSpool(ctx, spool); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Error("spool pass failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			p.logger.Info("watch stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
