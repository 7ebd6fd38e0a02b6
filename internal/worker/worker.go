// Package worker processes post-redemption jobs from the Redis queue.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ys6448761-hue/yeosu-coupon-system/internal/settlements"
	"github.com/ys6448761-hue/yeosu-coupon-system/pkg/queue"
)

// SettlementProcessor consumes coupon.used jobs and records partner accruals.
type SettlementProcessor struct {
	repo   *settlements.Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewSettlementProcessor creates a settlement job processor.
func NewSettlementProcessor(repo *settlements.Repository, q *queue.Queue, logger *zap.Logger) *SettlementProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementProcessor{repo: repo, queue: q, logger: logger}
}

// Run consumes jobs until ctx is cancelled. Failed jobs are retried with a
// DLQ fallback.
func (p *SettlementProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			continue
		}
		if job == nil {
			continue
		}

		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.Error(err), zap.String("job_id", job.ID))
			if err := p.queue.Retry(ctx, job); err != nil {
				p.logger.Error("retry failed", zap.Error(err), zap.String("job_id", job.ID))
			}
		}
	}
}

// Process executes one settlement accrual job.
func (p *SettlementProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeCouponUsed {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.CouponUsedPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := p.repo.Accrue(ctx, payload.PartnerID, payload.CouponID); err != nil {
		return err
	}

	p.logger.Info("settlement accrued",
		zap.String("coupon_id", payload.CouponID.String()),
		zap.String("partner_id", payload.PartnerID.String()))
	return nil
}
