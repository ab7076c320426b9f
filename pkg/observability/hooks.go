package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/canvass/pkg/domain"
)

// LoggingHooks logs every lifecycle event. User ids are logged; answers never are.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFlowStart: func(ctx context.Context, e *domain.FlowEvent) {
			logger.InfoContext(ctx, "flow_start", "campaign", e.CampaignID, "user", e.UserID, "question", e.QuestionID)
		},
		OnAnswerAccepted: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.DebugContext(ctx, "answer_accepted", "campaign", e.CampaignID, "user", e.UserID, "question", e.QuestionID)
		},
		OnAnswerRejected: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.DebugContext(ctx, "answer_rejected", "campaign", e.CampaignID, "user", e.UserID, "question", e.QuestionID)
		},
		OnFlowComplete: func(ctx context.Context, e *domain.FlowEvent) {
			logger.InfoContext(ctx, "flow_complete", "campaign", e.CampaignID, "user", e.UserID, "count", e.Count)
		},
		OnProcessed: func(ctx context.Context, e *domain.ProcessEvent) {
			level := slog.LevelDebug
			if e.Err != nil && Result(e.Err) != "rejected" {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "message_processed",
				"campaign", e.CampaignID,
				"user", e.UserID,
				"duration", e.Duration,
				"err", e.Err,
			)
		},
	}
}

// Combine fans each event out to every hook set, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, s := range sets {
		out.OnFlowStart = chain(out.OnFlowStart, s.OnFlowStart)
		out.OnAnswerAccepted = chain(out.OnAnswerAccepted, s.OnAnswerAccepted)
		out.OnAnswerRejected = chain(out.OnAnswerRejected, s.OnAnswerRejected)
		out.OnFlowComplete = chain(out.OnFlowComplete, s.OnFlowComplete)
		out.OnProcessed = chain(out.OnProcessed, s.OnProcessed)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
