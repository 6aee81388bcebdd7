package audit

import (
	"context"
	"log/slog"

	"github.com/lvc-ssi/simgate/internal/domain"
)

// Logger implements domain.AuditLogger: every decision is emitted as one
// structured log record and, when a repository is configured, exported to
// durable storage as well.
type Logger struct {
	logger *slog.Logger
	repo   domain.AuditRepository
}

// NewLogger creates an audit logger. repo may be nil.
func NewLogger(logger *slog.Logger, repo domain.AuditRepository) *Logger {
	return &Logger{logger: logger, repo: repo}
}

// RecordDecision logs an access decision. A repository write failure is logged
// and otherwise ignored: the in-memory log has already been appended and the
// decision stands.
func (l *Logger) RecordDecision(ctx context.Context, entry *domain.AccessLogEntry) {
	l.logger.LogAttrs(ctx, slog.LevelInfo, "access_decision",
		slog.String("entry_id", entry.ID),
		slog.String("proof_id", entry.ProofID),
		slog.String("resource_id", string(entry.ResourceID)),
		slog.String("action", entry.Action),
		slog.Bool("granted", entry.Granted),
		slog.String("reason", entry.Reason),
		slog.Time("timestamp", entry.Timestamp),
	)

	if l.repo != nil {
		if err := l.repo.CreateAccessLogEntry(ctx, entry); err != nil {
			l.logger.ErrorContext(ctx, "failed to export audit entry",
				slog.String("entry_id", entry.ID),
				slog.String("error", err.Error()))
		}
	}
}
