package loginhistory

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetentionPeriod keeps three months of history before the worker sweeps.
const RetentionPeriod = 90 * 24 * time.Hour

//go:generate mockgen -source=loginhistory_service.go -destination=mock/loginhistory_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, record LoginHistory)
	List(ctx context.Context, req ListRequest) ([]HistoryResponse, int64, error)
	Stats(ctx context.Context) (StatsResponse, error)
	Cleanup(ctx context.Context) (int64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("loginhistory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loginhistory.service")
	}
	return &service{repo: repo, logger: l}
}

// Record is fire and forget. Login must not fail because the audit
// insert did.
func (s *service) Record(ctx context.Context, record LoginHistory) {
	if err := s.repo.Create(ctx, &record); err != nil {
		s.logger.Error("record login history failed",
			zap.String("account", record.Account),
			zap.String("status", record.Status),
			zap.Error(err),
		)
	}
}

func (s *service) List(ctx context.Context, req ListRequest) ([]HistoryResponse, int64, error) {
	filter := ListFilter{
		Account: req.Account,
		Role:    req.Role,
		Status:  req.Status,
	}
	if req.From != "" {
		from, err := time.Parse("2006-01-02", req.From)
		if err == nil {
			filter.From = from
		}
	}
	if req.To != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err == nil {
			// Inclusive end of day
			filter.To = to.Add(24*time.Hour - time.Nanosecond)
		}
	}

	records, total, err := s.repo.List(ctx, filter, req.Page, req.PageSize)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]HistoryResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, HistoryResponse{
			ID:        r.ID.String(),
			Account:   r.Account,
			Role:      r.Role,
			Name:      r.Name,
			Status:    r.Status,
			IPAddress: r.IPAddress,
			UserAgent: r.UserAgent,
			Reason:    r.Reason,
			LoginTime: r.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, total, nil
}

// Stats summarizes the dashboard counters: today's and all-time
// success/failure totals.
func (s *service) Stats(ctx context.Context) (StatsResponse, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	today, err := s.repo.CountByStatusSince(ctx, startOfDay)
	if err != nil {
		return StatsResponse{}, err
	}
	total, err := s.repo.CountByStatusSince(ctx, time.Time{})
	if err != nil {
		return StatsResponse{}, err
	}

	return StatsResponse{
		TodaySuccess: today[StatusSuccess],
		TodayFailed:  today[StatusFailed],
		TotalSuccess: total[StatusSuccess],
		TotalFailed:  total[StatusFailed],
	}, nil
}

// Cleanup deletes records past the retention window. Called by the
// worker on a daily schedule.
func (s *service) Cleanup(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-RetentionPeriod)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("login history cleanup failed", zap.Error(err))
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("login history cleanup done",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return deleted, nil
}
