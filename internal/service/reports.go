package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
)

const trendingLimit = 5

type (
	UserReport struct {
		UserID       uuid.UUID  `json:"userId"`
		Username     string     `json:"username"`
		Reputation   int64      `json:"reputation"`
		Markers      int64      `json:"markers"`
		Comments     int64      `json:"comments"`
		LastMarkerAt *time.Time `json:"lastMarkerAt"`
	}

	SummaryReport struct {
		GeneratedAt time.Time             `json:"generatedAt"`
		TotalUsers  int64                 `json:"totalUsers"`
		Trending    []models.TrendingResp `json:"trending"`
		Users       []UserReport          `json:"users"`
	}

	Reports struct {
		repo   store.Repository
		logger *zap.SugaredLogger
		now    func() time.Time
	}
)

func NewReports(repo store.Repository, l *zap.SugaredLogger) *Reports {
	return &Reports{
		repo:   repo,
		logger: l,
		now:    time.Now,
	}
}

// Reputation is 10 points per marker owned and 2 per comment written.
func Reputation(markers, comments int64) int64 {
	return 10*markers + 2*comments
}

// Trending returns the most commented markers. publicOnly restricts the
// ranking to public markers, for callers without the admin role.
func (s *Reports) Trending(ctx context.Context, publicOnly bool) ([]store.TrendingRow, error) {
	return s.repo.TrendingMarkers(ctx, trendingLimit, publicOnly)
}

func (s *Reports) User(ctx context.Context, p policy.Principal, userID uuid.UUID) (*UserReport, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	if !policy.CanManageUser(p, userID) {
		return nil, apperrors.Forbidden("only the user or an admin can see this report")
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return s.userReport(ctx, user.ID, user.Username)
}

// Summary builds the admin report from the current rows.
func (s *Reports) Summary(ctx context.Context, p policy.Principal) (*SummaryReport, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	trending, err := s.repo.TrendingMarkers(ctx, trendingLimit, false)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	report := SummaryReport{
		GeneratedAt: s.now().UTC(),
		TotalUsers:  total,
		Trending:    models.NewTrendingResps(trending),
		Users:       make([]UserReport, 0, len(users)),
	}
	for _, u := range users {
		row, err := s.userReport(ctx, u.ID, u.Username)
		if err != nil {
			return nil, err
		}
		report.Users = append(report.Users, *row)
	}
	return &report, nil
}

func (s *Reports) userReport(ctx context.Context, id uuid.UUID, username string) (*UserReport, error) {
	activity, err := s.repo.UserActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserReport{
		UserID:       id,
		Username:     username,
		Reputation:   Reputation(activity.Markers, activity.Comments),
		Markers:      activity.Markers,
		Comments:     activity.Comments,
		LastMarkerAt: activity.LastMarkerAt,
	}, nil
}
