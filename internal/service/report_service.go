package service

import (
	"biokuiz/internal/config"
	"biokuiz/internal/model"
	"biokuiz/internal/repository"
	"biokuiz/internal/util"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type ReportService struct {
	UserRepo     *repository.UserRepository
	ScoreRepo    *repository.ScoreRepository
	MaterialRepo *repository.MaterialRepository
	QuestionRepo *repository.QuestionRepository
	Cfg          *config.QuizConfig
}

func NewReportService(
	userRepo *repository.UserRepository,
	scoreRepo *repository.ScoreRepository,
	materialRepo *repository.MaterialRepository,
	questionRepo *repository.QuestionRepository,
	cfg *config.QuizConfig,
) *ReportService {
	return &ReportService{
		UserRepo:     userRepo,
		ScoreRepo:    scoreRepo,
		MaterialRepo: materialRepo,
		QuestionRepo: questionRepo,
		Cfg:          cfg,
	}
}

type StudentReportRow struct {
	UserID      uint       `json:"userId"`
	Username    string     `json:"username"`
	Summary     Summary    `json:"summary"`
	LastAttempt *time.Time `json:"lastAttempt"`
}

// StudentReport lists every student in registration order, including
// students that never took the quiz.
func (s *ReportService) StudentReport(ctx context.Context) ([]StudentReportRow, error) {
	students, err := s.UserRepo.ListByRole(ctx, model.Student)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	ids := make([]uint, len(students))
	for i, u := range students {
		ids[i] = u.ID
	}
	byUser, err := s.ScoreRepo.ListByUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	rows := make([]StudentReportRow, len(students))
	for i, u := range students {
		scores := byUser[u.ID]
		row := StudentReportRow{
			UserID:   u.ID,
			Username: u.Username,
			Summary:  SummarizeScores(scores),
		}
		if len(scores) > 0 {
			last := scores[len(scores)-1].TakenAt
			row.LastAttempt = &last
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *ReportService) Leaderboard(ctx context.Context) ([]repository.UserBest, error) {
	best, err := s.ScoreRepo.BestPerUser(ctx, "")
	if err != nil {
		return nil, err
	}
	return RankLeaderboard(best, s.Cfg.LeaderboardSize), nil
}

type AdminTotals struct {
	Users     int64 `json:"users"`
	Students  int64 `json:"students"`
	Teachers  int64 `json:"teachers"`
	Materials int64 `json:"materials"`
	Questions int64 `json:"questions"`
	Attempts  int64 `json:"attempts"`
}

type AdminDashboard struct {
	Totals         AdminTotals           `json:"totals"`
	OverallAverage float64               `json:"overallAverage"`
	BestScores     []repository.UserBest `json:"bestScores"`
	DailyAverages  []DailyAverage        `json:"dailyAverages"`
}

func (s *ReportService) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	var (
		d   AdminDashboard
		err error
	)
	counters := []struct {
		name string
		dst  *int64
		fn   func(context.Context) (int64, error)
	}{
		{"users", &d.Totals.Users, s.UserRepo.Count},
		{"students", &d.Totals.Students, func(ctx context.Context) (int64, error) {
			return s.UserRepo.CountByRole(ctx, model.Student)
		}},
		{"teachers", &d.Totals.Teachers, func(ctx context.Context) (int64, error) {
			return s.UserRepo.CountByRole(ctx, model.Teacher)
		}},
		{"materials", &d.Totals.Materials, s.MaterialRepo.Count},
		{"questions", &d.Totals.Questions, s.QuestionRepo.Count},
		{"attempts", &d.Totals.Attempts, s.ScoreRepo.Count},
	}
	for _, c := range counters {
		if *c.dst, err = c.fn(ctx); err != nil {
			return nil, fmt.Errorf("count %s: %w", c.name, err)
		}
	}

	avg, err := s.ScoreRepo.Average(ctx)
	if err != nil {
		return nil, fmt.Errorf("average score: %w", err)
	}
	d.OverallAverage = round2(avg)

	best, err := s.ScoreRepo.BestPerUser(ctx, model.Student)
	if err != nil {
		return nil, fmt.Errorf("best scores: %w", err)
	}
	d.BestScores = RankLeaderboard(best, -1)

	all, err := s.ScoreRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	d.DailyAverages = DailyAverages(all)
	return &d, nil
}

type UserDashboard struct {
	TotalQuestions int64         `json:"totalQuestions"`
	Scores         []model.Score `json:"scores"`
	LastScore      *int          `json:"lastScore"`
	Summary        Summary       `json:"summary"`
}

func (s *ReportService) UserDashboard(ctx context.Context, userID uint) (*UserDashboard, error) {
	total, err := s.QuestionRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	scores, err := s.ScoreRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &UserDashboard{
		TotalQuestions: total,
		Scores:         scores,
		Summary:        SummarizeScores(scores),
	}
	if d.Scores == nil {
		d.Scores = []model.Score{}
	}
	if len(scores) > 0 {
		last := scores[len(scores)-1].Score
		d.LastScore = &last
	}
	return d, nil
}

type Profile struct {
	Username string         `json:"username"`
	Role     model.UserRole `json:"role"`
	Summary  Summary        `json:"summary"`
	Level    string         `json:"level"`
}

func (s *ReportService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	scores, err := s.ScoreRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := SummarizeScores(scores)
	return &Profile{
		Username: user.Username,
		Role:     user.Role,
		Summary:  summary,
		Level:    LevelFor(summary.Average),
	}, nil
}

var exportHeader = []string{"Student Name", "Total Quizzes", "Average Score", "Best Score", "Last Attempt"}

// ExportCSV writes the student report as CSV to w.
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.StudentReport(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		last := util.NoAttempt
		if r.LastAttempt != nil {
			last = r.LastAttempt.Format(util.ExportDateFormat)
		}
		record := []string{
			r.Username,
			strconv.Itoa(r.Summary.Count),
			strconv.Itoa(r.Summary.Average),
			strconv.Itoa(r.Summary.Best),
			last,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
