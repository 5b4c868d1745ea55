package service

import (
	"biokuiz/internal/model"
	"biokuiz/internal/util"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) reports() *ReportService {
	return NewReportService(f.users, f.scores, f.materials, f.questions, f.quizCfg)
}

func TestStudentReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "ani", model.Student)
	f.user(t, "guru", model.Teacher)
	b := f.user(t, "budi", model.Student)

	day := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	f.score(t, a.ID, 50, day)
	f.score(t, a.ID, 75, day.Add(24*time.Hour))

	rows, err := f.reports().StudentReport(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ani", rows[0].Username)
	assert.Equal(t, Summary{Count: 2, Average: 62, Best: 75}, rows[0].Summary)
	require.NotNil(t, rows[0].LastAttempt)
	assert.Equal(t, "02-05-2024", rows[0].LastAttempt.Format(util.ExportDateFormat))

	assert.Equal(t, b.ID, rows[1].UserID)
	assert.Equal(t, Summary{}, rows[1].Summary)
	assert.Nil(t, rows[1].LastAttempt)
}

func TestLeaderboardOrderAndCap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	var ids []uint
	for i := 0; i < 25; i++ {
		u := f.user(t, fmt.Sprintf("s%02d", i), model.Student)
		ids = append(ids, u.ID)
		f.score(t, u.ID, i*4, at)
	}
	// a lower second attempt must not hide the best one
	f.score(t, ids[0], 100, at)
	f.score(t, ids[0], 0, at.Add(time.Hour))
	f.user(t, "never", model.Student)

	board, err := f.reports().Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 20)
	assert.Equal(t, "s00", board[0].Username)
	assert.Equal(t, 100, board[0].BestScore)
	assert.Equal(t, 96, board[1].BestScore)
	for i := 1; i < len(board); i++ {
		assert.GreaterOrEqual(t, board[i-1].BestScore, board[i].BestScore)
	}
	for _, e := range board {
		assert.NotEqual(t, "never", e.Username)
	}
}

func TestLeaderboardTiesKeepInsertionOrder(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a := f.user(t, "a", model.Student)
	b := f.user(t, "b", model.Student)
	f.score(t, b.ID, 80, at)
	f.score(t, a.ID, 80, at)

	board, err := f.reports().Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "a", board[0].Username)
	assert.Equal(t, "b", board[1].Username)
}

func TestAdminDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.sampleBank(t)
	require.NoError(t, f.materials.Create(ctx, &model.Material{Title: "T", Text: "x"}))
	a := f.user(t, "ani", model.Student)
	g := f.user(t, "guru", model.Teacher)

	d1 := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 5, 2, 1, 0, 0, 0, time.UTC)
	f.score(t, a.ID, 50, d1)
	f.score(t, a.ID, 75, d1)
	f.score(t, a.ID, 100, d2)
	f.score(t, g.ID, 25, d2)

	d, err := f.reports().AdminDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, AdminTotals{Users: 2, Students: 1, Teachers: 1, Materials: 1, Questions: 4, Attempts: 4}, d.Totals)
	assert.InDelta(t, 62.5, d.OverallAverage, 0.001)
	require.Len(t, d.BestScores, 1)
	assert.Equal(t, 100, d.BestScores[0].BestScore)
	assert.Equal(t, []DailyAverage{
		{Date: "2024-05-01", Average: 62.5, Count: 2},
		{Date: "2024-05-02", Average: 62.5, Count: 2},
	}, d.DailyAverages)
}

func TestUserDashboardAndProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.sampleBank(t)
	u := f.user(t, "ani", model.Student)
	svc := f.reports()

	empty, err := svc.UserDashboard(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, empty.TotalQuestions)
	assert.Empty(t, empty.Scores)
	assert.Nil(t, empty.LastScore)

	p, err := svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novice", p.Level)

	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	f.score(t, u.ID, 100, at)
	f.score(t, u.ID, 75, at.Add(time.Minute))

	d, err := svc.UserDashboard(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, d.Scores, 2)
	require.NotNil(t, d.LastScore)
	assert.Equal(t, 75, *d.LastScore)
	assert.Equal(t, Summary{Count: 2, Average: 87, Best: 100}, d.Summary)

	p, err = svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Expert", p.Level)
	assert.Equal(t, "ani", p.Username)

	_, err = svc.Profile(ctx, 999)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "ani", model.Student)
	f.user(t, "budi", model.Student)
	f.user(t, "guru", model.Teacher)
	f.score(t, a.ID, 60, time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	require.NoError(t, f.reports().ExportCSV(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Student Name", "Total Quizzes", "Average Score", "Best Score", "Last Attempt"},
		{"ani", "1", "60", "60", "09-03-2024"},
		{"budi", "0", "0", "0", "-"},
	}, records)
}
