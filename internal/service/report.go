package service

import (
	"biokuiz/internal/model"
	"biokuiz/internal/repository"
	"math"
	"sort"
	"time"
)

// Summary aggregates one user's attempts.
type Summary struct {
	Count   int `json:"count"`
	Average int `json:"average"`
	Best    int `json:"best"`
}

// Summarize computes count, truncated mean and maximum. All are zero for no scores.
func Summarize(scores []int) Summary {
	s := Summary{Count: len(scores)}
	if s.Count == 0 {
		return s
	}
	sum := 0
	for _, v := range scores {
		sum += v
		if v > s.Best {
			s.Best = v
		}
	}
	s.Average = sum / s.Count
	return s
}

// SummarizeScores is Summarize over score records.
func SummarizeScores(scores []model.Score) Summary {
	values := make([]int, len(scores))
	for i, s := range scores {
		values[i] = s.Score
	}
	return Summarize(values)
}

type levelThreshold struct {
	min   int
	label string
}

// levels is checked top-down; the first threshold the average reaches wins.
var levels = []levelThreshold{
	{80, "Expert"},
	{60, "Proficient"},
	{math.MinInt, "Novice"},
}

// LevelFor maps an average score to its label.
func LevelFor(average int) string {
	for _, l := range levels {
		if average >= l.min {
			return l.label
		}
	}
	return levels[len(levels)-1].label
}

// RankLeaderboard orders entries by best score descending, keeping the
// incoming order for ties, and keeps at most limit entries.
func RankLeaderboard(entries []repository.UserBest, limit int) []repository.UserBest {
	ranked := make([]repository.UserBest, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BestScore > ranked[j].BestScore
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// DailyAverage is the mean score of all attempts taken on one UTC day.
type DailyAverage struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// DailyAverages groups scores by the calendar date of TakenAt (UTC) and
// returns one mean per day, oldest day first.
func DailyAverages(scores []model.Score) []DailyAverage {
	type bucket struct {
		sum   int
		count int
	}
	buckets := make(map[string]*bucket)
	for _, s := range scores {
		day := s.TakenAt.UTC().Format(time.DateOnly)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.sum += s.Score
		b.count++
	}

	out := make([]DailyAverage, 0, len(buckets))
	for day, b := range buckets {
		out = append(out, DailyAverage{
			Date:    day,
			Average: round2(float64(b.sum) / float64(b.count)),
			Count:   b.count,
		})
	}
	// ISO dates sort chronologically as strings.
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
