package service

import "biokuiz/internal/model"

// GradeResult is the outcome of grading one submission.
type GradeResult struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Score   int `json:"score"`
}

// Grade scores answers, keyed by question id, against the full bank. Every
// question counts towards the total; missing or blank answers count as wrong.
func Grade(questions []model.Question, answers map[uint]string) GradeResult {
	res := GradeResult{Total: len(questions)}
	for i := range questions {
		q := &questions[i]
		if q.IsCorrect(answers[q.ID]) {
			res.Correct++
		}
	}
	res.Score = Percent(res.Correct, res.Total)
	return res
}

// Percent is correct*100/total truncated toward zero, 0 for an empty total.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return correct * 100 / total
}
