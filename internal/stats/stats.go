// Package stats contains result aggregation and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/wordwise/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Aggregate folds snapshots into per-user stats. Average score is rounded to the nearest integer.
func Aggregate(snaps []model.Snapshot) model.UserStats {
	var out model.UserStats
	if len(snaps) == 0 {
		return out
	}
	for _, s := range snaps {
		out.TotalScore += s.Score
		if s.BestStreak > out.BestStreak {
			out.BestStreak = s.BestStreak
		}
	}
	out.GamesPlayed = len(snaps)
	out.AverageScore = int(math.Round(float64(out.TotalScore) / float64(len(snaps))))
	return out
}

// Scores returns snapshot scores in chronological order. Input is newest first.
func Scores(snaps []model.Snapshot) []float64 {
	out := make([]float64, len(snaps))
	for i, s := range snaps {
		out[len(snaps)-1-i] = float64(s.Score)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints aggregated stats and a trend line over recent, newest first.
func RenderSummary(w io.Writer, agg model.UserStats, recent []model.Snapshot, window int) error {
	if agg.GamesPlayed == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Games: %d\n", agg.GamesPlayed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Streak: %d\n", agg.BestStreak); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Score: %d\n", agg.AverageScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total Score: %d\n", agg.TotalScore); err != nil {
		return err
	}
	trend := Sparkline(MovingAverage(Scores(recent), window))
	if _, err := fmt.Fprintf(w, "Trend: [%s]\n", trend); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderHistory prints one row per game, newest first.
func RenderHistory(w io.Writer, snaps []model.Snapshot) error {
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	headers := []string{"ID", "Played", "Difficulty", "Score", "Streak", "Games"}
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, HistoryRow(s))
	}
	rightAlign := map[int]bool{0: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// HistoryRow formats a snapshot as table cells.
func HistoryRow(s model.Snapshot) []string {
	return []string{
		fmt.Sprintf("%d", s.ID),
		s.CreatedAt.Local().Format(time.DateTime),
		string(s.Difficulty),
		fmt.Sprintf("%d", s.Score),
		fmt.Sprintf("%d", s.BestStreak),
		fmt.Sprintf("%d", s.GamesPlayed),
	}
}

// RenderQuestions prints one row per stored question.
func RenderQuestions(w io.Writer, questions []model.Question) error {
	if len(questions) == 0 {
		_, err := fmt.Fprintln(w, "No questions found.")
		return err
	}
	headers := []string{"ID", "Difficulty", "Category", "Question", "Answer"}
	rows := make([][]string, 0, len(questions))
	for _, q := range questions {
		answer := ""
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			answer = q.Options[q.CorrectAnswer]
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", q.ID),
			string(q.Difficulty),
			q.Category,
			q.Text,
			answer,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
