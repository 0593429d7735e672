package usecase

import "github.com/prajwalts/interviewdost/internal/service"

// overallScore is the truncated mean of one answer's relevance and
// confidence. The interview-level score tracks only the most recently
// scored answer, not a running aggregate across all answers; see DESIGN.md
// before changing this.
func overallScore(scores service.AnswerScores) int {
	return (scores.Relevance + scores.Confidence) / 2
}
