package interview

import (
	"fmt"
	"strings"

	"mockprep/interview/internal/models"
)

func questionID(roundType string, n int) string {
	return fmt.Sprintf("%s-q%d", roundType, n)
}

// roundIndex maps round types to their position in a loaded session.
type roundIndex map[string]int

func indexRounds(session *models.InterviewSession) roundIndex {
	idx := make(roundIndex, len(session.Rounds))
	for i, round := range session.Rounds {
		idx[round.RoundType] = i
	}
	return idx
}

// locate finds the round owning questionID. The round type prefix of the id
// is tried first; every round is searched when it does not resolve.
func (idx roundIndex) locate(session *models.InterviewSession, questionID string) (*models.InterviewRound, *models.InterviewQuestion) {
	if prefix, _, ok := strings.Cut(questionID, "-q"); ok {
		if i, found := idx[prefix]; found {
			round := &session.Rounds[i]
			if q := round.Question(questionID); q != nil {
				return round, q
			}
		}
	}

	for i := range session.Rounds {
		round := &session.Rounds[i]
		if q := round.Question(questionID); q != nil {
			return round, q
		}
	}
	return nil, nil
}

// cursor is the position of the first unanswered question.
type cursor struct {
	Round    *models.InterviewRound
	Question *models.InterviewQuestion
	Number   int
	Total    int
}

// nextUnanswered scans rounds and their questions in stored order. Round is
// nil when every question has an answer.
func nextUnanswered(session *models.InterviewSession) cursor {
	c := cursor{Total: session.TotalQuestions()}
	number := 0
	for i := range session.Rounds {
		round := &session.Rounds[i]
		for j := range round.Questions {
			number++
			q := &round.Questions[j]
			if round.AnswerFor(q.QuestionID) == nil {
				c.Round, c.Question, c.Number = round, q, number
				return c
			}
		}
	}
	return c
}

func allAnswered(session *models.InterviewSession) bool {
	return nextUnanswered(session).Round == nil
}
