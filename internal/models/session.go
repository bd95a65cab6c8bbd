package models

import "time"

// InterviewSession is one practice attempt owned by a single candidate.
type InterviewSession struct {
	ID            string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID       string           `gorm:"not null;index:idx_sessions_owner_created,priority:1" json:"ownerId"`
	RoleProfileID string           `gorm:"type:varchar(36);index" json:"roleProfileId"`
	RoleName      string           `json:"roleName"`
	Company       string           `json:"company"`
	ResumeID      string           `gorm:"type:varchar(36)" json:"resumeId,omitempty"`
	Mode          string           `gorm:"not null" json:"mode"`
	Difficulty    string           `json:"difficulty"`
	Status        string           `gorm:"not null;index" json:"status"`
	Proctored     bool             `json:"proctored"`
	Rounds        []InterviewRound `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"rounds"`
	CreatedAt     time.Time        `gorm:"index:idx_sessions_owner_created,priority:2" json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	ExportedAt    *time.Time       `gorm:"index" json:"-"`
}

// InterviewRound is one phase of a session. Questions are fixed once generated
// and answers are append-only.
type InterviewRound struct {
	ID         uint                `gorm:"primaryKey" json:"-"`
	SessionID  string              `gorm:"type:varchar(36);not null;uniqueIndex:idx_rounds_session_type,priority:1" json:"-"`
	RoundType  string              `gorm:"not null;uniqueIndex:idx_rounds_session_type,priority:2" json:"roundType"`
	Position   int                 `gorm:"not null" json:"roundIndex"`
	Difficulty string              `json:"difficulty"`
	Questions  []InterviewQuestion `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE" json:"questions"`
	Answers    []InterviewAnswer   `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE" json:"answers"`
}

type InterviewQuestion struct {
	ID               uint     `gorm:"primaryKey" json:"-"`
	RoundID          uint     `gorm:"not null;index" json:"-"`
	Position         int      `gorm:"not null" json:"-"`
	QuestionID       string   `gorm:"not null" json:"id"`
	Text             string   `gorm:"type:text" json:"text"`
	Difficulty       string   `json:"difficulty"`
	ExpectedKeywords []string `gorm:"serializer:json;type:text" json:"expectedKeywords"`
	TimeMinutes      int      `json:"timeMinutes"`
	Placeholder      bool     `json:"placeholder,omitempty"`
}

// InterviewAnswer is immutable once stored. The unique index is what makes a
// second submission for the same question fail.
type InterviewAnswer struct {
	ID               uint        `gorm:"primaryKey" json:"-"`
	SessionID        string      `gorm:"type:varchar(36);not null;uniqueIndex:idx_answers_once,priority:1" json:"-"`
	RoundID          uint        `gorm:"not null;index" json:"-"`
	RoundType        string      `gorm:"not null;uniqueIndex:idx_answers_once,priority:2" json:"roundType"`
	QuestionID       string      `gorm:"not null;uniqueIndex:idx_answers_once,priority:3" json:"questionId"`
	AnswerText       string      `gorm:"type:text" json:"answerText"`
	StartedAt        time.Time   `json:"startedAt"`
	SubmittedAt      time.Time   `json:"submittedAt"`
	TimeSpentSeconds int         `json:"timeSpentSeconds"`
	Evaluation       *Evaluation `gorm:"serializer:json;type:text" json:"evaluation"`
}

// Evaluation is the scoring payload attached to an answer.
type Evaluation struct {
	Score           int             `json:"score"`
	FeedbackText    string          `json:"feedbackText"`
	Strengths       []string        `json:"strengths"`
	Weaknesses      []string        `json:"weaknesses"`
	ImprovementTips []string        `json:"improvementTips"`
	ScoreBreakdown  *ScoreBreakdown `json:"scoreBreakdown,omitempty"`
	Placeholder     bool            `json:"placeholder,omitempty"`
}

type ScoreBreakdown struct {
	Relevance    int `json:"relevance"`
	Accuracy     int `json:"accuracy"`
	Clarity      int `json:"clarity"`
	Completeness int `json:"completeness"`
}

// AnswerFor returns the round's answer to questionID, if any.
func (r *InterviewRound) AnswerFor(questionID string) *InterviewAnswer {
	for i := range r.Answers {
		if r.Answers[i].QuestionID == questionID {
			return &r.Answers[i]
		}
	}
	return nil
}

// Question returns the round's question with the given id, if any.
func (r *InterviewRound) Question(questionID string) *InterviewQuestion {
	for i := range r.Questions {
		if r.Questions[i].QuestionID == questionID {
			return &r.Questions[i]
		}
	}
	return nil
}

// Completed reports whether every question in the round has an answer.
func (r *InterviewRound) Completed() bool {
	if len(r.Questions) == 0 {
		return false
	}
	for _, q := range r.Questions {
		if r.AnswerFor(q.QuestionID) == nil {
			return false
		}
	}
	return true
}

func (s *InterviewSession) TotalQuestions() int {
	total := 0
	for _, round := range s.Rounds {
		total += len(round.Questions)
	}
	return total
}

func (s *InterviewSession) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// InterviewCompletedEvent is published once when a session is finalized.
type InterviewCompletedEvent struct {
	SessionID            string    `json:"sessionId"`
	OwnerID              string    `json:"ownerId"`
	RoleName             string    `json:"roleName"`
	OverallScore         float64   `json:"overallScore"`
	CompletionPercentage int       `json:"completionPercentage"`
	IsHireable           bool      `json:"isHireable"`
	CompletedAt          time.Time `json:"completedAt"`
}
