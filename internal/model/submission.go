package model

import "time"

type SubmissionStatus string

const (
	InProgress SubmissionStatus = "in_progress"
	Submitted  SubmissionStatus = "submitted"
	Graded     SubmissionStatus = "graded"
)

// Submission 一次学员对测评的作答
type Submission struct {
	BaseModel
	AssessmentID uint             `gorm:"index:idx_assessment_user;not null;type:bigint unsigned" json:"assessmentId"`
	UserID       uint             `gorm:"index:idx_assessment_user;not null;type:bigint unsigned" json:"userId"`
	MaxScore     float64          `gorm:"not null" json:"maxScore"`
	Score        float64          `gorm:"default:0" json:"score"`
	Status       SubmissionStatus `gorm:"size:20;default:'in_progress'" json:"status"`
	StartTime    time.Time        `gorm:"not null" json:"startTime"`
	SubmitTime   *time.Time       `json:"submitTime,omitempty"`
	IsLate       bool             `gorm:"default:false" json:"isLate"`
	Feedback     string           `gorm:"type:text" json:"feedback"`

	User    *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Answers []AnswerResponse `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// AnswerResponse SelectedOptionID与TextResponse二选一，由题型决定
type AnswerResponse struct {
	BaseModel
	SubmissionID     uint     `gorm:"uniqueIndex:idx_submission_question;not null;type:bigint unsigned" json:"submissionId"`
	QuestionID       uint     `gorm:"uniqueIndex:idx_submission_question;not null;type:bigint unsigned" json:"questionId"`
	SelectedOptionID *uint    `gorm:"type:bigint unsigned" json:"selectedOptionId,omitempty"`
	TextResponse     *string  `gorm:"type:text" json:"textResponse,omitempty"`
	PointsAwarded    *float64 `json:"pointsAwarded,omitempty"`
	Feedback         string   `gorm:"type:text" json:"feedback"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (AnswerResponse) TableName() string {
	return "answer_responses"
}
