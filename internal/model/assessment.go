package model

import "time"

type AssessmentType string

const (
	Quiz       AssessmentType = "quiz"
	Assignment AssessmentType = "assignment"
	Exam       AssessmentType = "exam"
)

func ValidAssessmentType(t AssessmentType) bool {
	switch t {
	case Quiz, Assignment, Exam:
		return true
	}
	return false
}

// swagger:model Assessment
type Assessment struct {
	BaseModel
	ModuleID        uint           `gorm:"index;not null;type:bigint unsigned" json:"moduleId"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Type            AssessmentType `gorm:"size:20;default:'quiz'" json:"type"`
	MaxScore        float64        `gorm:"not null" json:"maxScore"`
	PassingScore    *float64       `json:"passingScore,omitempty"`
	AllowedAttempts int            `gorm:"not null;default:1" json:"allowedAttempts"`
	DueDate         *time.Time     `json:"dueDate,omitempty"`
	IsPublished     bool           `gorm:"default:false" json:"isPublished"`
	Instructions    string         `gorm:"type:text" json:"instructions"`

	Questions []Question `gorm:"foreignKey:AssessmentID" json:"questions,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
	Essay          QuestionType = "essay"
)

func ValidQuestionType(t QuestionType) bool {
	switch t {
	case MultipleChoice, TrueFalse, ShortAnswer, Essay:
		return true
	}
	return false
}

// IsChoice 选择型题目由系统自动判分
func (t QuestionType) IsChoice() bool {
	return t == MultipleChoice || t == TrueFalse
}

type Question struct {
	BaseModel
	AssessmentID uint         `gorm:"index;not null;type:bigint unsigned" json:"assessmentId"`
	QuestionText string       `gorm:"type:text;not null" json:"questionText"`
	QuestionType QuestionType `gorm:"size:20;not null" json:"questionType"`
	Points       float64      `gorm:"not null" json:"points"`
	OrderIndex   int          `gorm:"default:0" json:"orderIndex"`

	Options []QuestionOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

type QuestionOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null;type:bigint unsigned" json:"questionId"`
	OptionText string `gorm:"type:text;not null" json:"optionText"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	OrderIndex int    `gorm:"default:0" json:"orderIndex"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}
