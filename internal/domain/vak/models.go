package vak

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LearningStyle is the current style classification for one user.
type LearningStyle struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	LearningStyle    string    `gorm:"type:text;not null" json:"learning_style"`
	VisualScore      int       `gorm:"not null;default:0" json:"visual_score"`
	AuditoryScore    int       `gorm:"not null;default:0" json:"auditory_score"`
	KinestheticScore int       `gorm:"not null;default:0" json:"kinesthetic_score"`
	// Source is "test" or "select".
	Source    string    `gorm:"type:text;not null;default:'test'" json:"source"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LearningStyle) TableName() string { return "learning_style" }

type ChatHistory struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"chat_id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Question          string         `gorm:"type:text;not null" json:"question"`
	Response          string         `gorm:"type:text;not null" json:"response"`
	ResponseType      string         `gorm:"type:text;not null" json:"response_type"`
	LearningStyleUsed string         `gorm:"type:text;not null" json:"learning_style_used"`
	Assets            datatypes.JSON `gorm:"type:jsonb" json:"assets,omitempty"`
	Practice          datatypes.JSON `gorm:"type:jsonb" json:"practice,omitempty"`
	// Rating is +1 or -1 once the learner leaves feedback.
	Rating          *int      `json:"rating,omitempty"`
	FeedbackComment string    `gorm:"type:text;not null;default:''" json:"feedback_comment,omitempty"`
	Timestamp       time.Time `gorm:"not null;index" json:"timestamp"`
}

func (ChatHistory) TableName() string { return "chat_history" }

type PracticeActivity struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"activity_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	TaskName      string    `gorm:"type:text;not null" json:"task_name"`
	Status        string    `gorm:"type:text;not null;default:'started'" json:"status"`
	CodeSubmitted string    `gorm:"type:text" json:"code_submitted,omitempty"`
	// TimeSpent is in seconds.
	TimeSpent int       `gorm:"not null;default:0" json:"time_spent"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (PracticeActivity) TableName() string { return "practice_activity" }

type Download struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"download_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ContentType string    `gorm:"type:text;not null" json:"content_type"`
	FilePath    string    `gorm:"type:text;not null;uniqueIndex" json:"-"`
	Topic       string    `gorm:"type:text;not null;default:''" json:"topic,omitempty"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
}

func (Download) TableName() string { return "downloads" }
