package entity

import (
	"time"

	"github.com/lib/pq"
)

// Question is a single quiz question. Options[0] is the correct answer;
// the display order is shuffled at presentation time.
type Question struct {
	Prompt  string    `json:"prompt"`
	Options [3]string `json:"options"`
}

// EventGame is the game route authored for one catalog event. Checkpoints and
// Questions are immutable once the game is created.
type EventGame struct {
	EventID     string         `gorm:"primaryKey"`
	Title       string         `gorm:"not null"`
	Checkpoints pq.StringArray `gorm:"type:text[]"`
	Questions   []Question     `gorm:"serializer:json"`
	StartTime   time.Time      `gorm:"not null"`
	EndTime     time.Time      `gorm:"not null"`
}
