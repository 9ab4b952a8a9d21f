package entity

// Enrollment links a user to an event game. Every flag is monotonic: it goes
// false -> true exactly once and is never reset. The notification scheduler
// and the progression engine write disjoint columns of the same row, so all
// updates must be column-scoped.
type Enrollment struct {
	UserID  int64  `gorm:"primaryKey"`
	EventID string `gorm:"primaryKey"`

	PreStartNotified bool `gorm:"not null;default:false"`
	StartNotified    bool `gorm:"not null;default:false"`
	EndNotified      bool `gorm:"not null;default:false"`

	CheckpointsDone bool `gorm:"not null;default:false"`
	QuestionsDone   bool `gorm:"not null;default:false"`
}
