package entity

type Role string

const (
	Participant Role = "participant"
	Organizer   Role = "organizer"
)

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID       int64 `gorm:"primaryKey"`
	FullName string
	Role     Role `gorm:"not null"`
	// Points only ever grows, incremented atomically on mini-game completion.
	Points int `gorm:"not null;default:0"`
}
