package postgres

import (
	"context"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
	"gorm.io/gorm"
)

type EventGameStorage struct {
	db *gorm.DB
}

func NewEventGameStorage(db *gorm.DB) *EventGameStorage {
	return &EventGameStorage{
		db: db,
	}
}

// Create is a function that creates a new event game in the database.
func (s *EventGameStorage) Create(ctx context.Context, game *entity.EventGame) (*entity.EventGame, error) {
	err := s.db.WithContext(ctx).Create(&game).Error
	return game, err
}

// Get is a function that gets an event game from the database by event id.
func (s *EventGameStorage) Get(ctx context.Context, eventID string) (*entity.EventGame, error) {
	var game entity.EventGame
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).First(&game).Error
	return &game, err
}

func (s *EventGameStorage) GetMany(ctx context.Context, eventIDs []string) ([]entity.EventGame, error) {
	var games []entity.EventGame
	err := s.db.WithContext(ctx).Where("event_id IN ?", eventIDs).Find(&games).Error
	return games, err
}

// GetAll is a function that gets all event games from the database.
func (s *EventGameStorage) GetAll(ctx context.Context) ([]entity.EventGame, error) {
	var games []entity.EventGame
	err := s.db.WithContext(ctx).Find(&games).Error
	return games, err
}

// ExistingIDs returns the subset of eventIDs that already have a game.
func (s *EventGameStorage) ExistingIDs(ctx context.Context, eventIDs []string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&entity.EventGame{}).
		Where("event_id IN ?", eventIDs).
		Pluck("event_id", &ids).Error
	return ids, err
}
