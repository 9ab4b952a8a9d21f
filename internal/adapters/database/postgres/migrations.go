package postgres

import "github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.User{},
	&entity.EventGame{},
	&entity.Enrollment{},
}
