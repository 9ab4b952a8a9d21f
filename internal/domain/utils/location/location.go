package location

import (
	"log"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once     sync.Once
	location *time.Location
)

// Location returns the time zone all event times are stored and compared in.
func Location() *time.Location {
	once.Do(func() {
		tz := viper.GetString("settings.timezone")
		if tz == "" {
			tz = "Europe/Moscow"
		}
		var err error
		location, err = time.LoadLocation(tz)
		if err != nil {
			log.Fatalf("error while load time location: %v", err)
		}
	})
	return location
}
