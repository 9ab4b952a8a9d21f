package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnouncementDate(t *testing.T) {
	now := time.Date(2025, 5, 17, 19, 30, 0, 0, time.UTC)

	cases := []struct {
		text string
		want time.Time
	}{
		{"17 мая", time.Date(2025, 5, 17, 0, 0, 0, 0, time.UTC)},
		{"3 декабря 2025", time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC)},
		{"пт, 23 мая", time.Date(2025, 5, 23, 0, 0, 0, 0, time.UTC)},
		{"сегодня, 19:00", time.Date(2025, 5, 17, 0, 0, 0, 0, time.UTC)},
		{"завтра", time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC)},
		{"1 января 2026", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseAnnouncementDate(c.text, now)
		require.NoError(t, err, "text: %q", c.text)
		assert.Equal(t, c.want, got, "text: %q", c.text)
	}
}

func TestParseAnnouncementDateRejectsGarbage(t *testing.T) {
	now := time.Date(2025, 5, 17, 19, 30, 0, 0, time.UTC)
	for _, text := range []string{"", "скоро", "мая", "17"} {
		_, err := ParseAnnouncementDate(text, now)
		assert.Error(t, err, "text: %q", text)
	}
}

func TestEventIDFromHref(t *testing.T) {
	assert.Equal(t, "994006783", eventIDFromHref("https://extra.hse.ru/announcements/994006783.html"))
	assert.Equal(t, "994006783", eventIDFromHref("/announcements/994006783.html"))
}
