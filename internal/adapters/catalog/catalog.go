// Package catalog scrapes the EXTRA.HSE announcements site: the listing page
// for rough events and the per-event page plus its .ics feed for full detail.
// Fetch failures surface as errorz.ErrSourceUnavailable and are never retried
// here; the caller decides whether to ask again.
package catalog

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	ics "github.com/arran4/golang-ical"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/utils/location"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/pkg/logger/types"
)

const cacheTTL = 5 * time.Minute

type roughEventsCache interface {
	Get() ([]entity.RoughEvent, error)
	Set(events []entity.RoughEvent, expiration time.Duration)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      roughEventsCache
	logger     *types.Logger
}

func NewClient(baseURL string, cache roughEventsCache, logger *types.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		cache:      cache,
		logger:     logger,
	}
}

func (c *Client) get(url string) (*goquery.Document, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", errorz.ErrSourceUnavailable, url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.ErrSourceUnavailable, err)
	}
	return doc, nil
}

// RoughEvents scrapes the announcements listing. The result is cached for a
// few minutes so page turns do not hammer the site.
func (c *Client) RoughEvents() ([]entity.RoughEvent, error) {
	if cached, err := c.cache.Get(); err == nil && len(cached) > 0 {
		return cached, nil
	}

	doc, err := c.get(c.baseURL + "/news/announcements/")
	if err != nil {
		return nil, err
	}

	var events []entity.RoughEvent
	doc.Find(".b-events").Each(func(_ int, block *goquery.Selection) {
		link := block.Find(".b-events__body_title a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		event := entity.RoughEvent{
			ID:    eventIDFromHref(href),
			Title: strings.TrimSpace(link.Text()),
		}
		if event.ID == "" || event.Title == "" {
			return
		}

		dateText := strings.TrimSpace(block.Find(".b-events__title .title").Text())
		date, errParse := ParseAnnouncementDate(dateText, time.Now().In(location.Location()))
		if errParse != nil {
			c.logger.Debugf("skipping unparsable announcement date %q (event_id=%s)", dateText, event.ID)
			return
		}
		event.Date = date

		events = append(events, event)
	})

	c.cache.Set(events, cacheTTL)
	return events, nil
}

// Event fetches full detail for one announcement: the event page plus the
// start/end timestamps from the .ics feed.
func (c *Client) Event(eventID string) (entity.CatalogEvent, error) {
	doc, err := c.get(fmt.Sprintf("%s/announcements/%s.html", c.baseURL, eventID))
	if err != nil {
		return entity.CatalogEvent{}, err
	}

	post := doc.Find(".post").First()
	event := entity.CatalogEvent{
		ID:     eventID,
		Title:  strings.TrimSpace(post.Find(".post_single").First().Text()),
		Rating: strings.TrimSpace(post.Find(".rating-round").First().Text()),
		Description: strings.TrimSpace(strings.ReplaceAll(
			post.Find(".post__text").First().Text(), "Добавить в календарь", "")),
		Address: strings.TrimSpace(
			post.Find(".articleMetaItem").Eq(1).Find(".articleMetaItem__content").Text()),
	}

	event.StartTime, event.EndTime, err = c.eventTimes(eventID)
	if err != nil {
		return entity.CatalogEvent{}, err
	}

	return event, nil
}

func (c *Client) eventTimes(eventID string) (start, end time.Time, err error) {
	resp, err := c.httpClient.Get(fmt.Sprintf("%s/events/ics/%s.ics", c.baseURL, eventID))
	if err != nil {
		return start, end, fmt.Errorf("%w: %v", errorz.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	cal, err := ics.ParseCalendar(resp.Body)
	if err != nil {
		return start, end, fmt.Errorf("%w: %v", errorz.ErrSourceUnavailable, err)
	}

	calEvents := cal.Events()
	if len(calEvents) == 0 {
		return start, end, fmt.Errorf("%w: ics feed for %s has no events", errorz.ErrSourceUnavailable, eventID)
	}

	start, err = calEvents[0].GetStartAt()
	if err != nil {
		return start, end, fmt.Errorf("%w: %v", errorz.ErrSourceUnavailable, err)
	}
	end, err = calEvents[0].GetEndAt()
	if err != nil {
		return start, end, fmt.Errorf("%w: %v", errorz.ErrSourceUnavailable, err)
	}

	return start.In(location.Location()), end.In(location.Location()), nil
}

func eventIDFromHref(href string) string {
	parts := strings.Split(strings.TrimSuffix(href, "/"), "/")
	last := parts[len(parts)-1]
	return strings.TrimSuffix(last, ".html")
}

var months = map[string]time.Month{
	"января":   time.January,
	"февраля":  time.February,
	"марта":    time.March,
	"апреля":   time.April,
	"мая":      time.May,
	"июня":     time.June,
	"июля":     time.July,
	"августа":  time.August,
	"сентября": time.September,
	"октября":  time.October,
	"ноября":   time.November,
	"декабря":  time.December,
}

// ParseAnnouncementDate parses listing dates like "17 мая", "17 мая 2025" or
// "сегодня, 19:00". Weekday prefixes ("пт, 17 мая") are skipped. The result
// is truncated to midnight in the event time zone, matching how the listing
// announces days rather than times.
func ParseAnnouncementDate(text string, now time.Time) (time.Time, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	midnight := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	var day int
	var month time.Month
	year := now.Year()
	found := false

	for _, part := range strings.FieldsFunc(text, func(r rune) bool { return r == ' ' || r == ',' }) {
		switch {
		case part == "сегодня":
			return midnight(now), nil
		case part == "завтра":
			return midnight(now.AddDate(0, 0, 1)), nil
		}

		if n, err := strconv.Atoi(part); err == nil {
			if n >= 1000 {
				year = n
			} else {
				day = n
			}
			continue
		}
		if m, ok := months[part]; ok {
			month = m
			found = true
		}
	}

	if !found || day == 0 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", text)
	}

	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), nil
}
