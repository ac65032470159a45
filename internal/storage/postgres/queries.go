package postgres

import "aytoleon_scraper/internal/domain"

var eventTables = map[domain.ContentType]string{
	domain.ContentEvents: "events",
	domain.ContentAgenda: "agenda_events",
}

const (
	insertEvent = `
		INSERT INTO %s (event_date, event_time, title, location)
		VALUES ($1, $2, $3, $4)`

	selectEvents = `
		SELECT id, event_date, event_time, title, location, created_at
		FROM %s
		ORDER BY id`

	insertNotice = `
		INSERT INTO notices (title, subtitle, link, content, category)
		VALUES ($1, $2, $3, $4, $5)`

	selectNotices = `
		SELECT id, title, subtitle, link, content, category, created_at
		FROM notices
		ORDER BY id`

	insertNews = `
		INSERT INTO news (title, raw_date, content, link)
		VALUES ($1, $2, $3, $4)`

	selectNews = `
		SELECT id, title, raw_date, content, link, created_at
		FROM news
		ORDER BY id`
)
