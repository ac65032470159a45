package aytoleon

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"aytoleon_scraper/internal/dates"
	"aytoleon_scraper/internal/domain"
)

var (
	leadingTime  = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)
	leadingHoras = regexp.MustCompile(`(?i)^[\s\p{Zs}]*horas[\s\p{Zs}]*`)
	// \s alone misses the no-break spaces that &nbsp; decodes to
	whitespace = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// ParseListing reads every listing row of doc. Links are resolved against base.
func ParseListing(doc *goquery.Document, base *url.URL) []domain.RawListingItem {
	items := make([]domain.RawListingItem, 0)

	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		items = append(items, domain.RawListingItem{
			RawDateText: nodeText(row.Find(dateSelector)),
			Title:       nodeText(row.Find(titleSelector)),
			Subtitle:    nodeText(row.Find(subtitleSelector)),
			DetailLink:  rowLink(row, base),
		})
	})

	return items
}

// SplitSubtitle separates a leading "H:MM" clock time from the location text
// that follows it. Without a leading time the whole subtitle is the location.
func SplitSubtitle(subtitle *string) (eventTime, location *string) {
	if subtitle == nil {
		return nil, nil
	}

	rest := strings.TrimSpace(*subtitle)
	if m := leadingTime.FindStringSubmatch(rest); m != nil {
		hh := m[1]
		if len(hh) == 1 {
			hh = "0" + hh
		}
		t := hh + ":" + m[2]
		eventTime = &t
		rest = rest[len(m[0]):]
	}

	rest = leadingHoras.ReplaceAllString(rest, "")
	rest = strings.TrimSpace(whitespace.ReplaceAllString(rest, " "))
	if rest != "" {
		location = &rest
	}

	return eventTime, location
}

// EventsFromItems normalizes listing rows into event records. Dates are
// stamped with the year of now.
func EventsFromItems(items []domain.RawListingItem, now time.Time) []domain.EventRecord {
	events := make([]domain.EventRecord, 0, len(items))

	for _, item := range items {
		eventTime, location := SplitSubtitle(item.Subtitle)

		var eventDate *string
		if item.RawDateText != nil {
			if d, ok := dates.Normalize(*item.RawDateText, now); ok {
				eventDate = &d
			}
		}

		events = append(events, domain.EventRecord{
			EventDate: eventDate,
			EventTime: eventTime,
			Title:     item.Title,
			Location:  location,
		})
	}

	return events
}

// NoticesFromItems maps listing rows to notices without content. Content and
// category are filled in later.
func NoticesFromItems(items []domain.RawListingItem) []domain.NoticeRecord {
	notices := make([]domain.NoticeRecord, 0, len(items))

	for _, item := range items {
		notices = append(notices, domain.NoticeRecord{
			Title:    item.Title,
			Subtitle: item.Subtitle,
			Link:     item.DetailLink,
			Category: domain.DefaultCategory,
		})
	}

	return notices
}

// ParseNews reads the news listing. The first subtitle node holds the date
// as printed and the last one the teaser text.
func ParseNews(doc *goquery.Document, base *url.URL) []domain.NewsRecord {
	news := make([]domain.NewsRecord, 0)

	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		subtitles := row.Find(subtitleSelector)

		var content *string
		if subtitles.Length() > 1 {
			content = nodeText(subtitles.Last())
		}

		news = append(news, domain.NewsRecord{
			Title:   nodeText(row.Find(titleSelector)),
			RawDate: nodeText(subtitles.First()),
			Content: content,
			Link:    rowLink(row, base),
		})
	})

	return news
}

// ExtractContent converts the body of a detail page to markdown. It returns
// nil when no known content container has text.
func ExtractContent(doc *goquery.Document) (*string, error) {
	for _, selector := range contentSelectors {
		node := doc.Find(selector).First()
		if node.Length() == 0 || strings.TrimSpace(node.Text()) == "" {
			continue
		}

		html, err := node.Html()
		if err != nil {
			return nil, err
		}

		markdown, err := htmltomarkdown.ConvertString(html)
		if err != nil {
			return nil, err
		}

		markdown = strings.TrimSpace(markdown)
		if markdown == "" {
			return nil, nil
		}
		return &markdown, nil
	}

	return nil, nil
}

func nodeText(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return nil
	}
	return &text
}

// rowLink resolves the anchor wrapping the row, or failing that the first
// anchor inside it.
func rowLink(row *goquery.Selection, base *url.URL) *string {
	href, ok := row.Closest("a").Attr("href")
	if !ok {
		href, ok = row.Find("a[href]").First().Attr("href")
	}
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return nil
	}

	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}

	link := base.ResolveReference(ref).String()
	return &link
}
