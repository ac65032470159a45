package aytoleon

import "aytoleon_scraper/internal/domain"

// Markup conventions of the listing pages.
const (
	rowSelector      = ".row.listitem-row"
	dateSelector     = ".shortpoint-listitem-date"
	titleSelector    = ".listitem-title"
	subtitleSelector = ".listitem-subtitle"
)

// Detail page containers, tried in order.
var contentSelectors = []string{
	".ms-rtestate-field",
	"#contentBox",
	"article",
	"main",
}

// DefaultPaths are the listing pages relative to the site root.
var DefaultPaths = map[domain.ContentType]string{
	domain.ContentEvents:  "/es/actualidad/eventos/Paginas/default.aspx",
	domain.ContentAgenda:  "/es/actualidad/agenda/Paginas/default.aspx",
	domain.ContentNotices: "/es/actualidad/avisos/Paginas/default.aspx",
	domain.ContentNews:    "/es/actualidad/noticias/Paginas/default.aspx",
}
