package aytoleon

import (
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aytoleon_scraper/internal/domain"
	"aytoleon_scraper/internal/testutil"
)

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()

	f, err := os.Open("../../../testdata/fixtures/" + name)
	require.NoError(t, err)
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestSplitSubtitle(t *testing.T) {
	tests := []struct {
		name     string
		subtitle *string
		time     *string
		location *string
	}{
		{"nil subtitle", nil, nil, nil},
		{"time and location", testutil.Ptr("20:30 horas Auditorio"), testutil.Ptr("20:30"), testutil.Ptr("Auditorio")},
		{"single digit hour is padded", testutil.Ptr("9:00 Biblioteca"), testutil.Ptr("09:00"), testutil.Ptr("Biblioteca")},
		{"horas in capitals", testutil.Ptr("18:00 HORAS Plaza Mayor"), testutil.Ptr("18:00"), testutil.Ptr("Plaza Mayor")},
		{"newlines and runs of spaces", testutil.Ptr("10:15 horas\n   Palacio   de\nExposiciones"), testutil.Ptr("10:15"), testutil.Ptr("Palacio de Exposiciones")},
		{"location only", testutil.Ptr("Plaza de San Marcelo"), nil, testutil.Ptr("Plaza de San Marcelo")},
		{"time not at start", testutil.Ptr("Auditorio, 20:30"), nil, testutil.Ptr("Auditorio, 20:30")},
		{"time only", testutil.Ptr("20:30"), testutil.Ptr("20:30"), nil},
		{"time and horas only", testutil.Ptr("20:30 horas"), testutil.Ptr("20:30"), nil},
		{"leading horas without time", testutil.Ptr("horas Plaza"), nil, testutil.Ptr("Plaza")},
		{"no-break space before horas", testutil.Ptr("20:30\u00a0horas\u00a0Auditorio"), testutil.Ptr("20:30"), testutil.Ptr("Auditorio")},
		{"no-break spaces collapse", testutil.Ptr("20:30 horas\u00a0\u00a0Plaza\u00a0 Mayor"), testutil.Ptr("20:30"), testutil.Ptr("Plaza Mayor")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTime, gotLocation := SplitSubtitle(tt.subtitle)
			assert.Equal(t, tt.time, gotTime)
			assert.Equal(t, tt.location, gotLocation)
		})
	}
}

func TestSplitSubtitle_NoBreakSpaceMatchesPlainSpace(t *testing.T) {
	plainTime, plainLocation := SplitSubtitle(testutil.Ptr("18:00 horas Plaza Mayor"))
	nbspTime, nbspLocation := SplitSubtitle(testutil.Ptr("18:00\u00a0horas\u00a0Plaza\u00a0Mayor"))

	assert.Equal(t, plainTime, nbspTime)
	assert.Equal(t, plainLocation, nbspLocation)
}

func TestSplitSubtitle_NoLeadingTimeNeverSetsTime(t *testing.T) {
	for _, s := range []string{"", "Plaza", "a las 20:30", "20h30 Plaza", "2030 Plaza", ":30 Plaza", "horas"} {
		eventTime, _ := SplitSubtitle(testutil.Ptr(s))
		assert.Nil(t, eventTime, "subtitle %q", s)
	}
}

func TestParseListing_Events(t *testing.T) {
	doc := loadFixture(t, "events.html")
	base := mustURL(t, "https://www.aytoleon.es/es/actualidad/eventos/Paginas/default.aspx")

	items := ParseListing(doc, base)
	require.Len(t, items, 5)

	assert.Equal(t, "Concierto de primavera", *items[0].Title)
	assert.Contains(t, *items[0].RawDateText, "MAR")
	assert.Nil(t, items[0].DetailLink)

	assert.Nil(t, items[2].Subtitle)

	empty := items[4]
	assert.Nil(t, empty.RawDateText)
	assert.Nil(t, empty.Title)
	assert.Nil(t, empty.Subtitle)
	assert.Nil(t, empty.DetailLink)
}

func TestEventsFromItems(t *testing.T) {
	doc := loadFixture(t, "events.html")
	base := mustURL(t, "https://www.aytoleon.es/es/actualidad/eventos/Paginas/default.aspx")
	now := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	events := EventsFromItems(ParseListing(doc, base), now)
	require.Len(t, events, 5)

	assert.Equal(t, domain.EventRecord{
		EventDate: testutil.Ptr("5 de marzo de 2025"),
		EventTime: testutil.Ptr("20:30"),
		Title:     testutil.Ptr("Concierto de primavera"),
		Location:  testutil.Ptr("Auditorio Ciudad de León"),
	}, events[0])

	assert.Equal(t, domain.EventRecord{
		EventDate: testutil.Ptr("12 de diciembre de 2025"),
		Title:     testutil.Ptr("Mercado navideño"),
		Location:  testutil.Ptr("Plaza Mayor"),
	}, events[1])

	assert.Equal(t, domain.EventRecord{
		Title: testutil.Ptr("Exposición permanente"),
	}, events[2])

	assert.Equal(t, domain.EventRecord{
		EventDate: testutil.Ptr("7 de abril de 2025"),
		EventTime: testutil.Ptr("09:00"),
		Title:     testutil.Ptr("Charla sobre el Camino"),
		Location:  testutil.Ptr("Biblioteca Pública"),
	}, events[3])

	assert.Equal(t, domain.EventRecord{}, events[4])
}

func TestNoticesFromItems(t *testing.T) {
	doc := loadFixture(t, "avisos.html")
	base := mustURL(t, "https://www.aytoleon.es/es/actualidad/avisos/Paginas/default.aspx")

	notices := NoticesFromItems(ParseListing(doc, base))
	require.Len(t, notices, 3)

	assert.Equal(t, "Corte de tráfico en Ordoño II", *notices[0].Title)
	assert.Equal(t, "Por obras de pavimentación", *notices[0].Subtitle)
	assert.Equal(t, "https://www.aytoleon.es/es/actualidad/avisos/Paginas/corte-trafico.aspx", *notices[0].Link)
	assert.Equal(t, domain.DefaultCategory, notices[0].Category)
	assert.Nil(t, notices[0].Content)

	assert.Equal(t, "https://www.aytoleon.es/es/actualidad/avisos/Paginas/suministro-agua.aspx", *notices[1].Link)
	assert.Nil(t, notices[1].Subtitle)

	assert.Nil(t, notices[2].Link)
}

func TestParseNews(t *testing.T) {
	doc := loadFixture(t, "noticias.html")
	base := mustURL(t, "https://www.aytoleon.es/es/actualidad/noticias/Paginas/default.aspx")

	news := ParseNews(doc, base)
	require.Len(t, news, 3)

	assert.Equal(t, domain.NewsRecord{
		Title:   testutil.Ptr("Nuevo parque en La Chantría"),
		RawDate: testutil.Ptr("14/03/2025"),
		Content: testutil.Ptr("El Ayuntamiento inaugura un parque de 12.000 metros cuadrados."),
		Link:    testutil.Ptr("https://www.aytoleon.es/es/actualidad/noticias/Paginas/nuevo-parque.aspx"),
	}, news[0])

	assert.Equal(t, "13/03/2025", *news[1].RawDate)
	assert.Nil(t, news[1].Content)
	assert.Equal(t, "https://www.aytoleon.es/es/actualidad/noticias/Paginas/presupuestos.aspx", *news[1].Link)

	assert.Nil(t, news[2].Link)
	assert.Equal(t, "Texto", *news[2].Content)
}

func TestExtractContent(t *testing.T) {
	doc := loadFixture(t, "aviso_detail.html")

	content, err := ExtractContent(doc)
	require.NoError(t, err)
	require.NotNil(t, content)

	assert.Contains(t, *content, "**desde las 8:00**")
	assert.Contains(t, *content, "Desvío por Avenida de Roma")
	assert.NotContains(t, *content, "Inicio | Actualidad")
}

func TestExtractContent_NoContainer(t *testing.T) {
	doc := loadFixture(t, "events.html")

	content, err := ExtractContent(doc)
	require.NoError(t, err)
	assert.Nil(t, content)
}
