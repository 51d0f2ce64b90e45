package news

import (
	"fmt"
	"net/url"
	"time"
)

// Article is a single candidate item from a news source. Field tags match the
// newsdata.io response shape. An article has no identity beyond its link: two
// articles with the same link are the same article.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	ImageURL    string `json:"image_url"`
	SourceID    string `json:"source_id"`
	PubDate     string `json:"pubDate"`
}

// Row is one ledger record in the fixed column layout:
// status, title, summary, image, source, link, favicon, published, state.
// Status stays empty, reserved for manual use in the sheet. State is always
// StatePublished. A Row is built once and never mutated.
type Row struct {
	Status     string
	Title      string
	Summary    string
	ImageURL   string
	SourceID   string
	Link       string
	FaviconURL string
	Published  string
	State      string
}

// StatePublished is the state label written to every appended row.
const StatePublished = "Published"

const faviconTemplate = "https://www.google.com/s2/favicons?domain=%s&sz=64"

// Clock supplies the current time so the published fallback stays testable.
type Clock func() time.Time

// BuildRow assembles the ledger row for an accepted article and its summary.
// Pure, no I/O. The favicon URL is derived from the link's hostname; when the
// article carries no published timestamp the row gets the current UTC time in
// RFC 3339 form.
func BuildRow(a Article, summary string, now Clock) Row {
	published := a.PubDate
	if published == "" {
		published = now().UTC().Format(time.RFC3339)
	}
	return Row{
		Title:      a.Title,
		Summary:    summary,
		ImageURL:   a.ImageURL,
		SourceID:   a.SourceID,
		Link:       a.Link,
		FaviconURL: fmt.Sprintf(faviconTemplate, domainOf(a.Link)),
		Published:  published,
		State:      StatePublished,
	}
}

// Values returns the row in ledger column order for a sheet append call.
func (r Row) Values() []interface{} {
	return []interface{}{
		r.Status,
		r.Title,
		r.Summary,
		r.ImageURL,
		r.SourceID,
		r.Link,
		r.FaviconURL,
		r.Published,
		r.State,
	}
}

func domainOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Host
}
