// Package wxr parses WordPress eXtended RSS exports into export items.
// Pure function: reader in, domain structs out. No store dependencies.
package wxr

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// ErrNotWXR is returned when the document has no <rss> root.
var ErrNotWXR = errors.New("wxr: not an RSS document")

// Stats holds parser statistics for logging.
type Stats struct {
	Items      int
	Posts      int
	Published  int
	Attachment int
}

// rawItem mirrors the <item> fields the pipeline reads. wp:* fields are
// matched by local name so 1.0, 1.1 and 1.2 exports all decode.
type rawItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	PubDate     string        `xml:"pubDate"`
	Content     string        `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	PostID      string        `xml:"post_id"`
	PostDate    string        `xml:"post_date"`
	PostDateGMT string        `xml:"post_date_gmt"`
	PostName    string        `xml:"post_name"`
	Status      string        `xml:"status"`
	PostType    string        `xml:"post_type"`
	Categories  []rawCategory `xml:"category"`
}

type rawCategory struct {
	Domain   string `xml:"domain,attr"`
	Nicename string `xml:"nicename,attr"`
	Name     string `xml:",chardata"`
}

// ParseFile opens path and parses it.
func ParseFile(path string) ([]domain.ExportItem, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("wxr: open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse streams <item> elements out of a WXR document. Any XML syntax
// error aborts the parse.
func Parse(r io.Reader) ([]domain.ExportItem, Stats, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	// Exports routinely carry HTML entities such as &nbsp; outside CDATA.
	dec.Entity = xml.HTMLEntity

	var (
		items  []domain.ExportItem
		stats  Stats
		sawRSS bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("wxr: decode: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "rss":
			sawRSS = true
		case "item":
			var raw rawItem
			if err := dec.DecodeElement(&raw, &se); err != nil {
				return nil, stats, fmt.Errorf("wxr: decode item %d: %w", stats.Items+1, err)
			}
			it := raw.toDomain()
			items = append(items, it)

			stats.Items++
			switch it.PostType {
			case "post":
				stats.Posts++
				if it.IsPublishedPost() {
					stats.Published++
				}
			case "attachment":
				stats.Attachment++
			}
		}
	}

	if !sawRSS {
		return nil, stats, ErrNotWXR
	}
	return items, stats, nil
}

func (r rawItem) toDomain() domain.ExportItem {
	cats := make([]domain.ExportCategory, 0, len(r.Categories))
	for _, c := range r.Categories {
		cats = append(cats, domain.ExportCategory{Domain: c.Domain, Nicename: c.Nicename, Name: c.Name})
	}
	return domain.ExportItem{
		PostID:         r.PostID,
		Title:          r.Title,
		Link:           r.Link,
		PubDate:        r.PubDate,
		Content:        r.Content,
		PostType:       r.PostType,
		Status:         r.Status,
		PublishDate:    r.PostDate,
		PublishDateGMT: r.PostDateGMT,
		PostName:       r.PostName,
		Categories:     cats,
	}
}
