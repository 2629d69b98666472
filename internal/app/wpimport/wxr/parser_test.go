package wxr

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleWXR = `<?xml version="1.0" encoding="UTF-8" ?>
<rss version="2.0"
	xmlns:excerpt="http://wordpress.org/export/1.2/excerpt/"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:dc="http://purl.org/dc/elements/1.1/"
	xmlns:wp="http://wordpress.org/export/1.2/">
<channel>
	<title>Bihaan Bhojpuri</title>
	<item>
		<title>मोर गाँव</title>
		<link>https://example.org/mor-gaon/</link>
		<pubDate>Mon, 01 May 2023 10:00:00 +0000</pubDate>
		<content:encoded><![CDATA[<!-- wp:paragraph --><p>गाँव के माटी&nbsp;महके।</p><!-- /wp:paragraph -->]]></content:encoded>
		<excerpt:encoded><![CDATA[excerpt text]]></excerpt:encoded>
		<wp:post_id>11</wp:post_id>
		<wp:post_date><![CDATA[2023-05-01 15:30:00]]></wp:post_date>
		<wp:post_date_gmt><![CDATA[2023-05-01 10:00:00]]></wp:post_date_gmt>
		<wp:post_name><![CDATA[mor-gaon]]></wp:post_name>
		<wp:status><![CDATA[publish]]></wp:status>
		<wp:post_type><![CDATA[post]]></wp:post_type>
		<category domain="category" nicename="kavita"><![CDATA[कविता]]></category>
		<category domain="post_tag" nicename="gaon"><![CDATA[गाँव]]></category>
		<wp:postmeta>
			<wp:meta_key><![CDATA[_edit_last]]></wp:meta_key>
			<wp:meta_value><![CDATA[1]]></wp:meta_value>
		</wp:postmeta>
	</item>
	<item>
		<title>Draft &amp; notes</title>
		<content:encoded><![CDATA[ड्राफ्ट]]></content:encoded>
		<wp:status>draft</wp:status>
		<wp:post_type>post</wp:post_type>
	</item>
	<item>
		<title>cover.jpg</title>
		<content:encoded></content:encoded>
		<wp:status>inherit</wp:status>
		<wp:post_type>attachment</wp:post_type>
	</item>
</channel>
</rss>`

func TestParse_Items(t *testing.T) {
	items, stats, err := Parse(strings.NewReader(sampleWXR))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if stats.Items != 3 || stats.Posts != 2 || stats.Published != 1 || stats.Attachment != 1 {
		t.Errorf("stats = %+v", stats)
	}

	first := items[0]
	if first.Title != "मोर गाँव" {
		t.Errorf("Title = %q", first.Title)
	}
	if !strings.HasPrefix(first.Content, "<!-- wp:paragraph --><p>गाँव") {
		t.Errorf("Content = %q", first.Content)
	}
	if strings.Contains(first.Content, "excerpt") {
		t.Error("excerpt:encoded leaked into content")
	}
	if first.PostType != "post" || first.Status != "publish" {
		t.Errorf("PostType/Status = %q/%q", first.PostType, first.Status)
	}
	if first.PublishDate != "2023-05-01 15:30:00" || first.PublishDateGMT != "2023-05-01 10:00:00" {
		t.Errorf("dates = %q / %q", first.PublishDate, first.PublishDateGMT)
	}
	if first.PostName != "mor-gaon" || first.PostID != "11" {
		t.Errorf("PostName/PostID = %q/%q", first.PostName, first.PostID)
	}
	if first.PubDate != "Mon, 01 May 2023 10:00:00 +0000" {
		t.Errorf("PubDate = %q", first.PubDate)
	}
	if len(first.Categories) != 2 {
		t.Fatalf("len(Categories) = %d, want 2", len(first.Categories))
	}
	if c := first.Categories[0]; c.Domain != "category" || c.Nicename != "kavita" || c.Name != "कविता" {
		t.Errorf("Categories[0] = %+v", c)
	}

	if items[1].Title != "Draft & notes" {
		t.Errorf("entity not decoded in title: %q", items[1].Title)
	}
	if items[1].IsPublishedPost() {
		t.Error("draft should not count as published")
	}
}

func TestParse_HTMLEntityOutsideCDATA(t *testing.T) {
	doc := `<rss><channel><item><title>राम&nbsp;श्याम</title><wp:post_type>post</wp:post_type></item></channel></rss>`

	items, _, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Title != "राम\u00a0श्याम" {
		t.Errorf("Title = %q", items[0].Title)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unclosed item", doc: `<rss><channel><item><title>x</title></channel></rss>`},
		{name: "truncated", doc: `<rss><channel><item><title>x`},
		{name: "bad entity", doc: `<rss><channel><item><title>&bogus;</title></item></channel></rss>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Parse(strings.NewReader(tt.doc)); err == nil {
				t.Fatal("expected error for malformed XML")
			}
		})
	}
}

func TestParse_NotRSS(t *testing.T) {
	_, _, err := Parse(strings.NewReader(`<feed><entry/></feed>`))
	if !errors.Is(err, ErrNotWXR) {
		t.Fatalf("err = %v, want ErrNotWXR", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xml")
	if err := os.WriteFile(path, []byte(sampleWXR), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	items, _, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("len(items) = %d, want 3", len(items))
	}

	if _, _, err := ParseFile(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Error("expected error for missing file")
	}
}
