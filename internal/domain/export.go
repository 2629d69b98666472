package domain

import "strings"

// ExportCategory is a <category> element attached to an export item.
type ExportCategory struct {
	Domain   string // "category" or "post_tag"
	Nicename string
	Name     string
}

// ExportItem is one <item> of a WordPress WXR export, as parsed.
// Fields hold raw values; nothing is cleaned at this stage.
type ExportItem struct {
	PostID         string
	Title          string
	Link           string
	PubDate        string
	Content        string
	PostType       string
	Status         string
	PublishDate    string
	PublishDateGMT string
	PostName       string
	Categories     []ExportCategory
}

// IsPublishedPost reports whether the item is a published post.
func (it ExportItem) IsPublishedPost() bool {
	return it.PostType == "post" && it.Status == "publish"
}

// HasContent reports whether the raw content is non-blank.
func (it ExportItem) HasContent() bool {
	return strings.TrimSpace(it.Content) != ""
}

// Tags returns category names and nicenames, lower-cased, in document order.
func (it ExportItem) Tags() []string {
	tags := make([]string, 0, len(it.Categories)*2)
	for _, c := range it.Categories {
		if name := strings.ToLower(strings.TrimSpace(c.Name)); name != "" {
			tags = append(tags, name)
		}
		if nice := strings.ToLower(strings.TrimSpace(c.Nicename)); nice != "" {
			tags = append(tags, nice)
		}
	}
	return tags
}
