package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/lysyi3m/rss-reader/app/state"
)

// Generator renders every known post as a single RSS 2.0 channel.
type Generator struct {
	selfLink string
	version  string
}

func NewGenerator(selfLink, version string) *Generator {
	return &Generator{
		selfLink: selfLink,
		version:  version,
	}
}

func (g *Generator) Run(snapshot state.Snapshot) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", "RSS Reader", 4)
	g.writeElement(&buf, "description", fmt.Sprintf("Aggregated posts from %d feeds", len(snapshot.Feeds)), 4)

	if g.selfLink != "" {
		g.writeElement(&buf, "link", g.selfLink, 4)
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(g.selfLink)))
	}

	g.writeElement(&buf, "lastBuildDate", time.Now().In(time.Local).Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("RSS-Reader/%s", cmp.Or(g.version, "dev")), 4)

	feeds := make(map[string]state.Feed, len(snapshot.Feeds))
	for _, f := range snapshot.Feeds {
		feeds[f.ID] = f
	}

	for _, post := range snapshot.Posts {
		g.writeItem(&buf, post, feeds[post.FeedID])
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, post state.Post, source state.Feed) {
	buf.WriteString("    <item>\n")

	if post.GUID != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(post.GUID)))
		xml.EscapeText(buf, []byte(post.GUID))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "title", post.Title, 6)
	g.writeElement(buf, "link", post.Link, 6)
	g.writeElement(buf, "description", cmp.Or(post.Description, "No description available"), 6)

	if source.URL != "" {
		buf.WriteString(fmt.Sprintf("      <source url=\"%s\">", html.EscapeString(source.URL)))
		xml.EscapeText(buf, []byte(cmp.Or(source.Title, source.URL)))
		buf.WriteString("</source>\n")
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}
