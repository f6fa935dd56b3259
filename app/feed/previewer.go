package feed

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Previewer turns the HTML description of a post into plain text for the
// preview dialog.
type Previewer struct{}

func NewPreviewer() *Previewer {
	return &Previewer{}
}

func (p *Previewer) Run(description string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		slog.Debug("Failed to parse description markup", "error", err)
		return strings.TrimSpace(description)
	}

	doc.Find("script, style").Remove()

	return strings.Join(strings.Fields(doc.Text()), " ")
}
