package feed

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/unicode/norm"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses the payload as a whole: a channel without a title or any item
// lacking title, description or link rejects the entire payload.
func (p *Parser) Run(data []byte) (*Channel, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, NewError(KindParsing, errors.New("empty payload"))
	}

	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, NewError(KindParsing, fmt.Errorf("failed to parse feed: %w", err))
	}

	// Only RSS markup with a single channel is a valid source.
	if feed.FeedType != "rss" {
		return nil, NewError(KindParsing, fmt.Errorf("unsupported feed type: %s", feed.FeedType))
	}

	channel := &Channel{
		Title:       p.normalizeText(feed.Title),
		Description: p.normalizeText(feed.Description),
	}
	if channel.Title == "" {
		return nil, NewError(KindParsing, errors.New("channel has no title"))
	}

	channel.Items = make([]Item, 0, len(feed.Items))
	for i, item := range feed.Items {
		normalized, err := p.normalizeItem(item)
		if err != nil {
			return nil, NewError(KindParsing, fmt.Errorf("item %d: %w", i, err))
		}
		channel.Items = append(channel.Items, normalized)
	}

	return channel, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) (Item, error) {
	if item == nil {
		return Item{}, errors.New("empty item")
	}

	normalized := Item{
		GUID:        strings.TrimSpace(item.GUID),
		Title:       p.normalizeText(item.Title),
		Description: p.normalizeText(item.Description),
		Link:        strings.TrimSpace(item.Link),
	}

	requiredFields := []struct {
		name  string
		value string
	}{
		{"title", normalized.Title},
		{"description", normalized.Description},
		{"link", normalized.Link},
	}

	for _, field := range requiredFields {
		if field.value == "" {
			return Item{}, fmt.Errorf("%s is required", field.name)
		}
	}

	return normalized, nil
}

func (p *Parser) normalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
