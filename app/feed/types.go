package feed

import (
	"github.com/lysyi3m/rss-reader/app/state"
	"github.com/samber/lo"
)

type Channel struct {
	Title       string
	Description string
	Items       []Item
}

type Item struct {
	GUID        string // empty when the source omits <guid>
	Title       string
	Description string
	Link        string
}

// Posts converts the channel items into unsaved posts, in document order.
func (c *Channel) Posts() []state.Post {
	return lo.Map(c.Items, func(item Item, _ int) state.Post {
		return state.Post{
			GUID:        item.GUID,
			Title:       item.Title,
			Description: item.Description,
			Link:        item.Link,
		}
	})
}
