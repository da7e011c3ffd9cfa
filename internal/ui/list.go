package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/zaukho/zx/internal/formatter"
	"github.com/zaukho/zx/internal/models"
)

var (
	_ list.Item = contentItem{}
	_ list.Item = watchlistItem{}
	_ list.Item = libraryItem{}
)

// contentItem wraps [models.Content] to implement [list.Item].
type contentItem struct {
	content models.Content
}

func (i contentItem) FilterValue() string { return i.content.Title }
func (i contentItem) Title() string       { return i.content.Title }
func (i contentItem) Description() string {
	desc := i.content.Kind
	if i.content.ReleaseYear > 0 {
		desc = fmt.Sprintf("%s • %d", desc, i.content.ReleaseYear)
	}
	if i.content.PriceRent > 0 {
		desc = fmt.Sprintf("%s • rent %s", desc, formatter.FormatPrice(i.content.PriceRent))
	}
	return desc
}

// watchlistItem wraps [models.WatchlistEntry] to implement [list.Item].
type watchlistItem struct {
	entry models.WatchlistEntry
}

func (i watchlistItem) FilterValue() string { return i.entry.Content.Title }
func (i watchlistItem) Title() string       { return i.entry.Content.Title }
func (i watchlistItem) Description() string {
	return fmt.Sprintf("%s • added %s", i.entry.Content.Kind, i.entry.AddedAt.Format("2006-01-02"))
}

// libraryItem wraps [models.LibraryEntry] to implement [list.Item].
type libraryItem struct {
	entry models.LibraryEntry
}

func (i libraryItem) FilterValue() string { return i.entry.Content.Title }
func (i libraryItem) Title() string       { return i.entry.Content.Title }
func (i libraryItem) Description() string {
	if i.entry.ExpiresAt != nil {
		return fmt.Sprintf("%s • expires %s", i.entry.Kind, i.entry.ExpiresAt.Format("2006-01-02"))
	}
	return i.entry.Kind
}
