package ui

import (
	"fmt"
	"strings"

	"github.com/repokit/repokit/internal/helpers"
	"github.com/repokit/repokit/internal/links"
)

// LinkItem wraps a links.Link to implement list.Item.
type LinkItem struct {
	Link     links.Link
	Index    int // position in the traversal order
	Selected bool
}

// FilterValue returns the string used for filtering.
// Implements list.Item interface.
func (i LinkItem) FilterValue() string {
	return i.Link.Rel
}

// Title returns the main display text for the item.
// Implements list.DefaultItem interface.
func (i LinkItem) Title() string {
	return CheckBox(i.Selected) + " " + helpers.TruncateText(i.Link.Name, 60)
}

// Description returns secondary text for the item.
// Implements list.DefaultItem interface.
func (i LinkItem) Description() string {
	return "    " + helpers.TruncateMiddle(i.Link.Rel, 70)
}

// DetailView returns an expanded view of the highlighted link.
func (i LinkItem) DetailView() string {
	l := i.Link
	var b strings.Builder

	b.WriteString("┌─ Link ─────────────────────────────────────────────────────────────────\n")
	b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("File:"), l.Path))
	b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("URL: "), l.URL))
	b.WriteString("│\n")
	b.WriteString(fmt.Sprintf("│ %s\n", MutedStyle.Render(l.Markdown())))
	b.WriteString("└────────────────────────────────────────────────────────────────────────\n")

	return b.String()
}

// LinksToItems converts links to unselected items, keeping their order.
func LinksToItems(list []links.Link) []LinkItem {
	items := make([]LinkItem, len(list))
	for i, l := range list {
		items[i] = LinkItem{Link: l, Index: i}
	}
	return items
}
