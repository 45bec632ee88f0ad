package ui

import "github.com/repokit/repokit/internal/links"

// LinksLoadedMsg is sent when the link list has been generated.
type LinksLoadedMsg struct {
	Err   error
	Links []links.Link
}
