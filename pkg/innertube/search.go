package innertube

import "context"

// SearchFilter narrows a search to one item kind. The values are the opaque
// param blobs the web client sends; the service rejects anything else.
type SearchFilter string

const (
	FilterNone      SearchFilter = ""
	FilterSongs     SearchFilter = "EgWKAQIIAWoKEAkQBRAKEAMQBA=="
	FilterVideos    SearchFilter = "EgWKAQIQAWoKEAkQBRAKEAMQBA=="
	FilterAlbums    SearchFilter = "EgWKAQIYAWoKEAkQBRAKEAMQBA=="
	FilterArtists   SearchFilter = "EgWKAQIgAWoKEAkQBRAKEAMQBA=="
	FilterPlaylists SearchFilter = "EgWKAQIoAWoKEAkQBRAKEAMQBA=="
)

// SearchShelf is one titled group of search results. Its continuation, when
// present, advances this shelf independently of the rest of the page.
type SearchShelf struct {
	Title        string        `json:"title,omitempty"`
	Items        []CatalogItem `json:"items"`
	Continuation string        `json:"continuation,omitempty"`
}

// SearchResult is a decoded search page. Items flattens every shelf in page
// order; Continuation resumes the primary (last token-bearing) shelf.
type SearchResult struct {
	Shelves      []SearchShelf `json:"shelves"`
	Items        []CatalogItem `json:"items"`
	Continuation string        `json:"continuation,omitempty"`
}

// Search runs a query. With a filter the service returns a single shelf with
// a continuation; without one it returns several shelves of mixed kinds.
func (c *Client) Search(ctx context.Context, query string, filter SearchFilter) (*SearchResult, error) {
	params := map[string]any{"query": query}
	if filter != FilterNone {
		params["params"] = string(filter)
	}

	node, err := c.send(ctx, c.primary, "search", params)
	if err != nil {
		return nil, err
	}

	sections := node.List("contents", "tabbedSearchResultsRenderer", "tabs", 0,
		"tabRenderer", "content", "sectionListRenderer", "contents")

	result := &SearchResult{}

	for _, section := range sections {
		s := asNode(section)
		if s == nil {
			continue
		}

		if shelf := s.Obj("musicShelfRenderer"); shelf != nil {
			decoded := SearchShelf{
				Title:        shelf.runText("title"),
				Items:        decodeItems(shelf.List("contents")),
				Continuation: continuationOf(shelf),
			}
			result.Shelves = append(result.Shelves, decoded)

			continue
		}

		if card := s.Obj("musicCardShelfRenderer"); card != nil {
			result.Shelves = append(result.Shelves, decodeCardShelf(card))
		}
	}

	for _, shelf := range result.Shelves {
		result.Items = append(result.Items, shelf.Items...)
		if shelf.Continuation != "" {
			result.Continuation = shelf.Continuation
		}
	}

	c.log.Debug("search", "query", query, "items", len(result.Items), "more", result.Continuation != "")

	return result, nil
}

// SearchContinuation fetches the next search page for a token returned by
// Search. The token is single use.
func (c *Client) SearchContinuation(ctx context.Context, token string) (*SearchResult, error) {
	node, err := c.send(ctx, c.primary, continuationPath("search", token), nil)
	if err != nil {
		return nil, err
	}

	shelf := node.Obj("continuationContents", "musicShelfContinuation")
	if shelf == nil {
		return nil, &DecodeError{Entity: "search continuation", Field: "musicShelfContinuation"}
	}

	decoded := SearchShelf{
		Items:        decodeItems(shelf.List("contents")),
		Continuation: continuationOf(shelf),
	}

	return &SearchResult{
		Shelves:      []SearchShelf{decoded},
		Items:        decoded.Items,
		Continuation: decoded.Continuation,
	}, nil
}

// decodeCardShelf decodes the "top result" card, which wraps one highlighted
// item plus a short tail of related rows.
func decodeCardShelf(card Node) SearchShelf {
	shelf := SearchShelf{Title: card.runText("header")}

	// The card itself is playable or browsable through its title run.
	if titleRun := asNode(card.Path("title", "runs", 0)); titleRun != nil {
		title := titleRun.Str("text")

		if w := titleRun.Obj("navigationEndpoint", "watchEndpoint"); w != nil && title != "" {
			if w.Str("videoId") != "" {
				shelf.Items = append(shelf.Items, SongItem{
					ID:        w.Str("videoId"),
					Title:     title,
					Artists:   plainArtists(card.List("subtitle", "runs")),
					Thumbnail: thumbnailURL(card),
					Endpoint:  watchEndpointOf(w),
				})
			}
		} else if b := titleRun.Obj("navigationEndpoint", "browseEndpoint"); b != nil && title != "" {
			switch pageTypeOf(b) {
			case pageTypeArtist, pageTypeUser:
				shelf.Items = append(shelf.Items, ArtistItem{
					BrowseID:  b.Str("browseId"),
					Name:      title,
					Thumbnail: thumbnailURL(card),
				})
			case pageTypeAlbum:
				shelf.Items = append(shelf.Items, AlbumItem{
					BrowseID:  b.Str("browseId"),
					Title:     title,
					Thumbnail: thumbnailURL(card),
				})
			case pageTypePlaylist:
				shelf.Items = append(shelf.Items, PlaylistItem{
					BrowseID:  b.Str("browseId"),
					Title:     title,
					Thumbnail: thumbnailURL(card),
				})
			}
		}
	}

	shelf.Items = append(shelf.Items, decodeItems(card.List("contents"))...)

	return shelf
}
