package innertube

import (
	"context"
	"strings"
)

// AlbumResult is a decoded album page. Title is the page's primary entity
// field and therefore required; everything else degrades silently.
type AlbumResult struct {
	BrowseID   string      `json:"browseId"`
	Title      string      `json:"title"`
	Artists    []ArtistRef `json:"artists,omitempty"`
	Year       int         `json:"year,omitempty"`
	Thumbnail  string      `json:"thumbnail,omitempty"`
	PlaylistID string      `json:"playlistId,omitempty"`
	Tracks     []SongItem  `json:"tracks"`
}

// PlaylistResult is a decoded playlist page. It carries two independent
// continuation tracks: SongsContinuation extends the track list,
// SectionContinuation extends the surrounding page sections. Tokens from one
// track must never be fed to the other.
type PlaylistResult struct {
	BrowseID            string     `json:"browseId"`
	Title               string     `json:"title"`
	Author              string     `json:"author,omitempty"`
	SongCountText       string     `json:"songCountText,omitempty"`
	Thumbnail           string     `json:"thumbnail,omitempty"`
	PlaylistID          string     `json:"playlistId,omitempty"`
	Tracks              []SongItem `json:"tracks"`
	SongsContinuation   string     `json:"songsContinuation,omitempty"`
	SectionContinuation string     `json:"sectionContinuation,omitempty"`
}

// ArtistShelf is one titled group on an artist page, with an optional
// endpoint to the full listing.
type ArtistShelf struct {
	Title string          `json:"title,omitempty"`
	Items []CatalogItem   `json:"items"`
	More  *BrowseEndpoint `json:"more,omitempty"`
}

// ArtistResult is a decoded artist page.
type ArtistResult struct {
	BrowseID    string        `json:"browseId"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	Shuffle     *WatchEndpoint `json:"shuffle,omitempty"`
	Radio       *WatchEndpoint `json:"radio,omitempty"`
	Shelves     []ArtistShelf `json:"shelves"`
}

// AlbumPage fetches and decodes an album by browse id.
func (c *Client) AlbumPage(ctx context.Context, browseID string) (*AlbumResult, error) {
	node, err := c.send(ctx, c.primary, "browse", map[string]any{"browseId": browseID})
	if err != nil {
		return nil, err
	}

	header := node.Obj("header", "musicDetailHeaderRenderer")
	if header == nil {
		header = node.Obj("header", "musicResponsiveHeaderRenderer")
	}

	if header == nil {
		return nil, &DecodeError{Entity: "album", Field: "header"}
	}

	title := header.runText("title")
	if title == "" {
		return nil, &DecodeError{Entity: "album", Field: "title"}
	}

	artists, _, year := subtitleParts(header.List("subtitle", "runs"))
	if len(artists) == 0 {
		artists, _, year = subtitleParts(header.List("straplineTextOne", "runs"))
	}

	result := &AlbumResult{
		BrowseID:  browseID,
		Title:     title,
		Artists:   artists,
		Year:      year,
		Thumbnail: thumbnailURL(header),
	}

	shelf := firstSectionRenderer(node, "musicShelfRenderer")
	if shelf == nil {
		shelf = firstSectionRenderer(node, "musicPlaylistShelfRenderer")
	}

	if shelf != nil {
		if pl := shelf.Str("playlistId"); pl != "" {
			result.PlaylistID = strings.TrimPrefix(pl, playlistBrowsePrefix)
		}

		result.Tracks = songItems(shelf.List("contents"))
	}

	// Fill in album context the track rows themselves omit.
	for i := range result.Tracks {
		if result.Tracks[i].Album == nil {
			result.Tracks[i].Album = &AlbumRef{Name: title, BrowseID: browseID}
		}

		if result.Tracks[i].Endpoint.PlaylistID == "" {
			result.Tracks[i].Endpoint.PlaylistID = result.PlaylistID
		}
	}

	return result, nil
}

// PlaylistPage fetches and decodes a playlist. Accepts either a raw playlist
// id or a browse id.
func (c *Client) PlaylistPage(ctx context.Context, id string) (*PlaylistResult, error) {
	browseID := plBrowseID(id)

	node, err := c.send(ctx, c.primary, "browse", map[string]any{"browseId": browseID})
	if err != nil {
		return nil, err
	}

	header := node.Obj("header", "musicDetailHeaderRenderer")
	if header == nil {
		header = node.Obj("header", "musicEditablePlaylistDetailHeaderRenderer", "header", "musicDetailHeaderRenderer")
	}

	if header == nil {
		return nil, &DecodeError{Entity: "playlist", Field: "header"}
	}

	title := header.runText("title")
	if title == "" {
		return nil, &DecodeError{Entity: "playlist", Field: "title"}
	}

	result := &PlaylistResult{
		BrowseID:      browseID,
		Title:         title,
		SongCountText: header.runText("secondSubtitle"),
		Thumbnail:     thumbnailURL(header),
		PlaylistID:    strings.TrimPrefix(browseID, playlistBrowsePrefix),
	}

	if authors, _, _ := subtitleParts(header.List("subtitle", "runs")); len(authors) > 0 {
		result.Author = authors[0].Name
	}

	sectionList := node.Obj("contents", "singleColumnBrowseResultsRenderer", "tabs", 0,
		"tabRenderer", "content", "sectionListRenderer")
	if sectionList != nil {
		result.SectionContinuation = continuationOf(sectionList)
	}

	shelf := firstSectionRenderer(node, "musicPlaylistShelfRenderer")
	if shelf == nil {
		shelf = firstSectionRenderer(node, "musicShelfRenderer")
	}

	if shelf != nil {
		result.Tracks = songItems(shelf.List("contents"))
		result.SongsContinuation = continuationOf(shelf)

		if pl := shelf.Str("playlistId"); pl != "" {
			result.PlaylistID = strings.TrimPrefix(pl, playlistBrowsePrefix)
		}
	}

	return result, nil
}

// PlaylistContinuation advances the playlist's song-list track.
func (c *Client) PlaylistContinuation(ctx context.Context, token string) (*Page[SongItem], error) {
	node, err := c.send(ctx, c.primary, continuationPath("browse", token), nil)
	if err != nil {
		return nil, err
	}

	shelf := node.Obj("continuationContents", "musicPlaylistShelfContinuation")
	if shelf == nil {
		shelf = node.Obj("continuationContents", "musicShelfContinuation")
	}

	if shelf == nil {
		return nil, &DecodeError{Entity: "playlist continuation", Field: "continuationContents"}
	}

	return &Page[SongItem]{
		Items:        songItems(shelf.List("contents")),
		Continuation: continuationOf(shelf),
	}, nil
}

// PlaylistSectionContinuation advances the playlist's section-list track.
// This is deliberately a separate call from PlaylistContinuation: both tracks
// can be live at once and their tokens are not interchangeable.
func (c *Client) PlaylistSectionContinuation(ctx context.Context, token string) (*Page[CatalogItem], error) {
	node, err := c.send(ctx, c.primary, continuationPath("browse", token), nil)
	if err != nil {
		return nil, err
	}

	section := node.Obj("continuationContents", "sectionListContinuation")
	if section == nil {
		return nil, &DecodeError{Entity: "section continuation", Field: "sectionListContinuation"}
	}

	page := &Page[CatalogItem]{Continuation: continuationOf(section)}

	for _, content := range section.List("contents") {
		s := asNode(content)
		if s == nil {
			continue
		}

		if shelf := s.Obj("musicCarouselShelfRenderer"); shelf != nil {
			page.Items = append(page.Items, decodeItems(shelf.List("contents"))...)
		}

		if shelf := s.Obj("musicShelfRenderer"); shelf != nil {
			page.Items = append(page.Items, decodeItems(shelf.List("contents"))...)
		}

		if grid := s.Obj("gridRenderer"); grid != nil {
			page.Items = append(page.Items, decodeItems(grid.List("items"))...)
		}
	}

	return page, nil
}

// ArtistPage fetches and decodes an artist by browse id.
func (c *Client) ArtistPage(ctx context.Context, browseID string) (*ArtistResult, error) {
	node, err := c.send(ctx, c.primary, "browse", map[string]any{"browseId": browseID})
	if err != nil {
		return nil, err
	}

	header := node.Obj("header", "musicImmersiveHeaderRenderer")
	if header == nil {
		header = node.Obj("header", "musicVisualHeaderRenderer")
	}

	if header == nil {
		return nil, &DecodeError{Entity: "artist", Field: "header"}
	}

	name := header.runText("title")
	if name == "" {
		return nil, &DecodeError{Entity: "artist", Field: "title"}
	}

	result := &ArtistResult{
		BrowseID:    browseID,
		Name:        name,
		Description: header.runText("description"),
		Thumbnail:   thumbnailURL(header),
	}

	if w := header.Obj("playButton", "buttonRenderer", "navigationEndpoint", "watchPlaylistEndpoint"); w != nil {
		ep := watchPlaylistEndpointOf(w)
		result.Shuffle = &ep
	}

	if w := header.Obj("startRadioButton", "buttonRenderer", "navigationEndpoint", "watchPlaylistEndpoint"); w != nil {
		ep := watchPlaylistEndpointOf(w)
		result.Radio = &ep
	}

	sections := node.List("contents", "singleColumnBrowseResultsRenderer", "tabs", 0,
		"tabRenderer", "content", "sectionListRenderer", "contents")

	for _, section := range sections {
		s := asNode(section)
		if s == nil {
			continue
		}

		if shelf := s.Obj("musicShelfRenderer"); shelf != nil {
			decoded := ArtistShelf{
				Title: shelf.runText("title"),
				Items: decodeItems(shelf.List("contents")),
			}

			if b := shelf.Obj("bottomEndpoint", "browseEndpoint"); b != nil {
				be := browseEndpointOf(b)
				decoded.More = &be
			}

			result.Shelves = append(result.Shelves, decoded)

			continue
		}

		if carousel := s.Obj("musicCarouselShelfRenderer"); carousel != nil {
			decoded := ArtistShelf{
				Title: asNode(carousel.Path("header", "musicCarouselShelfBasicHeaderRenderer")).runText("title"),
				Items: decodeItems(carousel.List("contents")),
			}

			if b := carousel.Obj("header", "musicCarouselShelfBasicHeaderRenderer",
				"moreContentButton", "buttonRenderer", "navigationEndpoint", "browseEndpoint"); b != nil {
				be := browseEndpointOf(b)
				decoded.More = &be
			}

			result.Shelves = append(result.Shelves, decoded)

			continue
		}

		// Full "albums"/"singles" listings reached through a shelf's More
		// endpoint come back as a grid.
		if grid := s.Obj("gridRenderer"); grid != nil {
			result.Shelves = append(result.Shelves, ArtistShelf{
				Title: asNode(grid.Path("header", "gridHeaderRenderer")).runText("title"),
				Items: decodeItems(grid.List("items")),
			})
		}
	}

	return result, nil
}

// Lyrics fetches the lyric text behind a lyrics browse endpoint from a next
// response. Returns "" without error when the tab exists but has no lyrics.
func (c *Client) Lyrics(ctx context.Context, endpoint BrowseEndpoint) (string, error) {
	node, err := c.send(ctx, c.primary, "browse", map[string]any{"browseId": endpoint.BrowseID})
	if err != nil {
		return "", err
	}

	shelf := node.Obj("contents", "sectionListRenderer", "contents", 0, "musicDescriptionShelfRenderer")
	if shelf == nil {
		return "", nil
	}

	return shelf.runText("description"), nil
}

// firstSectionRenderer finds the first renderer of the given kind in the
// page's primary section list, checking both single and two column layouts.
func firstSectionRenderer(node Node, kind string) Node {
	roots := [][]any{
		{"contents", "singleColumnBrowseResultsRenderer", "tabs", 0,
			"tabRenderer", "content", "sectionListRenderer", "contents"},
		{"contents", "twoColumnBrowseResultsRenderer", "secondaryContents",
			"sectionListRenderer", "contents"},
	}

	for _, root := range roots {
		for _, section := range node.List(root...) {
			s := asNode(section)
			if s == nil {
				continue
			}

			if r := s.Obj(kind); r != nil {
				return r
			}
		}
	}

	return nil
}

// songItems decodes a renderer list and keeps only the playable rows.
func songItems(entries []any) []SongItem {
	var songs []SongItem

	for _, item := range decodeItems(entries) {
		if song, ok := item.(SongItem); ok {
			songs = append(songs, song)
		}
	}

	return songs
}
