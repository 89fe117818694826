package innertube

import "context"

// NextResult is a decoded "what plays next" panel. Endpoint records which
// watch endpoint actually produced the panel; after an automix rebase it
// differs from the endpoint the caller started with.
type NextResult struct {
	Title        string     `json:"title,omitempty"`
	Items        []SongItem `json:"items"`
	CurrentIndex int        `json:"currentIndex"`
	Continuation string     `json:"continuation,omitempty"`

	Lyrics  *BrowseEndpoint `json:"lyrics,omitempty"`
	Related *BrowseEndpoint `json:"related,omitempty"`

	Endpoint WatchEndpoint `json:"endpoint"`

	// AutomixEndpoint is set when the panel's tail is an automix preview
	// marker instead of a playable item. The preview itself never appears
	// in Items.
	AutomixEndpoint *WatchEndpoint `json:"automixEndpoint,omitempty"`
}

// Next resolves the playback panel for a watch endpoint.
func (c *Client) Next(ctx context.Context, endpoint WatchEndpoint) (*NextResult, error) {
	params := map[string]any{
		"enablePersistentPlaylistPanel": true,
		"isAudioOnly":                   true,
		"tunerSettingValue":             "AUTOMIX_SETTING_NORMAL",
	}

	if endpoint.VideoID != "" {
		params["videoId"] = endpoint.VideoID
	}

	if endpoint.PlaylistID != "" {
		params["playlistId"] = endpoint.PlaylistID

		if endpoint.Index > 0 {
			params["index"] = endpoint.Index
		}
	}

	if endpoint.PlaylistSetVideoID != "" {
		params["playlistSetVideoId"] = endpoint.PlaylistSetVideoID
	}

	if endpoint.Params != "" {
		params["params"] = endpoint.Params
	}

	node, err := c.send(ctx, c.primary, "next", params)
	if err != nil {
		return nil, err
	}

	tabs := node.List("contents", "singleColumnMusicWatchNextResultsRenderer",
		"tabbedRenderer", "watchNextTabbedResultsRenderer", "tabs")

	panel := Node(nil)
	if len(tabs) > 0 {
		panel = asNode(tabs[0]).Obj("tabRenderer", "content", "musicQueueRenderer",
			"content", "playlistPanelRenderer")
	}

	if panel == nil {
		return nil, &DecodeError{Entity: "next", Field: "playlistPanelRenderer"}
	}

	result := decodePanel(panel)
	result.Endpoint = endpoint

	for i, tab := range tabs {
		t := asNode(tab)
		if t == nil {
			continue
		}

		b := t.Obj("tabRenderer", "endpoint", "browseEndpoint")
		if b == nil {
			continue
		}

		be := browseEndpointOf(b)

		// Tab order is fixed: queue, lyrics, related.
		switch i {
		case 1:
			result.Lyrics = &be
		case 2:
			result.Related = &be
		}
	}

	c.log.Debug("next", "videoId", endpoint.VideoID, "playlistId", endpoint.PlaylistID,
		"items", len(result.Items), "automix", result.AutomixEndpoint != nil)

	return result, nil
}

// NextContinuation fetches one more page of the panel for a watch endpoint.
// The endpoint must be the one the previous NextResult reported, not the one
// the queue was originally seeded with.
func (c *Client) NextContinuation(ctx context.Context, endpoint WatchEndpoint, token string) (*NextResult, error) {
	params := map[string]any{
		"enablePersistentPlaylistPanel": true,
		"isAudioOnly":                   true,
	}

	if endpoint.PlaylistID != "" {
		params["playlistId"] = endpoint.PlaylistID
	}

	node, err := c.send(ctx, c.primary, continuationPath("next", token), params)
	if err != nil {
		return nil, err
	}

	panel := node.Obj("continuationContents", "playlistPanelContinuation")
	if panel == nil {
		return nil, &DecodeError{Entity: "next continuation", Field: "playlistPanelContinuation"}
	}

	result := decodePanel(panel)
	result.Endpoint = endpoint

	return result, nil
}

// decodePanel decodes a playlist panel's rows, splitting playable items from
// the automix preview marker.
func decodePanel(panel Node) *NextResult {
	result := &NextResult{
		Title:        panel.runText("title"),
		CurrentIndex: -1,
	}

	if result.Title == "" {
		result.Title = panel.Str("title")
	}

	for _, entry := range panel.List("contents") {
		e := asNode(entry)
		if e == nil {
			continue
		}

		if automix := automixEndpointOf(e); automix != nil {
			result.AutomixEndpoint = automix
			continue
		}

		r := e.Obj("playlistPanelVideoRenderer")
		if r == nil {
			r = e.Obj("playlistPanelVideoWrapperRenderer", "primaryRenderer", "playlistPanelVideoRenderer")
		}

		if r == nil {
			continue
		}

		song, ok := decodePanelItem(r)
		if !ok {
			continue
		}

		if r.Bool("selected") {
			result.CurrentIndex = len(result.Items)
		}

		result.Items = append(result.Items, song)
	}

	if result.CurrentIndex < 0 {
		result.CurrentIndex = 0
	}

	result.Continuation = continuationOf(panel)

	return result
}
