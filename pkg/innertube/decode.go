package innertube

// Renderer node decoding. Every function here is pure: raw tree in, typed
// item out. Item-level decoders return ok=false instead of an error so a
// malformed entry never takes the rest of its page down with it.

const (
	pageTypeAlbum    = "MUSIC_PAGE_TYPE_ALBUM"
	pageTypeArtist   = "MUSIC_PAGE_TYPE_ARTIST"
	pageTypePlaylist = "MUSIC_PAGE_TYPE_PLAYLIST"
	pageTypeUser     = "MUSIC_PAGE_TYPE_USER_CHANNEL"

	videoTypeTrack = "MUSIC_VIDEO_TYPE_ATV"

	explicitBadge = "MUSIC_EXPLICIT_BADGE"

	separatorRun = " • "
)

// thumbnailURL picks the largest thumbnail variant, which the service lists
// last. Thumbnails are optional everywhere.
func thumbnailURL(r Node) string {
	candidates := [][]any{
		{"thumbnail", "musicThumbnailRenderer", "thumbnail", "thumbnails"},
		{"thumbnailRenderer", "musicThumbnailRenderer", "thumbnail", "thumbnails"},
		{"thumbnail", "thumbnails"},
	}

	for _, path := range candidates {
		thumbs := r.List(path...)
		if len(thumbs) == 0 {
			continue
		}

		if last := asNode(thumbs[len(thumbs)-1]); last != nil {
			if url := last.Str("url"); url != "" {
				return url
			}
		}
	}

	return ""
}

// watchEndpointOf maps a raw watchEndpoint object.
func watchEndpointOf(w Node) WatchEndpoint {
	return WatchEndpoint{
		VideoID:            w.Str("videoId"),
		PlaylistID:         w.Str("playlistId"),
		PlaylistSetVideoID: w.Str("playlistSetVideoId"),
		Index:              w.Int("index"),
		Params:             w.Str("params"),
	}
}

// watchPlaylistEndpointOf maps a watchPlaylistEndpoint, the playlist-scoped
// cousin of watchEndpoint used by play/shuffle/radio buttons and automix
// previews.
func watchPlaylistEndpointOf(w Node) WatchEndpoint {
	return WatchEndpoint{
		PlaylistID: w.Str("playlistId"),
		Params:     w.Str("params"),
	}
}

func browseEndpointOf(b Node) BrowseEndpoint {
	return BrowseEndpoint{
		BrowseID: b.Str("browseId"),
		Params:   b.Str("params"),
	}
}

func pageTypeOf(browse Node) string {
	return browse.Str("browseEndpointContextSupportedConfigs", "browseEndpointContextMusicConfig", "pageType")
}

// overlayWatch digs the watch endpoint out of a play-button overlay.
func overlayWatch(r Node) Node {
	return r.Obj("overlay", "musicItemThumbnailOverlayRenderer", "content",
		"musicPlayButtonRenderer", "playNavigationEndpoint", "watchEndpoint")
}

// overlayWatchPlaylist digs the playlist watch endpoint out of a play-button
// overlay, present on album and playlist cards.
func overlayWatchPlaylist(r Node) Node {
	return r.Obj("thumbnailOverlay", "musicItemThumbnailOverlayRenderer", "content",
		"musicPlayButtonRenderer", "playNavigationEndpoint", "watchPlaylistEndpoint")
}

func musicVideoTypeOf(w Node) string {
	return w.Str("watchEndpointMusicSupportedConfigs", "watchEndpointMusicConfig", "musicVideoType")
}

func hasExplicitBadge(r Node, field string) bool {
	for _, badge := range r.List(field) {
		b := asNode(badge)
		if b == nil {
			continue
		}

		if b.Str("musicInlineBadgeRenderer", "icon", "iconType") == explicitBadge {
			return true
		}
	}

	return false
}

// subtitleParts splits formatted subtitle runs into artist refs, an optional
// album ref and an optional year. Runs alternate payload and separator text.
func subtitleParts(runs []any) (artists []ArtistRef, album *AlbumRef, year int) {
	for _, run := range runs {
		r := asNode(run)
		if r == nil {
			continue
		}

		text := r.Str("text")
		if text == "" || text == separatorRun {
			continue
		}

		browse := r.Obj("navigationEndpoint", "browseEndpoint")

		switch {
		case browse != nil && pageTypeOf(browse) == pageTypeAlbum:
			album = &AlbumRef{Name: text, BrowseID: browse.Str("browseId")}
		case browse != nil:
			artists = append(artists, ArtistRef{Name: text, BrowseID: browse.Str("browseId")})
		case parseYear(text) != 0:
			year = parseYear(text)
		}
	}

	return artists, album, year
}

// plainArtists parses artist names from unlinked subtitle runs, used when no
// run carries a browse endpoint.
func plainArtists(runs []any) []ArtistRef {
	var artists []ArtistRef

	for _, run := range runs {
		r := asNode(run)
		if r == nil {
			continue
		}

		text := r.Str("text")
		if text == "" || text == separatorRun {
			continue
		}

		artists = append(artists, ArtistRef{Name: text})
	}

	return artists
}

// flexRuns returns the text runs of a responsive list item's flex column.
func flexRuns(r Node, col int) []any {
	return r.List("flexColumns", col, "musicResponsiveListItemFlexColumnRenderer", "text", "runs")
}

// fixedRunText returns the first text run of a fixed column, where track
// durations live.
func fixedRunText(r Node, col int) string {
	fixed := r.Obj("fixedColumns", col, "musicResponsiveListItemFixedColumnRenderer")
	if fixed == nil {
		return ""
	}

	return fixed.runText("text")
}

// DecodeShelfEntry decodes a single listing entry, dispatching on whichever
// renderer variant the node carries.
func DecodeShelfEntry(entry Node) (CatalogItem, bool) {
	if r := entry.Obj("musicResponsiveListItemRenderer"); r != nil {
		return decodeResponsiveListItem(r)
	}

	if r := entry.Obj("musicTwoRowItemRenderer"); r != nil {
		return decodeTwoRowItem(r)
	}

	return nil, false
}

// decodeItems decodes a renderer list, keeping only the entries that decode
// cleanly.
func decodeItems(entries []any) []CatalogItem {
	var items []CatalogItem

	for _, entry := range entries {
		n := asNode(entry)
		if n == nil {
			continue
		}

		if item, ok := DecodeShelfEntry(n); ok {
			items = append(items, item)
		}
	}

	return items
}

// decodeTwoRowItem decodes the card style used on home, artist and library
// surfaces. The variant is whichever navigation endpoint the card carries.
func decodeTwoRowItem(r Node) (CatalogItem, bool) {
	title := r.runText("title")
	if title == "" {
		return nil, false
	}

	thumbnail := thumbnailURL(r)
	subtitle := r.List("subtitle", "runs")

	if w := r.Obj("navigationEndpoint", "watchEndpoint"); w != nil {
		artists, album, _ := subtitleParts(subtitle)
		if len(artists) == 0 {
			artists = plainArtists(subtitle)
		}

		return SongItem{
			ID:        w.Str("videoId"),
			Title:     title,
			Artists:   artists,
			Album:     album,
			Thumbnail: thumbnail,
			Explicit:  hasExplicitBadge(r, "subtitleBadges"),
			Endpoint:  watchEndpointOf(w),
		}, w.Str("videoId") != ""
	}

	browse := r.Obj("navigationEndpoint", "browseEndpoint")
	if browse == nil {
		return nil, false
	}

	browseID := browse.Str("browseId")
	if browseID == "" {
		return nil, false
	}

	switch pageTypeOf(browse) {
	case pageTypeAlbum:
		artists, _, year := subtitleParts(subtitle)

		playlistID := ""
		if play := overlayWatchPlaylist(r); play != nil {
			playlistID = play.Str("playlistId")
		}

		return AlbumItem{
			BrowseID:   browseID,
			Title:      title,
			Artists:    artists,
			Year:       year,
			Thumbnail:  thumbnail,
			Explicit:   hasExplicitBadge(r, "subtitleBadges"),
			PlaylistID: playlistID,
		}, true
	case pageTypeArtist, pageTypeUser:
		item := ArtistItem{
			BrowseID:  browseID,
			Name:      title,
			Thumbnail: thumbnail,
		}

		if play := overlayWatchPlaylist(r); play != nil {
			ep := watchPlaylistEndpointOf(play)
			item.Shuffle = &ep
		}

		return item, true
	case pageTypePlaylist:
		item := PlaylistItem{
			BrowseID:  browseID,
			Title:     title,
			Thumbnail: thumbnail,
		}

		if runs := subtitle; len(runs) > 0 {
			if first := asNode(runs[0]); first != nil {
				item.Author = first.Str("text")
			}
		}

		if play := overlayWatchPlaylist(r); play != nil {
			ep := watchPlaylistEndpointOf(play)
			item.Play = &ep
		}

		return item, true
	default:
		return nil, false
	}
}

// decodeResponsiveListItem decodes the row style used by search results,
// playlists and albums. A row with a play overlay is playable; its music
// config subtype says whether it is an audio track or a generic video, which
// decides whether the second flex column can carry an album reference.
func decodeResponsiveListItem(r Node) (CatalogItem, bool) {
	titleRuns := flexRuns(r, 0)
	if len(titleRuns) == 0 {
		return nil, false
	}

	first := asNode(titleRuns[0])
	if first == nil {
		return nil, false
	}

	title := first.Str("text")
	if title == "" {
		return nil, false
	}

	thumbnail := thumbnailURL(r)

	if w := overlayWatch(r); w != nil {
		videoID := w.Str("videoId")
		if videoID == "" {
			videoID = r.Str("playlistItemData", "videoId")
		}

		if videoID == "" {
			return nil, false
		}

		isTrack := musicVideoTypeOf(w) == videoTypeTrack

		byline := flexRuns(r, 1)
		artists, album, _ := subtitleParts(byline)

		if len(artists) == 0 {
			artists = plainArtists(byline)
		}

		if !isTrack {
			// Generic videos have channel text where tracks have an
			// album reference; never trust it as an album.
			album = nil
		}

		if album == nil {
			if _, linked, _ := subtitleParts(flexRuns(r, 2)); linked != nil && isTrack {
				album = linked
			}
		}

		duration := parseDuration(fixedRunText(r, 0))
		if duration == 0 {
			if runs := flexRuns(r, 2); len(runs) > 0 {
				if last := asNode(runs[len(runs)-1]); last != nil {
					duration = parseDuration(last.Str("text"))
				}
			}
		}

		endpoint := watchEndpointOf(w)
		endpoint.VideoID = videoID

		return SongItem{
			ID:         videoID,
			Title:      title,
			Artists:    artists,
			Album:      album,
			Duration:   duration,
			Thumbnail:  thumbnail,
			Explicit:   hasExplicitBadge(r, "badges"),
			SetVideoID: r.Str("playlistItemData", "playlistSetVideoId"),
			Endpoint:   endpoint,
		}, true
	}

	browse := r.Obj("navigationEndpoint", "browseEndpoint")
	if browse == nil {
		return nil, false
	}

	browseID := browse.Str("browseId")
	if browseID == "" {
		return nil, false
	}

	byline := flexRuns(r, 1)

	switch pageTypeOf(browse) {
	case pageTypeAlbum:
		artists, _, year := subtitleParts(byline)

		return AlbumItem{
			BrowseID:  browseID,
			Title:     title,
			Artists:   artists,
			Year:      year,
			Thumbnail: thumbnail,
			Explicit:  hasExplicitBadge(r, "badges"),
		}, true
	case pageTypeArtist, pageTypeUser:
		return ArtistItem{
			BrowseID:  browseID,
			Name:      title,
			Thumbnail: thumbnail,
		}, true
	case pageTypePlaylist:
		item := PlaylistItem{
			BrowseID:  browseID,
			Title:     title,
			Thumbnail: thumbnail,
		}

		if parts := plainArtists(byline); len(parts) > 0 {
			item.Author = parts[0].Name

			if last := parts[len(parts)-1].Name; last != item.Author {
				item.SongCountText = last
			}
		}

		return item, true
	default:
		return nil, false
	}
}

// decodePanelItem decodes one playlist panel row from a next response.
func decodePanelItem(r Node) (SongItem, bool) {
	videoID := r.Str("videoId")
	title := r.runText("title")

	if videoID == "" || title == "" {
		return SongItem{}, false
	}

	byline := r.List("longBylineText", "runs")
	artists, album, _ := subtitleParts(byline)

	if len(artists) == 0 {
		artists = plainArtists(byline)
		// Unlinked bylines trail album and year text; keep just the
		// leading artist run.
		if len(artists) > 1 {
			artists = artists[:1]
		}
	}

	endpoint := watchEndpointOf(r.Obj("navigationEndpoint", "watchEndpoint"))
	endpoint.VideoID = videoID

	return SongItem{
		ID:        videoID,
		Title:     title,
		Artists:   artists,
		Album:     album,
		Duration:  parseDuration(r.runText("lengthText")),
		Thumbnail: thumbnailURL(r),
		Explicit:  hasExplicitBadge(r, "badges"),
		Endpoint:  endpoint,
	}, true
}

// automixEndpointOf extracts the playlist endpoint an automix preview points
// at, or nil when the entry is not a preview.
func automixEndpointOf(entry Node) *WatchEndpoint {
	w := entry.Obj("automixPreviewVideoRenderer", "content", "automixPlaylistVideoRenderer",
		"navigationEndpoint", "watchPlaylistEndpoint")
	if w == nil {
		return nil
	}

	ep := watchPlaylistEndpointOf(w)
	if ep.PlaylistID == "" {
		return nil
	}

	return &ep
}

// continuationOf reads the opaque next-page token off a renderer, or ""
// at end of stream.
func continuationOf(r Node) string {
	if token := r.Str("continuations", 0, "nextContinuationData", "continuation"); token != "" {
		return token
	}

	return r.Str("continuations", 0, "reloadContinuationData", "continuation")
}
