package innertube

// WatchEndpoint locates a playable position, optionally scoped to a remote
// playlist or radio. Params and PlaylistSetVideoID are opaque and passed back
// byte for byte.
type WatchEndpoint struct {
	VideoID            string `json:"videoId,omitempty"`
	PlaylistID         string `json:"playlistId,omitempty"`
	PlaylistSetVideoID string `json:"playlistSetVideoId,omitempty"`
	Index              int    `json:"index,omitempty"`
	Params             string `json:"params,omitempty"`
}

// IsZero reports whether the endpoint locates nothing at all.
func (e WatchEndpoint) IsZero() bool {
	return e.VideoID == "" && e.PlaylistID == ""
}

// BrowseEndpoint locates a browsable catalog page.
type BrowseEndpoint struct {
	BrowseID string `json:"browseId"`
	Params   string `json:"params,omitempty"`
}

// ArtistRef is a lightweight pointer to an artist. BrowseID may be empty for
// artists the service does not expose a page for.
type ArtistRef struct {
	Name     string `json:"name"`
	BrowseID string `json:"browseId,omitempty"`
}

// AlbumRef is a lightweight pointer to an album.
type AlbumRef struct {
	Name     string `json:"name"`
	BrowseID string `json:"browseId,omitempty"`
}

// CatalogItem is the tagged union of everything a listing can contain.
type CatalogItem interface {
	// ItemID identifies the item for cross-page deduplication.
	ItemID() string
	ItemTitle() string

	catalogItem()
}

// SongItem is a playable track.
type SongItem struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Artists    []ArtistRef `json:"artists,omitempty"`
	Album      *AlbumRef   `json:"album,omitempty"`
	Duration   int         `json:"duration,omitempty"` // seconds
	Thumbnail  string      `json:"thumbnail,omitempty"`
	Explicit   bool        `json:"explicit,omitempty"`
	SetVideoID string      `json:"setVideoId,omitempty"`

	// Endpoint is where playing this item starts, possibly inside a
	// specific remote playlist or radio.
	Endpoint WatchEndpoint `json:"endpoint"`
}

func (s SongItem) ItemID() string    { return s.ID }
func (s SongItem) ItemTitle() string { return s.Title }
func (SongItem) catalogItem()        {}

// AlbumItem is a browsable album.
type AlbumItem struct {
	BrowseID   string      `json:"browseId"`
	Title      string      `json:"title"`
	Artists    []ArtistRef `json:"artists,omitempty"`
	Year       int         `json:"year,omitempty"`
	Thumbnail  string      `json:"thumbnail,omitempty"`
	Explicit   bool        `json:"explicit,omitempty"`
	PlaylistID string      `json:"playlistId,omitempty"`
}

func (a AlbumItem) ItemID() string    { return a.BrowseID }
func (a AlbumItem) ItemTitle() string { return a.Title }
func (AlbumItem) catalogItem()        {}

// ArtistItem is a browsable artist.
type ArtistItem struct {
	BrowseID  string         `json:"browseId"`
	Name      string         `json:"name"`
	Thumbnail string         `json:"thumbnail,omitempty"`
	Shuffle   *WatchEndpoint `json:"shuffle,omitempty"`
	Radio     *WatchEndpoint `json:"radio,omitempty"`
}

func (a ArtistItem) ItemID() string    { return a.BrowseID }
func (a ArtistItem) ItemTitle() string { return a.Name }
func (ArtistItem) catalogItem()        {}

// PlaylistItem is a browsable playlist.
type PlaylistItem struct {
	BrowseID      string         `json:"browseId"`
	Title         string         `json:"title"`
	Author        string         `json:"author,omitempty"`
	SongCountText string         `json:"songCountText,omitempty"`
	Thumbnail     string         `json:"thumbnail,omitempty"`
	Play          *WatchEndpoint `json:"play,omitempty"`
	Shuffle       *WatchEndpoint `json:"shuffle,omitempty"`
	Radio         *WatchEndpoint `json:"radio,omitempty"`
}

func (p PlaylistItem) ItemID() string    { return p.BrowseID }
func (p PlaylistItem) ItemTitle() string { return p.Title }
func (PlaylistItem) catalogItem()        {}

// Page is one fetch's worth of a listing. An empty Continuation means the
// stream is exhausted. Tokens are single use: once passed to a continuation
// call they must not be replayed.
type Page[T any] struct {
	Items        []T    `json:"items"`
	Continuation string `json:"continuation,omitempty"`
}

// MergeByID appends newly fetched items onto an accumulated listing, dropping
// ids already present. The service repeats boundary items across page edges,
// so callers merge through this instead of a plain append.
func MergeByID[T interface{ ItemID() string }](existing, more []T) []T {
	seen := make(map[string]bool, len(existing))
	for _, item := range existing {
		seen[item.ItemID()] = true
	}

	merged := existing

	for _, item := range more {
		if seen[item.ItemID()] {
			continue
		}

		seen[item.ItemID()] = true
		merged = append(merged, item)
	}

	return merged
}
