package queue

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ajisai/melodine/pkg/innertube"
)

// radioParams asks the next endpoint for the open-ended radio feed of a
// playlist.
const radioParams = "wAEB"

// AlbumRadioQueue plays an album front to back and then keeps going with the
// album's radio feed.
type AlbumRadioQueue struct {
	session

	browseID string
}

// NewAlbumRadio creates a queue seeded by an album browse id.
func NewAlbumRadio(catalog Catalog, browseID string) *AlbumRadioQueue {
	return &AlbumRadioQueue{
		session: session{
			catalog: catalog,
			log:     log.WithPrefix("queue"),
			id:      uuid.NewString(),
		},
		browseID: browseID,
	}
}

// PreloadItem returns nil; nothing is known before the album page loads.
func (q *AlbumRadioQueue) PreloadItem() *innertube.SongItem { return nil }

// GetInitialStatus loads the album's tracklist, then the radio feed behind
// it. The feed echoes the album's own tracks at its head under fresh panel
// ids, so the overlap is removed by count, not by id, before concatenating.
func (q *AlbumRadioQueue) GetInitialStatus(ctx context.Context) (*Status, error) {
	album, err := q.catalog.AlbumPage(ctx, q.browseID)
	if err != nil {
		return nil, err
	}

	seed := innertube.WatchEndpoint{
		PlaylistID: album.PlaylistID,
		Params:     radioParams,
	}

	res, err := resolveNext(ctx, q.catalog, q.log, seed, "")
	if err != nil {
		return nil, err
	}

	q.store(res)

	overlap := len(album.Tracks)
	if overlap > len(res.Items) {
		overlap = len(res.Items)
	}

	items := make([]innertube.SongItem, 0, len(album.Tracks)+len(res.Items)-overlap)
	items = append(items, album.Tracks...)
	items = append(items, res.Items[overlap:]...)

	q.log.Debug("album radio initialized", "queue", q.id, "album", album.Title,
		"albumTracks", len(album.Tracks), "radioTail", len(res.Items)-overlap)

	return &Status{
		Title: album.Title,
		Items: items,
	}, nil
}
