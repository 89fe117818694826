package queue

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ajisai/melodine/pkg/innertube"
)

// DirectQueue plays from a single watch endpoint: one track, optionally
// positioned inside a remote playlist or radio.
type DirectQueue struct {
	session

	seed      innertube.WatchEndpoint
	preloaded *innertube.SongItem
}

// DirectOption configures a DirectQueue.
type DirectOption func(*DirectQueue)

// WithPreloadedItem supplies an item the player can show before the initial
// fetch completes, typically the row the user tapped.
func WithPreloadedItem(item innertube.SongItem) DirectOption {
	return func(q *DirectQueue) { q.preloaded = &item }
}

// NewDirect creates a queue seeded by a watch endpoint.
func NewDirect(catalog Catalog, seed innertube.WatchEndpoint, opts ...DirectOption) *DirectQueue {
	q := &DirectQueue{
		session: session{
			catalog: catalog,
			log:     log.WithPrefix("queue"),
			id:      uuid.NewString(),
		},
		seed: seed,
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

func (q *DirectQueue) PreloadItem() *innertube.SongItem { return q.preloaded }

// GetInitialStatus fetches the playback panel for the seed endpoint,
// following any automix extension, and records where later pages continue
// from.
func (q *DirectQueue) GetInitialStatus(ctx context.Context) (*Status, error) {
	if q.seed.IsZero() {
		return nil, errors.New("queue seed locates nothing")
	}

	res, err := resolveNext(ctx, q.catalog, q.log, q.seed, "")
	if err != nil {
		return nil, err
	}

	q.store(res)

	q.log.Debug("queue initialized", "queue", q.id, "title", res.Title,
		"items", len(res.Items), "index", res.CurrentIndex)

	return &Status{
		Title:      res.Title,
		Items:      res.Items,
		StartIndex: res.CurrentIndex,
	}, nil
}
