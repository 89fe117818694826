// Package queue implements the per-playback-session queue engine consumed by
// the player runtime. A queue resolves "what plays next", follows automix
// extensions, and pages the panel on demand.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/ajisai/melodine/pkg/innertube"
)

// maxRebaseDepth bounds automix rebase chains. The service has not been
// observed to chain this deep, let alone cycle, but the guard keeps a
// misbehaving response from recursing forever.
const maxRebaseDepth = 5

// Status is what the player gets from a queue's initial fetch.
type Status struct {
	Title         string
	Items         []innertube.SongItem
	StartIndex    int
	StartPosition time.Duration
}

// Catalog is the slice of the catalog client a queue needs. Satisfied by
// *innertube.Client.
type Catalog interface {
	Next(ctx context.Context, endpoint innertube.WatchEndpoint) (*innertube.NextResult, error)
	NextContinuation(ctx context.Context, endpoint innertube.WatchEndpoint, token string) (*innertube.NextResult, error)
	AlbumPage(ctx context.Context, browseID string) (*innertube.AlbumResult, error)
}

// Queue is the capability set exposed to the player runtime.
type Queue interface {
	// PreloadItem returns an item the player may start rendering before
	// GetInitialStatus completes, or nil.
	PreloadItem() *innertube.SongItem

	GetInitialStatus(ctx context.Context) (*Status, error)

	// HasNextPage reports whether the most recent fetch returned a
	// continuation token.
	HasNextPage() bool

	// NextPage fetches exactly one more page and returns only the newly
	// fetched items; the caller appends them. With no stored token it
	// returns nil without touching the network.
	NextPage(ctx context.Context) ([]innertube.SongItem, error)
}

// session holds the mutable per-queue state shared by both queue variants:
// the rebased endpoint and the single-use continuation token. A queue is not
// reentrant, so the session serializes its own fetches.
type session struct {
	catalog Catalog
	log     *log.Logger
	id      string

	mu           sync.Mutex
	endpoint     innertube.WatchEndpoint
	continuation string

	flight singleflight.Group
}

// store records the outcome of a successful fetch. Failed or cancelled
// fetches never reach here, so the queue stays in its last good state.
func (s *session) store(res *innertube.NextResult) {
	s.mu.Lock()
	s.endpoint = res.Endpoint
	s.continuation = res.Continuation
	s.mu.Unlock()
}

func (s *session) HasNextPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.continuation != ""
}

func (s *session) NextPage(ctx context.Context) ([]innertube.SongItem, error) {
	s.mu.Lock()
	token := s.continuation
	endpoint := s.endpoint
	s.mu.Unlock()

	if token == "" {
		return nil, nil
	}

	// Tokens are single use, so concurrent callers racing on the same
	// token must share one fetch rather than each spending it.
	v, err, _ := s.flight.Do(token, func() (any, error) {
		res, err := resolveNext(ctx, s.catalog, s.log, endpoint, token)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.continuation == token {
			s.endpoint = res.Endpoint
			s.continuation = res.Continuation
		}
		s.mu.Unlock()

		return res, nil
	})
	if err != nil {
		return nil, err
	}

	res := v.(*innertube.NextResult)

	s.log.Debug("queue page", "queue", s.id, "items", len(res.Items), "more", res.Continuation != "")

	return res.Items, nil
}

// resolveNext performs one panel fetch and then follows automix previews
// until the panel ends in a playable item. Each hop prepends the real items
// accumulated so far and rebases onto the referenced endpoint, so all later
// continuation calls target the endpoint that actually produced the panel.
func resolveNext(ctx context.Context, catalog Catalog, logger *log.Logger, endpoint innertube.WatchEndpoint, token string) (*innertube.NextResult, error) {
	var (
		res *innertube.NextResult
		err error
	)

	if token == "" {
		res, err = catalog.Next(ctx, endpoint)
	} else {
		res, err = catalog.NextContinuation(ctx, endpoint, token)
	}

	if err != nil {
		return nil, err
	}

	visited := map[string]bool{endpoint.PlaylistID: true}

	for depth := 0; res.AutomixEndpoint != nil; depth++ {
		target := *res.AutomixEndpoint

		if depth >= maxRebaseDepth || visited[target.PlaylistID] {
			logger.Warn("abandoning automix chain", "playlistId", target.PlaylistID, "depth", depth)

			res.AutomixEndpoint = nil

			break
		}

		visited[target.PlaylistID] = true
		prefix := res.Items

		rebased, err := catalog.Next(ctx, target)
		if err != nil {
			return nil, err
		}

		items := make([]innertube.SongItem, 0, len(prefix)+len(rebased.Items))
		items = append(items, prefix...)
		items = append(items, rebased.Items...)

		res = &innertube.NextResult{
			Title:           rebased.Title,
			Items:           items,
			CurrentIndex:    rebased.CurrentIndex,
			Continuation:    rebased.Continuation,
			Lyrics:          rebased.Lyrics,
			Related:         rebased.Related,
			Endpoint:        rebased.Endpoint,
			AutomixEndpoint: rebased.AutomixEndpoint,
		}
	}

	return res, nil
}
