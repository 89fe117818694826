package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/ajisai/melodine/internal/config"
	"github.com/ajisai/melodine/pkg/innertube"
	"github.com/ajisai/melodine/pkg/piped"
	"github.com/ajisai/melodine/pkg/queue"
)

// Runner wires configuration into the client core and backs every CLI
// action.
type Runner struct{}

// client builds a catalog client from the config file named by --config. A
// missing file falls back to defaults so read-only commands work out of the
// box.
func (r *Runner) client(cmd *cli.Command) (*innertube.Client, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config: %w", err)
		}

		cfg = config.Default()
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	topts := []innertube.TransportOption{}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy_url: %w", err)
		}

		topts = append(topts, innertube.WithProxy(proxyURL))
	}

	if cfg.RequestsPerSecond > 0 {
		topts = append(topts, innertube.WithRateLimit(cfg.RequestsPerSecond))
	}

	client := innertube.New(
		innertube.WithTransport(innertube.NewHTTPTransport(topts...)),
		innertube.WithLocale(cfg.HL, cfg.GL),
		innertube.WithVisitorData(cfg.VisitorData),
		innertube.WithExtractor(piped.New(cfg.PipedURL)),
	)

	if cfg.Cookie != "" {
		client.SetCookie(cfg.Cookie)
	}

	return client, nil
}

func searchFilter(name string) (innertube.SearchFilter, error) {
	switch name {
	case "":
		return innertube.FilterNone, nil
	case "songs":
		return innertube.FilterSongs, nil
	case "videos":
		return innertube.FilterVideos, nil
	case "albums":
		return innertube.FilterAlbums, nil
	case "artists":
		return innertube.FilterArtists, nil
	case "playlists":
		return innertube.FilterPlaylists, nil
	default:
		return innertube.FilterNone, fmt.Errorf("unknown filter %q", name)
	}
}

// Search runs a query and follows shelf continuations up to --pages.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.Args().First()
	if query == "" {
		return errors.New("missing query argument")
	}

	client, err := r.client(cmd)
	if err != nil {
		return err
	}

	filter, err := searchFilter(cmd.String("filter"))
	if err != nil {
		return err
	}

	result, err := client.Search(ctx, query, filter)
	if err != nil {
		return err
	}

	items := result.Items
	token := result.Continuation

	for page := 1; page < int(cmd.Int("pages")) && token != ""; page++ {
		more, err := client.SearchContinuation(ctx, token)
		if err != nil {
			return err
		}

		items = innertube.MergeByID(items, more.Items)
		token = more.Continuation
	}

	for _, item := range items {
		printItem(item)
	}

	return nil
}

// Album prints an album page.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	browseID := cmd.Args().First()
	if browseID == "" {
		return errors.New("missing browseId argument")
	}

	client, err := r.client(cmd)
	if err != nil {
		return err
	}

	album, err := client.AlbumPage(ctx, browseID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d) - %s\n", album.Title, album.Year, artistNames(album.Artists))

	for i, track := range album.Tracks {
		fmt.Printf("%3d. %s [%s]\n", i+1, track.Title, formatDuration(track.Duration))
	}

	return nil
}

// Playlist prints a playlist, paging its track list up to --pages.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errors.New("missing playlistId argument")
	}

	client, err := r.client(cmd)
	if err != nil {
		return err
	}

	playlist, err := client.PlaylistPage(ctx, id)
	if err != nil {
		return err
	}

	tracks := playlist.Tracks
	token := playlist.SongsContinuation

	for page := 1; page < int(cmd.Int("pages")) && token != ""; page++ {
		more, err := client.PlaylistContinuation(ctx, token)
		if err != nil {
			return err
		}

		tracks = innertube.MergeByID(tracks, more.Items)
		token = more.Continuation
	}

	fmt.Printf("%s - %s (%s)\n", playlist.Title, playlist.Author, playlist.SongCountText)

	for i, track := range tracks {
		fmt.Printf("%3d. %s - %s\n", i+1, track.Title, artistNames(track.Artists))
	}

	return nil
}

// Artist prints an artist page shelf by shelf.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	browseID := cmd.Args().First()
	if browseID == "" {
		return errors.New("missing browseId argument")
	}

	client, err := r.client(cmd)
	if err != nil {
		return err
	}

	artist, err := client.ArtistPage(ctx, browseID)
	if err != nil {
		return err
	}

	fmt.Println(artist.Name)

	for _, shelf := range artist.Shelves {
		fmt.Printf("\n## %s\n", shelf.Title)

		for _, item := range shelf.Items {
			printItem(item)
		}
	}

	return nil
}

// Lyrics resolves the lyrics tab behind a track's playback panel and prints
// the text.
func (r *Runner) Lyrics(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.Args().First()
	if trackID == "" {
		return errors.New("missing trackId argument")
	}

	client, err := r.client(cmd)
	if err != nil {
		return err
	}

	res, err := client.Next(ctx, innertube.WatchEndpoint{VideoID: trackID})
	if err != nil {
		return err
	}

	if res.Lyrics == nil {
		return errors.New("no lyrics tab for this track")
	}

	text, err := client.Lyrics(ctx, *res.Lyrics)
	if err != nil {
		return err
	}

	if text == "" {
		fmt.Println("(no lyrics)")
		return nil
	}

	fmt.Println(text)

	return nil
}

// Resolve runs the playback resolver and prints the chosen stream.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.Args().First()
	if trackID == "" {
		return errors.New("missing trackId argument")
	}

	client, err := r.client(cmd)
	if err != nil {
		return err
	}

	resp, err := client.ResolvePlayback(ctx, trackID)
	if err != nil {
		return err
	}

	if !resp.PlayabilityStatus.OK() {
		return fmt.Errorf("not playable: %s (%s)", resp.PlayabilityStatus.Status, resp.PlayabilityStatus.Reason)
	}

	stream, ok := resp.BestAudio()
	if !ok {
		return errors.New("no audio formats in response")
	}

	fmt.Printf("%s - %s\n", resp.VideoDetails.Title, resp.VideoDetails.Author)
	fmt.Printf("codec=%s bitrate=%d bytes=%s\n", stream.Codecs(), stream.Bitrate, stream.ContentLength)
	fmt.Println(stream.URL)

	return nil
}

// Queue simulates what the player runtime does with a queue: initial status,
// then page-by-page advance.
func (r *Runner) Queue(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client(cmd)
	if err != nil {
		return err
	}

	var q queue.Queue

	switch {
	case cmd.String("album") != "":
		q = queue.NewAlbumRadio(client, cmd.String("album"))
	case cmd.String("video") != "" || cmd.String("playlist") != "":
		q = queue.NewDirect(client, innertube.WatchEndpoint{
			VideoID:    cmd.String("video"),
			PlaylistID: cmd.String("playlist"),
		})
	default:
		return errors.New("need --video, --playlist or --album")
	}

	status, err := q.GetInitialStatus(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("queue: %s (start at %d)\n", status.Title, status.StartIndex)

	items := status.Items

	for page := 0; page < int(cmd.Int("pages")) && q.HasNextPage(); page++ {
		more, err := q.NextPage(ctx)
		if err != nil {
			return err
		}

		items = append(items, more...)
	}

	for i, item := range items {
		marker := "  "
		if i == status.StartIndex {
			marker = "▶ "
		}

		fmt.Printf("%s%3d. %s - %s [%s]\n", marker, i+1, item.Title,
			artistNames(item.Artists), formatDuration(item.Duration))
	}

	if !q.HasNextPage() {
		fmt.Println("(end of queue)")
	}

	return nil
}

// ConfigInit writes a default configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	if err := config.Save(config.Default(), path); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)

	return nil
}

func printItem(item innertube.CatalogItem) {
	switch v := item.(type) {
	case innertube.SongItem:
		fmt.Printf("song      %s  %s - %s [%s]\n", v.ID, v.Title, artistNames(v.Artists), formatDuration(v.Duration))
	case innertube.AlbumItem:
		fmt.Printf("album     %s  %s (%d)\n", v.BrowseID, v.Title, v.Year)
	case innertube.ArtistItem:
		fmt.Printf("artist    %s  %s\n", v.BrowseID, v.Name)
	case innertube.PlaylistItem:
		fmt.Printf("playlist  %s  %s - %s\n", v.BrowseID, v.Title, v.Author)
	}
}

func artistNames(artists []innertube.ArtistRef) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}

	return strings.Join(names, ", ")
}

func formatDuration(seconds int) string {
	d := time.Duration(seconds) * time.Second

	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}

	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
