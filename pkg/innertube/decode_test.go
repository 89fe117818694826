package innertube

import (
	"reflect"
	"testing"
)

// Fixture builders for renderer trees. Building maps keeps the fixtures
// close to the real payload shape without hundreds of lines of raw JSON.

func textRun(text string) map[string]any {
	return map[string]any{"text": text}
}

func browseRun(text, browseID, pageType string) map[string]any {
	return map[string]any{
		"text": text,
		"navigationEndpoint": map[string]any{
			"browseEndpoint": map[string]any{
				"browseId": browseID,
				"browseEndpointContextSupportedConfigs": map[string]any{
					"browseEndpointContextMusicConfig": map[string]any{"pageType": pageType},
				},
			},
		},
	}
}

func flexColumn(runs ...map[string]any) any {
	rs := make([]any, len(runs))
	for i, r := range runs {
		rs[i] = any(r)
	}

	return map[string]any{
		"musicResponsiveListItemFlexColumnRenderer": map[string]any{
			"text": map[string]any{"runs": rs},
		},
	}
}

func fixedColumn(text string) any {
	return map[string]any{
		"musicResponsiveListItemFixedColumnRenderer": map[string]any{
			"text": map[string]any{"runs": []any{textRun(text)}},
		},
	}
}

func playOverlay(videoID, videoType string) map[string]any {
	return map[string]any{
		"musicItemThumbnailOverlayRenderer": map[string]any{
			"content": map[string]any{
				"musicPlayButtonRenderer": map[string]any{
					"playNavigationEndpoint": map[string]any{
						"watchEndpoint": map[string]any{
							"videoId": videoID,
							"watchEndpointMusicSupportedConfigs": map[string]any{
								"watchEndpointMusicConfig": map[string]any{"musicVideoType": videoType},
							},
						},
					},
				},
			},
		},
	}
}

func thumbnails(urls ...string) map[string]any {
	ts := make([]any, len(urls))
	for i, u := range urls {
		ts[i] = map[string]any{"url": u, "width": 60 * (i + 1), "height": 60 * (i + 1)}
	}

	return map[string]any{
		"musicThumbnailRenderer": map[string]any{
			"thumbnail": map[string]any{"thumbnails": ts},
		},
	}
}

func songRow(videoID, title, artist, album, duration string) map[string]any {
	byline := []map[string]any{browseRun(artist, "UCartist1", pageTypeArtist)}
	if album != "" {
		byline = append(byline, textRun(separatorRun), browseRun(album, "MPREalbum1", pageTypeAlbum))
	}

	return map[string]any{
		"musicResponsiveListItemRenderer": map[string]any{
			"flexColumns":  []any{flexColumn(textRun(title)), flexColumn(byline...)},
			"fixedColumns": []any{fixedColumn(duration)},
			"thumbnail":    thumbnails("https://img.example/small.jpg", "https://img.example/big.jpg"),
			"overlay":      playOverlay(videoID, videoTypeTrack),
			"playlistItemData": map[string]any{
				"videoId": videoID,
			},
		},
	}
}

func TestDecodeResponsiveListItem(t *testing.T) {
	t.Run("audio track", func(t *testing.T) {
		entry := Node(songRow("vid01", "Morning Song", "The Larks", "Daybreak", "3:45"))

		item, ok := DecodeShelfEntry(entry)
		if !ok {
			t.Fatal("expected item to decode")
		}

		song, ok := item.(SongItem)
		if !ok {
			t.Fatalf("expected SongItem, got %T", item)
		}

		if song.ID != "vid01" {
			t.Errorf("expected id vid01, got %s", song.ID)
		}

		if song.Title != "Morning Song" {
			t.Errorf("expected title Morning Song, got %s", song.Title)
		}

		if len(song.Artists) != 1 || song.Artists[0].Name != "The Larks" {
			t.Errorf("unexpected artists: %+v", song.Artists)
		}

		if song.Artists[0].BrowseID != "UCartist1" {
			t.Errorf("expected linked artist, got %+v", song.Artists[0])
		}

		if song.Album == nil || song.Album.Name != "Daybreak" {
			t.Errorf("unexpected album: %+v", song.Album)
		}

		if song.Duration != 225 {
			t.Errorf("expected duration 225, got %d", song.Duration)
		}

		if song.Thumbnail != "https://img.example/big.jpg" {
			t.Errorf("expected largest thumbnail, got %s", song.Thumbnail)
		}

		if song.Endpoint.VideoID != "vid01" {
			t.Errorf("expected watch endpoint video id, got %+v", song.Endpoint)
		}
	})

	t.Run("generic video never keeps an album", func(t *testing.T) {
		row := songRow("vid02", "Live Session", "The Larks", "Daybreak", "12:01")
		renderer := row["musicResponsiveListItemRenderer"].(map[string]any)
		renderer["overlay"] = playOverlay("vid02", "MUSIC_VIDEO_TYPE_UGC")

		item, ok := DecodeShelfEntry(Node(row))
		if !ok {
			t.Fatal("expected item to decode")
		}

		song := item.(SongItem)
		if song.Album != nil {
			t.Errorf("expected no album on a generic video, got %+v", song.Album)
		}
	})

	t.Run("album row via browse endpoint", func(t *testing.T) {
		entry := Node(map[string]any{
			"musicResponsiveListItemRenderer": map[string]any{
				"flexColumns": []any{
					flexColumn(textRun("Daybreak")),
					flexColumn(browseRun("The Larks", "UCartist1", pageTypeArtist), textRun(separatorRun), textRun("2021")),
				},
				"navigationEndpoint": map[string]any{
					"browseEndpoint": map[string]any{
						"browseId": "MPREalbum1",
						"browseEndpointContextSupportedConfigs": map[string]any{
							"browseEndpointContextMusicConfig": map[string]any{"pageType": pageTypeAlbum},
						},
					},
				},
			},
		})

		item, ok := DecodeShelfEntry(entry)
		if !ok {
			t.Fatal("expected item to decode")
		}

		album, ok := item.(AlbumItem)
		if !ok {
			t.Fatalf("expected AlbumItem, got %T", item)
		}

		if album.BrowseID != "MPREalbum1" || album.Title != "Daybreak" {
			t.Errorf("unexpected album: %+v", album)
		}

		if album.Year != 2021 {
			t.Errorf("expected year 2021, got %d", album.Year)
		}
	})
}

func TestDecodeTwoRowItem(t *testing.T) {
	entry := Node(map[string]any{
		"musicTwoRowItemRenderer": map[string]any{
			"title": map[string]any{"runs": []any{textRun("Daybreak")}},
			"subtitle": map[string]any{"runs": []any{
				textRun("Album"),
				textRun(separatorRun),
				browseRun("The Larks", "UCartist1", pageTypeArtist),
				textRun(separatorRun),
				textRun("2021"),
			}},
			"thumbnailRenderer": thumbnails("https://img.example/cover.jpg"),
			"navigationEndpoint": map[string]any{
				"browseEndpoint": map[string]any{
					"browseId": "MPREalbum1",
					"browseEndpointContextSupportedConfigs": map[string]any{
						"browseEndpointContextMusicConfig": map[string]any{"pageType": pageTypeAlbum},
					},
				},
			},
		},
	})

	item, ok := DecodeShelfEntry(entry)
	if !ok {
		t.Fatal("expected item to decode")
	}

	album, ok := item.(AlbumItem)
	if !ok {
		t.Fatalf("expected AlbumItem, got %T", item)
	}

	if album.Title != "Daybreak" || album.Year != 2021 {
		t.Errorf("unexpected album: %+v", album)
	}

	if len(album.Artists) != 1 || album.Artists[0].Name != "The Larks" {
		t.Errorf("unexpected artists: %+v", album.Artists)
	}

	if album.Thumbnail != "https://img.example/cover.jpg" {
		t.Errorf("unexpected thumbnail: %s", album.Thumbnail)
	}
}

func TestDecodeItemsFaultTolerance(t *testing.T) {
	broken := songRow("vid03", "", "Nobody", "", "2:00")

	entries := []any{
		songRow("vid01", "One", "A", "", "1:01"),
		songRow("vid02", "Two", "B", "", "2:02"),
		broken,
		songRow("vid04", "Four", "D", "", "4:04"),
		songRow("vid05", "Five", "E", "", "5:05"),
	}

	items := decodeItems(entries)

	if len(items) != 4 {
		t.Fatalf("expected 4 decoded items, got %d", len(items))
	}

	wantIDs := []string{"vid01", "vid02", "vid04", "vid05"}
	for i, want := range wantIDs {
		if items[i].ItemID() != want {
			t.Errorf("item %d: expected %s, got %s", i, want, items[i].ItemID())
		}
	}
}

func TestDecodeIdempotent(t *testing.T) {
	entries := []any{
		songRow("vid01", "One", "A", "Album A", "1:01"),
		songRow("vid02", "Two", "B", "", "2:02"),
	}

	first := decodeItems(entries)
	second := decodeItems(entries)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("decoding is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestMergeByID(t *testing.T) {
	a := []SongItem{{ID: "1", Title: "one"}, {ID: "2", Title: "two"}}
	b := []SongItem{{ID: "2", Title: "two again"}, {ID: "3", Title: "three"}}

	merged := MergeByID(a, b)

	if len(merged) != 3 {
		t.Fatalf("expected 3 items, got %d", len(merged))
	}

	if merged[0].ID != "1" || merged[1].ID != "2" || merged[2].ID != "3" {
		t.Errorf("unexpected order: %+v", merged)
	}

	if merged[1].Title != "two" {
		t.Errorf("expected first occurrence kept, got %q", merged[1].Title)
	}
}
