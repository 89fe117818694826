package innertube

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func panelRow(videoID, title string, selected bool) map[string]any {
	r := map[string]any{
		"videoId": videoID,
		"title":   map[string]any{"runs": []any{textRun(title)}},
		"longBylineText": map[string]any{"runs": []any{
			browseRun("The Larks", "UCartist1", pageTypeArtist),
		}},
		"lengthText": map[string]any{"runs": []any{textRun("3:00")}},
		"navigationEndpoint": map[string]any{
			"watchEndpoint": map[string]any{"videoId": videoID, "playlistId": "RDAMVMseed"},
		},
	}

	if selected {
		r["selected"] = true
	}

	return map[string]any{"playlistPanelVideoRenderer": r}
}

func automixRow(playlistID, params string) map[string]any {
	return map[string]any{
		"automixPreviewVideoRenderer": map[string]any{
			"content": map[string]any{
				"automixPlaylistVideoRenderer": map[string]any{
					"navigationEndpoint": map[string]any{
						"watchPlaylistEndpoint": map[string]any{
							"playlistId": playlistID,
							"params":     params,
						},
					},
				},
			},
		},
	}
}

func nextResponse(panel map[string]any) map[string]any {
	return map[string]any{
		"contents": map[string]any{
			"singleColumnMusicWatchNextResultsRenderer": map[string]any{
				"tabbedRenderer": map[string]any{
					"watchNextTabbedResultsRenderer": map[string]any{
						"tabs": []any{
							map[string]any{
								"tabRenderer": map[string]any{
									"content": map[string]any{
										"musicQueueRenderer": map[string]any{
											"content": map[string]any{"playlistPanelRenderer": panel},
										},
									},
								},
							},
							map[string]any{
								"tabRenderer": map[string]any{
									"endpoint": map[string]any{
										"browseEndpoint": map[string]any{"browseId": "MPLYt_lyrics"},
									},
								},
							},
							map[string]any{
								"tabRenderer": map[string]any{
									"endpoint": map[string]any{
										"browseEndpoint": map[string]any{"browseId": "MPTRt_related"},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestNext(t *testing.T) {
	panel := map[string]any{
		"title": "My Supermix",
		"contents": []any{
			panelRow("vid01", "One", false),
			panelRow("vid02", "Two", true),
			panelRow("vid03", "Three", false),
			automixRow("RDAMautomix", "wAEB"),
		},
		"continuations": []any{
			map[string]any{"nextContinuationData": map[string]any{"continuation": "tok-n1"}},
		},
	}

	transport := &fakeTransport{
		handler: func(_ ClientIdentity, _ string, body map[string]any) (json.RawMessage, error) {
			if body["enablePersistentPlaylistPanel"] != true || body["isAudioOnly"] != true {
				t.Errorf("missing panel flags: %+v", body)
			}

			return mustJSON(t, nextResponse(panel)), nil
		},
	}

	client := New(WithTransport(transport))
	seed := WatchEndpoint{VideoID: "vid02", PlaylistID: "RDAMVMseed"}

	res, err := client.Next(context.Background(), seed)
	if err != nil {
		t.Fatalf("next: %v", err)
	}

	if res.Title != "My Supermix" {
		t.Errorf("unexpected title %q", res.Title)
	}

	if len(res.Items) != 3 {
		t.Fatalf("automix marker must not appear in items, got %d", len(res.Items))
	}

	if res.CurrentIndex != 1 {
		t.Errorf("expected selected index 1, got %d", res.CurrentIndex)
	}

	if res.Continuation != "tok-n1" {
		t.Errorf("unexpected continuation %q", res.Continuation)
	}

	if res.AutomixEndpoint == nil || res.AutomixEndpoint.PlaylistID != "RDAMautomix" {
		t.Errorf("unexpected automix endpoint: %+v", res.AutomixEndpoint)
	}

	if res.Endpoint != seed {
		t.Errorf("result must remember the requested endpoint, got %+v", res.Endpoint)
	}

	if res.Lyrics == nil || res.Lyrics.BrowseID != "MPLYt_lyrics" {
		t.Errorf("unexpected lyrics endpoint: %+v", res.Lyrics)
	}

	if res.Related == nil || res.Related.BrowseID != "MPTRt_related" {
		t.Errorf("unexpected related endpoint: %+v", res.Related)
	}
}

func TestNextWrappedRows(t *testing.T) {
	wrapped := map[string]any{
		"playlistPanelVideoWrapperRenderer": map[string]any{
			"primaryRenderer": panelRow("vid09", "Wrapped", false),
		},
	}

	panel := map[string]any{
		"contents": []any{wrapped},
	}

	transport := &fakeTransport{
		handler: func(_ ClientIdentity, _ string, _ map[string]any) (json.RawMessage, error) {
			return mustJSON(t, nextResponse(panel)), nil
		},
	}

	client := New(WithTransport(transport))

	res, err := client.Next(context.Background(), WatchEndpoint{VideoID: "vid09"})
	if err != nil {
		t.Fatalf("next: %v", err)
	}

	if len(res.Items) != 1 || res.Items[0].ID != "vid09" {
		t.Errorf("wrapped row not decoded: %+v", res.Items)
	}
}

func TestNextContinuation(t *testing.T) {
	transport := &fakeTransport{
		handler: func(_ ClientIdentity, _ string, _ map[string]any) (json.RawMessage, error) {
			page := map[string]any{
				"continuationContents": map[string]any{
					"playlistPanelContinuation": map[string]any{
						"contents": []any{
							panelRow("vid04", "Four", false),
							panelRow("vid05", "Five", false),
						},
					},
				},
			}

			return mustJSON(t, page), nil
		},
	}

	client := New(WithTransport(transport))
	endpoint := WatchEndpoint{PlaylistID: "RDAMautomix"}

	res, err := client.NextContinuation(context.Background(), endpoint, "tok-n1")
	if err != nil {
		t.Fatalf("next continuation: %v", err)
	}

	if len(res.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Items))
	}

	if res.Continuation != "" {
		t.Errorf("expected exhausted panel, got %q", res.Continuation)
	}

	if res.Endpoint != endpoint {
		t.Errorf("result must remember the requested endpoint, got %+v", res.Endpoint)
	}
}

func TestNextMalformed(t *testing.T) {
	transport := &fakeTransport{
		handler: func(_ ClientIdentity, _ string, _ map[string]any) (json.RawMessage, error) {
			return json.RawMessage(`{"contents":{}}`), nil
		},
	}

	client := New(WithTransport(transport))

	_, err := client.Next(context.Background(), WatchEndpoint{VideoID: "vid01"})

	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}
