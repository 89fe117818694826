package innertube

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type fakeExtractor struct {
	streams []ExtractedStream
	err     error
	calls   int
}

func (f *fakeExtractor) AudioStreams(_ context.Context, _ string) ([]ExtractedStream, error) {
	f.calls++
	return f.streams, f.err
}

func playerBody(t *testing.T, status, reason string, formats ...Format) json.RawMessage {
	t.Helper()

	return mustJSON(t, PlayerResponse{
		PlayabilityStatus: PlayabilityStatus{Status: status, Reason: reason},
		VideoDetails:      VideoDetails{VideoID: "vid01", Title: "Morning Song"},
		StreamingData:     StreamingData{AdaptiveFormats: formats},
	})
}

// playerByIdentity answers the player endpoint with a canned body per client
// identity.
func playerByIdentity(t *testing.T, bodies map[string]json.RawMessage) *fakeTransport {
	t.Helper()

	return &fakeTransport{
		handler: func(identity ClientIdentity, path string, _ map[string]any) (json.RawMessage, error) {
			body, ok := bodies[identity.Name]
			if !ok {
				t.Errorf("unexpected identity %s on %s", identity.Name, path)
				return nil, errors.New("unexpected identity")
			}

			return body, nil
		},
	}
}

func TestResolvePlayback(t *testing.T) {
	audio128 := Format{ITag: 140, URL: "https://p/bad128", MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 128000}
	audio256 := Format{ITag: 141, URL: "https://p/bad256", MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 256000}
	video := Format{ITag: 137, URL: "https://p/video", MimeType: `video/mp4; codecs="avc1"`, Bitrate: 4000000}

	t.Run("primary playable wins without further calls", func(t *testing.T) {
		transport := playerByIdentity(t, map[string]json.RawMessage{
			WebRemix.Name: playerBody(t, "OK", "", audio128, audio256),
		})

		extractor := &fakeExtractor{}
		client := New(WithTransport(transport), WithExtractor(extractor))

		resp, err := client.ResolvePlayback(context.Background(), "vid01")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}

		if !resp.PlayabilityStatus.OK() {
			t.Fatalf("expected playable response, got %+v", resp.PlayabilityStatus)
		}

		if transport.callCount() != 1 {
			t.Errorf("expected 1 transport call, got %d", transport.callCount())
		}

		if extractor.calls != 0 {
			t.Errorf("extractor must not run when primary plays, got %d calls", extractor.calls)
		}
	})

	t.Run("both refused returns primary status", func(t *testing.T) {
		transport := playerByIdentity(t, map[string]json.RawMessage{
			WebRemix.Name: playerBody(t, "UNPLAYABLE", "This video is not available"),
			IOSMusic.Name: playerBody(t, "LOGIN_REQUIRED", "Sign in"),
		})

		client := New(WithTransport(transport), WithExtractor(&fakeExtractor{}))

		resp, err := client.ResolvePlayback(context.Background(), "vid01")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}

		if resp.PlayabilityStatus.Status != "UNPLAYABLE" {
			t.Errorf("expected the primary refusal, got %+v", resp.PlayabilityStatus)
		}
	})

	t.Run("fallback formats joined to extracted streams by bitrate", func(t *testing.T) {
		transport := playerByIdentity(t, map[string]json.RawMessage{
			WebRemix.Name: playerBody(t, "UNPLAYABLE", "This video is not available"),
			IOSMusic.Name: playerBody(t, "OK", "", audio128, audio256, video),
		})

		extractor := &fakeExtractor{
			streams: []ExtractedStream{{URL: "https://x/good128", Bitrate: 128000}},
		}

		client := New(WithTransport(transport), WithExtractor(extractor))

		resp, err := client.ResolvePlayback(context.Background(), "vid01")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}

		formats := resp.StreamingData.AdaptiveFormats
		if len(formats) != 1 {
			t.Fatalf("expected exactly 1 merged format, got %d: %+v", len(formats), formats)
		}

		got := formats[0]
		if got.URL != "https://x/good128" {
			t.Errorf("expected the extracted URL, got %s", got.URL)
		}

		if got.Bitrate != 128000 || got.ITag != 140 {
			t.Errorf("expected fallback metadata kept, got %+v", got)
		}
	})

	t.Run("extraction failure is unresolvable", func(t *testing.T) {
		transport := playerByIdentity(t, map[string]json.RawMessage{
			WebRemix.Name: playerBody(t, "UNPLAYABLE", ""),
			IOSMusic.Name: playerBody(t, "OK", "", audio128),
		})

		extractor := &fakeExtractor{err: errors.New("instance down")}
		client := New(WithTransport(transport), WithExtractor(extractor))

		_, err := client.ResolvePlayback(context.Background(), "vid01")

		var perr *PlaybackUnresolvableError
		if !errors.As(err, &perr) {
			t.Fatalf("expected PlaybackUnresolvableError, got %v", err)
		}

		if perr.TrackID != "vid01" {
			t.Errorf("unexpected track id %s", perr.TrackID)
		}
	})

	t.Run("no bitrate overlap is unresolvable", func(t *testing.T) {
		transport := playerByIdentity(t, map[string]json.RawMessage{
			WebRemix.Name: playerBody(t, "UNPLAYABLE", ""),
			IOSMusic.Name: playerBody(t, "OK", "", audio128, audio256),
		})

		extractor := &fakeExtractor{
			streams: []ExtractedStream{{URL: "https://x/odd", Bitrate: 96000}},
		}

		client := New(WithTransport(transport), WithExtractor(extractor))

		_, err := client.ResolvePlayback(context.Background(), "vid01")

		var perr *PlaybackUnresolvableError
		if !errors.As(err, &perr) {
			t.Fatalf("expected PlaybackUnresolvableError, got %v", err)
		}
	})

	t.Run("no extractor configured is unresolvable", func(t *testing.T) {
		transport := playerByIdentity(t, map[string]json.RawMessage{
			WebRemix.Name: playerBody(t, "UNPLAYABLE", ""),
			IOSMusic.Name: playerBody(t, "OK", "", audio128),
		})

		client := New(WithTransport(transport))

		_, err := client.ResolvePlayback(context.Background(), "vid01")

		var perr *PlaybackUnresolvableError
		if !errors.As(err, &perr) {
			t.Fatalf("expected PlaybackUnresolvableError, got %v", err)
		}
	})
}

func TestBestAudio(t *testing.T) {
	resp := &PlayerResponse{StreamingData: StreamingData{AdaptiveFormats: []Format{
		{ITag: 137, MimeType: "video/mp4", Bitrate: 4000000},
		{ITag: 140, MimeType: "audio/mp4", Bitrate: 128000},
		{ITag: 251, MimeType: `audio/webm; codecs="opus"`, Bitrate: 160000},
	}}}

	best, ok := resp.BestAudio()
	if !ok {
		t.Fatal("expected an audio format")
	}

	if best.ITag != 251 {
		t.Errorf("expected the highest audio bitrate, got itag %d", best.ITag)
	}

	if best.Codecs() != "opus" {
		t.Errorf("expected opus, got %q", best.Codecs())
	}

	empty := &PlayerResponse{StreamingData: StreamingData{AdaptiveFormats: []Format{
		{ITag: 137, MimeType: "video/mp4", Bitrate: 4000000},
	}}}

	if _, ok := empty.BestAudio(); ok {
		t.Error("expected no audio format")
	}
}
