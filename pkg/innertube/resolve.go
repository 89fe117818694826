package innertube

import (
	"context"
	"fmt"
)

// ExtractedStream is one audio stream reported by the external
// stream-extraction service. Its URL works; its metadata beyond the bitrate
// is not trusted.
type ExtractedStream struct {
	URL           string `json:"url"`
	Bitrate       int    `json:"bitrate"`
	MimeType      string `json:"mimeType,omitempty"`
	Codec         string `json:"codec,omitempty"`
	ContentLength int64  `json:"contentLength,omitempty"`
}

// StreamExtractor queries an independent extraction service for working
// audio stream URLs, keyed by bitrate.
type StreamExtractor interface {
	AudioStreams(ctx context.Context, trackID string) ([]ExtractedStream, error)
}

// ResolvePlayback turns a track id into a playable response.
//
// The primary identity is fastest and usually correct. When it refuses, the
// fallback identity's metadata is trustworthy but its URLs are often broken,
// while the extraction service has working URLs with unreliable metadata.
// The two are reconciled by exact bitrate match. Formats with no matching
// extracted stream are dropped rather than kept with an unverified URL.
//
// There is no retry here; re-resolution policy belongs to the player.
func (c *Client) ResolvePlayback(ctx context.Context, trackID string) (*PlayerResponse, error) {
	primary, err := c.Player(ctx, c.primary, trackID)
	if err != nil {
		return nil, err
	}

	if primary.PlayabilityStatus.OK() {
		return primary, nil
	}

	c.log.Debug("primary playback refused", "trackId", trackID,
		"status", primary.PlayabilityStatus.Status, "reason", primary.PlayabilityStatus.Reason)

	fallback, err := c.Player(ctx, c.fallback, trackID)
	if err != nil {
		return nil, err
	}

	if !fallback.PlayabilityStatus.OK() {
		// Both identities refused. Hand back the primary response so the
		// caller can surface its playability reason.
		return primary, nil
	}

	if c.extractor == nil {
		return nil, &PlaybackUnresolvableError{
			TrackID: trackID,
			Reasons: []string{"fallback URLs untrusted and no stream extractor configured"},
		}
	}

	streams, err := c.extractor.AudioStreams(ctx, trackID)
	if err != nil {
		return nil, &PlaybackUnresolvableError{
			TrackID: trackID,
			Reasons: []string{fmt.Sprintf("stream extraction failed: %v", err)},
		}
	}

	merged := c.mergeFormats(trackID, fallback.StreamingData.AdaptiveFormats, streams)
	if len(merged) == 0 {
		return nil, &PlaybackUnresolvableError{
			TrackID: trackID,
			Reasons: []string{"no extracted stream matched any fallback format bitrate"},
		}
	}

	fallback.StreamingData.AdaptiveFormats = merged

	return fallback, nil
}

// mergeFormats substitutes extraction-service URLs into the fallback format
// ladder, joining on exact bitrate. Unmatched formats are dropped; the drop
// is logged so ladder drift shows up in monitoring.
func (c *Client) mergeFormats(trackID string, formats []Format, streams []ExtractedStream) []Format {
	byBitrate := make(map[int]ExtractedStream, len(streams))
	for _, s := range streams {
		byBitrate[s.Bitrate] = s
	}

	merged := make([]Format, 0, len(formats))

	for _, f := range formats {
		if !f.IsAudio() {
			continue
		}

		stream, ok := byBitrate[f.Bitrate]
		if !ok {
			c.log.Warn("dropping format with no extracted stream", "trackId", trackID,
				"itag", f.ITag, "bitrate", f.Bitrate)
			continue
		}

		f.URL = stream.URL
		merged = append(merged, f)
	}

	return merged
}
