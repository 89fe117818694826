package innertube

import (
	"context"
	"encoding/json"
	"strings"
)

// PlayabilityStatus reports whether the service will stream a track to the
// requesting client identity.
type PlayabilityStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// OK reports a playable response.
func (s PlayabilityStatus) OK() bool { return s.Status == "OK" }

// Format is one stream variant from the player endpoint.
type Format struct {
	ITag          int    `json:"itag"`
	URL           string `json:"url"`
	MimeType      string `json:"mimeType"`
	Bitrate       int    `json:"bitrate"`
	ContentLength string `json:"contentLength,omitempty"`
	AudioQuality  string `json:"audioQuality,omitempty"`
	AudioChannels int    `json:"audioChannels,omitempty"`
	LoudnessDB    float64 `json:"loudnessDb,omitempty"`
}

// IsAudio reports whether the format is an audio-only stream.
func (f Format) IsAudio() bool {
	return strings.HasPrefix(f.MimeType, "audio/")
}

// Codecs extracts the codecs parameter from the mime type, e.g. "opus" from
// `audio/webm; codecs="opus"`.
func (f Format) Codecs() string {
	_, params, found := strings.Cut(f.MimeType, ";")
	if !found {
		return ""
	}

	_, value, found := strings.Cut(params, "codecs=")
	if !found {
		return ""
	}

	return strings.Trim(strings.TrimSpace(value), `"`)
}

// StreamingData carries the format ladder of a player response.
type StreamingData struct {
	ExpiresInSeconds string   `json:"expiresInSeconds,omitempty"`
	Formats          []Format `json:"formats,omitempty"`
	AdaptiveFormats  []Format `json:"adaptiveFormats,omitempty"`
}

// VideoDetails is the track metadata block of a player response.
type VideoDetails struct {
	VideoID       string `json:"videoId"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ChannelID     string `json:"channelId"`
	LengthSeconds string `json:"lengthSeconds"`
	IsLive        bool   `json:"isLiveContent"`
}

// PlayerResponse is the typed player endpoint payload.
type PlayerResponse struct {
	PlayabilityStatus PlayabilityStatus `json:"playabilityStatus"`
	VideoDetails      VideoDetails      `json:"videoDetails"`
	StreamingData     StreamingData     `json:"streamingData"`
}

// BestAudio returns the highest-bitrate audio-only format, or false when the
// response has none.
func (p *PlayerResponse) BestAudio() (Format, bool) {
	best := -1

	for i, f := range p.StreamingData.AdaptiveFormats {
		if !f.IsAudio() {
			continue
		}

		if best < 0 || f.Bitrate > p.StreamingData.AdaptiveFormats[best].Bitrate {
			best = i
		}
	}

	if best < 0 {
		return Format{}, false
	}

	return p.StreamingData.AdaptiveFormats[best], true
}

// Player requests playback info for a track as the given client identity.
func (c *Client) Player(ctx context.Context, identity ClientIdentity, trackID string) (*PlayerResponse, error) {
	raw, err := c.sendRaw(ctx, identity, "player", map[string]any{"videoId": trackID})
	if err != nil {
		return nil, err
	}

	var resp PlayerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &TransportError{Path: "player", Err: err}
	}

	if resp.PlayabilityStatus.Status == "" {
		return nil, &DecodeError{Entity: "player", Field: "playabilityStatus"}
	}

	return &resp, nil
}
