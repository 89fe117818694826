package innertube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// playlistBrowsePrefix turns a raw playlist id into the browse id of its full
// listing page.
const playlistBrowsePrefix = "VL"

// Session holds the mutable client-side state shared by every request:
// locale, visitor token and the account acted on behalf of. It is read-mostly;
// Client replaces the whole value under a lock instead of mutating fields.
type Session struct {
	HL          string
	GL          string
	VisitorData string
	AccountID   string
}

// Client is a logical session against the catalog service. A single Client is
// shared by concurrent listings and queues.
type Client struct {
	transport Transport
	extractor StreamExtractor
	primary   ClientIdentity
	fallback  ClientIdentity
	log       *log.Logger

	mu      sync.RWMutex
	session Session
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithExtractor installs the stream-extraction service used as the last
// playback resolver step.
func WithExtractor(e StreamExtractor) Option {
	return func(c *Client) { c.extractor = e }
}

// WithLocale sets the hl/gl pair sent with every request.
func WithLocale(hl, gl string) Option {
	return func(c *Client) {
		c.session.HL = hl
		c.session.GL = gl
	}
}

// WithVisitorData sets the opaque visitor token.
func WithVisitorData(visitorData string) Option {
	return func(c *Client) { c.session.VisitorData = visitorData }
}

// WithAccountID sets the account id for multi-account cookies.
func WithAccountID(accountID string) Option {
	return func(c *Client) { c.session.AccountID = accountID }
}

// WithIdentities overrides the primary/fallback client identity pair used by
// the playback resolver.
func WithIdentities(primary, fallback ClientIdentity) Option {
	return func(c *Client) {
		c.primary = primary
		c.fallback = fallback
	}
}

// New creates a Client. Without options it talks to the real service
// unauthenticated with a "en"/"US" locale.
func New(opts ...Option) *Client {
	c := &Client{
		transport: NewHTTPTransport(),
		primary:   WebRemix,
		fallback:  IOSMusic,
		log:       log.WithPrefix("innertube"),
		session:   Session{HL: "en", GL: "US"},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetCookie installs the auth cookie on the underlying transport, when the
// transport supports it.
func (c *Client) SetCookie(cookie string) {
	if t, ok := c.transport.(*HTTPTransport); ok {
		t.SetCookie(cookie)
	}
}

// SetVisitorData replaces the visitor token. Copy-on-write so concurrent
// requests see either the old or the new session, never a torn one.
func (c *Client) SetVisitorData(visitorData string) {
	c.mu.Lock()
	s := c.session
	s.VisitorData = visitorData
	c.session = s
	c.mu.Unlock()
}

// SetLocale replaces the locale pair.
func (c *Client) SetLocale(hl, gl string) {
	c.mu.Lock()
	s := c.session
	s.HL = hl
	s.GL = gl
	c.session = s
	c.mu.Unlock()
}

func (c *Client) snapshot() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.session
}

// contextBody builds the innertube context object for an identity from the
// current session.
func (c *Client) contextBody(identity ClientIdentity) map[string]any {
	s := c.snapshot()

	client := map[string]any{
		"clientName":    identity.Name,
		"clientVersion": identity.Version,
		"hl":            s.HL,
		"gl":            s.GL,
	}

	if s.VisitorData != "" {
		client["visitorData"] = s.VisitorData
	}

	if identity.UserAgent != "" {
		client["userAgent"] = identity.UserAgent
	}

	if identity.DeviceMake != "" {
		client["deviceMake"] = identity.DeviceMake
		client["deviceModel"] = identity.DeviceModel
		client["osName"] = identity.OSName
		client["osVersion"] = identity.OSVersion
	}

	ctx := map[string]any{"client": client}

	if s.AccountID != "" {
		ctx["user"] = map[string]any{"onBehalfOfUser": s.AccountID}
	}

	return ctx
}

// send issues one API call as the given identity and returns the decoded
// tree, after translating remote error payloads into the error taxonomy.
func (c *Client) send(ctx context.Context, identity ClientIdentity, path string, params map[string]any) (Node, error) {
	body := map[string]any{"context": c.contextBody(identity)}
	for k, v := range params {
		body[k] = v
	}

	raw, err := c.transport.Send(ctx, identity, path, body)
	if err != nil {
		var terr *TransportError
		if errors.As(err, &terr) && len(raw) > 0 {
			if msg := errorMessage(raw); msg != "" && notFoundMessage(msg) {
				return nil, fmt.Errorf("%s: %w", msg, ErrNotFound)
			}
		}

		return nil, err
	}

	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}

	node := Node(tree)

	if msg := node.Str("error", "message"); msg != "" {
		if notFoundMessage(msg) {
			return nil, fmt.Errorf("%s: %w", msg, ErrNotFound)
		}

		return nil, &TransportError{Path: path, Err: errors.New(msg)}
	}

	return node, nil
}

// sendRaw is like send but skips tree decoding, for endpoints unmarshalled
// into typed structs.
func (c *Client) sendRaw(ctx context.Context, identity ClientIdentity, path string, params map[string]any) (json.RawMessage, error) {
	body := map[string]any{"context": c.contextBody(identity)}
	for k, v := range params {
		body[k] = v
	}

	return c.transport.Send(ctx, identity, path, body)
}

func errorMessage(raw json.RawMessage) string {
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return ""
	}

	return Node(tree).Str("error", "message")
}

// plBrowseID normalizes a playlist identifier for use as a browse id. Raw
// playlist ids need a fixed prefix before the service accepts them on the
// browse endpoint; ids that already carry it pass through unchanged.
func plBrowseID(playlistID string) string {
	if strings.HasPrefix(playlistID, playlistBrowsePrefix) {
		return playlistID
	}

	return playlistBrowsePrefix + playlistID
}

// continuationPath builds the request path for a continuation fetch. Tokens
// travel as query parameters, byte for byte.
func continuationPath(route, token string) string {
	escaped := url.QueryEscape(token)

	return route + "?ctoken=" + escaped + "&continuation=" + escaped
}
