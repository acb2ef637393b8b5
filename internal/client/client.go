// Package client talks to a remote plangen server over socket.io, so that a
// plan can be checked against the operator set of a running instance.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/plangen/internal/ctxlog"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/server"
)

// DefaultTimeout bounds a request when the caller sets none.
const DefaultTimeout = 10 * time.Second

// Client sends plans to one server.
type Client struct {
	baseURL   string
	path      string
	namespace string
	timeout   time.Duration
}

// New parses rawURL, e.g. "http://localhost:8080/socket.io/". A URL without
// a path uses the default socket.io path.
func New(rawURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote URL %q needs a scheme and a host", rawURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:   fmt.Sprintf("%s://%s", u.Scheme, u.Host),
		path:      u.Path,
		namespace: "/",
		timeout:   timeout,
	}
	if c.path == "" || c.path == "/" {
		c.path = "/socket.io/"
	}
	return c, nil
}

// Endpoint returns the base URL and socket.io path the client connects to.
func (c *Client) Endpoint() (string, string) { return c.baseURL, c.path }

// Autocomplete asks the server for the hints of p. The result is the raw
// JSON of the server's answer.
func (c *Client) Autocomplete(ctx context.Context, p *plan.Plan) (json.RawMessage, error) {
	return c.request(ctx, server.EventAutocomplete, p, server.EventAutocompleteResult, server.EventAutocompleteError)
}

// Compile asks the server to compile p strictly.
func (c *Client) Compile(ctx context.Context, p *plan.Plan) (json.RawMessage, error) {
	return c.request(ctx, server.EventCompile, p, server.EventCompileResult, "")
}

type reply struct {
	data json.RawMessage
	err  error
}

func (c *Client) request(ctx context.Context, event string, p *plan.Plan, okEvent, errEvent string) (json.RawMessage, error) {
	logger := ctxlog.FromContext(ctx).With("remote", c.baseURL, "event", event)
	logger.Debug("Remote request started.")
	defer logger.Debug("Remote request finished.")

	payload, err := encodePlan(p)
	if err != nil {
		return nil, err
	}

	var isConnected atomic.Bool
	done := make(chan reply, 1)
	send := func(r reply) {
		select {
		case done <- r:
		default:
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	opts.SetPath(c.path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(c.baseURL, opts)
	io := manager.Socket(c.namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected, sending plan.", "sid", io.Id())
		io.Emit(event, payload)
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				send(reply{err: fmt.Errorf("connect to %s: %w", c.baseURL, err)})
				return
			}
		}
		send(reply{err: fmt.Errorf("connect to %s failed", c.baseURL)})
	})
	io.On(types.EventName(okEvent), func(args ...any) {
		data, err := encodeReply(args)
		send(reply{data: data, err: err})
	})
	if errEvent != "" {
		io.On(types.EventName(errEvent), func(args ...any) {
			data, _ := encodeReply(args)
			send(reply{err: &RemoteError{Event: errEvent, Body: data}})
		})
	}

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for '%s'", okEvent)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case r := <-done:
		return r.data, r.err
	}
}

// RemoteError carries the body of an error event sent by the server.
type RemoteError struct {
	Event string
	Body  json.RawMessage
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server answered %s: %s", e.Event, e.Body)
}

// encodePlan renders p as the JSON string the server expects.
func encodePlan(p *plan.Plan) (string, error) {
	if p == nil {
		return "", fmt.Errorf("no plan given")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode plan: %w", err)
	}
	return string(data), nil
}

// encodeReply turns the first event argument back into JSON.
func encodeReply(args []any) (json.RawMessage, error) {
	if len(args) == 0 {
		return json.RawMessage("null"), nil
	}
	data, err := json.Marshal(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read server reply: %w", err)
	}
	return data, nil
}
