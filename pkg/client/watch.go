package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"doctrack/pkg/logger"
	"doctrack/socket"

	"github.com/gorilla/websocket"
)

// Watch follows the change feed for userID and re-fetches docs whenever the
// server reports a change. It returns when ctx is done or the socket closes.
func (c *Client) Watch(ctx context.Context, userID string, docs *DocumentsStore) error {
	u, err := url.Parse(c.baseURL + "/ws")
	if err != nil {
		return fmt.Errorf("parse feed url: %w", err)
	}
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	q := url.Values{"userId": {userID}}
	if token := c.Token(); token != "" {
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial change feed: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read change feed: %w", err)
		}

		var msg socket.WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Sugar.Warnf("Ignoring malformed feed message: %v", err)
			continue
		}
		if msg.Type != socket.DocumentsChangedType {
			continue
		}
		if err := docs.Fetch(ctx, userID); err != nil {
			logger.Sugar.Warnf("Refresh after change failed: %v", err)
		}
	}
}
