// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vechain/cstake/api/logs"
	"github.com/vechain/cstake/stakeclient/common"
)

type Client struct {
	host   string
	scheme string
}

func NewClient(url string) (*Client, error) {
	var host string
	var scheme string

	if strings.Contains(url, "https://") || strings.Contains(url, "wss://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "wss://")
		scheme = "wss"
	} else if strings.Contains(url, "http://") || strings.Contains(url, "ws://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "ws://")
		scheme = "ws"
	} else {
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// Subscription is an open event stream.
type Subscription[T any] struct {
	conn   *websocket.Conn
	events chan common.EventWrapper[*T]
	done   chan struct{}
	once   sync.Once
}

// Events returns the stream messages. The channel is closed when the connection ends.
func (s *Subscription[T]) Events() <-chan common.EventWrapper[*T] {
	return s.events
}

// Unsubscribe closes the connection.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *Subscription[T]) send(ev common.EventWrapper[*T]) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

// SubscribeEvents opens an event stream. query carries the addr, t0..t4 and pos filters.
func (c *Client) SubscribeEvents(query url.Values) (*Subscription[logs.FilteredEvent], error) {
	conn, err := c.connect("/subscriptions/event", query.Encode())
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return subscribe[logs.FilteredEvent](conn), nil
}

// subscribe pumps JSON messages of the connection into the subscription channel.
func subscribe[T any](conn *websocket.Conn) *Subscription[T] {
	sub := &Subscription[T]{
		conn:   conn,
		events: make(chan common.EventWrapper[*T]),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.events)
		defer conn.Close()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					sub.send(common.EventWrapper[*T]{Error: fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)})
				}
				return
			}
			if !sub.send(common.EventWrapper[*T]{Data: &data}) {
				return
			}
		}
	}()
	return sub
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
