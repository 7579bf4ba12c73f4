// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/log"
	"github.com/vechain/cstake/logdb"
	"github.com/vechain/cstake/metrics"
	"github.com/vechain/cstake/runtime"
)

const (
	commitChanSize = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 7) / 10
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveCount = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

type Subscriptions struct {
	backtraceLimit uint32
	rt             *runtime.Runtime
	logDB          *logdb.LogDB
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
}

// New creates the websocket event stream. Origins are checked against allowedOrigins unless it contains "*".
func New(rt *runtime.Runtime, logDB *logdb.LogDB, allowedOrigins []string, backtraceLimit uint32) *Subscriptions {
	return &Subscriptions{
		backtraceLimit: backtraceLimit,
		rt:             rt,
		logDB:          logDB,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func parseFilter(req *http.Request) (*EventFilter, error) {
	query := req.URL.Query()
	var filter EventFilter
	if addr := query.Get("addr"); addr != "" {
		a, err := cstake.ParseAddress(addr)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "addr"))
		}
		filter.Address = &a
	}
	for i := range filter.Topics {
		key := fmt.Sprintf("t%d", i)
		if t := query.Get(key); t != "" {
			topic, err := cstake.ParseBytes32(t)
			if err != nil {
				return nil, utils.BadRequest(errors.WithMessage(err, key))
			}
			filter.Topics[i] = &topic
		}
	}
	return &filter, nil
}

func (s *Subscriptions) parsePosition(req *http.Request, head uint32) (uint32, error) {
	pos := req.URL.Query().Get("pos")
	if pos == "" {
		return head, nil
	}
	n, err := strconv.ParseUint(pos, 0, 32)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if uint32(n) > head {
		return head, nil
	}
	if head-uint32(n) > s.backtraceLimit {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return uint32(n), nil
}

func (s *Subscriptions) handleEventSub(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseFilter(req)
	if err != nil {
		return err
	}

	// subscribe before reading the head so no commit falls between backfill and stream
	commits := make(chan *runtime.Commit, commitChanSize)
	sub := s.rt.SubscribeCommits(commits)
	defer sub.Unsubscribe()

	head := s.rt.BlockNumber()
	pos, err := s.parsePosition(req, head)
	if err != nil {
		return err
	}
	if pos < head && s.logDB == nil {
		return utils.Forbidden(errors.New("pos: event store disabled"))
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	metricActiveCount().AddWithLabel(1, map[string]string{"subject": "event"})
	defer metricActiveCount().AddWithLabel(-1, map[string]string{"subject": "event"})

	reader := newEventReader(s.logDB, filter, pos)
	if err := s.pipe(conn, req, reader, head, commits, sub.Err()); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
	return nil
}

func (s *Subscriptions) pipe(
	conn *websocket.Conn,
	req *http.Request,
	reader *eventReader,
	head uint32,
	commits <-chan *runtime.Commit,
	subErr <-chan error,
) error {
	closed := make(chan struct{})
	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	backfill, err := reader.Backfill(req.Context(), head)
	if err != nil {
		return err
	}
	for _, msg := range backfill {
		if err := writeJSON(conn, msg); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return nil
		case <-closed:
			return nil
		case err := <-subErr:
			return err
		case commit := <-commits:
			for _, msg := range reader.Read(commit.Events, commit.BlockNumber) {
				if err := writeJSON(conn, msg); err != nil {
					return err
				}
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// Close ends all open streams and waits for them to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodGet).
		Name("subscriptions_event").
		HandlerFunc(utils.WrapHandlerFunc(s.handleEventSub))
}
