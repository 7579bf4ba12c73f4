// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/log"
)

var logger = log.WithContext("pkg", "logdb")

const (
	insertEventQuery    = "INSERT OR REPLACE INTO event(seq, blockTime, txID, txOrigin, address, topic0, topic1, topic2, topic3, topic4, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	insertTransferQuery = "INSERT OR REPLACE INTO transfer(seq, blockTime, txID, txOrigin, sender, recipient, amount) VALUES (?, ?, ?, ?, ?, ?, ?)"
	eventSelect         = "SELECT seq, blockTime, txID, txOrigin, address, topic0, topic1, topic2, topic3, topic4, data FROM event"
	transferSelect      = "SELECT seq, blockTime, txID, txOrigin, sender, recipient, amount FROM transfer"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
		newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	if err := db.stmtCache.Close(); err != nil {
		logger.Warn("failed to close statements", "err", err)
	}
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite library version.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

func rangeCondition(r *Range) (string, []any) {
	if r == nil {
		return "", nil
	}
	if r.Unit == Time {
		stmt := " AND blockTime >= ?"
		args := []any{r.From}
		if r.To >= r.From {
			stmt += " AND blockTime <= ?"
			args = append(args, r.To)
		}
		return stmt, args
	}
	from, to := r.From, r.To
	if from > math.MaxUint32 {
		from = math.MaxUint32
	}
	stmt := " AND seq >= ?"
	args := []any{newSequence(uint32(from), 0)}
	if to >= from {
		if to > math.MaxUint32 {
			to = math.MaxUint32
		}
		stmt += " AND seq <= ?"
		args = append(args, newSequence(uint32(to), maxIndex))
	}
	return stmt, args
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, eventSelect+" ORDER BY seq ASC")
	}
	observeEventFilter(filter)

	stmt, args := rangeCondition(filter.Range)
	stmt = eventSelect + " WHERE 1" + stmt
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ?"
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		stmt += " )"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, transferSelect+" ORDER BY seq ASC")
	}
	observeTransferFilter(filter)

	stmt, args := rangeCondition(filter.Range)
	stmt = transferSelect + " WHERE 1" + stmt
	if filter.TxID != nil {
		args = append(args, filter.TxID.Bytes())
		stmt += " AND txID = ?"
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.TxOrigin != nil {
			args = append(args, criteria.TxOrigin.Bytes())
			stmt += " AND txOrigin = ?"
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.Bytes())
			stmt += " AND sender = ?"
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.Bytes())
			stmt += " AND recipient = ?"
		}
		stmt += " )"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryTransfers(ctx, stmt, args...)
}

// NewestBlockNumber returns the highest block number with logs written, or 0.
func (db *LogDB) NewestBlockNumber() (uint32, error) {
	stmt, err := db.stmtCache.Prepare("SELECT MAX(seq) FROM (SELECT MAX(seq) AS seq FROM event UNION SELECT MAX(seq) FROM transfer)")
	if err != nil {
		return 0, err
	}
	var seq sql.NullInt64
	if err := stmt.QueryRow().Scan(&seq); err != nil {
		return 0, err
	}
	if !seq.Valid {
		return 0, nil
	}
	return sequence(seq.Int64).BlockNumber(), nil
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       sequence
			blockTime uint64
			txID      []byte
			txOrigin  []byte
			address   []byte
			topics    [5][]byte
			data      []byte
		)
		if err := rows.Scan(
			&seq,
			&blockTime,
			&txID,
			&txOrigin,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			BlockNumber: seq.BlockNumber(),
			Index:       seq.Index(),
			BlockTime:   blockTime,
			TxID:        cstake.BytesToBytes32(txID),
			TxOrigin:    cstake.BytesToAddress(txOrigin),
			Address:     cstake.BytesToAddress(address),
			Data:        data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := cstake.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, query string, args ...any) ([]*Transfer, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       sequence
			blockTime uint64
			txID      []byte
			txOrigin  []byte
			sender    []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(
			&seq,
			&blockTime,
			&txID,
			&txOrigin,
			&sender,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			BlockNumber: seq.BlockNumber(),
			Index:       seq.Index(),
			BlockTime:   blockTime,
			TxID:        cstake.BytesToBytes32(txID),
			TxOrigin:    cstake.BytesToAddress(txOrigin),
			Sender:      cstake.BytesToAddress(sender),
			Recipient:   cstake.BytesToAddress(recipient),
			Amount:      new(big.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *cstake.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// NewWriter creates a log writer.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db.db}
}

// Writer accumulates logs in a sql transaction.
type Writer struct {
	db    *sql.DB
	tx    *sql.Tx
	len   int
	stmts map[string]*sql.Stmt
}

func (w *Writer) exec(query string, args ...any) error {
	if w.tx == nil {
		tx, err := w.db.Begin()
		if err != nil {
			return err
		}
		w.tx = tx
		w.stmts = make(map[string]*sql.Stmt)
	}
	stmt, ok := w.stmts[query]
	if !ok {
		var err error
		if stmt, err = w.tx.Prepare(query); err != nil {
			return err
		}
		w.stmts[query] = stmt
	}
	if _, err := stmt.Exec(args...); err != nil {
		return err
	}
	w.len++
	return nil
}

// Write writes events and transfers of a block. Indexes must be unique within the block.
func (w *Writer) Write(events []*Event, transfers []*Transfer) error {
	for _, ev := range events {
		if err := w.exec(insertEventQuery,
			newSequence(ev.BlockNumber, ev.Index),
			ev.BlockTime,
			ev.TxID.Bytes(),
			ev.TxOrigin.Bytes(),
			ev.Address.Bytes(),
			topicValue(ev.Topics[0]),
			topicValue(ev.Topics[1]),
			topicValue(ev.Topics[2]),
			topicValue(ev.Topics[3]),
			topicValue(ev.Topics[4]),
			ev.Data,
		); err != nil {
			return errors.Wrap(err, "insert event")
		}
	}
	for _, tr := range transfers {
		if err := w.exec(insertTransferQuery,
			newSequence(tr.BlockNumber, tr.Index),
			tr.BlockTime,
			tr.TxID.Bytes(),
			tr.TxOrigin.Bytes(),
			tr.Sender.Bytes(),
			tr.Recipient.Bytes(),
			tr.Amount.Bytes(),
		); err != nil {
			return errors.Wrap(err, "insert transfer")
		}
	}
	return nil
}

// Commit commits accumulated logs.
func (w *Writer) Commit() error {
	if w.tx == nil {
		return nil
	}
	err := w.tx.Commit()
	w.reset()
	return err
}

// Rollback rollbacks all uncommitted logs.
func (w *Writer) Rollback() error {
	if w.tx == nil {
		return nil
	}
	err := w.tx.Rollback()
	w.reset()
	return err
}

// UncommittedCount returns the count of uncommitted logs.
func (w *Writer) UncommittedCount() int {
	return w.len
}

func (w *Writer) reset() {
	w.tx = nil
	w.stmts = nil
	w.len = 0
}
