// Package events turns protocol effects into append-only records: rows
// written inside the operation's transaction, then fanned out to live
// subscribers after commit. Consumers subscribe to the stream (or replay
// from a cursor) instead of polling mutable state.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/signet-protocol/signet-node/errors"
	"github.com/signet-protocol/signet-node/store"
)

// Record is one emitted protocol record as consumers see it.
type Record struct {
	ID        uint            `json:"id"` // monotonic replay cursor
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	EmittedAt time.Time       `json:"emitted_at"`
}

// Emitter persists records and fans them out to subscribers.
type Emitter struct {
	logger zerolog.Logger

	mu      sync.Mutex
	subs    map[int]chan Record
	nextSub int
}

// NewEmitter creates an Emitter.
func NewEmitter(logger zerolog.Logger) *Emitter {
	return &Emitter{
		logger: logger.With().Str("component", "events").Logger(),
		subs:   make(map[int]chan Record),
	}
}

// Append writes one record row inside tx. The row becomes visible to
// replays when the enclosing transaction commits; pass the returned row to
// Publish afterwards to notify live subscribers.
func (e *Emitter) Append(tx *gorm.DB, eventType string, payload any) (*store.EventRecord, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to marshal event payload").WithCause(err)
	}

	row := &store.EventRecord{
		Type: eventType,
		Data: data,
	}
	if err := tx.Create(row).Error; err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to append event record").WithCause(err)
	}
	return row, nil
}

// Publish notifies live subscribers of committed rows. Sends never block:
// a subscriber that cannot keep up misses records and is expected to replay
// from its last cursor.
func (e *Emitter) Publish(rows ...*store.EventRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, row := range rows {
		record := toRecord(row)
		for id, ch := range e.subs {
			select {
			case ch <- record:
			default:
				e.logger.Warn().
					Int("subscriber", id).
					Uint("record", record.ID).
					Msg("subscriber channel full, record dropped")
			}
		}
	}
}

// Subscribe registers a live subscriber. The returned cancel func must be
// called to release the channel.
func (e *Emitter) Subscribe(buffer int) (<-chan Record, func()) {
	if buffer <= 0 {
		buffer = 64
	}

	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	ch := make(chan Record, buffer)
	e.subs[id] = ch
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		if existing, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(existing)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

// Replay returns up to limit committed records with ID greater than afterID,
// in emission order.
func Replay(tx *gorm.DB, afterID uint, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []store.EventRecord
	err := tx.Where("id > ?", afterID).
		Order("id asc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to replay events").WithCause(err)
	}

	records := make([]Record, 0, len(rows))
	for i := range rows {
		records = append(records, toRecord(&rows[i]))
	}
	return records, nil
}

func toRecord(row *store.EventRecord) Record {
	return Record{
		ID:        row.ID,
		Type:      row.Type,
		Data:      json.RawMessage(row.Data),
		EmittedAt: row.CreatedAt,
	}
}
