// Package state keeps per-user conversation state behind a narrow keyed
// interface. Access is serialized per shard so turns for one user are
// linearizable while unrelated users never contend; expiry is a passive
// sweep on access, not a background timer.
package state

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amlakhub/listingbot/internal/listing"
)

// DefaultTTL is how long an inactive conversation survives.
const DefaultTTL = 60 * time.Minute

const shardCount = 32

// Conversation is one user's in-flight intake session.
type Conversation struct {
	Record      listing.Record
	Pending     listing.Field // field the next raw input answers; "" = none
	Mode        listing.Mode
	Token       uuid.UUID // confirmation token, minted on entering confirming
	LastTouched time.Time
}

type shard struct {
	mu    sync.Mutex
	convs map[int64]*Conversation
}

// Store is a sharded, TTL-swept conversation map keyed by user id.
type Store struct {
	ttl      time.Duration
	now      func() time.Time
	onExpire func(userID int64)
	shards   [shardCount]shard
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the inactivity TTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithExpiryHook registers a callback invoked after a conversation is
// swept. Called outside the shard lock.
func WithExpiryHook(fn func(userID int64)) Option {
	return func(s *Store) { s.onExpire = fn }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{ttl: DefaultTTL, now: time.Now}
	for i := range s.shards {
		s.shards[i].convs = make(map[int64]*Conversation)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) shardFor(userID int64) *shard {
	h := fnv.New32a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(userID >> (8 * i))
	}
	h.Write(buf[:])
	return &s.shards[h.Sum32()%shardCount]
}

// sweep removes expired conversations from one shard. Caller holds sh.mu.
func (s *Store) sweep(sh *shard) []int64 {
	var expired []int64
	cutoff := s.now().Add(-s.ttl)
	for id, c := range sh.convs {
		if c.LastTouched.Before(cutoff) {
			delete(sh.convs, id)
			expired = append(expired, id)
		}
	}
	return expired
}

func (s *Store) notify(expired []int64) {
	if s.onExpire == nil {
		return
	}
	for _, id := range expired {
		s.onExpire(id)
	}
}

// access runs fn on the user's conversation under the shard lock, creating
// an empty one first if needed, and returns a snapshot copy.
func (s *Store) access(userID int64, fn func(*Conversation)) Conversation {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	expired := s.sweep(sh)
	c, ok := sh.convs[userID]
	if !ok {
		c = &Conversation{Mode: listing.Collecting}
		sh.convs[userID] = c
	}
	if fn != nil {
		fn(c)
		c.LastTouched = s.now()
	} else if !ok {
		c.LastTouched = s.now()
	}
	snapshot := *c
	sh.mu.Unlock()
	s.notify(expired)
	return snapshot
}

// Get returns a snapshot of the user's conversation, creating an empty one
// on first access.
func (s *Store) Get(userID int64) Conversation {
	return s.access(userID, nil)
}

// Merge overlays the present fields of partial onto the user's record and
// returns the merged snapshot. Absent fields never erase existing values.
func (s *Store) Merge(userID int64, partial *listing.Record) Conversation {
	return s.access(userID, func(c *Conversation) {
		c.Record.Merge(partial)
	})
}

// SetPending records which field the next raw input answers ("" clears).
func (s *Store) SetPending(userID int64, f listing.Field) {
	s.access(userID, func(c *Conversation) { c.Pending = f })
}

// SetMode moves the conversation between collecting/confirming/editing.
// Entering confirming mints the confirmation token if none exists yet.
func (s *Store) SetMode(userID int64, m listing.Mode) Conversation {
	return s.access(userID, func(c *Conversation) {
		c.Mode = m
		if m == listing.Confirming && c.Token == uuid.Nil {
			c.Token = uuid.New()
		}
	})
}

// ClearField removes a single field value so it can be re-collected.
func (s *Store) ClearField(userID int64, f listing.Field) {
	s.access(userID, func(c *Conversation) { c.Record.Clear(f) })
}

// Clear drops the user's conversation entirely.
func (s *Store) Clear(userID int64) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	expired := s.sweep(sh)
	delete(sh.convs, userID)
	sh.mu.Unlock()
	s.notify(expired)
}

// Active counts live conversations across all shards, sweeping as it goes.
func (s *Store) Active() int {
	total := 0
	var expired []int64
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		expired = append(expired, s.sweep(sh)...)
		total += len(sh.convs)
		sh.mu.Unlock()
	}
	s.notify(expired)
	return total
}
