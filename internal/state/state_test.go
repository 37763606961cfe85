package state

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amlakhub/listingbot/internal/listing"
)

func TestGet_CreatesEmptyConversation(t *testing.T) {
	s := New()

	conv := s.Get(42)
	if conv.Mode != listing.Collecting {
		t.Errorf("new conversation mode = %s, want collecting", conv.Mode)
	}
	if conv.Pending != "" {
		t.Errorf("new conversation pending = %s, want empty", conv.Pending)
	}
	if conv.Token != uuid.Nil {
		t.Error("new conversation should have no token yet")
	}
}

func TestMerge_AbsentFieldsNeverErase(t *testing.T) {
	s := New()

	area := 120
	s.Merge(42, &listing.Record{Area: &area})

	hood := "گلسار"
	conv := s.Merge(42, &listing.Record{Neighborhood: &hood})

	if conv.Record.Area == nil || *conv.Record.Area != 120 {
		t.Error("earlier area was erased by a partial without it")
	}
	if conv.Record.Neighborhood == nil || *conv.Record.Neighborhood != "گلسار" {
		t.Error("neighborhood was not merged")
	}
}

func TestMerge_PresentFieldOverwrites(t *testing.T) {
	s := New()

	area := 120
	s.Merge(42, &listing.Record{Area: &area})
	newArea := 150
	conv := s.Merge(42, &listing.Record{Area: &newArea})

	if *conv.Record.Area != 150 {
		t.Errorf("area = %d, want 150", *conv.Record.Area)
	}
}

func TestSetMode_MintsTokenOnce(t *testing.T) {
	s := New()

	conv := s.SetMode(42, listing.Confirming)
	if conv.Token == uuid.Nil {
		t.Fatal("entering confirming should mint a token")
	}
	token := conv.Token

	// Bouncing through editing and back keeps the same token, so repeat
	// confirms stay idempotent.
	s.SetMode(42, listing.Editing)
	conv = s.SetMode(42, listing.Confirming)
	if conv.Token != token {
		t.Error("re-entering confirming must not remint the token")
	}
}

func TestClear_DropsConversation(t *testing.T) {
	s := New()

	area := 120
	s.Merge(42, &listing.Record{Area: &area})
	s.Clear(42)

	conv := s.Get(42)
	if conv.Record.Area != nil {
		t.Error("cleared conversation still has data")
	}
}

func TestClearField(t *testing.T) {
	s := New()

	area := 120
	s.Merge(42, &listing.Record{Area: &area})
	s.ClearField(42, listing.FieldArea)

	if conv := s.Get(42); conv.Record.Area != nil {
		t.Error("field was not cleared")
	}
}

func TestTTL_SweepsIdleConversations(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	var expired []int64
	s := New(
		WithTTL(time.Hour),
		WithClock(func() time.Time { return clock() }),
		WithExpiryHook(func(userID int64) { expired = append(expired, userID) }),
	)

	area := 120
	s.Merge(42, &listing.Record{Area: &area})

	// Just under the TTL: still alive.
	later := now.Add(59 * time.Minute)
	clock = func() time.Time { return later }
	if conv := s.Get(42); conv.Record.Area == nil {
		t.Fatal("conversation expired before its TTL")
	}

	// Reads do not count as activity; past the TTL from the last write.
	gone := now.Add(61 * time.Minute)
	clock = func() time.Time { return gone }
	if conv := s.Get(42); conv.Record.Area != nil {
		t.Error("idle conversation survived past its TTL")
	}
	if len(expired) != 1 || expired[0] != 42 {
		t.Errorf("expiry hook calls = %v, want [42]", expired)
	}
}

func TestActive_CountsAndSweeps(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	s := New(WithTTL(time.Hour), WithClock(func() time.Time { return clock() }))

	for id := int64(1); id <= 5; id++ {
		s.Get(id)
	}
	if got := s.Active(); got != 5 {
		t.Errorf("Active() = %d, want 5", got)
	}

	later := now.Add(2 * time.Hour)
	clock = func() time.Time { return later }
	if got := s.Active(); got != 0 {
		t.Errorf("Active() after TTL = %d, want 0", got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := New()

	area := 120
	conv := s.Merge(42, &listing.Record{Area: &area})

	// Mutating the snapshot must not leak into the store.
	newArea := 999
	conv.Record.Area = &newArea

	if again := s.Get(42); *again.Record.Area != 120 {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestConcurrentUsers(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for id := int64(0); id < 64; id++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			area := int(id + 10)
			for i := 0; i < 50; i++ {
				s.Merge(id, &listing.Record{Area: &area})
				s.Get(id)
			}
		}(id)
	}
	wg.Wait()

	for id := int64(0); id < 64; id++ {
		conv := s.Get(id)
		if conv.Record.Area == nil || *conv.Record.Area != int(id+10) {
			t.Fatalf("user %d lost its area", id)
		}
	}
}
