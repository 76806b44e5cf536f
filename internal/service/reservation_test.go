package service

import (
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/venue-seat-reservation/internal/clock"
	"github.com/iliyamo/venue-seat-reservation/internal/model"
)

func newTestService(t *testing.T, rows, cols int, opts ...Option) *ReservationService {
	t.Helper()
	venue, err := model.NewVenue(rows, cols)
	if err != nil {
		t.Fatalf("NewVenue(%d, %d): %v", rows, cols, err)
	}
	svc := NewReservationService(venue, opts...)
	t.Cleanup(svc.Stop)
	return svc
}

// recordingNotifier captures lifecycle events for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	expired   []model.SeatHold
	confirmed []model.SeatHold
}

func (n *recordingNotifier) HoldExpired(h model.SeatHold) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expired = append(n.expired, h)
}

func (n *recordingNotifier) ReservationConfirmed(h model.SeatHold) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, h)
}

func (n *recordingNotifier) counts() (expired, confirmed int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.expired), len(n.confirmed)
}

func TestReservationService_FindAndHoldSeats(t *testing.T) {
	t.Run("full availability after construction", func(t *testing.T) {
		svc := newTestService(t, 100, 100)
		if got := svc.AvailableSeatCount(); got != 10000 {
			t.Fatalf("AvailableSeatCount() = %d, want 10000", got)
		}
	})

	t.Run("holds reduce availability", func(t *testing.T) {
		svc := newTestService(t, 100, 100, WithHoldTTL(time.Hour))
		hold := svc.FindAndHoldSeats(7480, "a@b.com")
		if hold == nil {
			t.Fatal("expected a hold, got nil")
		}
		if len(hold.Seats) != 7480 {
			t.Fatalf("hold has %d seats, want 7480", len(hold.Seats))
		}
		if got := svc.AvailableSeatCount(); got != 2520 {
			t.Fatalf("AvailableSeatCount() = %d, want 2520", got)
		}
	})

	t.Run("first fit is row-major", func(t *testing.T) {
		svc := newTestService(t, 2, 2, WithHoldTTL(time.Hour))
		hold := svc.FindAndHoldSeats(3, "a@b.com")
		if hold == nil {
			t.Fatal("expected a hold, got nil")
		}
		want := []model.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}}
		for i := range want {
			if hold.Seats[i] != want[i] {
				t.Fatalf("hold.Seats[%d] = %+v, want %+v", i, hold.Seats[i], want[i])
			}
		}
	})

	t.Run("request above capacity returns no hold", func(t *testing.T) {
		svc := newTestService(t, 100, 100)
		if hold := svc.FindAndHoldSeats(10001, "a@b.com"); hold != nil {
			t.Fatalf("expected nil hold, got %+v", hold)
		}
		if got := svc.AvailableSeatCount(); got != 10000 {
			t.Fatalf("failed request must have no side effects; available = %d", got)
		}
	})

	t.Run("non-positive request returns no hold", func(t *testing.T) {
		svc := newTestService(t, 100, 100)
		for _, n := range []int{-1, 0} {
			if hold := svc.FindAndHoldSeats(n, "a@b.com"); hold != nil {
				t.Fatalf("FindAndHoldSeats(%d) = %+v, want nil", n, hold)
			}
		}
	})

	t.Run("insufficient availability returns no hold", func(t *testing.T) {
		svc := newTestService(t, 3, 3, WithHoldTTL(time.Hour))
		if hold := svc.FindAndHoldSeats(8, "a@b.com"); hold == nil {
			t.Fatal("setup hold failed")
		}
		// 8 of 9 seats held; 2 is within capacity but beyond availability.
		if hold := svc.FindAndHoldSeats(2, "c@d.com"); hold != nil {
			t.Fatalf("expected nil hold, got %+v", hold)
		}
		if got := svc.AvailableSeatCount(); got != 1 {
			t.Fatalf("AvailableSeatCount() = %d, want 1", got)
		}
	})

	t.Run("hold carries clock timestamps", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		ttl := 5 * time.Second
		svc := newTestService(t, 2, 2, WithClock(clock.NewFixed(now)), WithHoldTTL(ttl))
		hold := svc.FindAndHoldSeats(1, "a@b.com")
		if hold == nil {
			t.Fatal("expected a hold, got nil")
		}
		if !hold.CreatedAt.Equal(now) {
			t.Fatalf("CreatedAt = %v, want %v", hold.CreatedAt, now)
		}
		if !hold.ExpiresAt.Equal(now.Add(ttl)) {
			t.Fatalf("ExpiresAt = %v, want %v", hold.ExpiresAt, now.Add(ttl))
		}
		if hold.ConfirmationID != "" {
			t.Fatalf("new hold must have no confirmation id, got %q", hold.ConfirmationID)
		}
	})

	t.Run("hold ids are unique among live holds", func(t *testing.T) {
		svc := newTestService(t, 10, 10, WithHoldTTL(time.Hour))
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			hold := svc.FindAndHoldSeats(1, "a@b.com")
			if hold == nil {
				t.Fatalf("hold %d failed", i)
			}
			if seen[hold.ID] {
				t.Fatalf("duplicate hold id %q", hold.ID)
			}
			seen[hold.ID] = true
		}
	})
}

func TestReservationService_ReserveSeats(t *testing.T) {
	t.Run("confirms a live hold", func(t *testing.T) {
		svc := newTestService(t, 4, 4, WithHoldTTL(time.Hour))
		hold := svc.FindAndHoldSeats(5, "a@b.com")
		if hold == nil {
			t.Fatal("expected a hold, got nil")
		}

		conf := svc.ReserveSeats(hold.ID, "a@b.com")
		if conf == "" {
			t.Fatal("expected a confirmation id")
		}
		if svc.ActiveHoldCount() != 0 {
			t.Fatalf("confirmed hold must leave the active index")
		}
		// Reserved seats stay unavailable.
		if got := svc.AvailableSeatCount(); got != 11 {
			t.Fatalf("AvailableSeatCount() = %d, want 11", got)
		}
		// The hold is terminal: neither a second confirm nor an expiry
		// may touch it again.
		if again := svc.ReserveSeats(hold.ID, "a@b.com"); again != "" {
			t.Fatalf("second ReserveSeats returned %q, want empty", again)
		}
		if svc.ExpireHold(hold.ID) {
			t.Fatal("expiry after confirmation must be a no-op")
		}
		if got := svc.AvailableSeatCount(); got != 11 {
			t.Fatalf("AvailableSeatCount() changed after no-ops: %d", got)
		}
	})

	t.Run("unknown id returns no confirmation", func(t *testing.T) {
		svc := newTestService(t, 4, 4)
		if conf := svc.ReserveSeats("-1", "a@b.com"); conf != "" {
			t.Fatalf("ReserveSeats on unknown id returned %q, want empty", conf)
		}
	})

	t.Run("customer mismatch is allowed", func(t *testing.T) {
		svc := newTestService(t, 4, 4, WithHoldTTL(time.Hour))
		hold := svc.FindAndHoldSeats(2, "a@b.com")
		if hold == nil {
			t.Fatal("expected a hold, got nil")
		}
		if conf := svc.ReserveSeats(hold.ID, "someone-else@b.com"); conf == "" {
			t.Fatal("reserve with a different customer must still succeed")
		}
	})

	t.Run("hold then confirm then hold again", func(t *testing.T) {
		svc := newTestService(t, 100, 100, WithHoldTTL(time.Hour))
		first := svc.FindAndHoldSeats(2352, "a@b.com")
		if first == nil {
			t.Fatal("first hold failed")
		}
		if conf := svc.ReserveSeats(first.ID, "a@b.com"); conf == "" {
			t.Fatal("confirmation failed")
		}
		second := svc.FindAndHoldSeats(6434, "a@b.com")
		if second == nil {
			t.Fatal("second hold failed")
		}
		if got, want := svc.AvailableSeatCount(), 10000-2352-6434; got != want {
			t.Fatalf("AvailableSeatCount() = %d, want %d", got, want)
		}
	})
}

func TestReservationService_Expiry(t *testing.T) {
	t.Run("timer releases seats exactly once", func(t *testing.T) {
		svc := newTestService(t, 3, 3, WithHoldTTL(30*time.Millisecond))
		hold := svc.FindAndHoldSeats(4, "a@b.com")
		if hold == nil {
			t.Fatal("expected a hold, got nil")
		}
		if got := svc.AvailableSeatCount(); got != 5 {
			t.Fatalf("AvailableSeatCount() = %d, want 5 before expiry", got)
		}

		deadline := time.Now().Add(2 * time.Second)
		for svc.ActiveHoldCount() != 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if svc.ActiveHoldCount() != 0 {
			t.Fatal("hold did not expire within deadline")
		}
		if got := svc.AvailableSeatCount(); got != 9 {
			t.Fatalf("AvailableSeatCount() = %d, want 9 after expiry", got)
		}
		if conf := svc.ReserveSeats(hold.ID, "a@b.com"); conf != "" {
			t.Fatalf("reserve after expiry returned %q, want empty", conf)
		}
	})

	t.Run("duplicate expiry fire is a no-op", func(t *testing.T) {
		svc := newTestService(t, 3, 3, WithHoldTTL(time.Hour))
		hold := svc.FindAndHoldSeats(4, "a@b.com")
		if hold == nil {
			t.Fatal("expected a hold, got nil")
		}
		if !svc.ExpireHold(hold.ID) {
			t.Fatal("first expiry should perform the release")
		}
		if svc.ExpireHold(hold.ID) {
			t.Fatal("second expiry must be a no-op")
		}
		if got := svc.AvailableSeatCount(); got != 9 {
			t.Fatalf("AvailableSeatCount() = %d, want 9", got)
		}
	})

	t.Run("stop cancels pending timers", func(t *testing.T) {
		svc := newTestService(t, 3, 3, WithHoldTTL(20*time.Millisecond))
		hold := svc.FindAndHoldSeats(2, "a@b.com")
		if hold == nil {
			t.Fatal("expected a hold, got nil")
		}
		svc.Stop()
		time.Sleep(100 * time.Millisecond)
		if svc.ActiveHoldCount() != 1 {
			t.Fatal("stopped service must not expire holds")
		}
		if conf := svc.ReserveSeats(hold.ID, "a@b.com"); conf == "" {
			t.Fatal("hold should remain confirmable after Stop")
		}
	})

	t.Run("notifier sees each terminal transition once", func(t *testing.T) {
		rec := &recordingNotifier{}
		svc := newTestService(t, 3, 3, WithHoldTTL(time.Hour), WithNotifier(rec))

		expired := svc.FindAndHoldSeats(2, "a@b.com")
		confirmed := svc.FindAndHoldSeats(2, "a@b.com")
		if expired == nil || confirmed == nil {
			t.Fatal("setup holds failed")
		}
		svc.ExpireHold(expired.ID)
		svc.ExpireHold(expired.ID)
		if conf := svc.ReserveSeats(confirmed.ID, "a@b.com"); conf == "" {
			t.Fatal("confirmation failed")
		}

		ne, nc := rec.counts()
		if ne != 1 || nc != 1 {
			t.Fatalf("notifier saw %d expiries and %d confirmations, want 1 and 1", ne, nc)
		}
		rec.mu.Lock()
		defer rec.mu.Unlock()
		if rec.expired[0].ID != expired.ID {
			t.Fatalf("expired event for %q, want %q", rec.expired[0].ID, expired.ID)
		}
		if rec.confirmed[0].ConfirmationID == "" {
			t.Fatal("confirmed event must carry the confirmation id")
		}
	})
}

func TestReservationService_ConcurrentHolds(t *testing.T) {
	const (
		workers      = 32
		seatsPerHold = 5
	)
	svc := newTestService(t, 20, 20, WithHoldTTL(time.Hour)) // 400 seats, 80 possible holds

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		holds []*model.SeatHold
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				hold := svc.FindAndHoldSeats(seatsPerHold, "load@test.com")
				if hold == nil {
					return
				}
				mu.Lock()
				holds = append(holds, hold)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Every seat is claimed by exactly one hold.
	if len(holds) != 80 {
		t.Fatalf("expected 80 successful holds, got %d", len(holds))
	}
	if got := svc.AvailableSeatCount(); got != 0 {
		t.Fatalf("AvailableSeatCount() = %d, want 0", got)
	}
	claimed := make(map[model.Position]string)
	for _, h := range holds {
		for _, pos := range h.Seats {
			if owner, dup := claimed[pos]; dup {
				t.Fatalf("seat %+v held by both %q and %q", pos, owner, h.ID)
			}
			claimed[pos] = h.ID
		}
	}
	if len(claimed) != 400 {
		t.Fatalf("claimed %d distinct seats, want 400", len(claimed))
	}
}

func TestReservationService_ConfirmExpireRace(t *testing.T) {
	// Fire ReserveSeats and ExpireHold at the same hold simultaneously
	// and require exactly one winner every time.
	for i := 0; i < 200; i++ {
		svc := newTestService(t, 2, 2, WithHoldTTL(time.Hour))
		hold := svc.FindAndHoldSeats(3, "race@test.com")
		if hold == nil {
			t.Fatalf("iteration %d: setup hold failed", i)
		}

		var (
			start   = make(chan struct{})
			wg      sync.WaitGroup
			conf    string
			expired bool
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			conf = svc.ReserveSeats(hold.ID, "race@test.com")
		}()
		go func() {
			defer wg.Done()
			<-start
			expired = svc.ExpireHold(hold.ID)
		}()
		close(start)
		wg.Wait()

		confirmedWon := conf != ""
		if confirmedWon == expired {
			t.Fatalf("iteration %d: confirm=%v expire=%v, want exactly one winner", i, confirmedWon, expired)
		}
		if svc.ActiveHoldCount() != 0 {
			t.Fatalf("iteration %d: hold left in active index", i)
		}
		want := 1 // three seats reserved, one vacant
		if expired {
			want = 4 // all seats released
		}
		if got := svc.AvailableSeatCount(); got != want {
			t.Fatalf("iteration %d: AvailableSeatCount() = %d, want %d", i, got, want)
		}
	}
}
