package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

func TestEnqueueFreeSlotIsInvalid(t *testing.T) {
	f := newFixture(1)
	if _, err := f.waiting.Enqueue(context.Background(), bob, 1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState (reserve directly instead)", err)
	}
}

func TestEnqueueUnknownSchedule(t *testing.T) {
	f := newFixture(1)
	if _, err := f.waiting.Enqueue(context.Background(), bob, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestEnqueueRequiresIdentity(t *testing.T) {
	f := newFixture(1)
	if _, err := f.waiting.Enqueue(context.Background(), nobody, 1); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestEnqueueHolderOfActiveConflicts(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	if _, err := f.res.Create(ctx, alice, 1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.waiting.Enqueue(ctx, alice, 1); !errors.Is(err, ErrConflict) {
		t.Errorf("owner enqueue: err = %v, want ErrConflict", err)
	}
}

func TestEnqueueTwiceConflicts(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	if _, err := f.res.Create(ctx, alice, 1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.waiting.Enqueue(ctx, bob, 1); err != nil {
		t.Fatalf("first Enqueue: %v", err)
	}
	if _, err := f.waiting.Enqueue(ctx, bob, 1); !errors.Is(err, ErrConflict) {
		t.Errorf("second Enqueue: err = %v, want ErrConflict", err)
	}
}

func TestEnqueueAssignsIncreasingSequence(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	if _, err := f.res.Create(ctx, alice, 1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	e1, err := f.waiting.Enqueue(ctx, bob, 1)
	if err != nil {
		t.Fatalf("Enqueue bob: %v", err)
	}
	e2, err := f.waiting.Enqueue(ctx, carol, 1)
	if err != nil {
		t.Fatalf("Enqueue carol: %v", err)
	}
	if e2.SeqNo <= e1.SeqNo {
		t.Errorf("seq not increasing: %d then %d", e1.SeqNo, e2.SeqNo)
	}

	// A withdrawn member's number is never handed out again.
	if err := f.waiting.Withdraw(ctx, carol, e2.ID); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	e3, err := f.waiting.Enqueue(ctx, carol, 1)
	if err != nil {
		t.Fatalf("re-Enqueue carol: %v", err)
	}
	if e3.SeqNo <= e2.SeqNo {
		t.Errorf("seq reused after withdrawal: %d then %d", e2.SeqNo, e3.SeqNo)
	}
}

func TestWithdrawAuthorization(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	if _, err := f.res.Create(ctx, alice, 1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	entry, err := f.waiting.Enqueue(ctx, bob, 1)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	if err := f.waiting.Withdraw(ctx, carol, entry.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("non-owner: err = %v, want ErrUnauthorized", err)
	}
	if err := f.waiting.Withdraw(ctx, nobody, entry.ID); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous: err = %v, want ErrUnauthenticated", err)
	}
	if err := f.waiting.Withdraw(ctx, bob, entry.ID); err != nil {
		t.Errorf("owner: %v", err)
	}
	if err := f.waiting.Withdraw(ctx, bob, entry.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("gone: err = %v, want ErrNotFound", err)
	}

	// Admins may remove anyone's entry.
	entry2, err := f.waiting.Enqueue(ctx, carol, 1)
	if err != nil {
		t.Fatalf("Enqueue carol: %v", err)
	}
	if err := f.waiting.Withdraw(ctx, admin, entry2.ID); err != nil {
		t.Errorf("admin: %v", err)
	}
}

func TestPromotionSkipsWithdrawn(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	res, err := f.res.Create(ctx, alice, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	eb, err := f.waiting.Enqueue(ctx, bob, 1)
	if err != nil {
		t.Fatalf("Enqueue bob: %v", err)
	}
	if _, err := f.waiting.Enqueue(ctx, carol, 1); err != nil {
		t.Fatalf("Enqueue carol: %v", err)
	}
	if err := f.waiting.Withdraw(ctx, bob, eb.ID); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	promoted, err := f.res.Cancel(ctx, alice, res.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if promoted == nil || promoted.MemberID != carol.ID {
		t.Fatalf("promoted = %+v, want carol (bob withdrew)", promoted)
	}
}

func TestListMineReportsRank(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	if _, err := f.res.Create(ctx, alice, 1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.waiting.Enqueue(ctx, bob, 1); err != nil {
		t.Fatalf("Enqueue bob: %v", err)
	}
	if _, err := f.waiting.Enqueue(ctx, carol, 1); err != nil {
		t.Fatalf("Enqueue carol: %v", err)
	}

	mine, err := f.waiting.ListMine(ctx, carol)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 1 || mine[0].Rank != 2 {
		t.Errorf("mine = %+v, want one entry with rank 2", mine)
	}

	if _, err := f.waiting.ListMine(ctx, nobody); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous: err = %v, want ErrUnauthenticated", err)
	}
}

func TestConcurrentEnqueueUniqueSequences(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	if _, err := f.res.Create(ctx, alice, 1); err != nil {
		t.Fatalf("Create: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	seqs := make([]uint64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := model.Member{ID: uint64(i + 100), Role: model.RoleUser}
			e, err := f.waiting.Enqueue(ctx, m, 1)
			if err != nil {
				t.Errorf("Enqueue %d: %v", i, err)
				return
			}
			seqs[i] = e.SeqNo
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool, n)
	for _, s := range seqs {
		if s == 0 {
			continue
		}
		if seen[s] {
			t.Fatalf("sequence %d assigned twice", s)
		}
		seen[s] = true
	}
	if len(seen) != n {
		t.Errorf("distinct sequences = %d, want %d", len(seen), n)
	}
}
