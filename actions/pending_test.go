package actions_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/granjadata/avicola_backend/actions"
)

func TestMemoryPendingStore_TakeIsSingleUse(t *testing.T) {
	store := actions.NewMemoryPendingStore(time.Minute)
	ctx := context.Background()

	action := actions.Action{Kind: "create_farm", Args: json.RawMessage(`{"name":"La Esperanza"}`)}
	token, err := store.Put(ctx, action)
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if token == "" {
		t.Fatal("Put returned an empty token")
	}

	got, found, err := store.Take(ctx, token)
	if err != nil || !found {
		t.Fatalf("first Take should succeed, found=%v err=%v", found, err)
	}
	if got.Kind != "create_farm" {
		t.Fatalf("Take returned wrong action kind %q", got.Kind)
	}

	_, found, err = store.Take(ctx, token)
	if err != nil {
		t.Fatalf("second Take error: %v", err)
	}
	if found {
		t.Fatal("second Take of the same token must fail")
	}
}

func TestMemoryPendingStore_UnknownToken(t *testing.T) {
	store := actions.NewMemoryPendingStore(time.Minute)
	_, found, err := store.Take(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("Take error: %v", err)
	}
	if found {
		t.Fatal("unknown token must not be found")
	}
}

func TestMemoryPendingStore_Expiry(t *testing.T) {
	store := actions.NewMemoryPendingStore(10 * time.Millisecond)
	ctx := context.Background()

	token, err := store.Put(ctx, actions.Action{Kind: "delete_farm"})
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	_, found, err := store.Take(ctx, token)
	if err != nil {
		t.Fatalf("Take error: %v", err)
	}
	if found {
		t.Fatal("expired token must not be found")
	}
}

func TestMemoryPendingStore_ConcurrentTakeExactlyOneWins(t *testing.T) {
	store := actions.NewMemoryPendingStore(time.Minute)
	ctx := context.Background()

	token, err := store.Put(ctx, actions.Action{Kind: "finalize_broiler_batch"})
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, found, err := store.Take(ctx, token)
			if err != nil {
				t.Errorf("Take error: %v", err)
				return
			}
			if found {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}
