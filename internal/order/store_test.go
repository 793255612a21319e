package order

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/errors"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "pedidos.txt"))
	if err != nil {
		t.Fatalf("OpenStore() returned error: %v", err)
	}
	return store
}

func TestOpenStoreEmpty(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	if got := store.LastID(); got != 0 {
		t.Errorf("LastID() on empty store = %d, want 0", got)
	}
	if got := store.Snapshot(); len(got) != 0 {
		t.Errorf("Snapshot() on empty store = %v, want empty", got)
	}
}

func TestCreateNextAllocatesSequentially(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	for want := 1; want <= 3; want++ {
		id, err := store.CreateNext(StatusInitiated)
		if err != nil {
			t.Fatalf("CreateNext() returned error: %v", err)
		}
		if id != want {
			t.Errorf("CreateNext() = %d, want %d", id, want)
		}
	}
}

func TestAppendUpdatesCurrent(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	id, err := store.CreateNext(StatusInitiated)
	if err != nil {
		t.Fatalf("CreateNext() returned error: %v", err)
	}

	if err := store.Append(id, StatusPrepared); err != nil {
		t.Fatalf("Append() returned error: %v", err)
	}

	status, ok := store.Current(id)
	if !ok {
		t.Fatalf("Current(%d) reported the order missing", id)
	}
	if status != StatusPrepared {
		t.Errorf("Current(%d) = %v, want %v", id, status, StatusPrepared)
	}
}

func TestReopenReplaysHistory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pedidos.txt")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore() returned error: %v", err)
	}

	id1, _ := store.CreateNext(StatusInitiated)
	id2, _ := store.CreateNext(StatusInitiated)
	if err := store.Append(id1, StatusPrepared); err != nil {
		t.Fatalf("Append() returned error: %v", err)
	}
	if err := store.Append(id2, StatusCancelled); err != nil {
		t.Fatalf("Append() returned error: %v", err)
	}

	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}

	if status, _ := reopened.Current(id1); status != StatusPrepared {
		t.Errorf("Current(%d) after reopen = %v, want %v", id1, status, StatusPrepared)
	}
	if status, _ := reopened.Current(id2); status != StatusCancelled {
		t.Errorf("Current(%d) after reopen = %v, want %v", id2, status, StatusCancelled)
	}
}

// Appending a transition record for an old order must not shrink the id
// allocator: the next id is one past the highest id ever recorded, not one
// past the id on the last line of the file.
func TestAllocationIgnoresTransitionOrder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pedidos.txt")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore() returned error: %v", err)
	}

	id1, _ := store.CreateNext(StatusInitiated)
	id2, _ := store.CreateNext(StatusInitiated)
	// The last line now references order 1 again.
	if err := store.Append(id1, StatusPrepared); err != nil {
		t.Fatalf("Append() returned error: %v", err)
	}

	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	id3, err := reopened.CreateNext(StatusInitiated)
	if err != nil {
		t.Fatalf("CreateNext() returned error: %v", err)
	}
	if id3 != id2+1 {
		t.Errorf("CreateNext() after reopen = %d, want %d", id3, id2+1)
	}
}

// Allocation and the first append run as one critical section, so concurrent
// creators must end up with exactly the ids 1..n, no duplicates and no gaps.
func TestCreateNextConcurrent(t *testing.T) {
	t.Parallel()

	const n = 32
	store := tempStore(t)

	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.CreateNext(StatusInitiated)
			if err != nil {
				t.Errorf("CreateNext() returned error: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, n)
	for id := range ids {
		if seen[id] {
			t.Errorf("id %d allocated twice", id)
		}
		seen[id] = true
	}
	for id := 1; id <= n; id++ {
		if !seen[id] {
			t.Errorf("id %d never allocated", id)
		}
	}

	reopened, err := OpenStore(store.Path())
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	if got := reopened.LastID(); got != n {
		t.Errorf("LastID() after replay = %d, want %d", got, n)
	}
}

func TestSnapshotSortedByID(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	for i := 0; i < 5; i++ {
		if _, err := store.CreateNext(StatusInitiated); err != nil {
			t.Fatalf("CreateNext() returned error: %v", err)
		}
	}
	if err := store.Append(3, StatusPrepared); err != nil {
		t.Fatalf("Append() returned error: %v", err)
	}

	snapshot := store.Snapshot()
	if len(snapshot) != 5 {
		t.Fatalf("Snapshot() returned %d records, want 5", len(snapshot))
	}
	for i, rec := range snapshot {
		if rec.ID != i+1 {
			t.Errorf("Snapshot()[%d].ID = %d, want %d", i, rec.ID, i+1)
		}
	}
	if snapshot[2].Status != StatusPrepared {
		t.Errorf("Snapshot()[2].Status = %v, want %v", snapshot[2].Status, StatusPrepared)
	}
}

func TestOpenStoreMalformedLine(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
	}{
		{"missing comma", "1 Initiated\n"},
		{"bad id", "abc,Initiated\n"},
		{"zero id", "0,Initiated\n"},
		{"unknown status", "1,Fried\n"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "pedidos.txt")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("setup failed: %v", err)
			}

			_, err := OpenStore(path)
			if err == nil {
				t.Fatal("OpenStore() accepted a corrupt store")
			}
			var se apperrors.StoreError
			if !errors.As(err, &se) {
				t.Errorf("expected StoreError, got %T: %v", err, err)
			}
		})
	}
}

// TestStoreProperties verifies with property-based testing that a random
// sequence of valid operations keeps the store consistent: ids are unique
// and dense, and the file replays to the same state.
func TestStoreProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("n creations allocate ids 1..n and survive replay", prop.ForAll(
		func(n int) bool {
			path := filepath.Join(t.TempDir(), fmt.Sprintf("pedidos-%d.txt", n))
			store, err := OpenStore(path)
			if err != nil {
				return false
			}
			for i := 1; i <= n; i++ {
				id, err := store.CreateNext(StatusInitiated)
				if err != nil || id != i {
					return false
				}
			}

			reopened, err := OpenStore(path)
			if err != nil {
				return false
			}
			return reopened.LastID() == n && len(reopened.Snapshot()) == n
		},
		gen.IntRange(0, 25),
	))

	properties.TestingRun(t)
}
