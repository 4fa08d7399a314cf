package revmbridge

import (
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	statedb "github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
)

// TestHandleRegistry verifies that RegisterState returns unique handles,
// lookup works, and ReleaseState actually removes the entry.
func TestHandleRegistry(t *testing.T) {
	s, err := statedb.New(types.EmptyRootHash, statedb.NewDatabaseForTesting())
	if err != nil {
		t.Fatalf("failed to create StateDB: %v", err)
	}

	h := RegisterState(s, nil)
	if h == 0 {
		t.Fatalf("handle must be non-zero")
	}
	if h2 := RegisterState(s, nil); h2 == h {
		t.Fatalf("handles must be unique")
	} else {
		ReleaseState(h2)
	}
	if _, ok := lookup(h); !ok {
		t.Fatalf("lookup failed for valid handle")
	}

	ReleaseState(h)
	if _, ok := lookup(h); ok {
		t.Fatalf("handle should have been removed after release")
	}
	if RegisterState(nil, nil) != 0 {
		t.Fatalf("nil state must map to the null handle")
	}
}

// TestHandleRace ensures that concurrent handle operations are race-free.
func TestHandleRace(t *testing.T) {
	const n = 100
	db := statedb.NewDatabaseForTesting()

	var wg sync.WaitGroup
	wg.Add(n)
	handles := make(chan uintptr, n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			s, _ := statedb.New(common.Hash{}, db)
			handles <- RegisterState(s, nil)
		}()
	}
	wg.Wait()
	close(handles)

	for h := range handles {
		if _, ok := lookup(h); !ok {
			t.Fatalf("lookup failed for handle %d", h)
		}
		ReleaseState(h)
	}
}
