package store

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func TestOpen(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	var name string
	err = st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='preferences'").Scan(&name)
	if err != nil {
		t.Fatalf("preferences table not created: %v", err)
	}
}

func TestGetMissingKey(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	if _, err := st.Get("darkTheme"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	v, ok, err := st.GetBool("darkTheme")
	if err != nil || ok || v {
		t.Errorf("GetBool on missing key = (%v, %v, %v), want (false, false, nil)", v, ok, err)
	}
}

func TestSetOverwrites(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	if err := st.SetBool("darkTheme", true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	if err := st.SetBool("darkTheme", false); err != nil {
		t.Fatalf("SetBool: %v", err)
	}

	raw, err := st.Get("darkTheme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if raw != "false" {
		t.Errorf("expected \"false\", got %q", raw)
	}

	var n int
	st.db.QueryRow("SELECT COUNT(*) FROM preferences").Scan(&n)
	if n != 1 {
		t.Errorf("expected 1 row after upsert, got %d", n)
	}
}

func TestGetBoolUnparseable(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	st.Set("darkTheme", "maybe")
	v, ok, err := st.GetBool("darkTheme")
	if err != nil || ok || v {
		t.Errorf("GetBool on garbage = (%v, %v, %v), want (false, false, nil)", v, ok, err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medview.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := st.SetBool("darkTheme", true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer st.Close()

	v, ok, err := st.GetBool("darkTheme")
	if err != nil || !ok || !v {
		t.Errorf("after reopen GetBool = (%v, %v, %v), want (true, true, nil)", v, ok, err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := st.SetBool("darkTheme", i%2 == 0); err != nil {
				t.Errorf("SetBool: %v", err)
			}
			if _, _, err := st.GetBool("darkTheme"); err != nil {
				t.Errorf("GetBool: %v", err)
			}
		}(i)
	}
	wg.Wait()
}
