package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_EmptyUntilSet(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Get())
	assert.Equal(t, float64(-1), s.AgeSeconds())

	ds := Builtin()
	s.Set(ds)
	assert.Same(t, ds, s.Get())
	assert.GreaterOrEqual(t, s.AgeSeconds(), float64(0))
}

func TestStore_SwapVisibleToReaders(t *testing.T) {
	s := NewStore()
	first := &Dataset{Source: "first", LoadedAt: time.Now()}
	second := &Dataset{Source: "second", LoadedAt: time.Now()}
	s.Set(first)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				ds := s.Get()
				if ds.Source != "first" && ds.Source != "second" {
					t.Errorf("unexpected dataset %q", ds.Source)
					return
				}
			}
		}()
	}
	s.Set(second)
	wg.Wait()
	assert.Same(t, second, s.Get())
}

func TestFetcher(t *testing.T) {
	const payload = "Sirius | 06 45 08.92 | -16 42 58.0 | -1.46\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL)
	assert.Equal(t, srv.URL, f.SourceURL())

	body, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))
}

func TestFetcher_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetcher_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewFetcher(srv.URL).Fetch(ctx)
	require.Error(t, err)
}
