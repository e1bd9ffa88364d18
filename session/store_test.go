package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/routebot/config"
	"github.com/va6996/routebot/geo"
)

func testStores(t *testing.T) map[string]Store {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gs, err := OpenGormStore(dsn)
	require.NoError(t, err)

	return map[string]Store{
		"Memory": NewMemoryStore(),
		"Gorm":   gs,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	captured := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			rec, err := store.Get(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, Record{}, rec)

			in := Record{
				CurrentLocation: &geo.LocationSample{Latitude: -31.95, Longitude: 115.86, CapturedAt: captured},
				PendingQuery:    "directions to Fremantle",
				PinnedMessageID: 7,
				History:         []Turn{{Role: "user", Text: "hi"}, {Role: "model", Text: "Howdy"}},
			}
			require.NoError(t, store.Put(ctx, 42, in))

			out, err := store.Get(ctx, 42)
			require.NoError(t, err)
			require.NotNil(t, out.CurrentLocation)
			assert.True(t, captured.Equal(out.CurrentLocation.CapturedAt))
			assert.Equal(t, in.CurrentLocation.Latitude, out.CurrentLocation.Latitude)
			assert.Equal(t, in.PendingQuery, out.PendingQuery)
			assert.Equal(t, in.PinnedMessageID, out.PinnedMessageID)
			assert.Equal(t, in.History, out.History)

			// a newer sample supersedes the old one
			in.CurrentLocation = &geo.LocationSample{Latitude: -32.05, Longitude: 115.74, CapturedAt: captured.Add(time.Minute)}
			in.PendingQuery = ""
			require.NoError(t, store.Put(ctx, 42, in))

			out, err = store.Get(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, -32.05, out.CurrentLocation.Latitude)
			assert.Empty(t, out.PendingQuery)

			other, err := store.Get(ctx, 43)
			require.NoError(t, err)
			assert.Nil(t, other.CurrentLocation)
		})
	}
}

func TestStore_ConcurrentWritersSameUser(t *testing.T) {
	ctx := context.Background()
	const (
		users   = 5
		writers = 20
	)

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			errs := make(chan error, users*writers)
			for u := 0; u < users; u++ {
				for w := 1; w <= writers; w++ {
					wg.Add(1)
					go func(userID int64, pinned int) {
						defer wg.Done()
						rec, err := store.Get(ctx, userID)
						if err != nil {
							errs <- err
							return
						}
						rec.PinnedMessageID = pinned
						rec.History = append(rec.History, Turn{Role: "user", Text: fmt.Sprint(pinned)})
						errs <- store.Put(ctx, userID, rec)
					}(int64(u), w)
				}
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}
			for u := 0; u < users; u++ {
				rec, err := store.Get(ctx, int64(u))
				require.NoError(t, err)
				assert.GreaterOrEqual(t, rec.PinnedMessageID, 1)
				assert.LessOrEqual(t, rec.PinnedMessageID, writers)
				assert.NotEmpty(t, rec.History)
			}
		})
	}
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	loc := &geo.LocationSample{Latitude: 1, Longitude: 2}
	rec := Record{CurrentLocation: loc, History: []Turn{{Role: "user", Text: "a"}}}
	require.NoError(t, store.Put(ctx, 1, rec))

	loc.Latitude = 99
	rec.History[0].Text = "changed"

	out, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.CurrentLocation.Latitude)
	assert.Equal(t, "a", out.History[0].Text)
}

func TestRecord_TrimHistory(t *testing.T) {
	rec := Record{History: []Turn{{Text: "1"}, {Text: "2"}, {Text: "3"}}}
	rec.TrimHistory(0)
	assert.Len(t, rec.History, 3)

	rec.TrimHistory(2)
	assert.Equal(t, []Turn{{Text: "2"}, {Text: "3"}}, rec.History)
}

func TestNew(t *testing.T) {
	s, err := New(config.SessionConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(config.SessionConfig{Backend: "sqlite", DSN: "file:sessions_new?mode=memory&cache=shared"})
	require.NoError(t, err)
	assert.IsType(t, &GormStore{}, s)

	_, err = New(config.SessionConfig{Backend: "redis"})
	assert.Error(t, err)
}
