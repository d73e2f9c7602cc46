package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/event-rsvp-bot/internal/models"
)

func entry(i int) models.LogEntry {
	return models.LogEntry{
		Direction:   models.DirectionInbound,
		DisplayName: "Guest",
		RecipientID: fmt.Sprintf("r%d", i),
		Content:     fmt.Sprintf("msg %d", i),
		Status:      "Logged",
	}
}

func contents(es []models.LogEntry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Content
	}
	return out
}

func TestMemoryLog_RecentOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog(10)

	for i := 1; i <= 5; i++ {
		require.NoError(t, l.Append(ctx, entry(i)))
	}

	got, err := l.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"msg 3", "msg 4", "msg 5"}, contents(got))

	got, _ = l.Recent(ctx, 50)
	assert.Len(t, got, 5)
	assert.Equal(t, "msg 1", got[0].Content)

	got, _ = l.Recent(ctx, 0)
	assert.Empty(t, got)
	got, _ = l.Recent(ctx, -1)
	assert.Empty(t, got)
}

func TestMemoryLog_StampsEntries(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog(2)

	require.NoError(t, l.Append(ctx, entry(1)))
	fixed := entry(2)
	fixed.ID = "fixed"
	fixed.Timestamp = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, l.Append(ctx, fixed))

	got, _ := l.Recent(ctx, 2)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
	assert.Equal(t, "fixed", got[1].ID)
	// The log owns the clock: caller timestamps are replaced by the append time.
	assert.True(t, got[1].Timestamp.After(fixed.Timestamp))
	assert.False(t, got[1].Timestamp.Before(got[0].Timestamp))
}

func TestMemoryLog_TimestampsFollowInsertionOrder(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog(10)

	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	clock := []time.Time{base, base.Add(time.Second), base.Add(-time.Minute), base.Add(2 * time.Second)}
	i := 0
	l.now = func() time.Time {
		ts := clock[i]
		i++
		return ts
	}

	for n := 1; n <= 4; n++ {
		late := entry(n)
		late.Timestamp = base.Add(-time.Hour)
		require.NoError(t, l.Append(ctx, late))
	}

	got, _ := l.Recent(ctx, 10)
	require.Len(t, got, 4)
	assert.Equal(t, base, got[0].Timestamp)
	assert.Equal(t, base.Add(time.Second), got[1].Timestamp)
	// A clock step backwards is clamped to the previous entry.
	assert.Equal(t, base.Add(time.Second), got[2].Timestamp)
	assert.Equal(t, base.Add(2*time.Second), got[3].Timestamp)
}

func TestMemoryLog_RetentionDropsOldest(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog(3)

	for i := 1; i <= 7; i++ {
		require.NoError(t, l.Append(ctx, entry(i)))
	}

	assert.Equal(t, 3, l.Len())
	got, _ := l.Recent(ctx, 10)
	assert.Equal(t, []string{"msg 5", "msg 6", "msg 7"}, contents(got))

	got, _ = l.Recent(ctx, 2)
	assert.Equal(t, []string{"msg 6", "msg 7"}, contents(got))
}

func TestMemoryLog_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog(1000)

	const writers, per = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				assert.NoError(t, l.Append(ctx, entry(w*per+i)))
			}
		}(w)
	}
	wg.Wait()

	got, err := l.Recent(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, got, writers*per)

	// Each writer's own entries stay in the order it appended them.
	last := map[int]int{}
	for i, e := range got {
		if i > 0 {
			assert.False(t, e.Timestamp.Before(got[i-1].Timestamp))
		}
		var n int
		_, err := fmt.Sscanf(e.Content, "msg %d", &n)
		require.NoError(t, err)
		w := n / per
		if prev, ok := last[w]; ok {
			assert.Greater(t, n, prev)
		}
		last[w] = n
	}
}

func TestPostgresLog(t *testing.T) {
	dbURL := os.Getenv("TEST_DB_URL")
	if dbURL == "" {
		t.Skip("TEST_DB_URL not set")
	}
	ctx := context.Background()

	db, err := NewPostgresLog(dbURL)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.Ping(ctx))

	prefix := fmt.Sprintf("pg-%d", time.Now().UnixNano())
	for i := 1; i <= 4; i++ {
		e := entry(i)
		e.Content = fmt.Sprintf("%s %d", prefix, i)
		require.NoError(t, db.Append(ctx, e))
	}

	got, err := db.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{prefix + " 3", prefix + " 4"}, contents(got))
	assert.Equal(t, models.DirectionInbound, got[0].Direction)

	assert.Error(t, db.Append(ctx, models.LogEntry{}))
}
