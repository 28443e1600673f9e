package sqlite

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dancefloor/internal/monitoring"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	orig := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = orig })

	db, err := Open(filepath.Join(t.TempDir(), "recorder.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func fixedStore(db *DB, at time.Time) *RunStore {
	s := NewRunStore(db)
	s.now = func() time.Time { return at }
	return s
}

func TestOpen_MigratesToLatest(t *testing.T) {
	db := openTestDB(t)

	v, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)
	assert.False(t, dirty)

	// Re-running is a no-op.
	require.NoError(t, db.MigrateUp())

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrateDown(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.MigrateDown())

	v, _, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)

	_, err = db.Exec(`SELECT COUNT(*) FROM dance_frame_stats`)
	assert.Error(t, err, "frame stats table dropped")

	require.NoError(t, db.MigrateUp())
}

func TestOpen_BadPath(t *testing.T) {
	orig := monitoring.Logf
	monitoring.SetLogger(nil)
	defer func() { monitoring.Logf = orig }()
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	assert.Error(t, err)
}

func TestRunStore_Lifecycle(t *testing.T) {
	db := openTestDB(t)
	start := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	s := fixedStore(db, start)

	run := &Run{Seed: 42, Layout: "coco", HairStrands: 50, ConfigJSON: json.RawMessage(`{"hair_seed":1}`)}
	require.NoError(t, s.CreateRun(run))
	require.NotEmpty(t, run.RunID)
	assert.Equal(t, start.UnixNano(), run.StartedAt)

	got, err := s.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, "coco", got.Layout)
	assert.JSONEq(t, `{"hair_seed":1}`, string(got.ConfigJSON))
	assert.False(t, got.Finished())
	assert.Nil(t, got.SummaryJSON)

	s.now = func() time.Time { return start.Add(time.Minute) }
	require.NoError(t, s.FinishRun(run.RunID, 240, json.RawMessage(`{"mean":1.5}`)))

	got, err = s.GetRun(run.RunID)
	require.NoError(t, err)
	assert.True(t, got.Finished())
	assert.Equal(t, start.Add(time.Minute).UnixNano(), got.FinishedAt)
	assert.Equal(t, 240, got.FrameCount)
	assert.JSONEq(t, `{"mean":1.5}`, string(got.SummaryJSON))
}

func TestRunStore_NotFound(t *testing.T) {
	s := NewRunStore(openTestDB(t))

	_, err := s.GetRun("nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	err = s.FinishRun("nope", 1, nil)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRunStore_ListRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := NewRunStore(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateRun(&Run{RunID: string(rune('a' + i)), StartedAt: base.Add(time.Duration(i) * time.Hour).UnixNano()}))
	}

	runs, err := s.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{runs[0].RunID, runs[1].RunID, runs[2].RunID})

	runs, err = s.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunStore_FrameStats(t *testing.T) {
	db := openTestDB(t)
	s := NewRunStore(db)
	run := &Run{}
	require.NoError(t, s.CreateRun(run))

	stats := []FrameStat{
		{Tick: 2, Frame: 1, ContactPairs: 3, MinContact: 0.05, HandsVisible: 2, HairStretch: 0.01, LeadIntensity: 0.4, FollowIntensity: 0.2},
		{Tick: 1, Frame: 0, MinContact: math.NaN()},
	}
	require.NoError(t, s.InsertFrameStats(run.RunID, stats))
	require.NoError(t, s.InsertFrameStats(run.RunID, nil))

	got, err := s.ListFrameStats(run.RunID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, uint64(1), got[0].Tick)
	assert.False(t, got[0].HasContact())
	assert.Equal(t, uint64(2), got[1].Tick)
	assert.True(t, got[1].HasContact())
	assert.InDelta(t, 0.05, got[1].MinContact, 1e-12)
	assert.Equal(t, 3, got[1].ContactPairs)
	assert.Equal(t, 2, got[1].HandsVisible)
	assert.InDelta(t, 0.4, got[1].LeadIntensity, 1e-12)

	// Rewriting a tick replaces it.
	require.NoError(t, s.InsertFrameStats(run.RunID, []FrameStat{{Tick: 1, Frame: 9, MinContact: math.NaN()}}))
	got, err = s.ListFrameStats(run.RunID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 9, got[0].Frame)

	empty, err := s.ListFrameStats("other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRunStore_FrameStatsNeedRun(t *testing.T) {
	s := NewRunStore(openTestDB(t))
	err := s.InsertFrameStats("ghost", []FrameStat{{Tick: 1, MinContact: math.NaN()}})
	assert.Error(t, err, "foreign key rejects unknown run")

	got, err := s.ListFrameStats("ghost")
	require.NoError(t, err)
	assert.Empty(t, got, "failed batch is rolled back")
}

func TestIsSQLiteBusy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"database is locked", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"SQLITE_BUSY", errors.New("SQLITE_BUSY"), true},
		{"other error", errors.New("some other error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSQLiteBusy(tt.err))
		})
	}
}

func TestRetryOnBusy(t *testing.T) {
	t.Run("success after retry", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-busy error returns at once", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			return errors.New("constraint failed")
		})
		assert.EqualError(t, err, "constraint failed")
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after budget", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			return errors.New("SQLITE_BUSY")
		})
		assert.True(t, isSQLiteBusy(err))
		assert.Equal(t, busyRetries, calls)
	})
}

func TestAttachAdminRoutes(t *testing.T) {
	db := openTestDB(t)
	s := NewRunStore(db)
	require.NoError(t, s.CreateRun(&Run{}))

	mux := http.NewServeMux()
	require.NoError(t, db.AttachAdminRoutes(mux))

	for _, path := range []string{"/debug/recorder-stats", "/debug/tailsql/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		// tsweb may refuse non-local callers; the route must still exist.
		assert.NotEqual(t, http.StatusNotFound, w.Code, path)
	}

	counts, err := db.TableCounts()
	require.NoError(t, err)
	assert.Equal(t, []TableCount{{"dance_runs", 1}, {"dance_frame_stats", 0}}, counts)
}
