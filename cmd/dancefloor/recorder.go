package main

import (
	"github.com/banshee-data/dancefloor/internal/dance/playback"
	"github.com/banshee-data/dancefloor/internal/dance/storage/sqlite"
	"github.com/banshee-data/dancefloor/internal/monitoring"
)

// recorder batches per-tick stats into the run store. It also keeps the
// intensity traces the plots need.
type recorder struct {
	store     *sqlite.RunStore
	runID     string
	batchSize int
	batch     []sqlite.FrameStat
	err       error

	lead   []float64
	follow []float64
}

func newRecorder(store *sqlite.RunStore, runID string, batchSize int) *recorder {
	if batchSize < 1 {
		batchSize = 1
	}
	return &recorder{store: store, runID: runID, batchSize: batchSize}
}

func toFrameStat(s playback.FrameStats) sqlite.FrameStat {
	return sqlite.FrameStat{
		Tick:            s.Tick,
		Frame:           s.Frame,
		ContactPairs:    s.ContactPairs,
		MinContact:      s.MinContact,
		HandsVisible:    s.HandsVisible,
		HairStretch:     s.HairStretch,
		LeadIntensity:   s.LeadIntensity,
		FollowIntensity: s.FollowIntensity,
	}
}

// Publish implements playback.Sink.
func (r *recorder) Publish(b *playback.FrameBundle) {
	s := b.Stats()
	r.lead = append(r.lead, s.LeadIntensity)
	r.follow = append(r.follow, s.FollowIntensity)
	if r.store == nil {
		return
	}
	r.batch = append(r.batch, toFrameStat(s))
	if len(r.batch) >= r.batchSize {
		r.flush()
	}
}

func (r *recorder) flush() {
	if r.store == nil || len(r.batch) == 0 {
		return
	}
	if err := r.store.InsertFrameStats(r.runID, r.batch); err != nil {
		monitoring.Logf("[recorder] failed to write %d frame stats: %v", len(r.batch), err)
		if r.err == nil {
			r.err = err
		}
	}
	r.batch = r.batch[:0]
}

// Close writes any buffered stats and returns the first write error.
func (r *recorder) Close() error {
	r.flush()
	return r.err
}
