package sqlite

import (
	"database/sql"
	"fmt"
	"math"
)

// FrameStat is one tick's recorded numbers. MinContact is NaN when the
// frame had no contact.
type FrameStat struct {
	Tick            uint64  `json:"tick"`
	Frame           int     `json:"frame"`
	ContactPairs    int     `json:"contact_pairs"`
	MinContact      float64 `json:"-"`
	HandsVisible    int     `json:"hands_visible"`
	HairStretch     float64 `json:"hair_stretch"`
	LeadIntensity   float64 `json:"lead_intensity"`
	FollowIntensity float64 `json:"follow_intensity"`
}

// HasContact reports whether MinContact holds a distance.
func (f FrameStat) HasContact() bool { return !math.IsNaN(f.MinContact) }

// InsertFrameStats writes stats for runID in one transaction. Rewriting a
// tick replaces it.
func (s *RunStore) InsertFrameStats(runID string, stats []FrameStat) error {
	if len(stats) == 0 {
		return nil
	}
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin frame stats: %w", err)
		}
		defer tx.Rollback()

		stmt, err := tx.Prepare(`
			INSERT OR REPLACE INTO dance_frame_stats (
				run_id, tick, frame, contact_pairs, min_contact, hands_visible,
				hair_stretch, lead_intensity, follow_intensity
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare frame stats: %w", err)
		}
		defer stmt.Close()

		for _, f := range stats {
			var minContact interface{}
			if f.HasContact() {
				minContact = f.MinContact
			}
			if _, err := stmt.Exec(runID, int64(f.Tick), f.Frame, f.ContactPairs, minContact,
				f.HandsVisible, f.HairStretch, f.LeadIntensity, f.FollowIntensity); err != nil {
				return fmt.Errorf("insert frame stat tick %d: %w", f.Tick, err)
			}
		}
		return tx.Commit()
	})
}

// ListFrameStats returns runID's stats in tick order.
func (s *RunStore) ListFrameStats(runID string) ([]FrameStat, error) {
	rows, err := s.db.Query(`
		SELECT tick, frame, contact_pairs, min_contact, hands_visible,
			hair_stretch, lead_intensity, follow_intensity
		FROM dance_frame_stats
		WHERE run_id = ?
		ORDER BY tick`, runID)
	if err != nil {
		return nil, fmt.Errorf("list frame stats: %w", err)
	}
	defer rows.Close()

	var out []FrameStat
	for rows.Next() {
		var (
			f          FrameStat
			tick       int64
			minContact sql.NullFloat64
		)
		if err := rows.Scan(&tick, &f.Frame, &f.ContactPairs, &minContact, &f.HandsVisible,
			&f.HairStretch, &f.LeadIntensity, &f.FollowIntensity); err != nil {
			return nil, fmt.Errorf("scan frame stat: %w", err)
		}
		f.Tick = uint64(tick)
		f.MinContact = math.NaN()
		if minContact.Valid {
			f.MinContact = minContact.Float64
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
