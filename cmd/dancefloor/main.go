// Command dancefloor plays a synthetic two-dancer performance through the
// playback core, records per-frame statistics and renders diagnostics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/banshee-data/dancefloor/internal/config"
	"github.com/banshee-data/dancefloor/internal/dance/monitor"
	"github.com/banshee-data/dancefloor/internal/dance/playback"
	"github.com/banshee-data/dancefloor/internal/dance/rhythm"
	"github.com/banshee-data/dancefloor/internal/dance/storage/sqlite"
	"github.com/banshee-data/dancefloor/internal/monitoring"
	"github.com/banshee-data/dancefloor/internal/timeutil"
	"github.com/banshee-data/dancefloor/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to tuning JSON (defaults built in)")
	frames      = flag.Int("frames", 300, "Number of frames to play")
	seed        = flag.Int64("seed", 1, "Seed for the synthetic performance and hair roots")
	dbPath      = flag.String("db", "", "Record the run into this SQLite database")
	plotsDir    = flag.String("plots", "", "Write PNG diagnostics into this directory")
	listen      = flag.String("listen", "", "Serve the debug web server on this address after playback (requires -db)")
	realtime    = flag.Bool("realtime", false, "Pace frames at the configured frame interval")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

const statsBatchSize = 100

func loadConfig(path string) (*config.TuningConfig, error) {
	if path == "" {
		return config.DefaultTuningConfig(), nil
	}
	return config.LoadTuningConfig(path)
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *frames < 1 {
		log.Fatal("-frames must be at least 1")
	}
	if *listen != "" && *dbPath == "" {
		log.Fatal("-listen requires -db")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("dancefloor: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts := playback.OptionsFromTuning(cfg)
	if *seed != 0 {
		opts.Hair.Seed = *seed
	}

	gen := playback.NewSyntheticGenerator(*seed)
	gen.Frames = *frames
	gen.FrameRate = 1 / opts.FrameInterval.Seconds()
	perf := gen.Generate()

	driver, err := playback.NewDriver(perf, opts)
	if err != nil {
		return err
	}

	var (
		db    *sqlite.DB
		store *sqlite.RunStore
		dbRun sqlite.Run
	)
	if *dbPath != "" {
		db, err = sqlite.Open(*dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		store = sqlite.NewRunStore(db)

		cfgJSON, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		dbRun = sqlite.Run{
			Seed:        *seed,
			Layout:      perf.Dancers[0].Layout.Name(),
			HairStrands: driver.Hair().StrandCount(),
			ConfigJSON:  cfgJSON,
		}
		if err := store.CreateRun(&dbRun); err != nil {
			return err
		}
		log.Printf("recording run %s into %s", dbRun.RunID, *dbPath)
	}

	rec := newRecorder(store, dbRun.RunID, statsBatchSize)
	sinks := []playback.Sink{rec}

	played := 0
	if *realtime {
		pub := playback.NewPublisher(playback.DefaultPublisherConfig(), timeutil.RealClock{})
		if err := pub.Start(); err != nil {
			return err
		}
		defer pub.Stop()
		sub := pub.Subscribe("progress")
		go logProgress(sub)

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		limit := playback.SinkFunc(func(b *playback.FrameBundle) {
			played = int(b.Tick)
			if played >= *frames {
				cancel()
			}
		})
		sinks = append(sinks, pub, limit)
		err = driver.Run(runCtx, timeutil.RealClock{}, opts.FrameInterval, sinks...)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		log.Printf("publisher: %+v", pub.Stats())
	} else {
		if err := driver.Render(ctx, *frames, opts.FrameInterval.Seconds(), sinks...); err != nil {
			return err
		}
		played = *frames
	}

	if err := rec.Close(); err != nil {
		return fmt.Errorf("record frame stats: %w", err)
	}
	lead := rhythm.Summarize(rec.lead)
	log.Printf("played %d frames: lead intensity mean=%.3f max=%.3f, warnings=%d",
		played, lead.Mean, lead.Max, monitoring.WarningCount())

	if store != nil {
		summary, err := json.Marshal(map[string]rhythm.Summary{
			"lead_intensity":   lead,
			"follow_intensity": rhythm.Summarize(rec.follow),
		})
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		if err := store.FinishRun(dbRun.RunID, played, summary); err != nil {
			return err
		}
	}

	if *plotsDir != "" {
		if err := writePlots(*plotsDir, driver, rec, gen.FrameRate); err != nil {
			return err
		}
	}

	if *listen != "" && ctx.Err() == nil {
		ws := monitor.NewWebServer(monitor.WebServerConfig{Address: *listen, DB: db})
		log.Printf("debug pages at http://%s/debug/dance/contacts?run_id=%s", *listen, dbRun.RunID)
		return ws.Start(ctx)
	}
	return nil
}

func writePlots(dir string, driver *playback.Driver, rec *recorder, fps float64) error {
	jerkPath := filepath.Join(dir, "jerk_intensity.png")
	if err := monitor.WriteJerkPlot(jerkPath, []string{"lead", "follow"}, [][]float64{rec.lead, rec.follow}, fps); err != nil {
		return err
	}
	hairPath := filepath.Join(dir, "hair_strands.png")
	if err := monitor.WriteStrandPlot(hairPath, driver.Hair().Lines()); err != nil {
		return err
	}
	log.Printf("wrote %s and %s", jerkPath, hairPath)
	return nil
}

func logProgress(sub *playback.Subscription) {
	for {
		select {
		case <-sub.Done():
			return
		case b := <-sub.C():
			if b.Tick%100 == 0 {
				s := b.Stats()
				log.Printf("tick %d frame %d: contact pairs=%d hands=%d stretch=%.4f",
					s.Tick, s.Frame, s.ContactPairs, s.HandsVisible, s.HairStretch)
			}
		}
	}
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
}
