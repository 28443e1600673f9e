package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// Limb curve kinds accepted by spline_limb_curve.
const (
	CurveBezier         = "bezier"
	CurveCatmullRom     = "catmull_rom"
	CurveCatmullRomLoop = "catmull_rom_loop"
	CurveRecursive      = "recursive"
)

// TuningConfig represents the root configuration for tuning parameters.
// Every field is optional; the Get* accessors supply defaults so partial
// configs are safe.
type TuningConfig struct {
	// Hair: skull / scalp
	HairSkullRadius   *float64 `json:"hair_skull_radius,omitempty"`
	HairCardioidScale *float64 `json:"hair_cardioid_scale,omitempty"`

	// Hair: generation
	HairTopCount            *int     `json:"hair_top_count,omitempty"`
	HairDomeMaxAngleDeg     *float64 `json:"hair_dome_max_angle_deg,omitempty"`
	HairSideLayerCount      *int     `json:"hair_side_layer_count,omitempty"`
	HairSideStrandsPerLayer *int     `json:"hair_side_strands_per_layer,omitempty"`
	HairRingAngleSpanDeg    *float64 `json:"hair_ring_angle_span_deg,omitempty"`
	HairSegmentsPerStrand   *int     `json:"hair_segments_per_strand,omitempty"`
	HairStrandThickness     *float64 `json:"hair_strand_thickness,omitempty"`
	HairSeed                *int64   `json:"hair_seed,omitempty"`

	// Hair: physics
	HairGravity              *[3]float64 `json:"hair_gravity,omitempty"`
	HairSubSteps             *int        `json:"hair_sub_steps,omitempty"`
	HairConstraintIterations *int        `json:"hair_constraint_iterations,omitempty"`
	HairDamping              *float64    `json:"hair_damping,omitempty"`
	HairCollisionFriction    *float64    `json:"hair_collision_friction,omitempty"`
	HairCollisionSegments    *int        `json:"hair_collision_segments,omitempty"`
	HairMass                 *float64    `json:"hair_mass,omitempty"`
	HairWorkers              *int        `json:"hair_workers,omitempty"`

	// Contact
	ContactAcceptDistance  *float64 `json:"contact_accept_distance,omitempty"`
	ContactRibbonWidth     *float64 `json:"contact_ribbon_width,omitempty"`
	ContactColorScale      *float64 `json:"contact_color_scale,omitempty"`
	ContactHandMaxDistance *float64 `json:"contact_hand_max_distance,omitempty"`
	ContactHandReachGate   *float64 `json:"contact_hand_reach_gate,omitempty"`

	// Spline
	SplineResolution      *int     `json:"spline_resolution,omitempty"`
	SplineAdaptiveSpacing *float64 `json:"spline_adaptive_spacing,omitempty"`
	SplineSmoothing       *float64 `json:"spline_smoothing,omitempty"`
	SplineLimbCurve       *string  `json:"spline_limb_curve,omitempty"`

	// Playback
	FrameInterval         *string  `json:"frame_interval,omitempty"` // duration string like "30ms"
	TrailWindow           *int     `json:"trail_window,omitempty"`
	GroundMinY            *float64 `json:"ground_min_y,omitempty"`
	FootprintStride       *int     `json:"footprint_stride,omitempty"`
	JerkIntensityQuantile *float64 `json:"jerk_intensity_quantile,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated from
// the Get* defaults. It mirrors config/tuning.defaults.json.
func DefaultTuningConfig() *TuningConfig {
	e := EmptyTuningConfig()
	gravity := e.GetHairGravity()
	seed := int64(1)
	return &TuningConfig{
		HairSkullRadius:          ptrFloat64(e.GetHairSkullRadius()),
		HairCardioidScale:        ptrFloat64(e.GetHairCardioidScale()),
		HairTopCount:             ptrInt(e.GetHairTopCount()),
		HairDomeMaxAngleDeg:      ptrFloat64(e.GetHairDomeMaxAngleDeg()),
		HairSideLayerCount:       ptrInt(e.GetHairSideLayerCount()),
		HairSideStrandsPerLayer:  ptrInt(e.GetHairSideStrandsPerLayer()),
		HairRingAngleSpanDeg:     ptrFloat64(e.GetHairRingAngleSpanDeg()),
		HairSegmentsPerStrand:    ptrInt(e.GetHairSegmentsPerStrand()),
		HairStrandThickness:      ptrFloat64(e.GetHairStrandThickness()),
		HairSeed:                 &seed,
		HairGravity:              &gravity,
		HairSubSteps:             ptrInt(e.GetHairSubSteps()),
		HairConstraintIterations: ptrInt(e.GetHairConstraintIterations()),
		HairDamping:              ptrFloat64(e.GetHairDamping()),
		HairCollisionFriction:    ptrFloat64(e.GetHairCollisionFriction()),
		HairCollisionSegments:    ptrInt(e.GetHairCollisionSegments()),
		HairMass:                 ptrFloat64(e.GetHairMass()),
		HairWorkers:              ptrInt(e.GetHairWorkers()),
		ContactAcceptDistance:    ptrFloat64(e.GetContactAcceptDistance()),
		ContactRibbonWidth:       ptrFloat64(e.GetContactRibbonWidth()),
		ContactColorScale:        ptrFloat64(e.GetContactColorScale()),
		ContactHandMaxDistance:   ptrFloat64(e.GetContactHandMaxDistance()),
		ContactHandReachGate:     ptrFloat64(e.GetContactHandReachGate()),
		SplineResolution:         ptrInt(e.GetSplineResolution()),
		SplineAdaptiveSpacing:    ptrFloat64(e.GetSplineAdaptiveSpacing()),
		SplineSmoothing:          ptrFloat64(e.GetSplineSmoothing()),
		SplineLimbCurve:          ptrString(e.GetSplineLimbCurve()),
		FrameInterval:            ptrString("30ms"),
		TrailWindow:              ptrInt(e.GetTrailWindow()),
		GroundMinY:               ptrFloat64(e.GetGroundMinY()),
		FootprintStride:          ptrInt(e.GetFootprintStride()),
		JerkIntensityQuantile:    ptrFloat64(e.GetJerkIntensityQuantile()),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/dance/hair/
		"../../../../" + DefaultConfigPath, // from internal/dance/storage/sqlite/
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.HairSkullRadius != nil && *c.HairSkullRadius <= 0 {
		return fmt.Errorf("hair_skull_radius must be positive, got %f", *c.HairSkullRadius)
	}
	for name, v := range map[string]*int{
		"hair_top_count":              c.HairTopCount,
		"hair_side_layer_count":       c.HairSideLayerCount,
		"hair_side_strands_per_layer": c.HairSideStrandsPerLayer,
		"hair_segments_per_strand":    c.HairSegmentsPerStrand,
		"hair_collision_segments":     c.HairCollisionSegments,
		"hair_workers":                c.HairWorkers,
		"trail_window":                c.TrailWindow,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, *v)
		}
	}
	if c.HairSubSteps != nil && *c.HairSubSteps < 1 {
		return fmt.Errorf("hair_sub_steps must be at least 1, got %d", *c.HairSubSteps)
	}
	if c.HairConstraintIterations != nil && *c.HairConstraintIterations < 0 {
		return fmt.Errorf("hair_constraint_iterations must be non-negative, got %d", *c.HairConstraintIterations)
	}
	if c.HairMass != nil && *c.HairMass <= 0 {
		return fmt.Errorf("hair_mass must be positive, got %f", *c.HairMass)
	}
	if c.HairDamping != nil && *c.HairDamping < 0 {
		return fmt.Errorf("hair_damping must be non-negative, got %f", *c.HairDamping)
	}
	if c.HairCollisionFriction != nil {
		if *c.HairCollisionFriction < 0 || *c.HairCollisionFriction > 1 {
			return fmt.Errorf("hair_collision_friction must be between 0 and 1, got %f", *c.HairCollisionFriction)
		}
	}
	if c.ContactAcceptDistance != nil && *c.ContactAcceptDistance <= 0 {
		return fmt.Errorf("contact_accept_distance must be positive, got %f", *c.ContactAcceptDistance)
	}
	if c.SplineResolution != nil && *c.SplineResolution < 1 {
		return fmt.Errorf("spline_resolution must be at least 1, got %d", *c.SplineResolution)
	}
	if c.SplineAdaptiveSpacing != nil && *c.SplineAdaptiveSpacing <= 0 {
		return fmt.Errorf("spline_adaptive_spacing must be positive, got %f", *c.SplineAdaptiveSpacing)
	}
	if c.SplineLimbCurve != nil {
		switch *c.SplineLimbCurve {
		case CurveBezier, CurveCatmullRom, CurveCatmullRomLoop, CurveRecursive:
		default:
			return fmt.Errorf("unknown spline_limb_curve %q", *c.SplineLimbCurve)
		}
	}
	if c.FrameInterval != nil && *c.FrameInterval != "" {
		d, err := time.ParseDuration(*c.FrameInterval)
		if err != nil {
			return fmt.Errorf("invalid frame_interval '%s': %w", *c.FrameInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("frame_interval must be positive, got %s", d)
		}
	}
	if c.FootprintStride != nil && *c.FootprintStride < 1 {
		return fmt.Errorf("footprint_stride must be at least 1, got %d", *c.FootprintStride)
	}
	if c.JerkIntensityQuantile != nil {
		if *c.JerkIntensityQuantile <= 0 || *c.JerkIntensityQuantile > 1 {
			return fmt.Errorf("jerk_intensity_quantile must be in (0, 1], got %f", *c.JerkIntensityQuantile)
		}
	}
	return nil
}

// GetFrameInterval parses and returns the FrameInterval as a time.Duration.
func (c *TuningConfig) GetFrameInterval() time.Duration {
	if c.FrameInterval == nil || *c.FrameInterval == "" {
		return 30 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.FrameInterval)
	if err != nil || d <= 0 {
		return 30 * time.Millisecond // default on parse error
	}
	return d
}

func getFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func getInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// GetHairSkullRadius returns the hair_skull_radius value or the default.
func (c *TuningConfig) GetHairSkullRadius() float64 { return getFloat(c.HairSkullRadius, 0.07) }

// GetHairCardioidScale returns the hair_cardioid_scale value or the default.
func (c *TuningConfig) GetHairCardioidScale() float64 { return getFloat(c.HairCardioidScale, 0.16) }

// GetHairTopCount returns the hair_top_count value or the default.
func (c *TuningConfig) GetHairTopCount() int { return getInt(c.HairTopCount, 20) }

// GetHairDomeMaxAngleDeg returns the hair_dome_max_angle_deg value or the default.
func (c *TuningConfig) GetHairDomeMaxAngleDeg() float64 { return getFloat(c.HairDomeMaxAngleDeg, 60) }

// GetHairSideLayerCount returns the hair_side_layer_count value or the default.
func (c *TuningConfig) GetHairSideLayerCount() int { return getInt(c.HairSideLayerCount, 3) }

// GetHairSideStrandsPerLayer returns the hair_side_strands_per_layer value or the default.
func (c *TuningConfig) GetHairSideStrandsPerLayer() int { return getInt(c.HairSideStrandsPerLayer, 10) }

// GetHairRingAngleSpanDeg returns the hair_ring_angle_span_deg value or the default.
func (c *TuningConfig) GetHairRingAngleSpanDeg() float64 {
	return getFloat(c.HairRingAngleSpanDeg, 60)
}

// GetHairSegmentsPerStrand returns the hair_segments_per_strand value or the default.
func (c *TuningConfig) GetHairSegmentsPerStrand() int { return getInt(c.HairSegmentsPerStrand, 6) }

// GetHairStrandThickness returns the hair_strand_thickness value or the default.
func (c *TuningConfig) GetHairStrandThickness() float64 {
	return getFloat(c.HairStrandThickness, 0.035)
}

// GetHairSeed returns the hair_seed value, or 0 meaning "seed from the clock".
func (c *TuningConfig) GetHairSeed() int64 {
	if c.HairSeed == nil {
		return 0
	}
	return *c.HairSeed
}

// GetHairGravity returns the hair_gravity vector or the default (0, -9.81, 0).
func (c *TuningConfig) GetHairGravity() [3]float64 {
	if c.HairGravity == nil {
		return [3]float64{0, -9.81, 0}
	}
	return *c.HairGravity
}

// GetHairSubSteps returns the hair_sub_steps value or the default.
func (c *TuningConfig) GetHairSubSteps() int { return getInt(c.HairSubSteps, 10) }

// GetHairConstraintIterations returns the hair_constraint_iterations value or the default.
func (c *TuningConfig) GetHairConstraintIterations() int {
	return getInt(c.HairConstraintIterations, 10)
}

// GetHairDamping returns the hair_damping value or the default.
func (c *TuningConfig) GetHairDamping() float64 { return getFloat(c.HairDamping, 6.0) }

// GetHairCollisionFriction returns the hair_collision_friction value or the default.
func (c *TuningConfig) GetHairCollisionFriction() float64 {
	return getFloat(c.HairCollisionFriction, 0.1)
}

// GetHairCollisionSegments returns the hair_collision_segments value or the default.
func (c *TuningConfig) GetHairCollisionSegments() int { return getInt(c.HairCollisionSegments, 3) }

// GetHairMass returns the hair_mass value or the default.
func (c *TuningConfig) GetHairMass() float64 { return getFloat(c.HairMass, 250) }

// GetHairWorkers returns the hair_workers value, or 0 meaning GOMAXPROCS.
func (c *TuningConfig) GetHairWorkers() int { return getInt(c.HairWorkers, 0) }

// GetContactAcceptDistance returns the contact_accept_distance value or the default.
func (c *TuningConfig) GetContactAcceptDistance() float64 {
	return getFloat(c.ContactAcceptDistance, 0.4)
}

// GetContactRibbonWidth returns the contact_ribbon_width value or the default.
func (c *TuningConfig) GetContactRibbonWidth() float64 { return getFloat(c.ContactRibbonWidth, 0.1) }

// GetContactColorScale returns the contact_color_scale value or the default.
func (c *TuningConfig) GetContactColorScale() float64 { return getFloat(c.ContactColorScale, 8) }

// GetContactHandMaxDistance returns the contact_hand_max_distance value or the default.
func (c *TuningConfig) GetContactHandMaxDistance() float64 {
	return getFloat(c.ContactHandMaxDistance, 0.8)
}

// GetContactHandReachGate returns the contact_hand_reach_gate value or the default.
func (c *TuningConfig) GetContactHandReachGate() float64 {
	return getFloat(c.ContactHandReachGate, 0.12)
}

// GetSplineResolution returns the spline_resolution value or the default.
func (c *TuningConfig) GetSplineResolution() int { return getInt(c.SplineResolution, 20) }

// GetSplineAdaptiveSpacing returns the spline_adaptive_spacing value or the default.
func (c *TuningConfig) GetSplineAdaptiveSpacing() float64 {
	return getFloat(c.SplineAdaptiveSpacing, 0.03)
}

// GetSplineSmoothing returns the spline_smoothing value or the default.
func (c *TuningConfig) GetSplineSmoothing() float64 { return getFloat(c.SplineSmoothing, 0.3) }

// GetSplineLimbCurve returns the spline_limb_curve value or the default.
func (c *TuningConfig) GetSplineLimbCurve() string {
	if c.SplineLimbCurve == nil || *c.SplineLimbCurve == "" {
		return CurveCatmullRom
	}
	return *c.SplineLimbCurve
}

// GetTrailWindow returns the trail_window value or the default.
func (c *TuningConfig) GetTrailWindow() int { return getInt(c.TrailWindow, 15) }

// GetGroundMinY returns the ground_min_y value or the default.
func (c *TuningConfig) GetGroundMinY() float64 { return getFloat(c.GroundMinY, 0.01) }

// GetFootprintStride returns the footprint_stride value or the default.
func (c *TuningConfig) GetFootprintStride() int { return getInt(c.FootprintStride, 5) }

// GetJerkIntensityQuantile returns the jerk_intensity_quantile value or the default.
func (c *TuningConfig) GetJerkIntensityQuantile() float64 {
	return getFloat(c.JerkIntensityQuantile, 0.95)
}
