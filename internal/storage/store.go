// Package storage persists scenario runs as one directory per run, indexed by
// a SQLite catalog.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/aquasim/internal/config"
	"github.com/san-kum/aquasim/internal/experiment"
	"github.com/san-kum/aquasim/internal/flight"
	"github.com/san-kum/aquasim/internal/propulsion"
	"github.com/san-kum/aquasim/internal/report"
)

const (
	metadataFile      = "metadata.json"
	trajectoryFile    = "trajectory.csv"
	thrustFile        = "thrust.csv"
	reportFile        = "report.csv"
	thrustProfileFile = "thrust_profile.csv"
)

type Store struct {
	baseDir string
	catalog *Catalog
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the base directory and opens the catalog.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	if s.catalog != nil {
		return nil
	}
	c, err := OpenCatalog(filepath.Join(s.baseDir, CatalogFile))
	if err != nil {
		return err
	}
	s.catalog = c
	return nil
}

func (s *Store) Close() error {
	if s.catalog == nil {
		return nil
	}
	err := s.catalog.Close()
	s.catalog = nil
	return err
}

func (s *Store) Catalog() *Catalog { return s.catalog }

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID        string                 `json:"id"`
	Scenario  string                 `json:"scenario"`
	Timestamp time.Time              `json:"timestamp"`
	Config    *config.Config         `json:"config"`
	Metrics   map[string]float64     `json:"metrics"`
	Steps     int                    `json:"steps"`
	BurnTime  float64                `json:"burn_time"`
	Apogee    flight.TrajectoryPoint `json:"apogee"`
	Summary   report.Summary         `json:"summary"`
}

func newRunID(scenario string) string {
	if scenario == "" {
		scenario = "run"
	}
	return fmt.Sprintf("%s_%s", scenario, uuid.NewString()[:8])
}

func (s *Store) Save(res *experiment.Result) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	runID := newRunID(res.Scenario.Name)
	runDir := s.Dir(runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  res.Scenario.Name,
		Timestamp: time.Now().UTC(),
		Config:    res.Scenario,
		Metrics:   res.Flight.Metrics,
		Steps:     res.Flight.Steps,
		BurnTime:  res.Profile.BurnTime(),
		Apogee:    res.Flight.Apogee,
		Summary:   report.Summarize(res),
	}

	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{metadataFile, func(f *os.File) error {
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		}},
		{trajectoryFile, func(f *os.File) error { return writePoints(f, res.Flight.Points) }},
		{thrustFile, func(f *os.File) error { return writeSamples(f, res.Profile.Samples) }},
		{reportFile, func(f *os.File) error { return report.WriteTrajectory(f, res.Flight.Points) }},
		{thrustProfileFile, func(f *os.File) error { return report.WriteThrustProfile(f, res.Profile) }},
	}
	for _, w := range writers {
		if err := writeFile(filepath.Join(runDir, w.name), w.write); err != nil {
			return "", fmt.Errorf("write %s: %w", w.name, err)
		}
	}

	p := res.Scenario.Propulsion
	err := s.catalog.Record(RunRecord{
		ID:             runID,
		Scenario:       meta.Scenario,
		CreatedAt:      meta.Timestamp,
		AirPressure:    p.AirPressure,
		AirVolume:      p.AirVolume,
		WaterVolume:    p.WaterVolume,
		NozzleDiameter: p.NozzleDiameter,
		DryMass:        res.Scenario.Rocket.DryMass(),
		BurnTime:       meta.BurnTime,
		MaxAltitude:    meta.Summary.ApogeeHeight,
		MaxVelocity:    meta.Summary.MaxVelocity,
		Steps:          meta.Steps,
	})
	if err != nil {
		return "", fmt.Errorf("catalog: %w", err)
	}

	return runID, nil
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the metadata of every run directory, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Delete removes the run directory and its catalog entry.
func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	if err := os.RemoveAll(s.Dir(runID)); err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	return s.catalog.Delete(runID)
}

// ReportPath returns the path of the formatted trajectory table of a run.
func (s *Store) ReportPath(runID string) string {
	return filepath.Join(s.Dir(runID), reportFile)
}

func (s *Store) ThrustProfilePath(runID string) string {
	return filepath.Join(s.Dir(runID), thrustProfileFile)
}

var pointHeader = []string{"time", "x", "y", "velocity", "acceleration", "drag", "thrust", "mass", "mach", "comment"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writePoints(f *os.File, points []flight.TrajectoryPoint) error {
	w := csv.NewWriter(f)
	if err := w.Write(pointHeader); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			formatFloat(p.Time), formatFloat(p.X), formatFloat(p.Y),
			formatFloat(p.Velocity), formatFloat(p.Acceleration), formatFloat(p.Drag),
			formatFloat(p.Thrust), formatFloat(p.Mass), formatFloat(p.Mach), p.Comment,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

var sampleHeader = []string{
	"time", "thrust", "mass_flow", "propellant_mass", "air_volume", "water_volume",
	"total_air_volume", "total_water_volume", "air_mass", "water_mass", "pressure", "phase",
}

func writeSamples(f *os.File, samples []propulsion.ThrustSample) error {
	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			formatFloat(s.Time), formatFloat(s.Thrust), formatFloat(s.MassFlow),
			formatFloat(s.PropellantMass), formatFloat(s.AirVolume), formatFloat(s.WaterVolume),
			formatFloat(s.TotalAirVolume), formatFloat(s.TotalWaterVolume), formatFloat(s.AirMass),
			formatFloat(s.WaterMass), formatFloat(s.Pressure), strconv.Itoa(int(s.Phase)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readRecords(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}
	return records[1:], nil
}

func parseFloats(record []string, n int) ([]float64, error) {
	if len(record) < n {
		return nil, fmt.Errorf("expected %d fields, got %d", n, len(record))
	}
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (s *Store) LoadTrajectory(runID string) ([]flight.TrajectoryPoint, error) {
	records, err := readRecords(filepath.Join(s.Dir(runID), trajectoryFile))
	if err != nil {
		return nil, err
	}

	points := make([]flight.TrajectoryPoint, 0, len(records))
	for i, rec := range records {
		v, err := parseFloats(rec, 9)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+2, err)
		}
		p := flight.TrajectoryPoint{
			Time: v[0], X: v[1], Y: v[2], Velocity: v[3], Acceleration: v[4],
			Drag: v[5], Thrust: v[6], Mass: v[7], Mach: v[8],
		}
		if len(rec) > 9 {
			p.Comment = rec[9]
		}
		points = append(points, p)
	}
	return points, nil
}

func (s *Store) LoadSamples(runID string) ([]propulsion.ThrustSample, error) {
	records, err := readRecords(filepath.Join(s.Dir(runID), thrustFile))
	if err != nil {
		return nil, err
	}

	samples := make([]propulsion.ThrustSample, 0, len(records))
	for i, rec := range records {
		v, err := parseFloats(rec, 12)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", thrustFile, i+2, err)
		}
		samples = append(samples, propulsion.ThrustSample{
			Time: v[0], Thrust: v[1], MassFlow: v[2], PropellantMass: v[3],
			AirVolume: v[4], WaterVolume: v[5], TotalAirVolume: v[6], TotalWaterVolume: v[7],
			AirMass: v[8], WaterMass: v[9], Pressure: v[10], Phase: propulsion.Phase(v[11]),
		})
	}
	return samples, nil
}

func (s *Store) copyFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
