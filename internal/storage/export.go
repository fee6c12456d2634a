package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/aquasim/internal/flight"
	"github.com/san-kum/aquasim/internal/propulsion"
)

type ExportData struct {
	Run     RunMetadata               `json:"run"`
	Samples []propulsion.ThrustSample `json:"samples"`
	Points  []flight.TrajectoryPoint  `json:"points"`
}

// ExportJSON writes a stored run, including its full thrust profile and
// trajectory, as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	points, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Samples: samples, Points: points})
}

// CopyReport streams the formatted trajectory table of a run.
func (s *Store) CopyReport(w io.Writer, runID string) error {
	return s.copyFile(w, s.ReportPath(runID))
}

func (s *Store) CopyThrustProfile(w io.Writer, runID string) error {
	return s.copyFile(w, s.ThrustProfilePath(runID))
}
