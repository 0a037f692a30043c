package fpslog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"quark2d/frametimer"
)

var ErrNoSamples = errors.New("fpslog: no samples")

// Read parses records written by FileSink. Lines whose fields are not both
// numeric (a header) are skipped. Blank lines are ignored.
func Read(r io.Reader) ([]frametimer.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []frametimer.Sample
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		line++
		if err != nil {
			return out, fmt.Errorf("read fps log line %d: %w", line, err)
		}
		if len(rec) < 2 {
			continue
		}
		ts, err1 := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		fps, err2 := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, frametimer.Sample{Timestamp: ts, FPS: fps})
	}
}

// ReadFile reads the samples stored at path.
func ReadFile(path string) ([]frametimer.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Stats summarizes the FPS column.
type Stats struct {
	Count int
	Avg   float64
	Min   float64
	Max   float64
	First float64 // timestamp of the first sample
	Last  float64 // timestamp of the last sample
}

// Summarize computes Stats. It returns ErrNoSamples for an empty slice.
func Summarize(samples []frametimer.Sample) (Stats, error) {
	if len(samples) == 0 {
		return Stats{}, ErrNoSamples
	}
	st := Stats{
		Count: len(samples),
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
		First: samples[0].Timestamp,
		Last:  samples[len(samples)-1].Timestamp,
	}
	sum := 0.0
	for _, s := range samples {
		sum += s.FPS
		st.Min = math.Min(st.Min, s.FPS)
		st.Max = math.Max(st.Max, s.FPS)
	}
	st.Avg = sum / float64(len(samples))
	return st, nil
}
