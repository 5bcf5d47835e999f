package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Sentinel is the progress record other processes poll while a solve runs
type Sentinel struct {
	Cycle     int     `json:"cycle"`
	MaxCycle  int     `json:"maxcycle"`
	Gradient  float64 `json:"gradient"`
	Timestamp string  `json:"timestamp"`
}

// Progress rewrites the sentinel file ahead of every outer solver call
type Progress struct {
	Path string
	Now  func() time.Time
}

func NewProgress(path string) *Progress {
	return &Progress{Path: path, Now: time.Now}
}

// Write replaces the file through a rename so readers never see half a record
func (p *Progress) Write(cycle, maxcycle int, gg float64) (err error) {
	var (
		data []byte
		tmp  = p.Path + ".tmp"
	)
	s := Sentinel{
		Cycle:     cycle,
		MaxCycle:  maxcycle,
		Gradient:  gg,
		Timestamp: p.Now().UTC().Format(time.RFC3339),
	}
	if data, err = json.Marshal(s); err != nil {
		return
	}
	if err = os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return
	}
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return
	}
	return os.Rename(tmp, p.Path)
}

func ReadSentinel(path string) (s Sentinel, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	err = json.Unmarshal(data, &s)
	return
}
