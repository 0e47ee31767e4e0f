package storage

import (
	"compress/gzip"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/schollz/wavedeck/internal/model"
	"github.com/schollz/wavedeck/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const dataFileName = "data.json.gz"

// SessionState is everything restored between runs: the loaded files and
// their offsets, the viewport, the selection and the browser directory.
// Audio data itself is not persisted; files are re-read on load.
type SessionState struct {
	Files      []string         `json:"files"`
	Offsets    []float64        `json:"offsets"`
	ViewStart  float64          `json:"viewStart"`
	ViewEnd    float64          `json:"viewEnd"`
	ZoomLevel  float64          `json:"zoomLevel"`
	AutoScroll bool             `json:"autoScroll"`
	Selection  *types.Selection `json:"selection,omitempty"`
	LastDir    string           `json:"lastDir"`
}

// Snapshot captures the persistable parts of the timeline and browser.
func Snapshot(m *model.Model, browser *model.FileBrowser) *SessionState {
	s := &SessionState{
		ViewStart:  m.ViewStart,
		ViewEnd:    m.ViewEnd,
		ZoomLevel:  m.ZoomLevel,
		AutoScroll: m.AutoScroll,
		Selection:  m.Selection(),
	}
	for _, t := range m.Tracks {
		s.Files = append(s.Files, t.Path)
		s.Offsets = append(s.Offsets, t.Offset)
	}
	if browser != nil {
		s.LastDir = browser.Dir
	}
	return s
}

// DoSave writes the session state to <folder>/data.json.gz, creating the
// folder if needed. Failures are logged, never fatal.
func DoSave(folder string, s *SessionState) {
	if folder == "" || s == nil {
		return
	}
	if err := os.MkdirAll(folder, 0755); err != nil {
		log.Printf("session save: %v", err)
		return
	}

	f, err := os.Create(filepath.Join(folder, dataFileName))
	if err != nil {
		log.Printf("session save: %v", err)
		return
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if err := json.NewEncoder(gz).Encode(s); err != nil {
		log.Printf("session save: %v", err)
	}
	if err := gz.Close(); err != nil {
		log.Printf("session save: %v", err)
	}
}

// LoadState reads a previously saved session from folder.
func LoadState(folder string) (*SessionState, error) {
	f, err := os.Open(filepath.Join(folder, dataFileName))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var s SessionState
	if err := json.NewDecoder(gz).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

var (
	autoSaveMu    sync.Mutex
	autoSaveTimer *time.Timer
)

// AutoSave schedules a debounced save of the given snapshot. Rapid calls
// collapse into a single write one second after the last one; each call
// replaces the pending snapshot.
func AutoSave(folder string, s *SessionState) {
	autoSaveMu.Lock()
	defer autoSaveMu.Unlock()

	if autoSaveTimer != nil {
		autoSaveTimer.Stop()
	}
	autoSaveTimer = time.AfterFunc(time.Second, func() {
		DoSave(folder, s)
	})
}
