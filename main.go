package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hypebeast/go-osc/osc"
	"github.com/spf13/cobra"

	"github.com/schollz/wavedeck/internal/engine"
	"github.com/schollz/wavedeck/internal/input"
	"github.com/schollz/wavedeck/internal/model"
	"github.com/schollz/wavedeck/internal/storage"
	"github.com/schollz/wavedeck/internal/types"
	"github.com/schollz/wavedeck/internal/views"
)

var (
	Version = "dev"

	config struct {
		session    string
		debug      string
		oscPort    int
		noAudio    bool
		autoScroll bool
	}
)

var rootCmd = &cobra.Command{
	Use:   "wavedeck",
	Short: "A terminal multi-track audio editor",
	Long: `Wavedeck is a terminal-based multi-track audio editor: load wav, mp3
and flac files onto a shared timeline, drag tracks around, select and
delete regions, and export mixdowns.`,
	Version: Version,
	Run:     runWavedeck,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&config.session, "session", "s", "session",
		"Session directory for saved state")
	rootCmd.PersistentFlags().StringVarP(&config.debug, "log", "l", "",
		"Write debug logs to specified file (empty disables)")
	rootCmd.PersistentFlags().IntVar(&config.oscPort, "osc-port", 0,
		"Listen for OSC transport messages on this port (0 disables)")
	rootCmd.PersistentFlags().BoolVar(&config.noAudio, "no-audio", false,
		"Run without an audio device (playback requests become no-ops)")
	rootCmd.PersistentFlags().BoolVar(&config.autoScroll, "autoscroll", true,
		"Follow the playback cursor when it leaves the view")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Remote transport messages delivered from the OSC server goroutine.
type remotePlayMsg struct{}
type remotePauseMsg struct{}
type remoteStopMsg struct{}
type remoteSeekMsg struct{ position float64 }

func runWavedeck(cmd *cobra.Command, args []string) {
	if config.debug != "" {
		f, err := tea.LogToFile(config.debug, "debug")
		if err != nil {
			log.Printf("Fatal: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetOutput(io.Discard)
	}

	log.Printf("wavedeck %s starting, session %s", Version, config.session)

	em := initialModel(config.session, config.noAudio, config.autoScroll)

	p := tea.NewProgram(em, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if config.oscPort > 0 {
		d := osc.NewStandardDispatcher()
		d.AddMsgHandler("/play", func(msg *osc.Message) {
			p.Send(remotePlayMsg{})
		})
		d.AddMsgHandler("/pause", func(msg *osc.Message) {
			p.Send(remotePauseMsg{})
		})
		d.AddMsgHandler("/stop", func(msg *osc.Message) {
			p.Send(remoteStopMsg{})
		})
		d.AddMsgHandler("/seek", func(msg *osc.Message) {
			if len(msg.Arguments) > 0 {
				if pos, ok := msg.Arguments[0].(float32); ok {
					p.Send(remoteSeekMsg{position: float64(pos)})
				}
			}
		})
		server := &osc.Server{Addr: fmt.Sprintf(":%d", config.oscPort), Dispatcher: d}
		go func() {
			log.Printf("Starting OSC server on port %d", config.oscPort)
			if err := server.ListenAndServe(); err != nil {
				log.Printf("Error starting OSC server: %v", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		log.Printf("Error: %v", err)
	}

	storage.DoSave(config.session, storage.Snapshot(em.model, em.browser))
}

func initialModel(sessionFolder string, noAudio, autoScroll bool) *EditorModel {
	eng := engine.NewEditor(noAudio)
	m := model.NewModel(eng)
	m.AutoScroll = autoScroll

	em := &EditorModel{
		engine:   eng,
		model:    m,
		browser:  model.NewFileBrowser(""),
		viewMode: types.TimelineView,
	}

	m.OnViewChanged(em.refetchWaveforms)

	if state, err := storage.LoadState(sessionFolder); err == nil {
		log.Printf("Loaded saved state from %s", sessionFolder)
		restoreSession(em, state)
	} else {
		log.Printf("No saved state in %s: %v", sessionFolder, err)
	}

	return em
}

// restoreSession reloads the saved files, re-applies their offsets and
// restores the viewport and selection. Files that moved since the save
// are skipped.
func restoreSession(em *EditorModel, s *storage.SessionState) {
	for i, path := range s.Files {
		if err := em.engine.LoadFile(path); err != nil {
			log.Printf("skipping saved file %s: %v", path, err)
			continue
		}
		loaded := len(em.engine.TrackInfo()) - 1
		if i < len(s.Offsets) {
			if err := em.engine.SetTrackOffset(loaded, s.Offsets[i]); err != nil {
				log.Printf("offset for %s: %v", path, err)
			}
		}
	}
	em.model.RefreshTracks(em.engine.TrackInfo())

	if s.ZoomLevel >= 1 && s.ViewEnd > s.ViewStart && s.ViewEnd <= em.model.MaxDuration+1e-6 {
		em.model.ZoomLevel = s.ZoomLevel
		em.model.ViewStart = s.ViewStart
		em.model.ViewEnd = s.ViewEnd
	}
	em.model.AutoScroll = s.AutoScroll
	restoreSelection(em.model, s.Selection)
	if s.LastDir != "" {
		em.browser = model.NewFileBrowser(s.LastDir)
	}
	em.refetchWaveforms()
}

// restoreSelection re-applies a saved selection through the normal gesture
// path, clamped to the restored layout. Tracks that no longer exist are
// dropped; if none survive there is no selection.
func restoreSelection(m *model.Model, sel *types.Selection) {
	if sel == nil {
		return
	}
	started := false
	for _, tr := range sel.Tracks {
		if tr < 0 || tr >= len(m.Tracks) {
			continue
		}
		if !started {
			m.BeginSelection(sel.Start, tr)
			started = true
		}
		m.ExtendSelection(sel.End, tr)
	}
	if started {
		m.EndSelection()
	}
}

// EditorModel wraps the timeline model and implements tea.Model.
type EditorModel struct {
	engine  engine.Engine
	model   *model.Model
	browser *model.FileBrowser
	export  *model.ExportPrompt

	viewMode   types.ViewMode
	termWidth  int
	termHeight int
	statusMsg  string

	waveforms  [][]types.WaveformBin
	repeat     bool
	wasPlaying bool
}

func (em *EditorModel) Init() tea.Cmd {
	return input.Tick()
}

// refetchWaveforms re-bins all tracks for the current window. Runs on
// every view-window change and on resize.
func (em *EditorModel) refetchWaveforms() {
	m := em.model
	if m.WidthPixels <= 0 || m.MaxDuration == 0 {
		em.waveforms = nil
		return
	}
	em.waveforms = em.engine.WaveformForRange(m.ViewStart, m.ViewEnd, m.WidthPixels)
}

func (em *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		em.termWidth = msg.Width
		em.termHeight = msg.Height
		em.model.SetViewWidth(msg.Width - types.HeaderWidth)
		em.refetchWaveforms()
		return em, nil

	case input.TickMsg:
		input.HandlePeriodicTick(em.model, em.engine)
		if em.repeat && em.wasPlaying && !em.engine.IsPlaying() {
			if err := input.PlayCurrent(em.model, em.engine); err != nil {
				log.Printf("repeat: %v", err)
			}
		}
		em.wasPlaying = em.engine.IsPlaying()
		return em, input.Tick()

	case tea.MouseMsg:
		if em.viewMode == types.TimelineView {
			input.HandleMouse(em.model, msg)
			// offset drags reshape waveforms without moving the window
			em.refetchWaveforms()
			em.autoSave()
		}
		return em, nil

	case remotePlayMsg:
		if err := input.PlayCurrent(em.model, em.engine); err != nil {
			em.statusMsg = fmt.Sprintf("play: %v", err)
		}
		return em, nil
	case remotePauseMsg:
		em.engine.Pause()
		return em, nil
	case remoteStopMsg:
		input.Rewind(em.model, em.engine)
		return em, nil
	case remoteSeekMsg:
		em.engine.SetPlaybackPosition(msg.position)
		em.model.SetPlaybackPosition(msg.position)
		return em, nil

	case tea.KeyMsg:
		switch em.viewMode {
		case types.FileView:
			return em, em.handleFileKey(msg)
		case types.ExportView:
			return em, em.handleExportKey(msg)
		default:
			return em, em.handleTimelineKey(msg)
		}
	}
	return em, nil
}

func (em *EditorModel) handleTimelineKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "l" {
		em.repeat = !em.repeat
		em.statusMsg = fmt.Sprintf("repeat: %v", em.repeat)
		return nil
	}

	action, err := input.HandleTimelineKey(em.model, em.engine, msg)
	if err != nil {
		em.statusMsg = err.Error()
	}
	em.refetchWaveforms()
	em.autoSave()

	switch action {
	case input.ActionQuit:
		return tea.Quit
	case input.ActionOpenFiles:
		if err := em.browser.Load(em.browser.Dir); err != nil {
			log.Printf("reload browser: %v", err)
		}
		em.statusMsg = ""
		em.viewMode = types.FileView
	case input.ActionOpenExport:
		em.export = model.NewExportPrompt(defaultExportPath())
		em.statusMsg = ""
		em.viewMode = types.ExportView
	}
	return nil
}

func (em *EditorModel) handleFileKey(msg tea.KeyMsg) tea.Cmd {
	visibleRows := em.termHeight - 12
	switch msg.String() {
	case "ctrl+q", "alt+q":
		return tea.Quit
	case "esc":
		em.viewMode = types.TimelineView
	case "up", "k":
		em.browser.Move(-1, visibleRows)
	case "down", "j":
		em.browser.Move(1, visibleRows)
	case "enter":
		path, isDir := em.browser.Selected()
		if isDir {
			em.browser.Enter()
			return nil
		}
		if path == "" {
			return nil
		}
		if err := em.engine.LoadFile(path); err != nil {
			em.statusMsg = fmt.Sprintf("load: %v", err)
			return nil
		}
		em.model.RefreshTracks(em.engine.TrackInfo())
		em.refetchWaveforms()
		em.statusMsg = fmt.Sprintf("loaded %s", filepath.Base(path))
		em.viewMode = types.TimelineView
		em.autoSave()
	}
	return nil
}

func (em *EditorModel) handleExportKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+q", "alt+q":
		return tea.Quit
	case "esc":
		em.export = nil
		em.viewMode = types.TimelineView
		return nil
	case "tab":
		em.export.NextField()
		return nil
	case "left":
		em.export.Cycle(-1)
		return nil
	case "right":
		em.export.Cycle(1)
		return nil
	case "enter":
		em.runExport()
		return nil
	}
	return em.export.Update(msg)
}

// runExport resolves the prompt into an engine call. The destination
// extension always follows the chosen format.
func (em *EditorModel) runExport() {
	p := em.export
	path := withFormatExt(p.Path.Value(), p.Format)
	if path == "" {
		em.statusMsg = "export: no destination path"
		return
	}

	var start, end *float64
	if sel := em.model.Selection(); sel != nil {
		start, end = &sel.Start, &sel.End
	}

	var compression, bitrate *int
	switch p.Format {
	case types.FormatFLAC:
		compression = &p.Compression
	case types.FormatMP3:
		bitrate = &p.Bitrate
	}

	if err := em.engine.ExportAudio(path, start, end, compression, bitrate, p.Mode); err != nil {
		em.statusMsg = fmt.Sprintf("export: %v", err)
		return
	}
	em.statusMsg = fmt.Sprintf("exported %s", path)
	em.export = nil
	em.viewMode = types.TimelineView
}

func (em *EditorModel) autoSave() {
	storage.AutoSave(config.session, storage.Snapshot(em.model, em.browser))
}

func (em *EditorModel) View() string {
	switch em.viewMode {
	case types.FileView:
		return views.RenderFileView(em.browser, em.termWidth, em.termHeight, em.statusMsg)
	case types.ExportView:
		return views.RenderExportView(em.export, em.model.Selection(), em.termHeight, em.statusMsg)
	default:
		return views.RenderTimelineView(em.model, em.waveforms, em.engine.IsPlaying(), em.termHeight, em.statusMsg)
	}
}

var formatExts = map[types.ExportFormat]string{
	types.FormatWAV:  ".wav",
	types.FormatFLAC: ".flac",
	types.FormatMP3:  ".mp3",
}

func withFormatExt(path string, format types.ExportFormat) string {
	if path == "" {
		return ""
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + formatExts[format]
}

func defaultExportPath() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return filepath.Join(wd, "export.wav")
}
