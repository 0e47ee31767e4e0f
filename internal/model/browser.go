package model

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Audio file extensions the browser offers for loading.
var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
}

// FileBrowser is the state of the file view: a directory listing with a
// cursor and a scroll offset. Directories are suffixed with "/" and ".."
// leads every listing except at the filesystem root.
type FileBrowser struct {
	Dir     string
	Entries []string
	Cursor  int
	Scroll  int
}

// NewFileBrowser lists dir, falling back to the working directory when
// dir is empty or unreadable.
func NewFileBrowser(dir string) *FileBrowser {
	b := &FileBrowser{}
	if dir == "" || b.Load(dir) != nil {
		wd, err := os.Getwd()
		if err != nil {
			wd = "/"
		}
		_ = b.Load(wd)
	}
	return b
}

// Load replaces the listing with the contents of dir: directories first,
// then audio files, both sorted. The cursor resets to the top.
func (b *FileBrowser) Load(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var dirs, files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, name+"/")
		} else if audioExtensions[strings.ToLower(filepath.Ext(name))] {
			files = append(files, name)
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	listing := []string{}
	if dir != "/" {
		listing = append(listing, "..")
	}
	listing = append(listing, dirs...)
	listing = append(listing, files...)

	b.Dir = dir
	b.Entries = listing
	b.Cursor = 0
	b.Scroll = 0
	return nil
}

// Move shifts the cursor by delta, clamped to the listing, and keeps the
// cursor inside a window of visibleRows entries.
func (b *FileBrowser) Move(delta, visibleRows int) {
	if len(b.Entries) == 0 {
		return
	}
	b.Cursor += delta
	if b.Cursor < 0 {
		b.Cursor = 0
	}
	if b.Cursor >= len(b.Entries) {
		b.Cursor = len(b.Entries) - 1
	}
	if visibleRows <= 0 {
		return
	}
	if b.Cursor < b.Scroll {
		b.Scroll = b.Cursor
	}
	if b.Cursor >= b.Scroll+visibleRows {
		b.Scroll = b.Cursor - visibleRows + 1
	}
}

// Selected returns the absolute path under the cursor and whether it is
// a directory (including "..").
func (b *FileBrowser) Selected() (string, bool) {
	if b.Cursor < 0 || b.Cursor >= len(b.Entries) {
		return "", false
	}
	entry := b.Entries[b.Cursor]
	if entry == ".." {
		return filepath.Dir(b.Dir), true
	}
	if strings.HasSuffix(entry, "/") {
		return filepath.Join(b.Dir, strings.TrimSuffix(entry, "/")), true
	}
	return filepath.Join(b.Dir, entry), false
}

// Enter descends into the directory under the cursor. Selecting a file
// is the caller's business; Enter on a file is a no-op.
func (b *FileBrowser) Enter() {
	path, isDir := b.Selected()
	if !isDir || path == "" {
		return
	}
	_ = b.Load(path) // unreadable directories leave the listing as-is
}
