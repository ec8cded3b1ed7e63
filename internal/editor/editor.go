// Package editor implements the external-editor round trip: a bookmark
// is rendered to a line-oriented scratch file, the user's editor runs
// on it, and the file is parsed back into the record. An unchanged
// modification time means the edit was cancelled.
package editor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/shamilbi/bookmarks-curses/internal/config"
	"github.com/shamilbi/bookmarks-curses/internal/logger"
	"github.com/shamilbi/bookmarks-curses/internal/storage"
)

// Fields holds the editable parts of a bookmark as they appear in the
// scratch file
type Fields struct {
	URL   string
	Title string
	Tags  string
	Notes string
}

// FieldsFromBookmark extracts the editable fields of a record
func FieldsFromBookmark(b *storage.Bookmark) *Fields {
	return &Fields{
		URL:   b.URL,
		Title: b.Title,
		Tags:  b.Tags,
		Notes: b.Notes,
	}
}

// Format renders the fields in the scratch file layout:
//
//	URL:
//	<url>
//
//	Title:
//	<title>
//
//	Tags:
//	<tags>
//
//	Notes:
//	<notes to EOF>
func (f *Fields) Format() string {
	var sb strings.Builder
	sb.WriteString("URL:\n")
	sb.WriteString(f.URL)
	sb.WriteString("\n\nTitle:\n")
	sb.WriteString(f.Title)
	sb.WriteString("\n\nTags:\n")
	sb.WriteString(f.Tags)
	sb.WriteString("\n\nNotes:\n")
	sb.WriteString(formatNotes(f.Notes))
	sb.WriteString("\n")
	return sb.String()
}

// formatNotes normalizes line endings and expands tabs so the notes
// block renders the same in every editor
func formatNotes(notes string) string {
	s := strings.TrimRight(notes, "\n \t")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\t", "    ")
}

// Parse reads the scratch file layout back into fields. URL, title, and
// tags are single-line values; notes run to end of input.
func Parse(r io.Reader) (*Fields, error) {
	type section struct {
		header string
		value  *string
	}

	fields := &Fields{}
	sections := []section{
		{"URL:", &fields.URL},
		{"Title:", &fields.Title},
		{"Tags:", &fields.Tags},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), storage.MaxNotesLength+64*1024)

	step := 0
	readValue := false
	inNotes := false
	var noteLines []string

	for scanner.Scan() {
		line := scanner.Text()

		if inNotes {
			noteLines = append(noteLines, line)
			continue
		}

		if readValue {
			*sections[step].value = strings.TrimSpace(line)
			readValue = false
			step++
			continue
		}

		switch {
		case step < len(sections) && line == sections[step].header:
			readValue = true
		case step == len(sections) && line == "Notes:":
			inNotes = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edit file: %w", err)
	}

	if step < len(sections) || !inNotes {
		return nil, fmt.Errorf("edit file is missing field headers")
	}

	fields.Notes = strings.TrimRight(strings.Join(noteLines, "\n"), "\n \t")
	return fields, nil
}

// ParseFile parses the scratch file at the given path
func ParseFile(path string) (*Fields, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open edit file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Editor manages scratch files and the editor command
type Editor struct {
	config *config.EditorConfig
	logger *logger.Logger
}

// New creates an editor using the configured command and temp dir
func New(cfg *config.Config) *Editor {
	return &Editor{
		config: &cfg.Editor,
		logger: logger.GetLogger().WithComponent("editor"),
	}
}

// Command returns the editor executable: configuration first, then
// $VISUAL, $EDITOR, and finally vi
func (e *Editor) Command() string {
	if e.config.Command != "" {
		return e.config.Command
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	return "vi"
}

// tempDir picks a RAM-backed directory when one is available so record
// text does not land on persistent storage
func (e *Editor) tempDir() string {
	if e.config.TempDir != "" {
		return e.config.TempDir
	}
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

// Session is one pending edit: a scratch file plus the state needed to
// detect whether the editor changed it
type Session struct {
	Path    string
	modTime int64
	logger  *logger.Logger
}

// Begin writes the fields to a fresh scratch file and returns the
// session together with the command to run on it
func (e *Editor) Begin(fields *Fields) (*Session, *exec.Cmd, error) {
	f, err := os.CreateTemp(e.tempDir(), "bookmark-*.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create edit file: %w", err)
	}

	if _, err := f.WriteString(fields.Format()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, nil, fmt.Errorf("failed to write edit file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, nil, fmt.Errorf("failed to close edit file: %w", err)
	}

	info, err := os.Stat(f.Name())
	if err != nil {
		os.Remove(f.Name())
		return nil, nil, fmt.Errorf("failed to stat edit file: %w", err)
	}

	session := &Session{
		Path:    f.Name(),
		modTime: info.ModTime().UnixNano(),
		logger:  e.logger,
	}

	cmd := exec.Command(e.Command(), f.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return session, cmd, nil
}

// Finish checks whether the editor changed the file and parses it if
// so. A nil result with nil error means the edit was cancelled.
func (s *Session) Finish() (*Fields, error) {
	defer s.Cleanup()

	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, fmt.Errorf("edit file disappeared: %w", err)
	}

	if info.ModTime().UnixNano() == s.modTime {
		s.logger.Debug().Msg("Edit file unchanged, edit cancelled")
		return nil, nil
	}

	return ParseFile(s.Path)
}

// Cleanup removes the scratch file. Safe to call more than once.
func (s *Session) Cleanup() {
	if s.Path != "" {
		os.Remove(s.Path)
		s.Path = ""
	}
}
