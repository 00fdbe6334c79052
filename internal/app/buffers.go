package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"

	"github.com/skallinen/clj-dirty-bg/internal/host"
)

const scratchName = "*scratch*"

const scratchContent = `(ns user)

(defn greet [name]
  (str "Hello, " name "!"))

(greet "world")
`

// bufferView is one open buffer: its identity, its file (if any) and
// the textarea editing it.
type bufferView struct {
	id   host.BufferID
	path string // "" for the scratch buffer
	name string
	mode host.ModeID
	ta   textarea.Model
}

// modeForPath maps a file name to its language mode.
func modeForPath(path string) host.ModeID {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".clj":
		return "clojure"
	case ".cljs":
		return "clojurescript"
	case ".cljc":
		return "clojurec"
	case ".edn":
		return "clojure"
	case ".go":
		return "go"
	case ".md":
		return "markdown"
	default:
		return "text"
	}
}

func newTextarea(content string) textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetValue(content)
	return ta
}

// openBuffers builds buffer views for the given file paths, reading
// file content from disk. Missing files open as empty buffers so a new
// file can be typed and saved. With no paths, a Clojure scratch buffer
// opens instead.
func openBuffers(paths []string) ([]*bufferView, error) {
	if len(paths) == 0 {
		return []*bufferView{{
			id:   scratchName,
			name: scratchName,
			mode: "clojure",
			ta:   newTextarea(scratchContent),
		}}, nil
	}

	seen := make(map[host.BufferID]struct{}, len(paths))
	var buffers []*bufferView
	for _, path := range paths {
		content := ""
		if data, err := os.ReadFile(path); err == nil { // #nosec G304 -- user-supplied file argument
			content = string(data)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}

		id := host.BufferID(path)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		buffers = append(buffers, &bufferView{
			id:   id,
			path: path,
			name: filepath.Base(path),
			mode: modeForPath(path),
			ta:   newTextarea(content),
		})
	}
	return buffers, nil
}

// save writes the buffer content back to its file. The scratch buffer
// has no file and cannot be saved.
func (b *bufferView) save() error {
	if b.path == "" {
		return fmt.Errorf("buffer %s has no file", b.name)
	}
	return os.WriteFile(b.path, []byte(b.ta.Value()), 0o644) // #nosec G306 -- regular source file
}
