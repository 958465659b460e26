package fileserver

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Server streams completed downloads out of the managed directory and
// removes each file a grace period after it was fetched, so slow clients
// can finish reading before the file disappears.
type Server struct {
	basePath string
	grace    time.Duration
}

func NewServer(basePath string, grace time.Duration) *Server {
	absPath, _ := filepath.Abs(basePath)
	return &Server{
		basePath: absPath,
		grace:    grace,
	}
}

// Resolve maps a requested filename to an absolute path inside the
// managed directory. Requests that would escape the directory are
// rejected.
func (s *Server) Resolve(filename string) (string, error) {
	fullPath, _ := filepath.Abs(filepath.Join(s.basePath, filename))
	if !strings.HasPrefix(fullPath, s.basePath+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes download directory", filename)
	}
	return fullPath, nil
}

// ServeFile handles /fetch/{filename}: stream the file as an attachment
// and schedule its deletion. Deletion is scheduled regardless of whether
// the transfer completes; a second fetch of the same name before the
// timer fires just schedules another no-op removal.
func (s *Server) ServeFile(w http.ResponseWriter, r *http.Request, filename string) {
	fullPath, err := s.Resolve(filename)
	if err != nil {
		log.Debug().Err(err).Str("filename", filename).Msg("rejected fetch path")
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	f, err := os.Open(fullPath)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	s.scheduleDelete(fullPath)
	log.Debug().Str("file", fullPath).Msg("serving file")

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filepath.Base(fullPath)))

	// ServeContent handles Range requests automatically
	http.ServeContent(w, r, filepath.Base(fullPath), info.ModTime(), f)
}

// scheduleDelete removes the file after the grace delay. Removal errors
// are swallowed; the file may already be gone from an earlier fetch.
func (s *Server) scheduleDelete(path string) {
	time.AfterFunc(s.grace, func() {
		if err := os.Remove(path); err != nil {
			log.Debug().Err(err).Str("file", path).Msg("cleanup skipped")
			return
		}
		log.Info().Str("file", path).Msg("file removed after grace delay")
	})
}
