package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"sort"
	"time"
)

// PreviewServer serves a finished run directory over HTTP so rendered
// charts can be opened in a browser without copying files around.
type PreviewServer struct {
	address string
	dir     string
	server  *http.Server
}

// NewPreviewServer creates a server rooted at dir.
func NewPreviewServer(address, dir string) *PreviewServer {
	ps := &PreviewServer{address: address, dir: dir}
	ps.server = &http.Server{
		Addr:    ps.address,
		Handler: ps.setupRoutes(),
	}
	return ps
}

func (ps *PreviewServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/outputs", ps.handleOutputs)
	mux.Handle("/", http.FileServer(http.Dir(ps.dir)))
	return mux
}

// Handler exposes the routes for tests.
func (ps *PreviewServer) Handler() http.Handler {
	return ps.server.Handler
}

func (ps *PreviewServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// handleOutputs lists the files available under the preview directory.
func (ps *PreviewServer) handleOutputs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ps.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var files []string
	err := filepath.WalkDir(ps.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(ps.dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		ps.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("list outputs: %v", err))
		return
	}
	sort.Strings(files)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"dir":   ps.dir,
		"files": files,
	})
}

// Start begins the HTTP server in a goroutine and shuts it down when ctx
// is cancelled.
func (ps *PreviewServer) Start(ctx context.Context) error {
	go func() {
		log.Printf("serving section previews from %s on %s", ps.dir, ps.address)
		if err := ps.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start preview server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down preview server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ps.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("preview server shutdown error: %v", err)
		if err := ps.server.Close(); err != nil {
			log.Printf("preview server force close error: %v", err)
		}
	}

	return nil
}

// Preview serves dir on addr until ctx is cancelled.
func Preview(ctx context.Context, dir, addr string) error {
	return NewPreviewServer(addr, dir).Start(ctx)
}
