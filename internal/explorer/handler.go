package explorer

import (
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
)

// Handler serves the explorer webapp with contract state injected into every
// HTML page it returns.
type Handler struct {
	fsys       fs.FS
	aggregator *Aggregator
	logger     *slog.Logger
}

// NewHandler serves the webapp bundle from dir, or the embedded bundle when
// dir is empty.
func NewHandler(dir string, aggregator *Aggregator, logger *slog.Logger) *Handler {
	fsys := embeddedWebapp()
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	return &Handler{fsys: fsys, aggregator: aggregator, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" || name == "." {
		name = "index.html"
	}

	data, err := fs.ReadFile(h.fsys, name)
	if err != nil {
		// Unknown paths serve the shell page so client-side routes resolve.
		name = "index.html"
		data, err = fs.ReadFile(h.fsys, name)
		if err != nil {
			h.logger.Error("webapp bundle has no index.html", "error", err)
			http.NotFound(w, r)
			return
		}
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	if strings.HasPrefix(contentType, "text/html") {
		// State is recomputed per request so fresh deployments show up on
		// the next page load; the page must not be cached.
		data = InjectState(data, h.aggregator.Snapshot())
		w.Header().Set("Cache-Control", "no-store")
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(data); err != nil {
		h.logger.Debug("writing webapp response", "error", err)
	}
}
