// Package manage provides HTTP handlers for browsing media metadata.
package manage

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/tstromberg/metaview/pkg/metaview"
	"k8s.io/klog/v2"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>{{ .Title }}</title></head>
<body><h1>{{ .Title }}</h1><ul>
{{- range .Media }}
<li><a href="/media/{{ .Handle }}">{{ .Path }}</a></li>
{{- end }}
</ul></body></html>
`))

// Server serves metadata pages for a catalog.
type Server struct {
	c   *metaview.Config
	cat *metaview.Catalog
	ex  metaview.Extractor
}

// New creates a new server.
func New(c *metaview.Config, cat *metaview.Catalog, ex metaview.Extractor) *Server {
	return &Server{
		c:   c,
		cat: cat,
		ex:  ex,
	}
}

// Handler returns a mux serving the index and per-media pages.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.IndexHandler())
	mux.HandleFunc("GET /media/{handle}", s.MediaHandler())
	return mux
}

// IndexHandler lists the media in the catalog.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data := struct {
			Title string
			Media []*metaview.Media
		}{
			Title: s.c.Title,
			Media: s.cat.Media(),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, data); err != nil {
			klog.Errorf("index: %v", err)
		}
	}
}

// MediaHandler renders the metadata of a single media record.
func (s *Server) MediaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := r.PathValue("handle")
		path, err := s.cat.Path(h)
		if errors.Is(err, metaview.ErrUnknownMedia) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		t := metaview.NewTree()
		res := metaview.NewView(s.ex, t).Display(path)
		klog.V(1).Infof("%s: %s (%d rows)", h, res.Status, res.Rows)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := metaview.WritePage(w, s.c.Title, path, t); err != nil {
			klog.Errorf("page %s: %v", h, err)
			http.Error(w, fmt.Sprintf("render: %v", err), http.StatusInternalServerError)
		}
	}
}
