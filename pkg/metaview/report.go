package metaview

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

//go:embed assets/report.tmpl
var reportTmpl string

// WriteReport writes an HTML page for the metadata of path into c.OutDir, alongside a copy
// of the original and a thumbnail.
func WriteReport(c *Config, path string, t *Tree) error {
	name := filepath.Base(path)
	dir := filepath.Join(c.OutDir, urlSafePath(name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	original := ""
	var thumb *ThumbMeta
	if _, err := os.Stat(path); err == nil {
		original = urlSafePath(name)
		if err := copy.Copy(path, filepath.Join(dir, original)); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
		thumb, err = thumbnail(path, dir, c.Thumbnail)
		if err != nil {
			klog.Warningf("no thumbnail for %s: %v", path, err)
		}
	}

	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer f.Close()

	if err := renderReport(f, c.Title, name, original, thumb, t); err != nil {
		return err
	}
	klog.V(1).Infof("wrote report for %s to %s", path, dir)
	return f.Close()
}

// WritePage writes the HTML page for the metadata of path, without images.
func WritePage(w io.Writer, title, path string, t *Tree) error {
	return renderReport(w, title, filepath.Base(path), "", nil, t)
}

// renderReport executes the report template into w.
func renderReport(w io.Writer, title, name, original string, thumb *ThumbMeta, t *Tree) error {
	tmpl, err := template.New("report").Parse(reportTmpl)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	data := struct {
		Title    string
		Name     string
		Original string
		Thumb    *ThumbMeta
		Tree     *Tree
	}{
		Title:    title,
		Name:     name,
		Original: original,
		Thumb:    thumb,
		Tree:     t,
	}

	var tpl bytes.Buffer
	if err = tmpl.Execute(&tpl, data); err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	_, err = w.Write(tpl.Bytes())
	return err
}
