// metaview displays the Exif, IPTC and XMP metadata of images.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"k8s.io/klog/v2"

	"github.com/tstromberg/metaview/pkg/manage"
	"github.com/tstromberg/metaview/pkg/metaview"
)

var (
	inPath    = flag.String("in", "", "image to display once")
	mediaDir  = flag.String("media", "", "media base directory")
	outDir    = flag.String("out", "", "write an HTML report per rendered image to this directory")
	title     = flag.String("title", "metaview", "title for HTML output")
	backend   = flag.String("backend", "exiftool", "metadata backend: exiftool or goexif")
	delay     = flag.Duration("delay", metaview.DefaultDelay, "how long to coalesce changes before redrawing")
	listen    = flag.Bool("listen", false, "serve metadata pages via HTTP")
	addr      = flag.String("addr", "localhost:12800", "host:port to bind to in listen mode")
	watchFlag = flag.Bool("watch", false, "watch the media directory and display changed images")
	about     = flag.Bool("about", false, "print plugin registration details and exit")
)

// runOpts are the command line choices that are not part of metaview.Config.
type runOpts struct {
	in     string
	watch  bool
	listen bool
	addr   string
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *about {
		p := metaview.Plugin
		fmt.Printf("%s %s\n%s\nrecord types: %v, size: %dx%d\n", p.Name, p.Version, p.Description, p.NavTypes, p.DetachedWidth, p.DetachedHeight)
		return
	}

	c := &metaview.Config{
		MediaDir:  *mediaDir,
		OutDir:    *outDir,
		Backend:   *backend,
		Title:     *title,
		Delay:     *delay,
		Thumbnail: metaview.DefaultThumbOpts,
	}
	o := runOpts{in: *inPath, watch: *watchFlag, listen: *listen, addr: *addr}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, c, o)
	cancel()
	if err != nil {
		klog.Exitf("%v", err)
	}
}

// run displays metadata as configured. Resources are released before it returns.
func run(ctx context.Context, c *metaview.Config, o runOpts) error {
	if o.in == "" && c.MediaDir == "" {
		return errors.New("--in or --media is a required flag")
	}

	if (o.watch || o.listen) && c.MediaDir == "" {
		return errors.New("--media is required with --watch or --listen")
	}

	ex, err := metaview.NewExtractor(c.Backend)
	if err != nil {
		return fmt.Errorf("extractor: %w", err)
	}
	defer func() {
		if err := ex.Close(); err != nil {
			klog.Errorf("close %s: %v", ex.Name(), err)
		}
	}()

	base := c.MediaDir
	if base == "" {
		base = "."
	}
	cat := metaview.NewCatalog(base)

	tree := metaview.NewTree()
	view := metaview.NewView(ex, tree)
	ctl := metaview.NewController(cat, view, metaview.WithDelay(c.Delay), metaview.WithRendered(func(res metaview.Result) {
		show(c, res, tree)
	}))
	defer ctl.Close()

	if o.in != "" {
		m, err := cat.Add(o.in)
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}
		if err := cat.Select(m.Handle); err != nil {
			return fmt.Errorf("select: %w", err)
		}
		ctl.Render()
		if !o.watch && !o.listen {
			return nil
		}
	}

	if c.MediaDir != "" {
		if err := cat.Scan(); err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
		cancel()
	}

	if o.watch {
		cat.OnChange(ctl.OnSelectionChanged)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metaview.Watch(ctx, cat); err != nil {
				fail(fmt.Errorf("watch failed: %w", err))
			}
		}()
	}

	if o.listen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := serve(ctx, manage.New(c, cat, ex).Handler(), o.addr); err != nil {
				fail(fmt.Errorf("listen failed: %w", err))
			}
		}()
	}

	wg.Wait()
	return errors.Join(errs...)
}

// show prints a rendered tree and optionally writes its HTML report.
func show(c *metaview.Config, res metaview.Result, t *metaview.Tree) {
	if err := metaview.WriteText(os.Stdout, t); err != nil {
		klog.Errorf("write: %v", err)
	}
	fmt.Println()

	if c.OutDir == "" || res.Path == "" {
		return
	}
	if err := metaview.WriteReport(c, res.Path, t); err != nil {
		klog.Errorf("report failed: %v", err)
	}
}

// serve serves metadata pages via HTTP until ctx is done.
func serve(ctx context.Context, h http.Handler, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	klog.Infof("Listening on %s...", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
