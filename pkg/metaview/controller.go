package metaview

import (
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// Host supplies the active media record and receives the has-data state.
type Host interface {
	Active() (string, bool)
	Path(handle string) (string, error)
	SetHasData(bool)
}

// Controller redraws a View when the host's selection changes.
type Controller struct {
	host     Host
	view     *View
	delay    time.Duration
	rendered func(Result)

	sched *Scheduler
	mu    sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.delay = d
	}
}

// WithRendered sets a hook called after each render.
func WithRendered(fn func(Result)) Option {
	return func(c *Controller) {
		c.rendered = fn
	}
}

// NewController returns a controller drawing into view.
func NewController(host Host, view *View, opts ...Option) *Controller {
	c := &Controller{
		host:  host,
		view:  view,
		delay: DefaultDelay,
	}
	for _, o := range opts {
		o(c)
	}
	c.sched = NewScheduler(c.delay, c.draw)
	return c
}

// OnSelectionChanged schedules a redraw.
func (c *Controller) OnSelectionChanged() {
	c.sched.Trigger()
}

// Render draws immediately, bypassing the scheduler.
func (c *Controller) Render() Result {
	return c.render()
}

// Close cancels any pending redraw.
func (c *Controller) Close() {
	c.sched.Stop()
}

func (c *Controller) draw() {
	c.render()
}

func (c *Controller) render() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.host.Active()
	if !ok {
		klog.V(1).Infof("no active media")
		c.host.SetHasData(false)
		return Result{Status: StatusNotFound}
	}

	path, err := c.host.Path(h)
	if err != nil {
		klog.Warningf("unable to resolve %s: %v", h, err)
		c.host.SetHasData(false)
		return Result{Status: StatusNotFound, Err: err}
	}

	klog.V(1).Infof("rendering %s (%s)", h, path)
	res := c.view.Display(path)
	c.host.SetHasData(res.HasData())
	if c.rendered != nil {
		c.rendered(res)
	}
	return res
}
