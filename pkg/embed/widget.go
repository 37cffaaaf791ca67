package embed

import (
	"context"
	"sync"
)

// State is the display state of an embed widget.
type State int

const (
	StateLoading State = iota
	StateImage
	StateFile
)

func (s State) String() string {
	switch s {
	case StateImage:
		return "image"
	case StateFile:
		return "file"
	default:
		return "loading"
	}
}

// View is what an embed widget currently shows.
type View struct {
	State    State
	Src      string
	MIME     string
	FileName string
	Icon     Icon
	Size     int64
}

// Label is the text shown on a file block.
func (v View) Label() string {
	if v.FileName == "" {
		return "File"
	}
	return v.FileName
}

func loadingView(src string) View {
	return View{State: StateLoading, Src: src, Size: -1}
}

func viewFor(src string, meta Meta) View {
	if IsImage(meta.MIME) {
		return View{State: StateImage, Src: src, MIME: meta.MIME, FileName: meta.FileName, Icon: IconImage, Size: meta.Size}
	}
	return fileView(src, meta)
}

func fileView(src string, meta Meta) View {
	return View{
		State:    StateFile,
		Src:      src,
		MIME:     meta.MIME,
		FileName: meta.FileName,
		Icon:     GuessIcon(meta.MIME),
		Size:     meta.Size,
	}
}

// Widget previews one embedded URL. It starts in the loading state, probes
// the URL when mounted, and settles on an image or a file block.
type Widget struct {
	src      string
	resolver *Resolver

	mu       sync.Mutex
	view     View
	mounted  bool
	cancel   context.CancelFunc
	onUpdate func(View)
	done     chan struct{}
}

// NewWidget creates an unmounted widget for src.
func NewWidget(src string, resolver *Resolver) *Widget {
	return &Widget{
		src:      src,
		resolver: resolver,
		view:     loadingView(src),
	}
}

// Src returns the embedded URL.
func (w *Widget) Src() string {
	return w.src
}

// Eq reports whether two widgets show the same URL.
func (w *Widget) Eq(other *Widget) bool {
	return other != nil && w.src == other.src
}

// View returns the current view.
func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

// Mount starts the metadata probe and returns the loading view. onUpdate is
// called once the probe settles, unless the widget was unmounted first.
// Mounting a mounted widget returns its current view.
func (w *Widget) Mount(ctx context.Context, onUpdate func(View)) View {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.mounted {
		return w.view
	}

	ctx, cancel := context.WithCancel(ctx)
	w.mounted = true
	w.cancel = cancel
	w.onUpdate = onUpdate
	w.view = loadingView(w.src)
	w.done = make(chan struct{})

	done := w.done
	go func() {
		defer close(done)
		meta := w.resolver.Resolve(ctx, w.src)
		w.settle(ctx, viewFor(w.src, meta))
	}()

	return w.view
}

// Wait blocks until the probe started by Mount has settled.
func (w *Widget) Wait(ctx context.Context) error {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unmount cancels an in-flight probe. No update is delivered afterwards.
func (w *Widget) Unmount() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.mounted {
		return
	}
	w.mounted = false
	w.onUpdate = nil
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

// Mounted reports whether the widget is mounted.
func (w *Widget) Mounted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mounted
}

// ImageFailed downgrades the URL to a generic binary and re-renders the
// widget as a file block.
func (w *Widget) ImageFailed() View {
	w.resolver.MarkBroken(w.src)

	meta := Meta{MIME: BinaryMIME, Size: -1}
	if cached, ok := w.resolver.Cached(w.src); ok {
		meta.FileName = cached.FileName
		meta.Size = cached.Size
	}

	view := fileView(w.src, meta)
	w.mu.Lock()
	w.view = view
	cb := w.onUpdate
	w.mu.Unlock()

	if cb != nil {
		cb(view)
	}
	return view
}

func (w *Widget) settle(ctx context.Context, view View) {
	w.mu.Lock()
	if !w.mounted || ctx.Err() != nil {
		w.mu.Unlock()
		return
	}
	w.view = view
	cb := w.onUpdate
	w.mu.Unlock()

	if cb != nil {
		cb(view)
	}
}
