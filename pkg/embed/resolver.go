// Package embed resolves metadata for ![[url]] references and drives the
// widgets that preview them.
package embed

import (
	"context"
	"mime"
	"net/http"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout = 10 * time.Second

	// BinaryMIME replaces the cached type of a URL whose image failed to load.
	BinaryMIME = "application/octet-stream"
)

// Meta is the resolved metadata of an embedded URL. Empty strings mean
// unknown; Size is -1 when the server did not report a length.
type Meta struct {
	MIME     string
	FileName string
	Size     int64
}

// Resolver probes URLs with HEAD requests and memoizes the results for its
// own lifetime. Create one per editor instance.
type Resolver struct {
	httpClient *http.Client

	mu        sync.RWMutex
	mimes     map[string]string
	fileNames map[string]string
	sizes     map[string]int64

	group  singleflight.Group
	probes atomic.Int64
}

// NewResolver creates a resolver. A nil client uses a default with a timeout.
func NewResolver(httpClient *http.Client) *Resolver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Resolver{
		httpClient: httpClient,
		mimes:      make(map[string]string),
		fileNames:  make(map[string]string),
		sizes:      make(map[string]int64),
	}
}

// Resolve returns the metadata for src. Results already in both caches are
// returned without a request. Failures yield an unknown Meta and are not
// cached, so a later call may retry.
//
// Concurrent calls for one URL share a single probe. The probe is not
// cancelled with any one caller's ctx; a caller whose ctx ends stops
// waiting and gets an unknown Meta while the others keep theirs.
func (r *Resolver) Resolve(ctx context.Context, src string) Meta {
	if meta, ok := r.cached(src); ok {
		return meta
	}

	ch := r.group.DoChan(src, func() (interface{}, error) {
		if meta, ok := r.cached(src); ok {
			return meta, nil
		}

		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout())
		defer cancel()

		meta, ok := r.probe(probeCtx, src)
		if !ok {
			return unknownMeta(), nil
		}
		r.store(src, meta)
		return meta, nil
	})

	select {
	case res := <-ch:
		return res.Val.(Meta)
	case <-ctx.Done():
		return unknownMeta()
	}
}

// timeout bounds a shared probe. It follows the client's own timeout.
func (r *Resolver) timeout() time.Duration {
	if r.httpClient.Timeout > 0 {
		return r.httpClient.Timeout
	}
	return defaultTimeout
}

// Cached returns the memoized metadata for src, if any.
func (r *Resolver) Cached(src string) (Meta, bool) {
	return r.cached(src)
}

// MarkBroken records that src could not be displayed as an image.
func (r *Resolver) MarkBroken(src string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mimes[src] = BinaryMIME
}

// Probes reports how many network probes have been issued.
func (r *Resolver) Probes() int64 {
	return r.probes.Load()
}

func (r *Resolver) cached(src string) (Meta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mimeType, hasMIME := r.mimes[src]
	fileName, hasName := r.fileNames[src]
	if !hasMIME || !hasName {
		return Meta{}, false
	}
	size, ok := r.sizes[src]
	if !ok {
		size = -1
	}
	return Meta{MIME: mimeType, FileName: fileName, Size: size}, true
}

func (r *Resolver) store(src string, meta Meta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mimes[src] = meta.MIME
	r.fileNames[src] = meta.FileName
	r.sizes[src] = meta.Size
}

// probe issues the HEAD request. ok is false on any failure.
func (r *Resolver) probe(ctx context.Context, src string) (Meta, bool) {
	r.probes.Add(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, src, nil)
	if err != nil {
		return Meta{}, false
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Meta{}, false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Meta{}, false
	}

	return Meta{
		MIME:     resp.Header.Get("Content-Type"),
		FileName: FileNameFromDisposition(resp.Header.Get("Content-Disposition")),
		Size:     resp.ContentLength,
	}, true
}

func unknownMeta() Meta {
	return Meta{Size: -1}
}

var dispositionFilename = regexp.MustCompile(`filename="?([^";]+)"?`)

// FileNameFromDisposition extracts the filename from a Content-Disposition
// header. Returns "" when none is present.
func FileNameFromDisposition(header string) string {
	if header == "" {
		return ""
	}

	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}

	match := dispositionFilename.FindStringSubmatch(header)
	if len(match) > 1 {
		return match[1]
	}
	return ""
}
