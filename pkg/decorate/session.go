package decorate

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/yuin/goldmark/ast"

	"github.com/open-cli-collective/shelf-cli/pkg/embed"
	"github.com/open-cli-collective/shelf-cli/pkg/md"
)

// Modifiers tracks whether a platform modifier key (meta or ctrl) is held.
type Modifiers struct {
	pressed atomic.Bool
}

// KeyDown records a key press with the modifier flags of the event.
func (m *Modifiers) KeyDown(meta, ctrl bool) {
	if meta || ctrl {
		m.pressed.Store(true)
	}
}

// KeyUp records a key release with the modifier flags of the event.
func (m *Modifiers) KeyUp(meta, ctrl bool) {
	if !meta && !ctrl {
		m.pressed.Store(false)
	}
}

// Pressed reports whether a modifier is held.
func (m *Modifiers) Pressed() bool {
	return m.pressed.Load()
}

// HoldToOpen reports whether a hovered file widget should show the
// "hold to open" affordance.
func (m *Modifiers) HoldToOpen(hovered bool) bool {
	return hovered && m.Pressed()
}

// Session is the per-editor context: decoration engine, metadata caches,
// modifier state, and mounted embed widgets. Close releases all of it.
type Session struct {
	engine    *Engine
	resolver  *embed.Resolver
	modifiers *Modifiers

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	widgets     map[string]*embed.Widget
	subscribers map[string][]func(embed.View)
}

// Option configures a Session.
type Option func(*Session)

// WithHTTPClient sets the client used for metadata probes.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) {
		s.resolver = embed.NewResolver(c)
	}
}

// WithResolver shares an existing resolver.
func WithResolver(r *embed.Resolver) Option {
	return func(s *Session) {
		s.resolver = r
	}
}

// NewSession creates a session rendering blocks with cfg.
func NewSession(cfg *md.Config, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		engine:      NewEngine(cfg),
		modifiers:   &Modifiers{},
		ctx:         ctx,
		cancel:      cancel,
		widgets:     make(map[string]*embed.Widget),
		subscribers: make(map[string][]func(embed.View)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = embed.NewResolver(nil)
	}
	return s
}

// Decorations computes the decoration set for state.
func (s *Session) Decorations(state *State) *Set {
	return s.engine.Compute(state)
}

// DecorationsInRange computes decorations for the nodes touching [from, to].
func (s *Session) DecorationsInRange(state *State, from, to int) *Set {
	return s.engine.ComputeRange(state, from, to)
}

// Engine returns the session's decoration engine.
func (s *Session) Engine() *Engine {
	return s.engine
}

// Resolver returns the session's metadata resolver.
func (s *Session) Resolver() *embed.Resolver {
	return s.resolver
}

// Modifiers returns the session's modifier-key tracker.
func (s *Session) Modifiers() *Modifiers {
	return s.modifiers
}

// Mount returns the embed widget for w, mounting it on first use. Widgets are
// shared per URL for the life of the session, and every onUpdate registered
// for a URL receives its updates. A caller mounting after the widget settled
// reads the result from View.
func (s *Session) Mount(w *EmbedWidget, onUpdate func(embed.View)) *embed.Widget {
	s.mu.Lock()
	widget, ok := s.widgets[w.Src]
	if !ok {
		widget = embed.NewWidget(w.Src, s.resolver)
		s.widgets[w.Src] = widget
	}
	if onUpdate != nil {
		s.subscribers[w.Src] = append(s.subscribers[w.Src], onUpdate)
	}
	s.mu.Unlock()

	if !ok {
		widget.Mount(s.ctx, s.notify(w.Src))
	}
	return widget
}

func (s *Session) notify(src string) func(embed.View) {
	return func(v embed.View) {
		s.mu.Lock()
		subs := append([]func(embed.View)(nil), s.subscribers[src]...)
		s.mu.Unlock()

		for _, fn := range subs {
			fn(v)
		}
	}
}

// Unmount detaches the widget for src, cancelling its probe.
func (s *Session) Unmount(src string) {
	s.mu.Lock()
	widget, ok := s.widgets[src]
	delete(s.widgets, src)
	delete(s.subscribers, src)
	s.mu.Unlock()

	if ok {
		widget.Unmount()
	}
}

// Wait blocks until every mounted widget has settled.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	widgets := make([]*embed.Widget, 0, len(s.widgets))
	for _, w := range s.widgets {
		widgets = append(widgets, w)
	}
	s.mu.Unlock()

	for _, w := range widgets {
		if err := w.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close unmounts all widgets and cancels outstanding probes.
func (s *Session) Close() {
	s.cancel()

	s.mu.Lock()
	widgets := s.widgets
	s.widgets = make(map[string]*embed.Widget)
	s.subscribers = make(map[string][]func(embed.View))
	s.mu.Unlock()

	for _, w := range widgets {
		w.Unmount()
	}
}

// Target is the element a click landed on.
type Target int

const (
	TargetImage Target = iota
	TargetFile
)

// Action is what the host should do in response to a click.
type Action int

const (
	ActionSelect     Action = iota // move the selection, suppress navigation
	ActionOpenTab                  // open the URL in a new tab
	ActionFollowLink               // follow the URL as a link
)

func (a Action) String() string {
	switch a {
	case ActionOpenTab:
		return "open-tab"
	case ActionFollowLink:
		return "follow-link"
	default:
		return "select"
	}
}

// Click describes a click on an embed widget drawn at Pos.
type Click struct {
	Pos      int
	Src      string
	Target   Target
	Modifier bool
}

// ClickResult is the response to a Click.
type ClickResult struct {
	Action         Action
	URL            string
	Selection      Range
	PreventDefault bool
}

// ClickEmbed handles a click on an embed widget. With a modifier held the
// resource is opened; otherwise the selection moves to the reference,
// delimiters included, so its raw syntax becomes editable.
func (s *Session) ClickEmbed(state *State, c Click) ClickResult {
	if c.Modifier {
		action := ActionOpenTab
		if c.Target == TargetFile {
			action = ActionFollowLink
		}
		return ClickResult{Action: action, URL: c.Src}
	}

	sel := Cursor(c.Pos)
	_ = ast.Walk(state.Doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		embedNode, ok := n.(*md.Embed)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		from, to := embedNode.From-md.EmbedPrefixLen, embedNode.To+md.EmbedSuffixLen
		if c.Pos >= from && c.Pos <= to {
			sel = Range{From: from, To: to}
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return ClickResult{
		Action:         ActionSelect,
		URL:            c.Src,
		Selection:      sel,
		PreventDefault: true,
	}
}
