// Package preview draws decorated documents for the terminal and as HTML.
package preview

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/shelf-cli/pkg/decorate"
	"github.com/open-cli-collective/shelf-cli/pkg/embed"
)

// Style holds the terminal styles for rendered widgets.
type Style struct {
	Block   lipgloss.Style
	Image   lipgloss.Style
	File    lipgloss.Style
	Meta    lipgloss.Style
	Loading lipgloss.Style
}

// DefaultStyle returns the colored terminal style.
func DefaultStyle() Style {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Block: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Image:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		File:    lipgloss.NewStyle().Bold(true),
		Meta:    muted,
		Loading: muted.Italic(true),
	}
}

// PlainStyle draws blocks with a plain border and no colors.
func PlainStyle() Style {
	return Style{
		Block: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	}
}

var glyphs = map[embed.Icon]string{
	embed.IconImage:   "▣",
	embed.IconAudio:   "♪",
	embed.IconVideo:   "▶",
	embed.IconDoc:     "≡",
	embed.IconArchive: "◫",
	embed.IconFile:    "□",
}

// Glyph returns the terminal symbol for an icon.
func Glyph(icon embed.Icon) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return glyphs[embed.IconFile]
}

// Printer lays decorations over source text for the terminal.
type Printer struct {
	Style Style
	// Views holds the settled embed views keyed by URL. Missing URLs draw
	// as loading.
	Views      map[string]embed.View
	HoldToOpen bool
}

// NewPrinter creates a printer with the given style.
func NewPrinter(style Style, views map[string]embed.View) *Printer {
	return &Printer{Style: style, Views: views}
}

// Render returns src with the decorations in set applied.
func (p *Printer) Render(src []byte, set *decorate.Set) string {
	return set.Apply(src, p.draw)
}

func (p *Printer) draw(d decorate.Decoration) string {
	switch w := d.Widget.(type) {
	case *decorate.BlockWidget:
		return p.Style.Block.Render(strings.TrimRight(w.Text(), "\n"))
	case *decorate.EmbedWidget:
		return p.Embed(p.view(w.Src))
	}
	return ""
}

func (p *Printer) view(src string) embed.View {
	if v, ok := p.Views[src]; ok {
		return v
	}
	return embed.View{State: embed.StateLoading, Src: src, Size: -1}
}

// Embed draws one embed view on a single line.
func (p *Printer) Embed(v embed.View) string {
	switch v.State {
	case embed.StateImage:
		return p.Style.Image.Render("[image] " + v.Src)
	case embed.StateFile:
		line := Glyph(v.Icon) + " " + p.Style.File.Render(v.Label())
		var meta []string
		if v.Size >= 0 {
			meta = append(meta, humanize.Bytes(uint64(v.Size)))
		}
		if p.HoldToOpen {
			meta = append(meta, "hold ctrl to open")
		}
		if len(meta) > 0 {
			line += " " + p.Style.Meta.Render("("+strings.Join(meta, ", ")+")")
		}
		return line
	default:
		return p.Style.Loading.Render("Loading...")
	}
}

// Settle mounts a widget for every embed in set and waits for their probes.
// The views are returned as they stand, so embeds still probing when ctx
// ends stay in the loading state.
func Settle(ctx context.Context, s *decorate.Session, set *decorate.Set) (map[string]embed.View, error) {
	var widgets []*embed.Widget
	for _, d := range set.OfKind(decorate.KindEmbed) {
		if ew, ok := d.Widget.(*decorate.EmbedWidget); ok {
			widgets = append(widgets, s.Mount(ew, nil))
		}
	}

	var g errgroup.Group
	for _, w := range widgets {
		g.Go(func() error {
			return w.Wait(ctx)
		})
	}
	_ = g.Wait()

	var err error
	views := make(map[string]embed.View, len(widgets))
	for _, w := range widgets {
		v := w.View()
		if v.State == embed.StateLoading {
			err = ctx.Err()
		}
		views[w.Src()] = v
	}
	return views, err
}
