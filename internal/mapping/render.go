package mapping

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	// ErrNoCities is returned when a render request resolves to zero
	// plottable coordinates.
	ErrNoCities = errors.New("no resolvable cities to render")

	// ErrUnknownBackground is returned for a background value outside the
	// supported set ("default", "image").
	ErrUnknownBackground = errors.New("unknown background")

	// ErrUnknownMarkerStyle is returned for an unparseable marker token.
	ErrUnknownMarkerStyle = errors.New("unknown marker style")
)

// Background values supported by Render.
const (
	BackgroundDefault = "default"
	BackgroundImage   = "image"
)

// labelOffsetDeg is the offset, in degrees on both axes, between a marker and
// its city name label.
const labelOffsetDeg = 0.5

// labelAnchor returns the geographic position of the name label for a marker
// at p.
func labelAnchor(p Point) Point {
	return Point{
		Lat: p.Lat + labelOffsetDeg,
		Lng: p.Lng + labelOffsetDeg,
	}
}

// Gazetteer resolves a city name to coordinates. Absence is reported through
// the boolean, not an error.
type Gazetteer interface {
	Resolve(ctx context.Context, name string) (Point, bool, error)
}

// GazetteerFunc adapts a function to the Gazetteer interface.
type GazetteerFunc func(ctx context.Context, name string) (Point, bool, error)

// Resolve calls f.
func (f GazetteerFunc) Resolve(ctx context.Context, name string) (Point, bool, error) {
	return f(ctx, name)
}

// Settings holds the renderer's fixed configuration.
type Settings struct {
	Width      int
	Height     int
	BasemapDir string
	TileURL    string
	TileZoom   int
	MaxTiles   int
}

// Options selects the style of a single render call. Zero values mean
// "default".
type Options struct {
	MarkerStyle string
	Background  string
}

// Renderer rasterizes city marker maps. Each Render call builds and discards
// its own canvas; a Renderer is safe for concurrent use.
type Renderer struct {
	gazetteer Gazetteer
	settings  Settings
	basemap   *Basemap
	tiles     *TileFetcher
	logger    *slog.Logger

	fontOnce sync.Once
	fontFace font.Face
	fontErr  error
}

// NewRenderer creates a renderer that resolves city names through the given
// gazetteer. The basemap directory is read once, up front.
func NewRenderer(gazetteer Gazetteer, settings Settings, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	basemap, err := LoadBasemap(settings.BasemapDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load basemap: %w", err)
	}

	return &Renderer{
		gazetteer: gazetteer,
		settings:  settings,
		basemap:   basemap,
		tiles:     NewTileFetcher(settings.TileURL, settings.TileZoom, settings.MaxTiles, logger),
		logger:    logger.With("component", "renderer"),
	}, nil
}

// plotted is a city resolved for a single render call. Each name is resolved
// exactly once; the value is reused for plotting and extent computation.
type plotted struct {
	name  string
	point Point
}

// Render resolves cityNames, frames a viewport around the resolved points
// with the fixed margin, draws the selected background, plots one marker and
// label per city, and writes a PNG to path.
//
// Names that do not resolve are skipped silently. If none resolve, Render
// fails with ErrNoCities before any file is created. Invalid options fail
// with ErrUnknownBackground or ErrUnknownMarkerStyle, also before any file is
// created.
func (r *Renderer) Render(ctx context.Context, path string, cityNames []string, opts Options) error {
	style, err := parseMarkerStyle(opts.MarkerStyle)
	if err != nil {
		return err
	}

	background := opts.Background
	if background == "" {
		background = BackgroundDefault
	}
	if background != BackgroundDefault && background != BackgroundImage {
		return fmt.Errorf("%w: %q", ErrUnknownBackground, background)
	}

	cities := make([]plotted, 0, len(cityNames))
	for _, name := range cityNames {
		point, ok, err := r.gazetteer.Resolve(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to resolve %q: %w", name, err)
		}
		if !ok {
			r.logger.DebugContext(ctx, "Skipping unresolved city", "name", name)
			continue
		}
		cities = append(cities, plotted{name: name, point: point})
	}

	if len(cities) == 0 {
		return ErrNoCities
	}

	points := make([]Point, len(cities))
	for i, c := range cities {
		points[i] = c.point
	}
	vp := FitViewport(points)
	proj := newProjection(vp, r.settings.Width, r.settings.Height)

	dc := gg.NewContext(r.settings.Width, r.settings.Height)

	switch background {
	case BackgroundImage:
		tiled := image.NewRGBA(image.Rect(0, 0, r.settings.Width, r.settings.Height))
		if err := r.tiles.draw(ctx, tiled, proj); err != nil {
			return fmt.Errorf("failed to draw tile background: %w", err)
		}
		dc.DrawImage(tiled, 0, 0)
	default:
		r.basemap.draw(dc, proj)
	}

	face, err := r.labelFace()
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	for _, c := range cities {
		x, y := proj.toPixel(c.point)
		style.draw(dc, x, y)

		lx, ly := proj.toPixel(labelAnchor(c.point))
		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawString(c.name, lx, ly)
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to write map image: %w", err)
	}

	r.logger.DebugContext(ctx, "Rendered map",
		"path", path,
		"cities", len(cities),
		"background", background)
	return nil
}

// labelFace lazily parses the embedded Go Regular font once per Renderer.
func (r *Renderer) labelFace() (font.Face, error) {
	r.fontOnce.Do(func() {
		parsed, err := opentype.Parse(goregular.TTF)
		if err != nil {
			r.fontErr = fmt.Errorf("failed to parse label font: %w", err)
			return
		}
		r.fontFace, r.fontErr = opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    12,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return r.fontFace, r.fontErr
}
