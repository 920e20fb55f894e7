package mapping

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"golang.org/x/sync/errgroup"

	_ "image/jpeg"
	_ "image/png"
)

// Web Mercator latitude limit: tiles do not cover beyond this.
const mercatorMaxLat = 85.05112878

const (
	tileSize            = 256
	tileFetchConcurrent = 8
)

// TileFetcher downloads XYZ raster tiles and resamples them into an
// equirectangular viewport for the "image" background.
type TileFetcher struct {
	urlTemplate string
	zoom        int
	maxTiles    int
	client      *http.Client
	logger      *slog.Logger
}

// NewTileFetcher creates a fetcher for the given XYZ URL template (with {z},
// {x}, {y} placeholders) at the given fixed zoom. maxTiles caps how many tiles
// a single render may request; the zoom is stepped down when a viewport would
// exceed it.
func NewTileFetcher(urlTemplate string, zoom, maxTiles int, logger *slog.Logger) *TileFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &TileFetcher{
		urlTemplate: urlTemplate,
		zoom:        zoom,
		maxTiles:    maxTiles,
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        32,
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger.With("component", "tiles"),
	}
}

// draw fetches the tiles covering the viewport and writes them, resampled per
// destination pixel from web mercator into the equirectangular projection, to
// the destination image.
func (f *TileFetcher) draw(ctx context.Context, dst *image.RGBA, proj projection) error {
	zoom := f.fitZoom(proj.vp)
	tiles, err := f.fetchRange(ctx, proj.vp, zoom)
	if err != nil {
		return err
	}

	z := maptile.Zoom(zoom)
	for y := 0; y < proj.height; y++ {
		for x := 0; x < proj.width; x++ {
			pt := proj.fromPixel(x, y)
			lat := clamp(pt.Lat, -mercatorMaxLat, mercatorMaxLat)
			lng := clamp(wrapLng(pt.Lng), -180, 179.999999)

			frac := maptile.Fraction(orb.Point{lng, lat}, z)
			tx, ty := uint32(frac[0]), uint32(frac[1])
			img, ok := tiles[[2]uint32{tx, ty}]
			if !ok {
				continue
			}

			sx := int((frac[0] - math.Floor(frac[0])) * tileSize)
			sy := int((frac[1] - math.Floor(frac[1])) * tileSize)
			dst.Set(x, y, img.At(img.Bounds().Min.X+sx, img.Bounds().Min.Y+sy))
		}
	}

	return nil
}

// fitZoom steps the configured zoom down until the viewport fits within the
// tile budget.
func (f *TileFetcher) fitZoom(vp Viewport) int {
	zoom := f.zoom
	for zoom > 0 {
		minT, maxT := tileRange(vp, zoom)
		count := int(maxT[0]-minT[0]+1) * int(maxT[1]-minT[1]+1)
		if count <= f.maxTiles {
			break
		}
		zoom--
	}
	if zoom != f.zoom {
		f.logger.Debug("Reduced tile zoom to fit budget", "configured", f.zoom, "effective", zoom)
	}
	return zoom
}

// fetchRange downloads every tile in the viewport's range concurrently.
func (f *TileFetcher) fetchRange(ctx context.Context, vp Viewport, zoom int) (map[[2]uint32]image.Image, error) {
	minT, maxT := tileRange(vp, zoom)

	tiles := make(map[[2]uint32]image.Image)
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(tileFetchConcurrent)

	for ty := minT[1]; ty <= maxT[1]; ty++ {
		for tx := minT[0]; tx <= maxT[0]; tx++ {
			tx, ty := tx, ty
			g.Go(func() error {
				img, err := f.fetchTile(gCtx, zoom, tx, ty)
				if err != nil {
					return err
				}
				mu.Lock()
				tiles[[2]uint32{tx, ty}] = img
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tiles, nil
}

func (f *TileFetcher) fetchTile(ctx context.Context, zoom int, x, y uint32) (image.Image, error) {
	url := strings.NewReplacer(
		"{z}", strconv.Itoa(zoom),
		"{x}", strconv.FormatUint(uint64(x), 10),
		"{y}", strconv.FormatUint(uint64(y), 10),
	).Replace(f.urlTemplate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "citymapbot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download tile %d/%d/%d: %w", zoom, x, y, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("failed to download tile %d/%d/%d: status %s", zoom, x, y, resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tile %d/%d/%d: %w", zoom, x, y, err)
	}
	return img, nil
}

// tileRange returns the inclusive tile coordinate range covering the viewport
// at the given zoom. A viewport whose margin crosses the antimeridian widens
// to the full longitude span so the column range stays monotonic; fitZoom then
// trims the zoom until that span fits the budget.
func tileRange(vp Viewport, zoom int) (min, max [2]uint32) {
	z := maptile.Zoom(zoom)

	// Longitude 180 belongs to the last tile column, not a column past it.
	minLng := clamp(wrapLng(vp.MinLng), -180, 179.999999)
	maxLng := clamp(wrapLng(vp.MaxLng), -180, 179.999999)
	if maxLng < minLng {
		minLng, maxLng = -180, 179.999999
	}

	nw := maptile.At(orb.Point{
		minLng,
		clamp(vp.MaxLat, -mercatorMaxLat, mercatorMaxLat),
	}, z)
	se := maptile.At(orb.Point{
		maxLng,
		clamp(vp.MinLat, -mercatorMaxLat, mercatorMaxLat),
	}, z)

	return [2]uint32{nw.X, nw.Y}, [2]uint32{se.X, se.Y}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrapLng(lng float64) float64 {
	for lng < -180 {
		lng += 360
	}
	for lng > 180 {
		lng -= 360
	}
	return lng
}
