package mapping

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Basemap holds the vector feature layers drawn by the default background.
// Layers are Natural Earth GeoJSON files loaded from a directory; any layer
// file that is absent is simply not drawn.
type Basemap struct {
	land      *geojson.FeatureCollection
	coastline *geojson.FeatureCollection
	lakes     *geojson.FeatureCollection
	rivers    *geojson.FeatureCollection
	borders   *geojson.FeatureCollection
}

// LoadBasemap reads the known layer files from dir. Missing files are skipped;
// a malformed file is an error.
func LoadBasemap(dir string, logger *slog.Logger) (*Basemap, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "basemap")

	bm := &Basemap{}
	layers := []struct {
		file string
		dst  **geojson.FeatureCollection
	}{
		{"land.geojson", &bm.land},
		{"coastline.geojson", &bm.coastline},
		{"lakes.geojson", &bm.lakes},
		{"rivers.geojson", &bm.rivers},
		{"borders.geojson", &bm.borders},
	}

	for _, layer := range layers {
		path := filepath.Join(dir, layer.file)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Debug("Basemap layer not present, skipping", "file", layer.file)
				continue
			}
			return nil, fmt.Errorf("failed to read basemap layer %s: %w", layer.file, err)
		}

		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse basemap layer %s: %w", layer.file, err)
		}
		*layer.dst = fc
		log.Debug("Loaded basemap layer", "file", layer.file, "features", len(fc.Features))
	}

	return bm, nil
}

// Feature colors follow the classic plate carrée atlas style: pale land over
// light blue ocean, blue hydrography, gray political lines.
var (
	oceanColor = [3]float64{0.67, 0.79, 0.91}
	landColor  = [3]float64{0.94, 0.94, 0.86}
	waterColor = [3]float64{0.31, 0.51, 0.75}
	coastColor = [3]float64{0.35, 0.35, 0.35}
	lineColor  = [3]float64{0.45, 0.45, 0.45}
)

// draw paints the full vector background: ocean fill, land, lakes at partial
// opacity, rivers, dashed international borders, coastline, and a graticule.
func (bm *Basemap) draw(dc *gg.Context, proj projection) {
	dc.SetRGB(oceanColor[0], oceanColor[1], oceanColor[2])
	dc.Clear()

	if bm.land != nil {
		dc.SetRGB(landColor[0], landColor[1], landColor[2])
		fillCollection(dc, proj, bm.land)
	}

	if bm.lakes != nil {
		dc.SetRGBA(waterColor[0], waterColor[1], waterColor[2], 0.5)
		fillCollection(dc, proj, bm.lakes)
	}

	if bm.rivers != nil {
		dc.SetRGB(waterColor[0], waterColor[1], waterColor[2])
		dc.SetLineWidth(0.8)
		strokeCollection(dc, proj, bm.rivers)
	}

	if bm.borders != nil {
		dc.SetRGB(lineColor[0], lineColor[1], lineColor[2])
		dc.SetLineWidth(0.8)
		dc.SetDash(3, 3)
		strokeCollection(dc, proj, bm.borders)
		dc.SetDash()
	}

	if bm.coastline != nil {
		dc.SetRGB(coastColor[0], coastColor[1], coastColor[2])
		dc.SetLineWidth(1)
		strokeCollection(dc, proj, bm.coastline)
	}

	drawGraticule(dc, proj)
}

// fillCollection fills every polygonal feature in the collection.
func fillCollection(dc *gg.Context, proj projection, fc *geojson.FeatureCollection) {
	for _, f := range fc.Features {
		switch geom := f.Geometry.(type) {
		case orb.Polygon:
			fillPolygon(dc, proj, geom)
		case orb.MultiPolygon:
			for _, poly := range geom {
				fillPolygon(dc, proj, poly)
			}
		}
	}
}

// strokeCollection strokes every linear feature in the collection. Polygon
// rings are stroked as their outlines.
func strokeCollection(dc *gg.Context, proj projection, fc *geojson.FeatureCollection) {
	for _, f := range fc.Features {
		switch geom := f.Geometry.(type) {
		case orb.LineString:
			strokeLine(dc, proj, geom, false)
		case orb.MultiLineString:
			for _, line := range geom {
				strokeLine(dc, proj, line, false)
			}
		case orb.Polygon:
			for _, ring := range geom {
				strokeLine(dc, proj, orb.LineString(ring), true)
			}
		case orb.MultiPolygon:
			for _, poly := range geom {
				for _, ring := range poly {
					strokeLine(dc, proj, orb.LineString(ring), true)
				}
			}
		}
	}
}

func fillPolygon(dc *gg.Context, proj projection, poly orb.Polygon) {
	for _, ring := range poly {
		if len(ring) < 3 {
			continue
		}
		pathRing(dc, proj, ring)
	}
	dc.Fill()
}

func pathRing(dc *gg.Context, proj projection, ring orb.Ring) {
	dc.NewSubPath()
	for i, pt := range ring {
		x, y := proj.toPixel(Point{Lat: pt.Lat(), Lng: pt.Lon()})
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

func strokeLine(dc *gg.Context, proj projection, line orb.LineString, closed bool) {
	if len(line) < 2 {
		return
	}
	dc.NewSubPath()
	for i, pt := range line {
		x, y := proj.toPixel(Point{Lat: pt.Lat(), Lng: pt.Lon()})
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	if closed {
		dc.ClosePath()
	}
	dc.Stroke()
}

// drawGraticule strokes faint meridians and parallels every 10 degrees.
func drawGraticule(dc *gg.Context, proj projection) {
	dc.SetRGBA(0.5, 0.5, 0.5, 0.25)
	dc.SetLineWidth(0.5)

	for lng := -180.0; lng <= 180.0; lng += 10 {
		if lng < proj.vp.MinLng || lng > proj.vp.MaxLng {
			continue
		}
		x1, y1 := proj.toPixel(Point{Lat: proj.vp.MaxLat, Lng: lng})
		x2, y2 := proj.toPixel(Point{Lat: proj.vp.MinLat, Lng: lng})
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}
	for lat := -90.0; lat <= 90.0; lat += 10 {
		if lat < proj.vp.MinLat || lat > proj.vp.MaxLat {
			continue
		}
		x1, y1 := proj.toPixel(Point{Lat: lat, Lng: proj.vp.MinLng})
		x2, y2 := proj.toPixel(Point{Lat: lat, Lng: proj.vp.MaxLng})
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}
}
