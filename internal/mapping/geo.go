// Package mapping implements the city map rendering engine: viewport fitting,
// equirectangular projection, and rasterization of marker maps over either a
// vector feature basemap or raster tiles.
package mapping

import "math"

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Viewport is the rectangular lat/lng region framing a rendered map.
type Viewport struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// viewportMargin is the fixed margin, in degrees, added on each side of the
// coordinate extents when framing a map.
const viewportMargin = 2.0

// FitViewport computes the viewport framing all given points: the min/max
// latitude and longitude extents expanded by the fixed margin on each side.
// The points slice must be non-empty.
func FitViewport(points []Point) Viewport {
	minLat, maxLat := points[0].Lat, points[0].Lat
	minLng, maxLng := points[0].Lng, points[0].Lng
	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLng = math.Min(minLng, p.Lng)
		maxLng = math.Max(maxLng, p.Lng)
	}

	return Viewport{
		MinLat: minLat - viewportMargin,
		MaxLat: maxLat + viewportMargin,
		MinLng: minLng - viewportMargin,
		MaxLng: maxLng + viewportMargin,
	}
}

// projection maps geographic coordinates to pixel coordinates within a canvas
// of the given size, using the equirectangular (plate carrée) projection over
// the viewport.
type projection struct {
	vp     Viewport
	width  int
	height int
}

func newProjection(vp Viewport, width, height int) projection {
	return projection{vp: vp, width: width, height: height}
}

// toPixel converts a geographic point to canvas coordinates. The y axis is
// inverted: latitude grows north, pixel rows grow down.
func (p projection) toPixel(pt Point) (x, y float64) {
	x = (pt.Lng - p.vp.MinLng) / (p.vp.MaxLng - p.vp.MinLng) * float64(p.width)
	y = (p.vp.MaxLat - pt.Lat) / (p.vp.MaxLat - p.vp.MinLat) * float64(p.height)
	return x, y
}

// fromPixel converts the center of a canvas pixel back to geographic
// coordinates. Inverse of toPixel, used when resampling raster tiles.
func (p projection) fromPixel(x, y int) Point {
	return Point{
		Lng: p.vp.MinLng + (float64(x)+0.5)/float64(p.width)*(p.vp.MaxLng-p.vp.MinLng),
		Lat: p.vp.MaxLat - (float64(y)+0.5)/float64(p.height)*(p.vp.MaxLat-p.vp.MinLat),
	}
}
