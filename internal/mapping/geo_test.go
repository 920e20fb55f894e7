package mapping

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestFitViewport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		points []Point
		want   Viewport
	}{
		{
			name:   "Single point gets the fixed margin",
			points: []Point{{Lat: 55.75, Lng: 37.62}},
			want:   Viewport{MinLat: 53.75, MaxLat: 57.75, MinLng: 35.62, MaxLng: 39.62},
		},
		{
			name: "Two points span their extents",
			points: []Point{
				{Lat: 55.75, Lng: 37.62},
				{Lat: 51.51, Lng: -0.13},
			},
			want: Viewport{MinLat: 49.51, MaxLat: 57.75, MinLng: -2.13, MaxLng: 39.62},
		},
		{
			name: "Order of points does not matter",
			points: []Point{
				{Lat: 51.51, Lng: -0.13},
				{Lat: 55.75, Lng: 37.62},
			},
			want: Viewport{MinLat: 49.51, MaxLat: 57.75, MinLng: -2.13, MaxLng: 39.62},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := FitViewport(tc.points)
			if got != tc.want {
				t.Errorf("FitViewport(%v) = %+v, want %+v", tc.points, got, tc.want)
			}
		})
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	t.Parallel()

	vp := Viewport{MinLat: 40, MaxLat: 60, MinLng: -10, MaxLng: 50}
	proj := newProjection(vp, 600, 400)

	points := []Point{
		{Lat: 40, Lng: -10},
		{Lat: 60, Lng: 50},
		{Lat: 55.75, Lng: 37.62},
		{Lat: 48.85, Lng: 2.35},
	}

	for _, p := range points {
		x, y := proj.toPixel(p)
		got := proj.fromPixel(int(x), int(y))
		// fromPixel samples the pixel center, so allow a pixel of
		// geographic error in each axis.
		latTol := (vp.MaxLat - vp.MinLat) / 400
		lngTol := (vp.MaxLng - vp.MinLng) / 600
		if math.Abs(got.Lat-p.Lat) > latTol || math.Abs(got.Lng-p.Lng) > lngTol {
			t.Errorf("round trip of (%v, %v) = (%v, %v)", p.Lat, p.Lng, got.Lat, got.Lng)
		}
	}
}

func TestProjectionOrientation(t *testing.T) {
	t.Parallel()

	vp := Viewport{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}
	proj := newProjection(vp, 100, 100)

	// North is up and west is left.
	_, yTop := proj.toPixel(Point{Lat: 10, Lng: 5})
	_, yBottom := proj.toPixel(Point{Lat: 0, Lng: 5})
	if yTop >= yBottom {
		t.Errorf("north lat y=%v not above south lat y=%v", yTop, yBottom)
	}

	xLeft, _ := proj.toPixel(Point{Lat: 5, Lng: 0})
	xRight, _ := proj.toPixel(Point{Lat: 5, Lng: 10})
	if xLeft >= xRight {
		t.Errorf("west lng x=%v not left of east lng x=%v", xLeft, xRight)
	}
}

func TestLabelAnchor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		marker Point
		want   Point
	}{
		{
			name:   "Northern hemisphere city",
			marker: Point{Lat: 55.75, Lng: 37.62},
			want:   Point{Lat: 56.25, Lng: 38.12},
		},
		{
			name:   "Negative coordinates",
			marker: Point{Lat: -33.87, Lng: -70.65},
			want:   Point{Lat: -33.37, Lng: -70.15},
		},
		{
			name:   "Origin",
			marker: Point{},
			want:   Point{Lat: 0.5, Lng: 0.5},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := labelAnchor(tc.marker); got != tc.want {
				t.Errorf("labelAnchor(%+v) = %+v, want %+v", tc.marker, got, tc.want)
			}
		})
	}
}

func TestParseMarkerStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		token     string
		wantErr   bool
		wantFill  color.Color
		wantShape byte
	}{
		{name: "Empty token is the red circle", token: "", wantFill: markerColors['r'], wantShape: 'o'},
		{name: "Default keyword is the red circle", token: "default", wantFill: markerColors['r'], wantShape: 'o'},
		{name: "Green square", token: "gs", wantFill: markerColors['g'], wantShape: 's'},
		{name: "Blue triangle", token: "b^", wantFill: markerColors['b'], wantShape: '^'},
		{name: "Unknown color", token: "xo", wantErr: true},
		{name: "Unknown shape", token: "r*", wantErr: true},
		{name: "Too long", token: "red", wantErr: true},
		{name: "Single character", token: "r", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			style, err := parseMarkerStyle(tc.token)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownMarkerStyle) {
					t.Fatalf("parseMarkerStyle(%q) err = %v, want ErrUnknownMarkerStyle", tc.token, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseMarkerStyle(%q): %v", tc.token, err)
			}
			if style.fill != tc.wantFill || style.shape != tc.wantShape {
				t.Errorf("parseMarkerStyle(%q) = %+v", tc.token, style)
			}
		})
	}
}
