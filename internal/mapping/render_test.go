package mapping_test

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"citymapbot/internal/mapping"
)

// testGazetteer resolves from a fixed table.
func testGazetteer(cities map[string]mapping.Point) mapping.GazetteerFunc {
	return func(_ context.Context, name string) (mapping.Point, bool, error) {
		p, ok := cities[name]
		return p, ok, nil
	}
}

var testCities = map[string]mapping.Point{
	"Moscow": {Lat: 55.75, Lng: 37.62},
	"Tokyo":  {Lat: 35.68, Lng: 139.69},
	"London": {Lat: 51.51, Lng: -0.13},
}

// landFixture is a minimal land polygon covering western Eurasia.
const landFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-10, 35], [60, 35], [60, 70], [-10, 70], [-10, 35]]]
      }
    }
  ]
}`

// newTestRenderer builds a renderer over the fixture basemap.
func newTestRenderer(t *testing.T) *mapping.Renderer {
	t.Helper()

	basemapDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(basemapDir, "land.geojson"), []byte(landFixture), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	r, err := mapping.NewRenderer(testGazetteer(testCities), mapping.Settings{
		Width:      320,
		Height:     240,
		BasemapDir: basemapDir,
		TileURL:    "http://127.0.0.1:1/{z}/{x}/{y}.png",
		TileZoom:   3,
		MaxTiles:   16,
	}, nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestRenderWritesPNG(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	path := filepath.Join(t.TempDir(), "out.png")

	err := r.Render(context.Background(), path, []string{"Moscow", "London"}, mapping.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 320, 240) {
		t.Errorf("output bounds = %v, want 320x240", got)
	}
}

func TestRenderMarkerStyles(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)

	for _, token := range []string{"", "default", "ro", "gs", "b^", "ko", "ws"} {
		token := token
		t.Run("Token "+token, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "out.png")
			err := r.Render(context.Background(), path, []string{"Tokyo"}, mapping.Options{MarkerStyle: token})
			if err != nil {
				t.Fatalf("Render with marker %q: %v", token, err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("output missing: %v", err)
			}
		})
	}
}

func TestRenderSkipsUnresolvedCities(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	path := filepath.Join(t.TempDir(), "out.png")

	// One resolvable name among junk still produces a map.
	err := r.Render(context.Background(), path, []string{"Atlantis", "Moscow", "El Dorado"}, mapping.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestRenderFailures(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)

	tests := []struct {
		name    string
		cities  []string
		opts    mapping.Options
		wantErr error
	}{
		{
			name:    "No resolvable cities",
			cities:  []string{"Atlantis", "El Dorado"},
			wantErr: mapping.ErrNoCities,
		},
		{
			name:    "Empty city list",
			cities:  nil,
			wantErr: mapping.ErrNoCities,
		},
		{
			name:    "Unknown background",
			cities:  []string{"Moscow"},
			opts:    mapping.Options{Background: "satellite"},
			wantErr: mapping.ErrUnknownBackground,
		},
		{
			name:    "Unknown marker style",
			cities:  []string{"Moscow"},
			opts:    mapping.Options{MarkerStyle: "zz"},
			wantErr: mapping.ErrUnknownMarkerStyle,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "out.png")

			err := r.Render(context.Background(), path, tc.cities, tc.opts)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Render err = %v, want %v", err, tc.wantErr)
			}

			// Failed renders must not leave a file behind.
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Errorf("output exists after failed render")
			}
		})
	}
}

func TestRenderGazetteerError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("gazetteer down")
	failing := mapping.GazetteerFunc(func(context.Context, string) (mapping.Point, bool, error) {
		return mapping.Point{}, false, wantErr
	})

	basemapDir := t.TempDir()
	r, err := mapping.NewRenderer(failing, mapping.Settings{
		Width:      100,
		Height:     100,
		BasemapDir: basemapDir,
		TileURL:    "http://127.0.0.1:1/{z}/{x}/{y}.png",
		TileZoom:   3,
		MaxTiles:   16,
	}, nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := r.Render(context.Background(), path, []string{"Moscow"}, mapping.Options{}); !errors.Is(err, wantErr) {
		t.Fatalf("Render err = %v, want wrapped gazetteer error", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("output exists after failed render")
	}
}

func TestNewRendererRejectsBrokenBasemap(t *testing.T) {
	t.Parallel()

	basemapDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(basemapDir, "land.geojson"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := mapping.NewRenderer(testGazetteer(testCities), mapping.Settings{
		Width:      100,
		Height:     100,
		BasemapDir: basemapDir,
		TileURL:    "http://127.0.0.1:1/{z}/{x}/{y}.png",
		TileZoom:   3,
		MaxTiles:   16,
	}, nil)
	if err == nil {
		t.Fatal("NewRenderer accepted malformed basemap layer")
	}
}
