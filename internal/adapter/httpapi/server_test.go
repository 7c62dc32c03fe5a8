package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msimp2/GaugeVsQPE/internal/adapter/httpapi"
	"github.com/msimp2/GaugeVsQPE/internal/domain"
	"github.com/msimp2/GaugeVsQPE/internal/ingest"
	"github.com/msimp2/GaugeVsQPE/internal/observability"
	"github.com/msimp2/GaugeVsQPE/internal/render"
)

type stubDecoder struct {
	grid *ingest.DecodedGrid
	err  error
}

func (d *stubDecoder) Decode(_ context.Context, _ string) (*ingest.DecodedGrid, error) {
	return d.grid, d.err
}

type stubReadiness struct {
	err error
}

func (s *stubReadiness) CheckReadiness(_ context.Context) error { return s.err }

func reflectivityDecoded(v float32) *ingest.DecodedGrid {
	values := make([]float32, domain.GridWidth*domain.GridHeight)
	for i := range values {
		values[i] = v
	}
	return &ingest.DecodedGrid{
		Values: values,
		Param: domain.Parameter{
			Discipline: 0, Category: 16, Number: 196,
			Name: "MergedReflectivityQCComposite", Abbreviation: "CREF", Unit: "dBZ",
		},
	}
}

func newTestServer(t *testing.T, decoder ingest.Decoder, readyErr error) (*httpapi.Server, *domain.GridStore) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := domain.NewGridStore()
	cache, err := render.NewTileCache(16, metrics)
	require.NoError(t, err)
	svc := render.NewService(store, render.NewRenderer(metrics, 2), cache)
	loader := ingest.NewLoader(decoder, store, svc, logger, metrics)

	srv := httpapi.NewServer(":0", svc, loader, store, &stubReadiness{err: readyErr}, metrics, logger)
	return srv, store
}

func do(srv *httpapi.Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, body))
	return rec
}

func loadGrid(t *testing.T, srv *httpapi.Server, key string) {
	t.Helper()
	rec := do(srv, http.MethodPost, "/v1/grids/"+key, strings.NewReader(`{"path":"cref.grib2"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(t, &stubDecoder{}, nil)

	rec := do(srv, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubDecoder{}, nil)
		rec := do(srv, http.MethodGet, "/readyz", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubDecoder{}, fmt.Errorf("no grid loaded yet"))
		rec := do(srv, http.MethodGet, "/readyz", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "no grid loaded yet", body["error"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubDecoder{}, nil)

	rec := do(srv, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestLoadGrid(t *testing.T) {
	t.Run("success publishes the grid", func(t *testing.T) {
		srv, store := newTestServer(t, &stubDecoder{grid: reflectivityDecoded(50)}, nil)

		rec := do(srv, http.MethodPost, "/v1/grids/cref", strings.NewReader(`{"path":"cref.grib2"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "cref", body["cache_key"])
		assert.Equal(t, "reflectivity", body["class"])

		_, ok := store.Get("cref")
		assert.True(t, ok)
	})

	t.Run("missing file is 404", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubDecoder{err: ingest.ErrFileNotFound}, nil)
		rec := do(srv, http.MethodPost, "/v1/grids/cref", strings.NewReader(`{"path":"absent.grib2"}`))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("undecodable file is 422", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubDecoder{err: ingest.ErrDecode}, nil)
		rec := do(srv, http.MethodPost, "/v1/grids/cref", strings.NewReader(`{"path":"bad.grib2"}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("empty file is 422", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubDecoder{err: ingest.ErrNoMessages}, nil)
		rec := do(srv, http.MethodPost, "/v1/grids/cref", strings.NewReader(`{"path":"empty.grib2"}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing path is 400", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubDecoder{grid: reflectivityDecoded(50)}, nil)
		rec := do(srv, http.MethodPost, "/v1/grids/cref", strings.NewReader(`{}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetTile(t *testing.T) {
	srv, _ := newTestServer(t, &stubDecoder{grid: reflectivityDecoded(50)}, nil)
	loadGrid(t, srv, "cref")

	t.Run("renders a full tile", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/tiles/cref/5/7/12.png", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

		img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
		assert.Equal(t, 256, img.Bounds().Dy())
	})

	t.Run("unknown key serves the transparent placeholder", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/tiles/nothing/5/7/12.png", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, 1, img.Bounds().Dx())
	})

	t.Run("non-numeric coordinate is 400", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/tiles/cref/z/7/12.png", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zoom out of range is 400", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/tiles/cref/25/7/12.png", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing png suffix is 404", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/tiles/cref/5/7/12", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetPoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubDecoder{grid: reflectivityDecoded(50)}, nil)
	loadGrid(t, srv, "cref")

	t.Run("value inside coverage", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/point?key=cref&lat=39.1&lon=-94.58", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.InDelta(t, 50.0, body["value"], 1e-6)
		assert.Equal(t, "dBZ", body["unit"])
	})

	t.Run("outside coverage is null", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/point?key=cref&lat=5&lon=-94.58", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Nil(t, body["value"])
	})

	t.Run("unknown key is null", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/point?key=nothing&lat=39.1&lon=-94.58", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Nil(t, body["value"])
	})

	t.Run("missing parameters is 400", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/point?key=cref&lat=39.1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGridInfo(t *testing.T) {
	srv, _ := newTestServer(t, &stubDecoder{grid: reflectivityDecoded(50)}, nil)
	loadGrid(t, srv, "cref")

	t.Run("loaded key", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/grids/cref", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "reflectivity", body["class"])
		param, ok := body["parameter"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "CREF", param["abbreviation"])
	})

	t.Run("absent key is 404", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/grids/nothing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCacheAdmin(t *testing.T) {
	srv, store := newTestServer(t, &stubDecoder{grid: reflectivityDecoded(50)}, nil)
	loadGrid(t, srv, "cref")

	t.Run("stats lists loaded grids", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/v1/cache/stats", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Count int                        `json:"count"`
			Grids map[string]json.RawMessage `json:"grids"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count)
		assert.Contains(t, body.Grids, "cref")
	})

	t.Run("delete one key", func(t *testing.T) {
		rec := do(srv, http.MethodDelete, "/v1/cache/cref", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, store.Len())
	})

	t.Run("delete absent key is 404", func(t *testing.T) {
		rec := do(srv, http.MethodDelete, "/v1/cache/cref", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete everything", func(t *testing.T) {
		loadGrid(t, srv, "cref")
		rec := do(srv, http.MethodDelete, "/v1/cache", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]int
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body["cleared"])
		assert.Zero(t, store.Len())
	})
}
