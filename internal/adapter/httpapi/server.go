// Package httpapi exposes the tile server over HTTP: tile and point reads,
// load triggers, cache administration, and the health/metrics endpoints.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/msimp2/GaugeVsQPE/internal/domain"
	"github.com/msimp2/GaugeVsQPE/internal/ingest"
	"github.com/msimp2/GaugeVsQPE/internal/observability"
	"github.com/msimp2/GaugeVsQPE/internal/render"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// placeholderPNG is a 1x1 fully transparent tile served for keys with no
// grid loaded. Encoded once at startup.
var placeholderPNG = func() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

// Server exposes the tile API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	tiles      *render.Service
	loader     *ingest.Loader
	store      *domain.GridStore
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, tiles *render.Service, loader *ingest.Loader, store *domain.GridStore, ready ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		tiles:   tiles,
		loader:  loader,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /v1/tiles/{key}/{z}/{x}/{file}", s.handleTile)
	mux.HandleFunc("GET /v1/point", s.handlePoint)
	mux.HandleFunc("POST /v1/grids/{key}", s.handleLoadGrid)
	mux.HandleFunc("GET /v1/grids/{key}", s.handleGridInfo)
	mux.HandleFunc("GET /v1/cache/stats", s.handleCacheStats)
	mux.HandleFunc("DELETE /v1/cache/{key}", s.handleClearGrid)
	mux.HandleFunc("DELETE /v1/cache", s.handleClearAll)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		writeError(w, http.StatusNotFound, "tile paths end in .png")
		return
	}
	coord, err := parseTileCoord(r.PathValue("z"), r.PathValue("x"), name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, found, err := s.tiles.Tile(r.Context(), r.PathValue("key"), coord)
	if err != nil {
		s.logger.Error("tile render failed", "coord", coord.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	if !found {
		data = placeholderPNG
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck // client gone mid-write
}

func parseTileCoord(zs, xs, ys string) (render.TileCoord, error) {
	z, errZ := strconv.Atoi(zs)
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errZ != nil || errX != nil || errY != nil {
		return render.TileCoord{}, errors.New("tile coordinates must be integers")
	}
	coord := render.TileCoord{Z: z, X: x, Y: y}
	if !coord.Valid() {
		return render.TileCoord{}, errors.New("tile coordinates out of range")
	}
	return coord, nil
}

func (s *Server) handlePoint(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := q.Get("key")
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if key == "" || errLat != nil || errLon != nil {
		writeError(w, http.StatusBadRequest, "key, lat, and lon are required")
		return
	}

	v, gridFound, valueFound := s.tiles.Point(key, lat, lon)
	if !gridFound || !valueFound {
		s.metrics.PointQueries.WithLabelValues("empty").Inc()
		writeJSON(w, http.StatusOK, map[string]any{"value": nil})
		return
	}
	s.metrics.PointQueries.WithLabelValues("value").Inc()
	unit := ""
	if g, ok := s.store.Get(key); ok {
		unit = g.Param.Unit
	}
	writeJSON(w, http.StatusOK, map[string]any{"value": v, "unit": unit})
}

type loadRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleLoadGrid(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty path")
		return
	}

	key := r.PathValue("key")
	grid, err := s.loader.Load(r.Context(), req.Path, key)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrFileNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ingest.ErrNoMessages), errors.Is(err, ingest.ErrDecode):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, gridInfo(key, grid))
}

func (s *Server) handleGridInfo(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	grid, ok := s.store.Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "no grid loaded under key")
		return
	}
	writeJSON(w, http.StatusOK, gridInfo(key, grid))
}

func gridInfo(key string, g *domain.Grid) map[string]any {
	return map[string]any{
		"cache_key": key,
		"parameter": g.Param,
		"class":     g.Class.String(),
		"loaded_at": g.LoadedAt,
	}
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"grids": s.store.Stats(),
		"count": s.store.Len(),
	})
}

func (s *Server) handleClearGrid(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !s.loader.Clear(key) {
		writeError(w, http.StatusNotFound, "no grid loaded under key")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"cleared": key})
}

func (s *Server) handleClearAll(w http.ResponseWriter, _ *http.Request) {
	n := s.loader.ClearAll()
	writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
