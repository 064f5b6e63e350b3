package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/eugenenazirov/flow-layout/internal/arrange"
	"github.com/eugenenazirov/flow-layout/internal/flow"
	"github.com/eugenenazirov/flow-layout/internal/palette"
	"github.com/eugenenazirov/flow-layout/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const defaultMaxItems = 1000

// Handler wires the arrangement strategies and settings storage into HTTP handlers.
type Handler struct {
	storage storage.Storage

	clock       func() time.Time
	maxItems    int
	inlineFirst bool

	mu                sync.RWMutex
	settingsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMaxItems caps the number of sizes accepted by a single layout request.
// Non-positive values keep the default.
func WithMaxItems(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxItems = n
		}
	}
}

// WithInlineFirst keeps an oversized first flow item on the first row.
func WithInlineFirst(enabled bool) HandlerOption {
	return func(h *Handler) {
		h.inlineFirst = enabled
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage:  store,
		maxItems: defaultMaxItems,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.settingsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetAlgorithms(w http.ResponseWriter, r *http.Request) {
	_ = r
	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	all := arrange.All()
	names := make([]string, 0, len(all))
	for _, alg := range all {
		names = append(names, alg.String())
	}
	writeJSON(w, http.StatusOK, algorithmsResponse{
		Algorithms: names,
		Selected:   settings.Algorithm.String(),
	})
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	_ = r
	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.settingsPayload(settings, ""))
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	var alg arrange.Algorithm
	if req.Algorithm != nil {
		parsed, err := arrange.Parse(*req.Algorithm)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid settings", err.Error(), algorithmSuggestion())
			return
		}
		alg = parsed
	}

	stored, err := h.storage.UpdateSettings(func(settings *storage.Settings) {
		if req.Algorithm != nil {
			settings.Algorithm = alg
		}
		if req.Spacing != nil {
			settings.Spacing = *req.Spacing
		}
		if req.Radius != nil {
			settings.Radius = *req.Radius
		}
		if req.ItemCount != nil {
			settings.ItemCount = *req.ItemCount
		}
	})
	if err != nil {
		if errors.Is(err, storage.ErrInvalidSettings) {
			writeError(w, http.StatusBadRequest, "Invalid settings", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markSettingsUpdated()

	writeJSON(w, http.StatusOK, h.settingsPayload(stored, "Settings updated successfully"))
}

func (h *Handler) handleGetItems(w http.ResponseWriter, r *http.Request) {
	_ = r
	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: palette.Items(settings.ItemCount)})
}

func (h *Handler) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if !h.checkItemCount(w, len(req.Sizes)) {
		return
	}

	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	alg := settings.Algorithm
	if req.Algorithm != "" {
		alg, err = arrange.Parse(req.Algorithm)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error(), algorithmSuggestion())
			return
		}
	}

	opts := settings.Options()
	opts.InlineFirst = h.inlineFirst
	if req.Spacing != nil {
		opts.Spacing = *req.Spacing
	}

	start := time.Now()
	layout, err := arrange.New(alg, opts)
	if err != nil {
		writeLayoutError(w, err)
		return
	}
	result, err := layout.Arrange(req.Sizes, req.Container)
	elapsed := time.Since(start)
	if err != nil {
		writeLayoutError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		Algorithm:         alg.String(),
		Offsets:           result.Offsets,
		Size:              result.Size,
		CalculationTimeMs: elapsed.Milliseconds(),
	})
}

func (h *Handler) handleMeasure(w http.ResponseWriter, r *http.Request) {
	var req measureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if !h.checkItemCount(w, len(req.Sizes)) {
		return
	}

	result, ok := h.pack(w, req.Sizes, req.ContainerWidth, req.Spacing)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, measureResponse{Size: result.Size})
}

func (h *Handler) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if !h.checkItemCount(w, len(req.Sizes)) {
		return
	}

	result, ok := h.pack(w, req.Sizes, req.Bounds.Width, req.Spacing)
	if !ok {
		return
	}
	origin := flow.Point{X: req.Bounds.X, Y: req.Bounds.Y}
	writeJSON(w, http.StatusOK, placeResponse{
		Positions: flow.Translate(result.Offsets, origin),
		Size:      result.Size,
	})
}

// pack runs the validating flow packer, writing the error response itself
// when the input is rejected.
func (h *Handler) pack(w http.ResponseWriter, sizes []flow.Size, containerWidth float64, spacing *float64) (flow.Result, bool) {
	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return flow.Result{}, false
	}

	opts := flow.Options{Spacing: settings.Spacing, InlineFirst: h.inlineFirst}
	if spacing != nil {
		opts.Spacing = *spacing
	}

	packer, err := flow.New(opts)
	if err != nil {
		writeLayoutError(w, err)
		return flow.Result{}, false
	}
	result, err := packer.Pack(sizes, containerWidth)
	if err != nil {
		writeLayoutError(w, err)
		return flow.Result{}, false
	}
	return result, true
}

func (h *Handler) checkItemCount(w http.ResponseWriter, n int) bool {
	if n <= h.maxItems {
		return true
	}
	writeError(w, http.StatusUnprocessableEntity, "Too many items",
		fmt.Sprintf("request contains %d sizes, the limit is %d", n, h.maxItems),
		"Split the request or raise layout.max_items in the configuration")
	return false
}

func (h *Handler) settingsPayload(settings storage.Settings, message string) settingsResponse {
	return settingsResponse{
		Algorithm: settings.Algorithm.String(),
		Spacing:   settings.Spacing,
		Radius:    settings.Radius,
		ItemCount: settings.ItemCount,
		UpdatedAt: h.currentSettingsUpdatedAt(),
		Message:   message,
	}
}

func (h *Handler) currentSettingsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settingsUpdatedAt
}

func (h *Handler) markSettingsUpdated() {
	h.mu.Lock()
	h.settingsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func algorithmSuggestion() string {
	return fmt.Sprintf("Use one of %v", arrange.All())
}

type settingsRequest struct {
	Algorithm *string  `json:"algorithm"`
	Spacing   *float64 `json:"spacing"`
	Radius    *float64 `json:"radius"`
	ItemCount *int     `json:"itemCount"`
}

type settingsResponse struct {
	Algorithm string    `json:"algorithm"`
	Spacing   float64   `json:"spacing"`
	Radius    float64   `json:"radius"`
	ItemCount int       `json:"itemCount"`
	UpdatedAt time.Time `json:"updatedAt"`
	Message   string    `json:"message,omitempty"`
}

type algorithmsResponse struct {
	Algorithms []string `json:"algorithms"`
	Selected   string   `json:"selected"`
}

type itemsResponse struct {
	Items []palette.Item `json:"items"`
}

type layoutRequest struct {
	Sizes     []flow.Size `json:"sizes"`
	Container flow.Size   `json:"container"`
	Algorithm string      `json:"algorithm"`
	Spacing   *float64    `json:"spacing"`
}

type layoutResponse struct {
	Algorithm         string       `json:"algorithm"`
	Offsets           []flow.Point `json:"offsets"`
	Size              flow.Size    `json:"size"`
	CalculationTimeMs int64        `json:"calculationTimeMs"`
}

type measureRequest struct {
	Sizes          []flow.Size `json:"sizes"`
	ContainerWidth float64     `json:"containerWidth"`
	Spacing        *float64    `json:"spacing"`
}

type measureResponse struct {
	Size flow.Size `json:"size"`
}

type boundsPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type placeRequest struct {
	Sizes   []flow.Size   `json:"sizes"`
	Bounds  boundsPayload `json:"bounds"`
	Spacing *float64      `json:"spacing"`
}

type placeResponse struct {
	Positions []flow.Point `json:"positions"`
	Size      flow.Size    `json:"size"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeLayoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, flow.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Invalid layout input", err.Error())
	case errors.Is(err, arrange.ErrUnknownAlgorithm):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error(), algorithmSuggestion())
	default:
		writeInternalError(w, err)
	}
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
