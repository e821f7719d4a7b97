package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/station-report/internal/application/port"
	"github.com/garyjia/station-report/internal/application/service"
	"github.com/garyjia/station-report/internal/domain/report"
	"github.com/garyjia/station-report/internal/domain/station"
	"github.com/garyjia/station-report/internal/infrastructure/external/clipboard"
	"github.com/garyjia/station-report/internal/infrastructure/persistence/memory"
	"github.com/garyjia/station-report/internal/observability"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type testEnv struct {
	server *Server
	store  *memory.Store
	sink   *clipboard.MemorySink
}

func newTestEnv(t *testing.T, health HealthFunc) *testEnv {
	t.Helper()

	sink := clipboard.NewMemorySink()
	env := newTestEnvWithSink(t, sink, health)
	env.sink = sink
	return env
}

func newTestEnvWithSink(t *testing.T, sink port.ClipboardSink, health HealthFunc) *testEnv {
	t.Helper()

	store := memory.NewStore()
	logger := nopLogger{}

	resolver := service.NewStationResolver(store, []string{"北京站", "天津站"}, logger)
	exporter := service.NewClipboardExporter(sink, logger)
	metrics := observability.NewMetrics()
	reports := service.NewReportService(resolver, exporter,
		report.NewDateTimeFormatter(time.FixedZone("CST", 8*3600)), metrics, logger)

	cfg := DefaultServerConfig()
	cfg.MetricsHandler = metrics.Handler()

	return &testEnv{
		server: NewServer(cfg, resolver, reports, health, logger),
		store:  store,
	}
}

// serve runs one request without touching t, so it is safe off the test goroutine
func (e *testEnv) serve(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (int, Response) {
	t.Helper()

	rec := e.serve(method, path, body)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func dataMap(t *testing.T, resp Response) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", resp.Data)
	return m
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, nil)
	code, resp := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", dataMap(t, resp)["status"])

	degraded := newTestEnv(t, func(ctx context.Context) (bool, interface{}) {
		return false, map[string]string{"database": "down"}
	})
	code, resp = degraded.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, resp.Success)
	assert.Equal(t, "degraded", dataMap(t, resp)["status"])
}

func TestListKinds(t *testing.T) {
	env := newTestEnv(t, nil)
	code, resp := env.do(t, http.MethodGet, "/api/report/kinds", nil)
	require.Equal(t, http.StatusOK, code)

	kinds, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, kinds, 3)

	first := kinds[0].(map[string]interface{})
	assert.Equal(t, "equipment", first["kind"])
	assert.Len(t, first["sections"], 9)
}

func TestReportFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	code, resp := env.do(t, http.MethodPut, "/api/station", obj{"origin": "select", "value": "北京站"})
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, "北京站", dataMap(t, resp)["effective"])

	code, resp = env.do(t, http.MethodPost, "/api/report/type", obj{"kind": "equipment"})
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, "TYPE_SELECTED", dataMap(t, resp)["state"])

	code, resp = env.do(t, http.MethodPost, "/api/report/generate", map[string]interface{}{
		"fields": map[string]string{
			"time":          "2024-03-15T08:30",
			"equipmentName": "闸机",
		},
	})
	require.Equal(t, http.StatusOK, code, resp.Error)
	preview := dataMap(t, resp)["preview"].(string)
	assert.Contains(t, preview, "北京站站报(设备故障)：")
	assert.Contains(t, preview, "一、发生时间：2024年03月15日 08:30")
	assert.Contains(t, preview, "三、故障设备：闸机")

	code, resp = env.do(t, http.MethodPost, "/api/report/copy", nil)
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, "COPIED", dataMap(t, resp)["state"])
	assert.Equal(t, false, dataMap(t, resp)["stale"])
	assert.Equal(t, preview, env.sink.Text())

	code, resp = env.do(t, http.MethodGet, "/api/report/preview", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, preview, dataMap(t, resp)["preview"])
}

func TestPreconditions(t *testing.T) {
	env := newTestEnv(t, nil)

	code, resp := env.do(t, http.MethodPost, "/api/report/generate", obj{})
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, resp.Error, "report type not selected")

	code, _ = env.do(t, http.MethodPost, "/api/report/copy", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = env.do(t, http.MethodPost, "/api/report/type", obj{"kind": "inspection"})
	require.Equal(t, http.StatusOK, code)

	code, resp = env.do(t, http.MethodPost, "/api/report/generate", obj{})
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, resp.Error, "station name is empty")
}

func TestSelectReportType_UnknownKind(t *testing.T) {
	env := newTestEnv(t, nil)

	code, resp := env.do(t, http.MethodPost, "/api/report/type", obj{"kind": "weather"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Success)

	code, _ = env.do(t, http.MethodPost, "/api/report/type", obj{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCopyReport_Denied(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodPut, "/api/station", obj{"origin": "select", "value": "天津站"})
	env.do(t, http.MethodPost, "/api/report/type", obj{"kind": "emergency"})
	code, _ := env.do(t, http.MethodPost, "/api/report/generate", obj{"fields": obj{"type": "大客流"}})
	require.Equal(t, http.StatusOK, code)

	env.sink.Deny = errors.New("permission denied")

	code, resp := env.do(t, http.MethodPost, "/api/report/copy", nil)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, resp.Error, "permission denied")

	_, resp = env.do(t, http.MethodGet, "/api/report/preview", nil)
	assert.Equal(t, "PREVIEWED", dataMap(t, resp)["state"])
}

// gatedSink holds every write until release is closed
type gatedSink struct {
	entered chan string
	release chan struct{}
}

func (g *gatedSink) WriteText(ctx context.Context, text string) error {
	g.entered <- text
	<-g.release
	return nil
}

func TestCopyReport_DoesNotBlockOtherRequests(t *testing.T) {
	sink := &gatedSink{entered: make(chan string, 2), release: make(chan struct{})}
	env := newTestEnvWithSink(t, sink, nil)

	env.do(t, http.MethodPut, "/api/station", obj{"origin": "select", "value": "北京站"})
	env.do(t, http.MethodPost, "/api/report/type", obj{"kind": "equipment"})
	code, resp := env.do(t, http.MethodPost, "/api/report/generate", obj{"fields": obj{"location": "站厅"}})
	require.Equal(t, http.StatusOK, code, resp.Error)
	preview := dataMap(t, resp)["preview"].(string)

	copyDone := make(chan *httptest.ResponseRecorder, 1)
	go func() { copyDone <- env.serve(http.MethodPost, "/api/report/copy", nil) }()

	select {
	case text := <-sink.entered:
		assert.Equal(t, preview, text)
	case <-time.After(2 * time.Second):
		t.Fatal("copy never reached the sink")
	}

	selectDone := make(chan *httptest.ResponseRecorder, 1)
	go func() { selectDone <- env.serve(http.MethodPost, "/api/report/type", obj{"kind": "inspection"}) }()

	select {
	case rec := <-selectDone:
		assert.Equal(t, http.StatusOK, rec.Code)
	case <-time.After(2 * time.Second):
		close(sink.release)
		t.Fatal("selecting a report type waited for the pending clipboard write")
	}

	close(sink.release)

	var rec *httptest.ResponseRecorder
	select {
	case rec = <-copyDone:
	case <-time.After(2 * time.Second):
		t.Fatal("copy did not finish after the sink was released")
	}
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var copyResp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &copyResp))
	data := dataMap(t, copyResp)
	assert.Equal(t, true, data["stale"])
	assert.Equal(t, preview, data["copied"])
	assert.Equal(t, "TYPE_SELECTED", data["state"], "a late copy must not mark the new selection as copied")
	assert.Equal(t, "inspection", data["kind"])
}

func TestStationManualEntry(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	code, resp := env.do(t, http.MethodPost, "/api/station/origin", obj{"origin": "manual"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, dataMap(t, resp)["request_focus"])

	code, resp = env.do(t, http.MethodPut, "/api/station", obj{"origin": "manual", "value": " 临时站 "})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "临时站", dataMap(t, resp)["effective"])

	value, ok, err := env.store.Get(ctx, station.KeyName)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "临时站", value)

	origin, _, _ := env.store.Get(ctx, station.KeyOrigin)
	assert.Equal(t, "manual", origin)
}

func TestStationBlur_EmptyRevertsToSelect(t *testing.T) {
	env := newTestEnv(t, nil)

	env.do(t, http.MethodPost, "/api/station/origin", obj{"origin": "manual"})
	code, resp := env.do(t, http.MethodPost, "/api/station/blur", nil)
	require.Equal(t, http.StatusOK, code)

	data := dataMap(t, resp)
	assert.Equal(t, "select", data["origin"])
	assert.Equal(t, "", data["effective"])
	assert.Equal(t, 0, env.store.Puts())
}

func TestUpdateStation_InvalidOrigin(t *testing.T) {
	env := newTestEnv(t, nil)

	code, _ := env.do(t, http.MethodPut, "/api/station", obj{"origin": "guess", "value": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(t, http.MethodPost, "/api/station/origin", obj{"origin": "guess"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{report.ErrNoKindSelected, http.StatusConflict},
		{report.ErrEmptyStation, http.StatusConflict},
		{report.ErrNothingToCopy, http.StatusConflict},
		{report.ErrUnknownKind, http.StatusBadRequest},
		{&report.ClipboardDeniedError{Cause: errors.New("x")}, http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodPut, "/api/station", obj{"origin": "select", "value": "北京站"})
	env.do(t, http.MethodPost, "/api/report/type", obj{"kind": "inspection"})
	env.do(t, http.MethodPost, "/api/report/generate", obj{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `station_report_reports_generated_total{kind="inspection"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/report/generate", nil)
	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// obj is a short JSON object literal for request bodies
type obj map[string]interface{}
