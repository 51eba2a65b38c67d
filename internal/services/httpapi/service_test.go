package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fgeck/wolgate/internal/models"
	"github.com/fgeck/wolgate/internal/services/wol"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWakerService struct {
	wakeFunc func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error)
}

func (m *mockWakerService) Wake(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
	if m.wakeFunc != nil {
		return m.wakeFunc(ctx, req)
	}
	return &models.WakeResult{
		MACAddress: "00:11:22:33:44:55",
		Options:    models.SendOptions{Address: "255.255.255.255", Port: 9},
		Report:     models.SendReport{Results: []models.SendResult{{Success: true}}},
	}, nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testConfig() models.Config {
	return models.Config{
		Server: models.ServerConfig{Listen: ":0", CORSOrigins: []string{"*"}},
		WOL: models.WOLConfig{
			MACAddress:       "aa:bb:cc:dd:ee:ff",
			BroadcastAddress: "255.255.255.255",
			Port:             9,
		},
	}
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) wakeResponse {
	t.Helper()
	var resp wakeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWakeup_Success(t *testing.T) {
	var captured models.WakeRequest
	wakerSvc := &mockWakerService{
		wakeFunc: func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
			captured = req
			return &models.WakeResult{
				MACAddress: "00:11:22:33:44:55",
				Options:    models.SendOptions{Address: "192.168.1.255", Port: 7},
				Report:     models.SendReport{Results: []models.SendResult{{Success: true}}},
			}, nil
		},
	}
	h := New(testLogger(), testConfig(), wakerSvc).Handler()

	rec := doRequest(t, h, http.MethodPost, "/wakeup",
		`{"macAddress":"00:11:22:33:44:55","broadcastAddress":"192.168.1.255","port":7,"interfaceAddress":"192.168.1.2"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "00:11:22:33:44:55", resp.MACAddress)
	assert.Equal(t, "192.168.1.255:7", resp.Destination)
	require.Len(t, resp.Attempts, 1)
	assert.True(t, resp.Attempts[0].Success)

	assert.Equal(t, models.WakeRequest{
		MACAddress: "00:11:22:33:44:55",
		Address:    "192.168.1.255",
		Port:       7,
		Interface:  "192.168.1.2",
	}, captured)
}

func TestWakeup_EmptyBodyUsesDefaults(t *testing.T) {
	var captured models.WakeRequest
	wakerSvc := &mockWakerService{
		wakeFunc: func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
			captured = req
			return &models.WakeResult{
				MACAddress: "aa:bb:cc:dd:ee:ff",
				Report:     models.SendReport{Results: []models.SendResult{{Success: true}}},
			}, nil
		},
	}
	h := New(testLogger(), testConfig(), wakerSvc).Handler()

	rec := doRequest(t, h, http.MethodPost, "/wakeup", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.WakeRequest{}, captured)
}

func TestWakeup_InvalidAddress(t *testing.T) {
	wakerSvc := &mockWakerService{
		wakeFunc: func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
			return nil, fmt.Errorf("%w %q", wol.ErrInvalidAddress, req.MACAddress)
		},
	}
	h := New(testLogger(), testConfig(), wakerSvc).Handler()

	rec := doRequest(t, h, http.MethodPost, "/wakeup", `{"macAddress":"not-a-mac"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "invalid MAC address")
}

func TestWakeup_MissingAddress(t *testing.T) {
	wakerSvc := &mockWakerService{
		wakeFunc: func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
			return nil, wol.ErrMissingAddress
		},
	}
	h := New(testLogger(), testConfig(), wakerSvc).Handler()

	rec := doRequest(t, h, http.MethodPost, "/wakeup", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "no MAC address")
}

func TestWakeup_MalformedJSON(t *testing.T) {
	called := false
	wakerSvc := &mockWakerService{
		wakeFunc: func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
			called = true
			return nil, nil
		},
	}
	h := New(testLogger(), testConfig(), wakerSvc).Handler()

	rec := doRequest(t, h, http.MethodPost, "/wakeup", `{"macAddress":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "invalid JSON body")
	assert.False(t, called)
}

func TestWakeup_InvalidPort(t *testing.T) {
	h := New(testLogger(), testConfig(), &mockWakerService{}).Handler()

	rec := doRequest(t, h, http.MethodPost, "/wakeup", `{"port":70000}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "invalid port")
}

func TestWakeup_TotalFailure(t *testing.T) {
	wakerSvc := &mockWakerService{
		wakeFunc: func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
			return &models.WakeResult{
				MACAddress: "00:11:22:33:44:55",
				Report: models.SendReport{Results: []models.SendResult{
					{InterfaceName: "eth0", InterfaceAddress: "10.0.0.1", Error: errors.New("bind failed")},
					{InterfaceName: "eth1", InterfaceAddress: "10.0.0.2", Error: errors.New("network unreachable")},
				}},
			}, nil
		},
	}
	h := New(testLogger(), testConfig(), wakerSvc).Handler()

	rec := doRequest(t, h, http.MethodPost, "/wakeup", `{"useAllInterfaces":true}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	require.Len(t, resp.Attempts, 2)
	assert.Equal(t, "eth0", resp.Attempts[0].Interface)
	assert.Equal(t, "bind failed", resp.Attempts[0].Error)
	assert.Equal(t, "network unreachable", resp.Attempts[1].Error)
}

func TestWakeup_PartialFailureIsSuccess(t *testing.T) {
	var captured models.WakeRequest
	wakerSvc := &mockWakerService{
		wakeFunc: func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
			captured = req
			return &models.WakeResult{
				MACAddress: "aa:bb:cc:dd:ee:ff",
				Report: models.SendReport{Results: []models.SendResult{
					{InterfaceName: "eth0", Error: errors.New("bind failed")},
					{InterfaceName: "eth1", Success: true},
				}},
			}, nil
		},
	}
	h := New(testLogger(), testConfig(), wakerSvc).Handler()

	rec := doRequest(t, h, http.MethodPost, "/wakeup", `{"macAddress":"AA-BB-CC-DD-EE-FF","useAllInterfaces":true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, captured.AllInterfaces)
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Attempts, 2)
}

func TestWakeup_NoInterfaces(t *testing.T) {
	wakerSvc := &mockWakerService{
		wakeFunc: func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
			return &models.WakeResult{MACAddress: "aa:bb:cc:dd:ee:ff"}, nil
		},
	}
	h := New(testLogger(), testConfig(), wakerSvc).Handler()

	rec := doRequest(t, h, http.MethodPost, "/wakeup", `{"useAllInterfaces":true}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "No usable network interface")
}

func TestWakeup_UnexpectedError(t *testing.T) {
	wakerSvc := &mockWakerService{
		wakeFunc: func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
			return nil, errors.New("too many open files")
		},
	}
	h := New(testLogger(), testConfig(), wakerSvc).Handler()

	rec := doRequest(t, h, http.MethodPost, "/wakeup", `{}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWakeup_WrongMethod(t *testing.T) {
	h := New(testLogger(), testConfig(), &mockWakerService{}).Handler()

	rec := doRequest(t, h, http.MethodGet, "/wakeup", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestIndex(t *testing.T) {
	h := New(testLogger(), testConfig(), &mockWakerService{}).Handler()

	rec := doRequest(t, h, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "aa:bb:cc:dd:ee:ff (default)")
	assert.Contains(t, rec.Body.String(), "/wakeup")
}

func TestIndex_UnknownPath(t *testing.T) {
	h := New(testLogger(), testConfig(), &mockWakerService{}).Handler()

	rec := doRequest(t, h, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	h := New(testLogger(), testConfig(), &mockWakerService{}).Handler()

	rec := doRequest(t, h, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetrics(t *testing.T) {
	h := New(testLogger(), testConfig(), &mockWakerService{}).Handler()

	rec := doRequest(t, h, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wolgate_interfaces_dispatched_total")
}

func TestCORS_AllowAll(t *testing.T) {
	h := New(testLogger(), testConfig(), &mockWakerService{}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/wakeup", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_Restricted(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CORSOrigins = []string{"https://home.example.com"}
	h := New(testLogger(), cfg, &mockWakerService{}).Handler()

	allowed := httptest.NewRequest(http.MethodPost, "/wakeup", strings.NewReader(`{}`))
	allowed.Header.Set("Origin", "https://home.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, allowed)
	assert.Equal(t, "https://home.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	denied := httptest.NewRequest(http.MethodPost, "/wakeup", strings.NewReader(`{}`))
	denied.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, denied)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServe_ShutsDownOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Listen = "127.0.0.1:0"
	srv := New(testLogger(), cfg, &mockWakerService{})

	ctx, cancel := context.WithCancel(context.Background())
	errC := make(chan error, 1)
	go func() { errC <- srv.ListenAndServe(ctx) }()

	cancel()
	assert.NoError(t, <-errC)
}
