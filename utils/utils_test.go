package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cppla/fotos/config"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"  Farol  ":                        "Farol",
		"<b>Farol</b>":                     "Farol",
		"<script>alert(1)</script>Ponte":   "Ponte",
		"&lt;img src=x onerror=1&gt;Praia": "Praia",
		"Tom & Jerry":                      "Tom & Jerry",
		"Pôr do sol":                       "Pôr do sol",
		"a<b":                              "a<b",
		"1 < 2 e 3 > 2":                    "1 < 2 e 3 > 2",
		"Farol<script":                     "Farol<script",
		"":                                 "",
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Fatalf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ok", func(c *gin.Context) { Success(c, gin.H{"n": 1}) })
	r.GET("/fail", func(c *gin.Context) {
		Error(c, http.StatusBadRequest, 40001, "bad")
	}, func(c *gin.Context) {
		t.Errorf("handler chain continued after Error")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	var resp JSONResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK || resp.Code != 0 || resp.Message != "success" {
		t.Fatalf("success = %d %+v", w.Code, resp)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusBadRequest || resp.Code != 40001 || resp.Data != nil {
		t.Fatalf("error = %d %+v", w.Code, resp)
	}
}

func TestGinzapLogsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(RequestIDKey, "req-1"); c.Next() })
	r.Use(Ginzap(zap.New(core), "2006-01-02", true), RecoveryWithZap(zap.New(core), false))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/panic", func(c *gin.Context) { panic(errors.New("boom")) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok?x=1", nil))
	entries := logs.FilterMessage("/ok").All()
	if len(entries) != 1 {
		t.Fatalf("access log entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusNoContent) || fields["query"] != "x=1" || fields["request_id"] != "req-1" {
		t.Fatalf("fields = %v", fields)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("panic status = %d", w.Code)
	}
	if logs.FilterMessage("[Recovery from panic]").Len() != 1 {
		t.Fatalf("panic not logged")
	}
}

func TestRollingFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gin.log")
	logger, err := NewRollingFileLogger(path, "info", RotationConfig{})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("visible", zap.String("k", "v"))
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"msg":"visible"`) || strings.Contains(string(b), "hidden") {
		t.Fatalf("log file = %s", b)
	}

	nop, err := NewRollingFileLogger("", "info", RotationConfig{})
	if err != nil || nop == nil {
		t.Fatalf("empty path = %v, %v", nop, err)
	}
}

func TestInitLoggerReplacesGlobals(t *testing.T) {
	prev, prevSugar := Logger, Sugar
	t.Cleanup(func() { Logger, Sugar = prev, prevSugar })

	path := filepath.Join(t.TempDir(), "app.log")
	if err := InitLogger(config.AppConfig{LogLevel: "warn", LogPath: path}); err != nil {
		t.Fatal(err)
	}
	Logger.Info("skipped")
	Logger.Warn("kept")
	_ = Logger.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "kept") || strings.Contains(string(b), "skipped") {
		t.Fatalf("log file = %s", b)
	}
}

func TestMailHelpers(t *testing.T) {
	if MailConfigured(config.AppConfig{SMTPHost: "smtp", SMTPFrom: "a@b"}) {
		t.Fatalf("configured without recipient")
	}
	if !MailConfigured(config.AppConfig{SMTPHost: "smtp", SMTPFrom: "a@b", NotifyEmailTo: "c@d"}) {
		t.Fatalf("not configured")
	}
	if err := SendMail(config.AppConfig{}, "c@d", "s", "b"); err == nil {
		t.Fatalf("expected error without smtp host")
	}

	msg := string(buildMessage("Inventário", "a@b", "c@d", "Exposição terminou", "corpo"))
	if !strings.Contains(msg, "To: c@d\r\n") || !strings.Contains(msg, "=?UTF-8?b?") {
		t.Fatalf("headers = %q", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\ncorpo") {
		t.Fatalf("body = %q", msg)
	}
}
