package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000", "https://shop.example.com"}, gecho.NewDefaultLogger()))
	r.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_RejectedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}, gecho.NewDefaultLogger()))
	r.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}, nil))
	called := false
	r.OPTIONS("/products", func(c *gin.Context) { called = true })

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, called)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRequestLogger_RecoversPanic(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(gecho.NewDefaultLogger()))
	r.GET("/boom", func(c *gin.Context) { panic("secret database password") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(gecho.NewDefaultLogger()))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fine", w.Body.String())
}

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest(http.MethodGet, "/products/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/products/2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "catalog_http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			var path string
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "path" {
					path = lp.GetValue()
				}
			}
			counts[path] += metric.GetCounter().GetValue()
		}
	}

	assert.Equal(t, float64(2), counts["/products/:id"])
	assert.Equal(t, float64(1), counts["unmatched"])
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/echo", func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, string(b))
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "short", w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("far too long for the limit")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestLogArgs(t *testing.T) {
	r := gin.New()
	var args []any
	r.GET("/products/:id", func(c *gin.Context) {
		args = logArgs("Request handled", c, time.Now(), gecho.Field("error", "boom"))
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/products/1", nil))

	require.NotEmpty(t, args)
	assert.Equal(t, "Request handled", args[0])
	assert.Equal(t, gecho.Field("error", "boom"), args[len(args)-1])
	assert.Contains(t, args, gecho.Field("path", "/products/1"))
}

func TestRequestLogger_LogsRejectedAndFailedRequests(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(gecho.NewDefaultLogger()))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) {
		_ = c.Error(errors.New("db down"))
		c.Status(http.StatusInternalServerError)
	})

	assert.Equal(t, http.StatusNotFound, serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil)).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(r, httptest.NewRequest(http.MethodGet, "/broken", nil)).Code)
}
