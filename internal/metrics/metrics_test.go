package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := New()

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/get-api", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, []string{}) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/get-api", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("/get-api", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("unmatched", "GET", "404")))
}

func TestObserveUpload(t *testing.T) {
	c := New()
	c.ObserveUpload("cloudinary", 20*time.Millisecond, nil)
	c.ObserveUpload("cloudinary", 5*time.Millisecond, errors.New("quota"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.uploads.WithLabelValues("cloudinary", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.uploads.WithLabelValues("cloudinary", "error")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	c := New()
	c.ObserveUpload("local", time.Millisecond, nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "media_uploads_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
