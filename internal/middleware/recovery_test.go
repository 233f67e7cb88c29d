package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRecoveryRouter(logger *zap.SugaredLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery(logger))
	r.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestRecovery(t *testing.T) {
	t.Run("recovers from panic", func(t *testing.T) {
		logger, logs := observedLogger()
		router := setupRecoveryRouter(logger)

		w := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "panic recovered", entry.Message)
		assert.Equal(t, w.Header().Get(RequestIDHeader), entry.ContextMap()["request_id"])
	})

	t.Run("normal request works", func(t *testing.T) {
		logger, logs := observedLogger()
		router := setupRecoveryRouter(logger)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, logs.Len())
	})
}
