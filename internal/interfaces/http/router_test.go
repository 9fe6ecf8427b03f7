package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/config"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

func TestSetupRoutes_ServesAPIDocs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := &Container{
		engine: gin.New(),
		cfg:    &config.Config{},
		log:    logger.NewNopLogger(),
		hdlrs:  &allHandlers{},
	}
	c.SetupRoutes()

	w := httptest.NewRecorder()
	c.GetEngine().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CFLOW Gestor API")
	assert.Contains(t, w.Body.String(), "/public/forms/{slug}/leads")
}
