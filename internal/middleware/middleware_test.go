package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type staticValidator struct {
	claims *models.JWTClaims
}

func (v staticValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return v.claims, nil
}

func protectedRouter(role models.UserRole, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := []gin.HandlerFunc{
		JWT(staticValidator{claims: &models.JWTClaims{UserID: "ops", Role: role}}),
		RBAC(models.RoleAdmin, models.RoleSuperAdmin),
	}
	chain = append(chain, handlers...)
	chain = append(chain, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.POST("/timetable/generate", chain...)
	return router
}

func serve(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/timetable/generate", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTAndRBAC(t *testing.T) {
	cases := []struct {
		name   string
		role   models.UserRole
		header string
		status int
	}{
		{name: "missing header", role: models.RoleAdmin, status: http.StatusUnauthorized},
		{name: "wrong scheme", role: models.RoleAdmin, header: "Basic abc", status: http.StatusUnauthorized},
		{name: "bad token", role: models.RoleAdmin, header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "viewer forbidden", role: models.RoleViewer, header: "Bearer good", status: http.StatusForbidden},
		{name: "admin allowed", role: models.RoleAdmin, header: "Bearer good", status: http.StatusNoContent},
		{name: "superadmin allowed", role: models.RoleSuperAdmin, header: "bearer good", status: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(protectedRouter(tc.role), tc.header)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRBACWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", RBAC(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuditLogsSuccessfulMutations(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := protectedRouter(models.RoleAdmin, Audit(zap.New(core), "generate", "timetable"))

	rec := serve(router, "Bearer good")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "generate", fields["action"])
	assert.Equal(t, "timetable", fields["resource"])
	assert.Equal(t, "ops", fields["actor"])
	assert.Equal(t, "ADMIN", fields["role"])

	serve(router, "Bearer nope")
	assert.Equal(t, 1, logs.Len())
}

func TestMetricsMiddlewareObservesRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	router := gin.New()
	router.Use(Metrics(metrics))
	router.GET("/timetable/:id", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/timetable/abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.RequestsTotal)
	assert.Greater(t, snapshot.AverageRequestDurationMs, 0.0)
}
