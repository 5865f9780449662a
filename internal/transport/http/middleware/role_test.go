package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	jwtinfra "github.com/restaurant-api-nosql/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
)

func reqWithClaims(claims *jwtinfra.Claims) *http.Request {
	ctx := context.WithValue(context.Background(), ClaimsKey, claims)
	return httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
}

func TestRequireStaff_NoClaimsInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	RequireStaff(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireStaff_CustomerForbidden(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireStaff(http.HandlerFunc(okHandler)).ServeHTTP(rr, reqWithClaims(&jwtinfra.Claims{Role: "customer"}))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireStaff_StaffAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireStaff(http.HandlerFunc(okHandler)).ServeHTTP(rr, reqWithClaims(&jwtinfra.Claims{Role: "staff"}))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireStaff_SuperAdminAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireStaff(http.HandlerFunc(okHandler)).ServeHTTP(rr, reqWithClaims(&jwtinfra.Claims{IsSuperAdmin: true}))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireSuperAdmin_StaffForbidden(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireSuperAdmin(http.HandlerFunc(okHandler)).ServeHTTP(rr, reqWithClaims(&jwtinfra.Claims{Role: "staff"}))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireSuperAdmin_Allowed(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireSuperAdmin(http.HandlerFunc(okHandler)).ServeHTTP(rr, reqWithClaims(&jwtinfra.Claims{IsSuperAdmin: true}))
	assert.Equal(t, http.StatusOK, rr.Code)
}
