package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SAP-F-2025/course-exam-service/internal/config"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTVerifier_RoundTrip(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := v.Issue(&Identity{UserID: "u-1", FullName: "Ada", Email: "ada@example.com", Role: models.RoleInstructor}, time.Hour)
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", identity.UserID)
	assert.Equal(t, "Ada", identity.FullName)
	assert.Equal(t, models.RoleInstructor, identity.Role)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := NewJWTVerifier("secret")
	ctx := context.Background()

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTVerifier("other").Issue(&Identity{UserID: "u-1"}, time.Hour)
		require.NoError(t, err)
		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := v.Issue(&Identity{UserID: "u-1"}, -time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Name: "nobody"}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"},
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTVerifier_UnknownRoleIsStudent(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "superuser",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-2"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, identity.Role)
}

type fakeCasdoorParser struct {
	claims *casdoorsdk.Claims
	err    error
}

func (f fakeCasdoorParser) ParseJwtToken(string) (*casdoorsdk.Claims, error) {
	return f.claims, f.err
}

func TestCasdoorVerifier(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		user     casdoorsdk.User
		wantRole models.UserRole
		wantName string
	}{
		{"admin", casdoorsdk.User{Id: "a", Name: "root", IsAdmin: true}, models.RoleAdmin, "root"},
		{"instructor tag", casdoorsdk.User{Id: "b", Name: "bob", DisplayName: "Bob", Tag: "instructor"}, models.RoleInstructor, "Bob"},
		{"plain user", casdoorsdk.User{Id: "c", Name: "cy"}, models.RoleStudent, "cy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &CasdoorVerifier{client: fakeCasdoorParser{claims: &casdoorsdk.Claims{User: tt.user}}}
			identity, err := v.Verify(ctx, "token")
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, identity.Role)
			assert.Equal(t, tt.wantName, identity.FullName)
		})
	}

	v := &CasdoorVerifier{client: fakeCasdoorParser{err: errors.New("bad signature")}}
	_, err := v.Verify(ctx, "token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewVerifier(t *testing.T) {
	v, err := NewVerifier(&config.Config{JWTSecret: "s", Auth: config.AuthConfig{Provider: "jwt"}})
	require.NoError(t, err)
	assert.IsType(t, &JWTVerifier{}, v)

	_, err = NewVerifier(&config.Config{Auth: config.AuthConfig{Provider: "casdoor"}})
	assert.Error(t, err)

	_, err = NewVerifier(&config.Config{Auth: config.AuthConfig{Provider: "ldap"}})
	assert.Error(t, err)
}

type recordingSyncer struct {
	synced []*Identity
}

func (r *recordingSyncer) SyncIdentity(_ context.Context, identity *Identity) error {
	r.synced = append(r.synced, identity)
	return nil
}

func TestAuthenticateAndRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := NewJWTVerifier("secret")
	syncer := &recordingSyncer{}

	router := gin.New()
	router.Use(Authenticate(v, syncer))
	router.GET("/me", func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "ctx_user_id": c.GetString(ContextKeyUserID)})
	})
	router.GET("/authoring", RequireRoles(models.RoleInstructor, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	studentToken, err := v.Issue(&Identity{UserID: "s-1", Role: models.RoleStudent}, time.Hour)
	require.NoError(t, err)
	instructorToken, err := v.Issue(&Identity{UserID: "i-1", Role: models.RoleInstructor}, time.Hour)
	require.NoError(t, err)

	do := func(path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Bearer not-a-jwt").Code)

	w := do("/me", "Bearer "+studentToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"s-1","ctx_user_id":"s-1"}`, w.Body.String())
	require.Len(t, syncer.synced, 1)

	assert.Equal(t, http.StatusForbidden, do("/authoring", "Bearer "+studentToken).Code)
	assert.Equal(t, http.StatusNoContent, do("/authoring", "bearer "+instructorToken).Code)
}
