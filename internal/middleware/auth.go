package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/permission"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" || os.Getenv("RENDER") != "" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	// access_token: 24h, path=/, domain="", secure, HttpOnly
	c.SetCookie("access_token", accessToken, 3600*24, "/", "", secure, true)
	// refresh_token: 7 days, path=/, domain="", secure, HttpOnly
	c.SetCookie("refresh_token", refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" || os.Getenv("RENDER") != "" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// authenticate parses the JWT from cookie or Authorization header and
// stores userID, userRole and businessID on the gin context. Returns
// false after writing the error response when the token is unusable.
func authenticate(c *gin.Context) bool {
	// Try cookie first, fallback to Authorization header
	tokenString, cookieErr := c.Cookie("access_token")
	if cookieErr != nil || tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return false
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
			return false
		}
		tokenString = parts[1]
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})

	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
		return false
	}

	userRole, ok := claims["role"].(string)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
		return false
	}

	c.Set("userID", claims["sub"])
	c.Set("userRole", userRole)
	if businessID, ok := claims["business_id"].(string); ok {
		c.Set("businessID", businessID)
	}
	return true
}

// RequireAuth validates the JWT without any role or permission check.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireRole validates the JWT and checks the user's role against allowedRoles
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}

		userRole := c.GetString("userRole")
		roleAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				roleAllowed = true
				break
			}
		}

		if !roleAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Next()
	}
}

// --- Permission-based middleware ---

// grantCacheEntry stores one user's cached grant set with TTL
type grantCacheEntry struct {
	grants    permission.Grants
	expiresAt time.Time
}

var (
	grantCache    sync.Map // userID -> grantCacheEntry
	grantCacheTTL = 5 * time.Minute
)

// permDB holds the database reference for grant queries — set via InitPermissionMiddleware
var permDB *gorm.DB

// InitPermissionMiddleware sets the DB reference for RequirePermission middleware
func InitPermissionMiddleware(db *gorm.DB) {
	permDB = db
}

// RequirePermission validates the JWT and checks the required permission
// against the catalog and the user's stored grants. ADMIN always passes;
// BUSINESS is checked against its fixed permission list; unknown roles
// and lookup failures are denied.
func RequirePermission(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}

		userRole := c.GetString("userRole")
		userID := c.GetString("userID")

		var grants permission.Grants
		if userRole == permission.RoleStaff || userRole == permission.RoleRider {
			var err error
			grants, err = getGrantsForUser(userID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to verify permissions"))
				return
			}
		}

		if !permission.HasExactPermission(userRole, grants, required) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: missing permission '"+required+"'"))
			return
		}

		c.Next()
	}
}

// RequireAnyPermission passes when the user holds at least one of perms.
func RequireAnyPermission(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}

		userRole := c.GetString("userRole")
		userID := c.GetString("userID")

		var grants permission.Grants
		if userRole == permission.RoleStaff || userRole == permission.RoleRider {
			var err error
			grants, err = getGrantsForUser(userID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to verify permissions"))
				return
			}
		}

		if !permission.HasAnyPermission(userRole, grants, perms) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Next()
	}
}

// getGrantsForUser returns cached or DB-fetched grants for a user ID
func getGrantsForUser(userID string) (permission.Grants, error) {
	if entry, ok := grantCache.Load(userID); ok {
		cached := entry.(grantCacheEntry)
		if time.Now().Before(cached.expiresAt) {
			return cached.grants, nil
		}
	}

	if permDB == nil {
		return nil, fmt.Errorf("permission middleware not initialized")
	}

	var perms []string
	err := permDB.Model(&model.UserPermission{}).
		Where("user_id = ?", userID).
		Pluck("permission", &perms).Error
	if err != nil {
		return nil, err
	}

	grants := permission.NewGrants(perms)
	grantCache.Store(userID, grantCacheEntry{
		grants:    grants,
		expiresAt: time.Now().Add(grantCacheTTL),
	})
	return grants, nil
}

// ClearGrantCache removes cached grants for a specific user (or all users if empty).
// Called after grant replacement so permission changes apply within the TTL.
func ClearGrantCache(userID string) {
	if userID == "" {
		grantCache.Range(func(key, _ interface{}) bool {
			grantCache.Delete(key)
			return true
		})
	} else {
		grantCache.Delete(userID)
	}
}
