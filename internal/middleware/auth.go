package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/healthchain-api/internal/models"
	"github.com/harentsoaR/healthchain-api/internal/session"
	"github.com/harentsoaR/healthchain-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	ctxPrincipalID = "principalID"
	ctxSession     = "session"

	PatientLoginPage = "/static/login.html"
	DoctorLoginPage  = "/static/doctors_login.html"
)

// Authenticator resolves a cookie value into a live session.
type Authenticator interface {
	Resolve(ctx context.Context, kind models.PrincipalKind, token string) (*models.Session, error)
}

// publicPrefixes are reachable without a session.
var publicPrefixes = []string{
	"/static",
	"/api/register",
	"/api/login",
	"/health",
	"/api/debug",
	"/login.html",
	"/api/doctors/register",
	"/api/doctors/login",
	"/api/doctors/logout",
	"/api/doctors/session",
}

// IsPublic reports whether path skips the session check.
func IsPublic(path string) bool {
	if path == "/" {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// KindForPath returns the principal kind a path requires. Only sub-paths of
// /api/doctors/ belong to doctors; the doctor directory itself is for
// patients.
func KindForPath(path string) models.PrincipalKind {
	if strings.HasPrefix(path, "/api/doctors/") {
		return models.KindDoctor
	}
	return models.KindPatient
}

// Gate rejects requests without a session of the kind their path requires.
func Gate(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if IsPublic(path) {
			c.Next()
			return
		}

		kind := KindForPath(path)
		token, _ := c.Cookie(session.CookieName(kind))
		s, err := auth.Resolve(c.Request.Context(), kind, token)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				logger.Error("session lookup failed", zap.String("path", path), zap.Error(err))
			}
			deny(c, path, kind)
			return
		}

		SetPrincipal(c, s)
		c.Next()
	}
}

func deny(c *gin.Context, path string, kind models.PrincipalKind) {
	if strings.HasPrefix(path, "/api/") {
		utils.SendError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Unauthorized")
		return
	}
	target := PatientLoginPage
	if kind == models.KindDoctor {
		target = DoctorLoginPage
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// PrincipalID returns the id of the authenticated patient or doctor.
func PrincipalID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(ctxPrincipalID)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}

// Session returns the session attached by Gate.
func Session(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*models.Session)
	return s, ok
}

// SetPrincipal attaches a resolved session to the request context. Handlers on
// public paths use it after resolving the cookie themselves.
func SetPrincipal(c *gin.Context, s *models.Session) {
	c.Set(ctxPrincipalID, s.PrincipalID)
	c.Set(ctxSession, s)
}
