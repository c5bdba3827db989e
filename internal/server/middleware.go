package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/hotelbill/internal/auth/domain"
	invoicedomain "github.com/smallbiznis/hotelbill/internal/invoice/domain"
	obscontext "github.com/smallbiznis/hotelbill/internal/observability/context"
)

const contextSessionKey = "session"

// AuthRequired resolves the session cookie (or bearer token) and stores the
// session on the gin context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextSessionKey, session)
		c.Request = c.Request.WithContext(obscontext.WithActor(c.Request.Context(), session.UserID, session.Role))
		c.Next()
	}
}

// authorize rejects the request unless the session role may perform action
// on object.
func (s *Server) authorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), session.UserID, session.Role, strings.TrimSpace(object), strings.TrimSpace(action)); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func sessionFromContext(c *gin.Context) (*authdomain.Session, bool) {
	if c == nil {
		return nil, false
	}
	raw, ok := c.Get(contextSessionKey)
	if !ok {
		return nil, false
	}
	session, ok := raw.(*authdomain.Session)
	if !ok || session == nil {
		return nil, false
	}
	return session, true
}

func identityFromSession(session *authdomain.Session) invoicedomain.Identity {
	if session == nil {
		return invoicedomain.Identity{}
	}
	return invoicedomain.Identity{
		UserID: session.UserID,
		Name:   session.DisplayName,
		Role:   session.Role,
	}
}
