package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

func (s *HTTPServer) signIn(c *gin.Context) {
	state, err := common.MakeRandHexString(16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	verifier := oauth2.GenerateVerifier()

	s.setCookie(c, stateCookieName, state, flowCookieTTL)
	s.setCookie(c, pkceCookieName, verifier, flowCookieTTL)

	c.Redirect(http.StatusFound, s.provider.AuthCodeURL(state, verifier))
}

func (s *HTTPServer) callback(c *gin.Context) {
	ctx := c.Request.Context()

	state := c.Query("state")
	if state == "" || state != cookieValue(c, stateCookieName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}
	verifier := cookieValue(c, pkceCookieName)
	code := c.Query("code")
	if verifier == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	s.clearCookie(c, stateCookieName)
	s.clearCookie(c, pkceCookieName)

	identity, err := s.provider.Exchange(ctx, code, verifier)
	if err != nil {
		s.logger.Warn(ctx, "provider exchange failed", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	token, err := s.auth.SignIn(ctx, identity)
	if err != nil {
		if errors.Is(err, common.ErrSignInDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": common.ErrSignInDenied.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	s.setCookie(c, common.SessionCookieName, token, s.opts.SessionTTL)
	c.Redirect(http.StatusFound, s.opts.AfterSignIn)
}

// session answers with the enriched session, or an empty object when the
// caller is not signed in.
func (s *HTTPServer) session(c *gin.Context) {
	token := sessionToken(c)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	sess, err := s.auth.Session(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, sess.AsMap())
}

func (s *HTTPServer) signOut(c *gin.Context) {
	s.clearCookie(c, common.SessionCookieName)
	c.JSON(http.StatusOK, gin.H{})
}
