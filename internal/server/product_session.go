package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/storefront/internal/observability/context"
	"go.uber.org/zap"
)

// viewerCookie carries the browser-scoped session key a viewer identity is
// minted from. It is not the viewer ID itself.
const (
	viewerCookie       = "sf_viewer"
	viewerCookieMaxAge = 60 * 60 * 24 * 365
)

type openSessionRequest struct {
	ProductID string `json:"product_id"`
}

type selectOptionRequest struct {
	OptionID string `json:"option_id"`
}

func (s *Server) OpenProductSession(c *gin.Context) {
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		AbortWithError(c, newValidationError("product_id", "required", "product_id is required"))
		return
	}

	sessionKey := s.viewerSessionKey(c)

	view, err := s.sessionSvc.Open(c.Request.Context(), sessionKey, req.ProductID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Request = c.Request.WithContext(obscontext.WithViewerID(c.Request.Context(), view.ViewerID))
	s.log.Debug("product session opened",
		zap.String("session_id", view.SessionID),
		zap.String("product_id", view.ProductID),
	)
	c.JSON(http.StatusCreated, view)
}

func (s *Server) GetProductSession(c *gin.Context) {
	view, err := s.sessionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) SelectPricingOption(c *gin.Context) {
	var req selectOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.OptionID) == "" {
		AbortWithError(c, newValidationError("option_id", "required", "option_id is required"))
		return
	}

	view, err := s.sessionSvc.Select(c.Request.Context(), c.Param("id"), req.OptionID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) AddToCart(c *gin.Context) {
	view, err := s.sessionSvc.AddToCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) BuyNow(c *gin.Context) {
	view, err := s.sessionSvc.BuyNow(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) GetPresence(c *gin.Context) {
	snapshot, err := s.sessionSvc.Presence(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) CloseProductSession(c *gin.Context) {
	if err := s.sessionSvc.Close(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// viewerSessionKey reads the viewer cookie, minting and setting one when the
// request carries none. The same key always resolves to the same viewer ID.
func (s *Server) viewerSessionKey(c *gin.Context) string {
	if key, err := c.Cookie(viewerCookie); err == nil && key != "" {
		return key
	}
	key := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(viewerCookie, key, viewerCookieMaxAge, "/", "", false, true)
	return key
}
