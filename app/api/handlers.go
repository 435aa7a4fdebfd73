package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/mf-obj/app/mf"
	"github.com/lysyi3m/mf-obj/app/resolve"
)

func NewHandler(resolver ResolverInterface, sites SiteRulesInterface, version string) *Handler {
	return &Handler{
		resolver: resolver,
		sites:    sites,
		version:  version,
	}
}

func (h *Handler) GetEntry(c *gin.Context) {
	target, ok := targetURL(c)
	if !ok {
		return
	}

	strategies := h.sites.EntryStrategies(target)
	if names := c.Query("strategy"); names != "" {
		var err error
		if strategies, err = resolve.ParseStrategies(strings.Split(names, ",")); err != nil {
			badRequest(c, err)
			return
		}
	}

	entry, err := h.resolver.GetEntry(c.Request.Context(), target, strategies...)
	if err != nil {
		respondError(c, "get_entry", target, err)
		return
	}

	data, err := entry.Serialize()
	if err != nil {
		respondError(c, "serialize_entry", target, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *Handler) GetEvent(c *gin.Context) {
	target, ok := targetURL(c)
	if !ok {
		return
	}

	event, err := h.resolver.GetEvent(c.Request.Context(), target)
	if err != nil {
		respondError(c, "get_event", target, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *Handler) GetCard(c *gin.Context) {
	target, ok := targetURL(c)
	if !ok {
		return
	}

	card, err := h.resolver.GetCard(c.Request.Context(), target)
	if err != nil {
		respondError(c, "get_card", target, err)
		return
	}

	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Card not found",
			"message": "No h-card on the page could be confirmed as its owner",
		})
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *Handler) GetFeed(c *gin.Context) {
	target, ok := targetURL(c)
	if !ok {
		return
	}

	strategies := h.sites.FeedStrategies(target)
	if names := c.Query("strategy"); names != "" {
		var err error
		if strategies, err = resolve.ParseFeedStrategies(strings.Split(names, ",")); err != nil {
			badRequest(c, err)
			return
		}
	}

	feed, err := h.resolver.GetFeed(c.Request.Context(), target, strategies...)
	if err != nil {
		respondError(c, "get_feed", target, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *Handler) GetThread(c *gin.Context) {
	target, ok := targetURL(c)
	if !ok {
		return
	}

	thread, err := h.resolver.GetThread(c.Request.Context(), target)
	if err != nil {
		respondError(c, "get_thread", target, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     target,
		"count":   len(thread),
		"entries": thread,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"version":           h.version,
		"loaded_site_rules": h.sites.GetConfigCount(),
	})
}

// targetURL reads the url query parameter, answering 400 unless it is an absolute http(s) address.
func targetURL(c *gin.Context) (string, bool) {
	target := c.Query("url")
	if target == "" {
		badRequest(c, errors.New("url parameter is required"))
		return "", false
	}

	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		badRequest(c, fmt.Errorf("invalid url %q", target))
		return "", false
	}

	return target, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Bad request",
		"message": err.Error(),
	})
}

func respondError(c *gin.Context, operation, target string, err error) {
	status := statusFor(err)
	slog.Error("Resolve error", "operation", operation, "url", target, "status", status,
		"request_id", c.GetString(requestIDKey), "error", err)

	c.JSON(status, gin.H{
		"error":   http.StatusText(status),
		"message": err.Error(),
	})
}

// statusFor maps engine errors onto response codes. Strategy failures are
// checked first since a chain may wrap an upstream status error.
func statusFor(err error) int {
	var strategiesErr *resolve.StrategiesError
	var mismatchErr *mf.TypeMismatchError

	switch {
	case errors.As(err, &strategiesErr), errors.As(err, &mismatchErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, resolve.ErrNoEvent), errors.Is(err, resolve.ErrMultipleEvents):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		// upstream status and transport failures
		return http.StatusBadGateway
	}
}
