package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qluke/genshin-builds/internal/domain"
	"github.com/qluke/genshin-builds/internal/materials"
	"github.com/qluke/genshin-builds/internal/profile"
)

// Service is the subset of profile.Service the handlers call.
type Service interface {
	GetProfile(ctx context.Context, uid, lang string) (*domain.Profile, error)
	Materials(lang, characterID string, r materials.Range) (materials.CharacterTotals, error)
}

type Handler struct {
	Svc Service
	Log *zap.Logger
}

func NewHandler(svc Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Svc: svc, Log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/get_build", h.getBuild)                // GET /api/get_build?uid=&lang=
	rg.GET("/materials/:character", h.getMaterials) // GET /api/materials/:character
}

// NewRouter wires the health check and the /api group.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	h.RegisterRoutes(router.Group("/api"))
	return router
}

func (h *Handler) getBuild(c *gin.Context) {
	uid := strings.TrimSpace(c.Query("uid"))
	lang := strings.TrimSpace(c.Query("lang"))
	if uid == "" || lang == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing uid or lang"})
		return
	}

	p, err := h.Svc.GetProfile(c.Request.Context(), uid, lang)
	if err != nil {
		if errors.Is(err, profile.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		h.Log.Error("get build failed", zap.String("uid", uid), zap.String("lang", lang), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get build failed"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) getMaterials(c *gin.Context) {
	lang := c.DefaultQuery("lang", "en")

	r := materials.DefaultRange()
	for _, q := range []struct {
		name string
		dst  *int
	}{
		{"asc_min", &r.AscensionMin},
		{"asc_max", &r.AscensionMax},
		{"talent_min", &r.TalentMin},
		{"talent_max", &r.TalentMax},
	} {
		n, ok := parseInt(c.Query(q.name), *q.dst)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + q.name})
			return
		}
		*q.dst = n
	}

	totals, err := h.Svc.Materials(lang, c.Param("character"), r)
	if err != nil {
		switch {
		case errors.Is(err, materials.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, profile.ErrCharacterNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Character not found"})
		default:
			h.Log.Error("materials failed", zap.String("character", c.Param("character")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "materials failed"})
		}
		return
	}
	c.JSON(http.StatusOK, totals)
}

// parseInt returns def for an empty value and false for a non-integer.
func parseInt(s string, def int) (int, bool) {
	if strings.TrimSpace(s) == "" {
		return def, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
