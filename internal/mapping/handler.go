package mapping

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tambohub/internal/sync"
	"tambohub/pkg/models"
)

// Invalidator marks the classification cache stale after a successful
// mutation. The map view refetches on its next read.
type Invalidator interface {
	Invalidate()
}

type Handler struct {
	Repo  *Repo
	Hub   *sync.Hub
	Cache Invalidator
}

func NewHandler(repo *Repo, hub *sync.Hub, cache Invalidator) *Handler {
	return &Handler{Repo: repo, Hub: hub, Cache: cache}
}

// RegisterRoutes mounts the mapping endpoints. Reads are public;
// mutations require a staff token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authmw gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.POST("", authmw, h.create)
	rg.DELETE("/:fid", authmw, h.remove)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mappings": items})
}

type createReq struct {
	MappingName string `json:"MappingName"`
	Type        string `json:"Type"`
	HouseholdID *int64 `json:"HouseholdID"`
	FID         *int64 `json:"FID"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.FID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "FID required"})
		return
	}
	if err := Validate(req.MappingName, req.Type, req.HouseholdID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Repo.Create(c.Request.Context(), models.Mapping{
		FID:         *req.FID,
		MappingName: req.MappingName,
		Type:        req.Type,
		HouseholdID: req.HouseholdID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateFID):
			c.JSON(http.StatusConflict, gin.H{"error": "mapping already exists for this feature"})
		case errors.Is(err, ErrHouseholdNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "household not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		}
		return
	}

	h.afterMutation("mapping.create", created.FID, created.MappingName)
	c.JSON(http.StatusCreated, gin.H{"mapping": created})
}

func (h *Handler) remove(c *gin.Context) {
	fid, err := strconv.ParseInt(c.Param("fid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fid"})
		return
	}

	ok, err := h.Repo.DeleteByFID(c.Request.Context(), fid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.afterMutation("mapping.delete", fid, "")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) afterMutation(eventType string, fid int64, name string) {
	if h.Cache != nil {
		h.Cache.Invalidate()
	}
	if h.Hub != nil {
		ev := sync.MappingEvent{
			Type:        eventType,
			FID:         fid,
			MappingName: name,
			At:          time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}
}
