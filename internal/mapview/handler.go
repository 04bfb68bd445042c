package mapview

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tambohub/internal/geodata"
)

type Handler struct {
	Store *geodata.Store
	Cache *Cache
}

func NewHandler(store *geodata.Store, cache *Cache) *Handler {
	return &Handler{Store: store, Cache: cache}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/features", h.features) // GET /map/features?q=&type=
	rg.GET("/suggest", h.suggest)   // GET /map/suggest?q=
}

type styledFeature struct {
	Feature geodata.Feature `json:"feature"`
	Style   Style           `json:"style"`
	Label   string          `json:"label,omitempty"`
}

func (h *Handler) features(c *gin.Context) {
	query := c.Query("q")
	category := c.DefaultQuery("type", FilterAll)

	records, err := h.Cache.Records(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mappings unavailable"})
		return
	}

	joined := ResolveAll(h.Store.Buildings.Features, records)
	buildings := Filter(joined, query, category)

	zones := make([]styledFeature, 0, len(h.Store.Zones.Features))
	for _, z := range h.Store.Zones.Features {
		zones = append(zones, styledFeature{
			Feature: z,
			Style:   ZoneStyle(int64(z.FID())),
			Label:   "Zone " + strconv.FormatInt(int64(z.FID()), 10),
		})
	}

	roads := make([]styledFeature, 0, len(h.Store.Roads.Features))
	for _, r := range h.Store.Roads.Features {
		roads = append(roads, styledFeature{
			Feature: r,
			Style:   RoadStyle(),
			Label:   r.Name(),
		})
	}

	border := make([]styledFeature, 0, len(h.Store.Border.Features))
	for _, b := range h.Store.Border.Features {
		border = append(border, styledFeature{Feature: b, Style: BorderStyle()})
	}

	c.JSON(http.StatusOK, gin.H{
		"border":    border,
		"zones":     zones,
		"roads":     roads,
		"buildings": buildings,
	})
}

func (h *Handler) suggest(c *gin.Context) {
	records, err := h.Cache.Records(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mappings unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": Suggest(records, c.Query("q"))})
}
