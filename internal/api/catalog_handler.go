package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/vitae/fonts"
	"github.com/ByLCY/vitae/template"
	"github.com/ByLCY/vitae/tier"
)

// CatalogHandler 提供模板与字体目录，供编辑器的选择面板使用。
type CatalogHandler struct {
	enforceTemplateTier bool
}

func NewCatalogHandler(enforceTemplateTier bool) *CatalogHandler {
	return &CatalogHandler{enforceTemplateTier: enforceTemplateTier}
}

type templateItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Layout      string `json:"layout"`
	IsPremium   bool   `json:"isPremium"`
	Photo       bool   `json:"photo"`
	Allowed     bool   `json:"allowed"`
}

// Templates 列出全部模板；allowed 表示当前等级渲染时是否会被降级。
func (h *CatalogHandler) Templates(c *gin.Context) {
	tr := tier.Parse(c.Query("tier"))
	specs := template.All()
	items := make([]templateItem, 0, len(specs))
	for _, s := range specs {
		items = append(items, templateItem{
			ID:          string(s.ID),
			Name:        s.Name,
			Description: s.Description,
			Layout:      s.Layout.String(),
			IsPremium:   s.IsPremium,
			Photo:       s.Photo,
			Allowed:     tier.TemplateAllowed(s.IsPremium, tr, h.enforceTemplateTier),
		})
	}
	c.JSON(http.StatusOK, gin.H{"templates": items})
}

type fontItem struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	CSS       string `json:"css"`
	Premium   bool   `json:"premium"`
	Effective string `json:"effective"`
}

// Fonts 列出字体；effective 是当前等级下实际用于渲染的字体。
func (h *CatalogHandler) Fonts(c *gin.Context) {
	tr := tier.Parse(c.Query("tier"))
	options := fonts.All()
	items := make([]fontItem, 0, len(options))
	for _, o := range options {
		items = append(items, fontItem{
			ID:        o.ID,
			Label:     o.Label,
			CSS:       o.CSS,
			Premium:   o.Premium,
			Effective: fonts.Effective(o.ID, tr).ID,
		})
	}
	c.JSON(http.StatusOK, gin.H{"fonts": items, "default": fonts.DefaultID})
}
