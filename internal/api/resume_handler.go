package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ByLCY/vitae/internal/api/middleware"
	"github.com/ByLCY/vitae/internal/store"
	"github.com/ByLCY/vitae/resume"
)

// ResumeHandler 读写简历快照。编辑器负责内容，这里只做校验与落库。
type ResumeHandler struct {
	store *store.Store
}

func NewResumeHandler(st *store.Store) *ResumeHandler {
	return &ResumeHandler{store: st}
}

// Put 保存快照，路径中的 id 优先于请求体。
func (h *ResumeHandler) Put(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		bodyError(c, err)
		return
	}
	r, err := resume.Parse(body)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	r.ID = c.Param("id")
	if r.LastModified == 0 {
		r.LastModified = time.Now().UnixMilli()
	}
	if err := h.store.SaveResume(c.Request.Context(), r); err != nil {
		middleware.LoggerFromContext(c).Error("保存简历失败", zap.Error(err))
		Internal(c, "save resume failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": r.ID, "lastModified": r.LastModified})
}

// Get 返回快照。
func (h *ResumeHandler) Get(c *gin.Context) {
	r, err := h.store.GetResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "resume not found")
			return
		}
		middleware.LoggerFromContext(c).Error("读取简历失败", zap.Error(err))
		Internal(c, "load resume failed")
		return
	}
	c.JSON(http.StatusOK, r)
}
