package handler

import (
	"net/http"

	"github.com/Flinmt/pinanca/internal/models"
	"github.com/Flinmt/pinanca/internal/repository"
	"github.com/Flinmt/pinanca/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OriginHandler serves debt origins (creditors).
type OriginHandler struct {
	DB *gorm.DB
}

func NewOriginHandler(db *gorm.DB) *OriginHandler {
	return &OriginHandler{DB: db}
}

type originReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

func originResp(origin *models.DebtOrigin) gin.H {
	return gin.H{
		"id":   origin.ID,
		"name": origin.Name,
	}
}

func (h *OriginHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req originReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	origin := models.DebtOrigin{UserID: user.ID, Name: req.Name}
	if err := repository.NewOriginRepository(h.DB).Create(&origin); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"origin": originResp(&origin)})
}

func (h *OriginHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	limit, offset := pageParams(c)
	origins, err := repository.NewOriginRepository(h.DB).ListByUser(user.ID, limit, offset)
	if err != nil {
		failure(c, err)
		return
	}

	items := make([]gin.H, 0, len(origins))
	for i := range origins {
		items = append(items, originResp(&origins[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *OriginHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req originReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	origin := models.DebtOrigin{ID: id, UserID: user.ID, Name: req.Name}
	if err := repository.NewOriginRepository(h.DB).Update(&origin); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"origin": originResp(&origin)})
}

func (h *OriginHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := repository.NewOriginRepository(h.DB).Delete(user.ID, id); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}
