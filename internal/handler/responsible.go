package handler

import (
	"net/http"

	"github.com/Flinmt/pinanca/internal/models"
	"github.com/Flinmt/pinanca/internal/repository"
	"github.com/Flinmt/pinanca/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ResponsibleHandler serves responsible parties.
type ResponsibleHandler struct {
	DB *gorm.DB
}

func NewResponsibleHandler(db *gorm.DB) *ResponsibleHandler {
	return &ResponsibleHandler{DB: db}
}

type responsibleReq struct {
	Name          string `json:"name" binding:"max=64"`
	RelatedUserID *uint  `json:"related_user_id"`
}

func responsibleResp(resp *models.Responsible) gin.H {
	return gin.H{
		"id":              resp.ID,
		"name":            resp.Name,
		"related_user_id": resp.RelatedUserID,
	}
}

func (h *ResponsibleHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req responsibleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	resp := models.Responsible{
		UserID:        user.ID,
		Name:          req.Name,
		RelatedUserID: req.RelatedUserID,
	}
	if err := repository.NewResponsibleRepository(h.DB).Create(&resp); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"responsible": responsibleResp(&resp)})
}

func (h *ResponsibleHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	limit, offset := pageParams(c)
	resps, err := repository.NewResponsibleRepository(h.DB).ListByUser(user.ID, limit, offset)
	if err != nil {
		failure(c, err)
		return
	}

	items := make([]gin.H, 0, len(resps))
	for i := range resps {
		items = append(items, responsibleResp(&resps[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *ResponsibleHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req responsibleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	resp := models.Responsible{
		ID:            id,
		UserID:        user.ID,
		Name:          req.Name,
		RelatedUserID: req.RelatedUserID,
	}
	if err := repository.NewResponsibleRepository(h.DB).Update(&resp); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"responsible": responsibleResp(&resp)})
}

func (h *ResponsibleHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := repository.NewResponsibleRepository(h.DB).Delete(user.ID, id); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}
