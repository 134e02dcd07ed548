package handler

import (
	"net/http"
	"strconv"

	"github.com/Flinmt/pinanca/internal/models"
	"github.com/Flinmt/pinanca/internal/repository"
	"github.com/Flinmt/pinanca/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler serves the category reference data.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

func categoryResp(cat *models.Category) gin.H {
	return gin.H{
		"id":   cat.ID,
		"name": cat.Name,
	}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	cat := models.Category{UserID: user.ID, Name: req.Name}
	if err := repository.NewCategoryRepository(h.DB).Create(&cat); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"category": categoryResp(&cat)})
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	limit, offset := pageParams(c)
	cats, err := repository.NewCategoryRepository(h.DB).ListByUser(user.ID, limit, offset)
	if err != nil {
		failure(c, err)
		return
	}

	items := make([]gin.H, 0, len(cats))
	for i := range cats {
		items = append(items, categoryResp(&cats[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	cat := models.Category{ID: id, UserID: user.ID, Name: req.Name}
	if err := repository.NewCategoryRepository(h.DB).Update(&cat); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"category": categoryResp(&cat)})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := repository.NewCategoryRepository(h.DB).Delete(user.ID, id); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// pageParams derives limit/offset from ?page and ?page_size.
func pageParams(c *gin.Context) (limit, offset int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "100"))
	if size <= 0 || size > 500 {
		size = 100
	}
	return size, (page - 1) * size
}
