package handler

import (
	"net/http"

	"github.com/Flinmt/pinanca/internal/models"
	"github.com/Flinmt/pinanca/internal/repository"
	"github.com/Flinmt/pinanca/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user placed by the auth middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return user, true
}

// failure maps repository error kinds onto the response envelope.
func failure(c *gin.Context, err error) {
	switch {
	case repository.IsValidation(err):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case repository.IsReference(err):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case repository.IsNotFound(err):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case repository.IsConflict(err):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed, please retry")
	}
}
