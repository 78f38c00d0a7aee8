package person

import (
	"rehoming/api/ctxutil"
	"rehoming/api/response"
	personapp "rehoming/application/person"

	"github.com/gin-gonic/gin"
)

func (c *Controller) AddCat(ctx *gin.Context) {
	var req personapp.AddCatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	req.PersonID = ctx.Param("personId")

	cat, err := c.service.AddCat(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, cat, "Cat added successfully")
}

func (c *Controller) ListCats(ctx *gin.Context) {
	cats, err := c.service.ListCats(ctxutil.WithRequestID(ctx), ctx.Param("personId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, cats, "Cats retrieved successfully")
}

func (c *Controller) UpdateCat(ctx *gin.Context) {
	var req personapp.UpdateCatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	req.PersonID = ctx.Param("personId")
	req.CatID = ctx.Param("catId")

	cat, err := c.service.UpdateCat(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, cat, "Cat updated successfully")
}

func (c *Controller) RemoveCat(ctx *gin.Context) {
	if err := c.service.RemoveCat(ctxutil.WithRequestID(ctx), ctx.Param("personId"), ctx.Param("catId")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}
