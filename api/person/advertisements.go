package person

import (
	"context"

	"rehoming/api/ctxutil"
	"rehoming/api/response"
	personapp "rehoming/application/person"

	"github.com/gin-gonic/gin"
)

func (c *Controller) AddAdvertisement(ctx *gin.Context) {
	var req personapp.AddAdvertisementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	req.PersonID = ctx.Param("personId")

	ad, err := c.service.AddAdvertisement(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, ad, "Advertisement created successfully")
}

func (c *Controller) ListAdvertisements(ctx *gin.Context) {
	ads, err := c.service.ListAdvertisements(ctxutil.WithRequestID(ctx), ctx.Param("personId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, ads, "Advertisements retrieved successfully")
}

func (c *Controller) GetAdvertisement(ctx *gin.Context) {
	ad, err := c.service.GetAdvertisement(ctxutil.WithRequestID(ctx), ctx.Param("personId"), ctx.Param("adId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, ad, "Advertisement retrieved successfully")
}

func (c *Controller) UpdateAdvertisement(ctx *gin.Context) {
	var req personapp.UpdateAdvertisementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	req.PersonID = ctx.Param("personId")
	req.AdvertisementID = ctx.Param("adId")

	ad, err := c.service.UpdateAdvertisement(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, ad, "Advertisement updated successfully")
}

func (c *Controller) ReplaceAdvertisementCats(ctx *gin.Context) {
	var req personapp.ReplaceAdvertisementCatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	req.PersonID = ctx.Param("personId")
	req.AdvertisementID = ctx.Param("adId")

	ad, err := c.service.ReplaceAdvertisementCats(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, ad, "Advertisement cats replaced successfully")
}

func (c *Controller) RemoveAdvertisement(ctx *gin.Context) {
	if err := c.service.RemoveAdvertisement(ctxutil.WithRequestID(ctx), ctx.Param("personId"), ctx.Param("adId")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}

// advertisementTransition 状态迁移类接口共用：无请求体，返回迁移后的广告
type advertisementTransition func(ctx context.Context, personID, advertisementID string) (*personapp.AdvertisementResponse, error)

func (c *Controller) transition(ctx *gin.Context, fn advertisementTransition, message string) {
	ad, err := fn(ctxutil.WithRequestID(ctx), ctx.Param("personId"), ctx.Param("adId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, ad, message)
}

func (c *Controller) MarkThumbnailUploaded(ctx *gin.Context) {
	c.transition(ctx, c.service.MarkThumbnailUploaded, "Thumbnail registered")
}

func (c *Controller) CloseAdvertisement(ctx *gin.Context) {
	c.transition(ctx, c.service.CloseAdvertisement, "Advertisement closed")
}

func (c *Controller) ExpireAdvertisement(ctx *gin.Context) {
	c.transition(ctx, c.service.ExpireAdvertisement, "Advertisement expired")
}

func (c *Controller) RefreshAdvertisement(ctx *gin.Context) {
	c.transition(ctx, c.service.RefreshAdvertisement, "Advertisement refreshed")
}
