package person

import (
	"rehoming/api/ctxutil"
	"rehoming/api/response"
	personapp "rehoming/application/person"

	"github.com/gin-gonic/gin"
)

// Controller 人员、猫和广告的 HTTP 入口；猫和广告都挂在人员路径下
type Controller struct {
	service *personapp.ApplicationService
}

func NewController(service *personapp.ApplicationService) *Controller {
	return &Controller{service: service}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	persons := router.Group("/persons")
	{
		persons.POST("", c.RegisterPerson)
		persons.GET("", c.ListPersons)
		persons.GET("/:personId", c.GetPerson)
		persons.PUT("/:personId", c.UpdatePersonProfile)
		persons.PUT("/:personId/role", c.ChangeRole)
	}

	cats := persons.Group("/:personId/cats")
	{
		cats.POST("", c.AddCat)
		cats.GET("", c.ListCats)
		cats.PUT("/:catId", c.UpdateCat)
		cats.DELETE("/:catId", c.RemoveCat)
	}

	ads := persons.Group("/:personId/advertisements")
	{
		ads.POST("", c.AddAdvertisement)
		ads.GET("", c.ListAdvertisements)
		ads.GET("/:adId", c.GetAdvertisement)
		ads.PUT("/:adId", c.UpdateAdvertisement)
		ads.DELETE("/:adId", c.RemoveAdvertisement)
		ads.PUT("/:adId/cats", c.ReplaceAdvertisementCats)
		ads.POST("/:adId/thumbnail", c.MarkThumbnailUploaded)
		ads.POST("/:adId/close", c.CloseAdvertisement)
		ads.POST("/:adId/expire", c.ExpireAdvertisement)
		ads.POST("/:adId/refresh", c.RefreshAdvertisement)
	}
}

func (c *Controller) RegisterPerson(ctx *gin.Context) {
	var req personapp.RegisterPersonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	p, err := c.service.RegisterPerson(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, p, "Person registered successfully")
}

// ListPersons GET /persons?role=Shelter
func (c *Controller) ListPersons(ctx *gin.Context) {
	var req personapp.ListPersonsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	persons, err := c.service.ListPersons(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, persons, "Persons retrieved successfully")
}

func (c *Controller) GetPerson(ctx *gin.Context) {
	p, err := c.service.GetPerson(ctxutil.WithRequestID(ctx), ctx.Param("personId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "Person retrieved successfully")
}

func (c *Controller) UpdatePersonProfile(ctx *gin.Context) {
	var req personapp.UpdatePersonProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	req.PersonID = ctx.Param("personId")

	p, err := c.service.UpdatePersonProfile(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "Profile updated successfully")
}

func (c *Controller) ChangeRole(ctx *gin.Context) {
	var req personapp.ChangeRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	req.PersonID = ctx.Param("personId")

	p, err := c.service.ChangeRole(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "Role changed successfully")
}
