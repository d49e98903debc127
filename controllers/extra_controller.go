package controllers

import (
	"net/http"

	"hotel-reservation/services"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ExtraController struct {
	Extras *services.ExtraService
}

func NewExtraController(extras *services.ExtraService) *ExtraController {
	return &ExtraController{Extras: extras}
}

type extraPayload struct {
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Type        string          `json:"type" binding:"required"`
	Category    string          `json:"category" binding:"required"`
}

// GetExtras lists the catalogue, filtered by ?category= and ?type=.
func (ec *ExtraController) GetExtras(c *gin.Context) {
	extras, err := ec.Extras.List(c.Request.Context(), c.Query("category"), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, extras)
}

func (ec *ExtraController) CreateExtra(c *gin.Context) {
	var p extraPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	extra, err := ec.Extras.Create(c.Request.Context(), services.ExtraInput{
		Description: p.Description,
		Price:       p.Price,
		Type:        p.Type,
		Category:    p.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, extra)
}

func (ec *ExtraController) DeleteExtra(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := ec.Extras.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Extra deleted"})
}
