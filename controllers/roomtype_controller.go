package controllers

import (
	"net/http"

	"hotel-reservation/models"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
)

type roomTypeView struct {
	Name        models.RoomType  `json:"name"`
	PricingType models.ExtraType `json:"pricingType"`
	FreeLate    bool             `json:"freeLateCheckout"`
}

// GetRoomTypes lists the fixed room types with the extras tier each one
// is priced at.
func GetRoomTypes(c *gin.Context) {
	types := make([]roomTypeView, 0, len(models.RoomTypes))
	for _, t := range models.RoomTypes {
		types = append(types, roomTypeView{Name: t, PricingType: t.PricingType(), FreeLate: t.IsPremium()})
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}
