package controllers

import (
	"net/http"

	"hotel-reservation/services"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type HotelController struct {
	Hotels *services.HotelService
}

func NewHotelController(hotels *services.HotelService) *HotelController {
	return &HotelController{Hotels: hotels}
}

type hotelSettingsPayload struct {
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	Website         string          `json:"website"`
	LateCheckoutFee decimal.Decimal `json:"lateCheckoutFee"`
}

func (hc *HotelController) GetHotelSettings(c *gin.Context) {
	hotel, err := hc.Hotels.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"hotel": hotel})
}

func (hc *HotelController) UpdateHotelSettings(c *gin.Context) {
	var payload hotelSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	hotel, err := hc.Hotels.Update(c.Request.Context(), services.HotelInput{
		Name:            payload.Name,
		Address:         payload.Address,
		Phone:           payload.Phone,
		Email:           payload.Email,
		Website:         payload.Website,
		LateCheckoutFee: payload.LateCheckoutFee,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"hotel": hotel})
}
