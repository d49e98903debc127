package controllers

import (
	"net/http"
	"strings"
	"time"

	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationController struct {
	Reservations *services.ReservationService
	PaymentSvc   *services.PaymentService
}

func NewReservationController(reservations *services.ReservationService, payments *services.PaymentService) *ReservationController {
	return &ReservationController{Reservations: reservations, PaymentSvc: payments}
}

type createReservationPayload struct {
	RoomID               uint   `json:"roomId" binding:"required"`
	CheckIn              string `json:"checkIn" binding:"required"`
	CheckOut             string `json:"checkOut" binding:"required"`
	LateCheckout         bool   `json:"lateCheckout"`
	EstimatedCheckInTime string `json:"estimatedCheckInTime"`
}

type datesPayload struct {
	CheckIn              string `json:"checkIn" binding:"required"`
	CheckOut             string `json:"checkOut" binding:"required"`
	LateCheckout         bool   `json:"lateCheckout"`
	EstimatedCheckInTime string `json:"estimatedCheckInTime"`
}

type assignRoomPayload struct {
	RoomID uint `json:"roomId" binding:"required"`
}

type guestPayload struct {
	TempID         string `json:"tempId"`
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DateOfBirth    string `json:"dateOfBirth"`
	Child          bool   `json:"child"`
	PrimaryContact bool   `json:"primaryContact"`
}

type guestsPayload struct {
	Guests []guestPayload `json:"guests"`
}

type extrasPayload struct {
	ExtraIDs []uint `json:"extraIds"`
}

type mealPlanPayload struct {
	GuestTempID      string   `json:"guestTempId" binding:"required"`
	FoodExtraIDs     []uint   `json:"foodExtraIds"`
	DietRequirements []string `json:"dietRequirements"`
}

type mealPlansPayload struct {
	MealPlans []mealPlanPayload `json:"mealPlans"`
}

type paymentPayload struct {
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	CardNumber string          `json:"cardNumber" binding:"required"`
	CardHolder string          `json:"cardHolder"`
}

// reservationView is the reservation with its guests and meal plans sorted
// for display and the running quote attached.
type reservationView struct {
	*models.Reservation
	Guests    []models.Guest    `json:"guests"`
	MealPlans []models.MealPlan `json:"mealPlans"`
	Full      bool              `json:"roomFull"`
	Quote     models.Quote      `json:"quote"`
}

func viewOf(r *models.Reservation) reservationView {
	return reservationView{
		Reservation: r,
		Guests:      r.SortedGuests(),
		MealPlans:   r.SortedMealPlansByGuest(),
		Full:        r.IsRoomFull(),
		Quote:       r.BilledQuote(),
	}
}

func (p guestPayload) toGuest() (models.Guest, error) {
	g := models.NewGuest(p.FirstName, p.LastName)
	if p.TempID != "" {
		id, err := uuid.Parse(p.TempID)
		if err != nil {
			return models.Guest{}, services.ErrInvalidInput
		}
		g.TempID = id
	}
	g.Email = strings.TrimSpace(p.Email)
	g.Phone = strings.TrimSpace(p.Phone)
	g.Child = p.Child
	g.PrimaryContact = p.PrimaryContact
	if dob := strings.TrimSpace(p.DateOfBirth); dob != "" {
		t, err := time.Parse(models.DateLayout, dob)
		if err != nil {
			return models.Guest{}, services.ErrInvalidInput
		}
		g.DateOfBirth = &t
	}
	return g, nil
}

func (rc *ReservationController) List(c *gin.Context) {
	list, err := rc.Reservations.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (rc *ReservationController) Create(c *gin.Context) {
	var p createReservationPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	r, err := rc.Reservations.Create(c.Request.Context(), services.CreateReservationInput{
		RoomID:               p.RoomID,
		CheckIn:              p.CheckIn,
		CheckOut:             p.CheckOut,
		LateCheckout:         p.LateCheckout,
		EstimatedCheckInTime: p.EstimatedCheckInTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, viewOf(r))
}

func (rc *ReservationController) Get(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	r, err := rc.Reservations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, viewOf(r))
}

func (rc *ReservationController) Delete(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	if err := rc.Reservations.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "reservation deleted"})
}

// reply writes the outcome of a mutating call.
func reply(c *gin.Context, r *models.Reservation, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, viewOf(r))
}

func (rc *ReservationController) AssignRoom(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	var p assignRoomPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	r, err := rc.Reservations.AssignRoom(c.Request.Context(), id, p.RoomID)
	reply(c, r, err)
}

func (rc *ReservationController) UpdateDates(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	var p datesPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	r, err := rc.Reservations.UpdateDates(c.Request.Context(), id, services.DatesInput{
		CheckIn:              p.CheckIn,
		CheckOut:             p.CheckOut,
		LateCheckout:         p.LateCheckout,
		EstimatedCheckInTime: p.EstimatedCheckInTime,
	})
	reply(c, r, err)
}

func (rc *ReservationController) AddGuest(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	var p guestPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	g, err := p.toGuest()
	if err != nil {
		respondError(c, err)
		return
	}
	r, err := rc.Reservations.AddGuest(c.Request.Context(), id, g)
	reply(c, r, err)
}

func (rc *ReservationController) ReplaceGuests(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	var p guestsPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	guests := make([]models.Guest, 0, len(p.Guests))
	for _, gp := range p.Guests {
		g, err := gp.toGuest()
		if err != nil {
			respondError(c, err)
			return
		}
		guests = append(guests, g)
	}
	r, err := rc.Reservations.ReplaceGuests(c.Request.Context(), id, guests)
	reply(c, r, err)
}

func (rc *ReservationController) RemoveGuest(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	tempID, err := uuid.Parse(c.Param("tempId"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid guest id")
		return
	}
	r, err := rc.Reservations.RemoveGuest(c.Request.Context(), id, tempID)
	reply(c, r, err)
}

func (rc *ReservationController) AvailableExtras(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	category := models.ExtraCategoryGeneral
	if raw := c.Query("category"); raw != "" {
		parsed, ok := models.ParseExtraCategory(raw)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "unknown category")
			return
		}
		category = parsed
	}
	extras, err := rc.Reservations.AvailableExtras(c.Request.Context(), id, category)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, extras)
}

func (rc *ReservationController) SetExtras(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	var p extrasPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	r, err := rc.Reservations.SetGeneralExtras(c.Request.Context(), id, p.ExtraIDs)
	reply(c, r, err)
}

func (rc *ReservationController) ClearExtras(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	r, err := rc.Reservations.ClearGeneralExtras(c.Request.Context(), id)
	reply(c, r, err)
}

func (rc *ReservationController) SetMealPlans(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	var p mealPlansPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	inputs := make([]services.MealPlanInput, 0, len(p.MealPlans))
	for _, mp := range p.MealPlans {
		guestID, err := uuid.Parse(mp.GuestTempID)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid guest id")
			return
		}
		inputs = append(inputs, services.MealPlanInput{
			GuestTempID:      guestID,
			FoodExtraIDs:     mp.FoodExtraIDs,
			DietRequirements: mp.DietRequirements,
		})
	}
	r, err := rc.Reservations.SetMealPlans(c.Request.Context(), id, inputs)
	reply(c, r, err)
}

func (rc *ReservationController) ClearMealPlans(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	r, err := rc.Reservations.ClearMealPlans(c.Request.Context(), id)
	reply(c, r, err)
}

func (rc *ReservationController) Quote(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	q, err := rc.Reservations.Quote(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, q)
}

func (rc *ReservationController) Pay(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	var p paymentPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	res, err := rc.PaymentSvc.Attempt(c.Request.Context(), id, services.PaymentInput{
		Amount:     p.Amount,
		Method:     p.Method,
		CardNumber: p.CardNumber,
		CardHolder: p.CardHolder,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if !res.Payment.Approved() {
		c.JSON(http.StatusPaymentRequired, gin.H{"success": false, "error": res.Payment.Message, "data": res})
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

func (rc *ReservationController) Payments(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	list, err := rc.PaymentSvc.Payments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}
