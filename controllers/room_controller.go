package controllers

import (
	"log"
	"net/http"

	"hotel-reservation/services"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{Rooms: rooms}
}

type roomPayload struct {
	RoomNumber   string          `json:"roomNumber" binding:"required"`
	RoomType     string          `json:"roomType" binding:"required"`
	Beds         int             `json:"beds" binding:"required"`
	CostPerNight decimal.Decimal `json:"costPerNight"`
	Floor        string          `json:"floor"`
	Description  string          `json:"description"`
}

type roomUpdatePayload struct {
	RoomNumber   *string          `json:"roomNumber"`
	RoomType     *string          `json:"roomType"`
	Beds         *int             `json:"beds"`
	CostPerNight *decimal.Decimal `json:"costPerNight"`
	Floor        *string          `json:"floor"`
	Description  *string          `json:"description"`
}

// ----------------------------------------------------
// 1. Get Rooms (GET /api/rooms)
// ----------------------------------------------------

func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.Rooms.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// 2. Create Room (POST /api/rooms)
// ----------------------------------------------------

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var p roomPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		badRequest(c, err)
		return
	}
	room, err := rc.Rooms.Create(c.Request.Context(), services.RoomInput{
		RoomNumber:   p.RoomNumber,
		RoomType:     p.RoomType,
		Beds:         p.Beds,
		CostPerNight: p.CostPerNight,
		Floor:        p.Floor,
		Description:  p.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// ----------------------------------------------------
// 3. Update Room (PUT/PATCH /api/rooms/:id)
// ----------------------------------------------------

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var p roomUpdatePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	room, err := rc.Rooms.Update(c.Request.Context(), id, services.RoomUpdate{
		RoomNumber:   p.RoomNumber,
		RoomType:     p.RoomType,
		Beds:         p.Beds,
		CostPerNight: p.CostPerNight,
		Floor:        p.Floor,
		Description:  p.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// 4. Delete Room (DELETE /api/rooms/:id)
// ----------------------------------------------------

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := rc.Rooms.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	log.Printf("✅ Room ID %d deleted.", id)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Room deleted successfully"})
}
