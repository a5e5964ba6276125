package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/middleware"
	"github.com/userhub/userhub/internal/services"
	"github.com/userhub/userhub/pkg/response"
	"gorm.io/gorm"
)

type AddressHandler struct {
	addressService *services.AddressService
}

func NewAddressHandler(db *gorm.DB) *AddressHandler {
	return &AddressHandler{
		addressService: services.NewAddressService(db),
	}
}

// Save creates a new address or updates an existing one when an id is given
// POST /api/addresses
func (h *AddressHandler) Save(c *gin.Context) {
	var req services.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created := req.ID == nil
	addressID, err := h.addressService.AddOrUpdate(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if created {
		response.Created(c, gin.H{"id": addressID})
		return
	}
	response.Success(c, gin.H{"id": addressID})
}

// List returns all addresses of the authenticated user
// GET /api/addresses
func (h *AddressHandler) List(c *gin.Context) {
	addresses, err := h.addressService.List(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, addresses)
}

// Get returns one address of the authenticated user
// GET /api/addresses/:id
func (h *AddressHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid address id")
		return
	}

	address, err := h.addressService.Get(middleware.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if address == nil {
		response.NotFound(c, "address not found")
		return
	}

	response.Success(c, address)
}

// Delete removes one address of the authenticated user
// DELETE /api/addresses/:id
func (h *AddressHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid address id")
		return
	}

	deleted, err := h.addressService.Delete(middleware.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !deleted {
		response.NotFound(c, "address not found")
		return
	}

	response.SuccessMessage(c, "address deleted", nil)
}
