package controller

import (
	"net/http"

	"github.com/acehadwer/storefront-backend/internal/app/service"
	apperrors "github.com/acehadwer/storefront-backend/internal/errors"
	"github.com/acehadwer/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

// GetAddresses returns the user's saved addresses, default first
// GET /api/v1/addresses
func (ctrl *AddressController) GetAddresses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	addresses, err := ctrl.addressService.GetUserAddresses(userID)
	if err != nil {
		respondError(c, err, "get addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// CreateAddress POST /api/v1/addresses
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.AddressInput
	if err := c.ShouldBind(&input); err != nil {
		log.Warn("Invalid address request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.FieldError(c, "address", "Please check the address details.")
		return
	}

	address, err := ctrl.addressService.AddAddress(userID, input)
	if err != nil {
		respondError(c, err, "add address")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"address": address,
		"result":  service.Result{Status: service.ResultAdded, Message: "Address saved."},
	})
}

// UpdateAddress PUT /api/v1/addresses/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.AddressInput
	if err := c.ShouldBind(&input); err != nil {
		apperrors.FieldError(c, "address", "Please check the address details.")
		return
	}

	address, err := ctrl.addressService.UpdateAddress(userID, addressID, input)
	if err != nil {
		respondError(c, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"result":  service.Result{Status: service.ResultUpdated, Message: "Address updated."},
	})
}

// DeleteAddress DELETE /api/v1/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.addressService.DeleteAddress(userID, addressID); err != nil {
		respondError(c, err, "delete address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": service.Result{Status: service.ResultDeleted, Message: "Address deleted."},
	})
}

// SetDefaultAddress makes the address the one checkout prefills
// PUT /api/v1/addresses/:id/default
func (ctrl *AddressController) SetDefaultAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseID(c, "id")
	if !ok {
		return
	}

	address, err := ctrl.addressService.SetDefaultAddress(userID, addressID)
	if err != nil {
		respondError(c, err, "set default address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"result":  service.Result{Status: service.ResultUpdated, Message: "Default address updated."},
	})
}
