package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

const addressFailedMessage = "Failed to save your address. Please try again."

// AddressInput is the add/update form for a saved address. IsDefault can only
// promote an address; a default stops being one when another address is chosen.
type AddressInput struct {
	Label         string `form:"label" json:"label"`
	Recipient     string `form:"recipient" json:"recipient"`
	Phone         string `form:"phone" json:"phone"`
	Address       string `form:"address" json:"address"`
	DetailAddress string `form:"detail_address" json:"detail_address"`
	IsDefault     bool   `form:"is_default" json:"is_default"`
}

type AddressService interface {
	GetUserAddresses(userID uint) ([]model.Address, error)
	AddAddress(userID uint, input AddressInput) (*model.Address, error)
	UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error)
	DeleteAddress(userID, addressID uint) error
	SetDefaultAddress(userID, addressID uint) (*model.Address, error)
}

type addressService struct {
	db          *gorm.DB
	addressRepo repository.AddressRepository
}

func NewAddressService(db *gorm.DB, addressRepo repository.AddressRepository) AddressService {
	return &addressService{
		db:          db,
		addressRepo: addressRepo,
	}
}

func validateAddressInput(input AddressInput) (AddressInput, error) {
	v := AddressInput{
		Label:         strings.TrimSpace(input.Label),
		Recipient:     strings.TrimSpace(input.Recipient),
		Phone:         strings.TrimSpace(input.Phone),
		Address:       strings.TrimSpace(input.Address),
		DetailAddress: strings.TrimSpace(input.DetailAddress),
		IsDefault:     input.IsDefault,
	}

	switch {
	case v.Recipient == "":
		return v, validationError("recipient", "Recipient name is required.")
	case utf8.RuneCountInString(v.Recipient) > 100:
		return v, validationError("recipient", "Recipient name must be at most 100 characters.")
	case v.Phone == "":
		return v, validationError("phone", "Phone number is required.")
	case utf8.RuneCountInString(v.Phone) > 30:
		return v, validationError("phone", "Phone number must be at most 30 characters.")
	case v.Address == "":
		return v, validationError("address", "Address is required.")
	case utf8.RuneCountInString(v.Label) > 100:
		return v, validationError("label", "Label must be at most 100 characters.")
	}
	return v, nil
}

func (s *addressService) GetUserAddresses(userID uint) ([]model.Address, error) {
	logger.Debug("Fetching user addresses", map[string]interface{}{
		"user_id": userID,
	})

	addresses, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, unavailableError("Failed to load your addresses. Please try again.", err)
	}

	logger.Info("User addresses fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})
	return addresses, nil
}

// AddAddress saves a new address. The user's first address always becomes the default.
func (s *addressService) AddAddress(userID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Adding address", map[string]interface{}{
		"user_id": userID,
	})

	v, err := validateAddressInput(input)
	if err != nil {
		return nil, err
	}

	address := &model.Address{
		UserID:        userID,
		Label:         v.Label,
		Recipient:     v.Recipient,
		Phone:         v.Phone,
		Address:       v.Address,
		DetailAddress: v.DetailAddress,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)

		existing, err := repo.FindByUserID(userID)
		if err != nil {
			return err
		}
		if err := repo.Create(address); err != nil {
			return err
		}
		if v.IsDefault || len(existing) == 0 {
			if err := repo.SetDefault(userID, address.ID); err != nil {
				return err
			}
			address.IsDefault = true
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to add address", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, unavailableError(addressFailedMessage, err)
	}

	logger.Info("Address added", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    userID,
		"is_default": address.IsDefault,
	})
	return address, nil
}

func (s *addressService) UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Updating address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	v, err := validateAddressInput(input)
	if err != nil {
		return nil, err
	}

	address, err := s.findOwnedAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Label = v.Label
	address.Recipient = v.Recipient
	address.Phone = v.Phone
	address.Address = v.Address
	address.DetailAddress = v.DetailAddress

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.Update(address); err != nil {
			return err
		}
		if v.IsDefault && !address.IsDefault {
			if err := repo.SetDefault(userID, address.ID); err != nil {
				return err
			}
			address.IsDefault = true
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return nil, unavailableError(addressFailedMessage, err)
	}

	logger.Info("Address updated", map[string]interface{}{
		"address_id": addressID,
	})
	return address, nil
}

// DeleteAddress removes an address. Deleting the default promotes the user's
// next address in list order.
func (s *addressService) DeleteAddress(userID, addressID uint) error {
	logger.Info("Deleting address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	address, err := s.findOwnedAddress(userID, addressID)
	if err != nil {
		return err
	}

	var promoted uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.Delete(address.ID); err != nil {
			return err
		}
		if !address.IsDefault {
			return nil
		}

		remaining, err := repo.FindByUserID(userID)
		if err != nil || len(remaining) == 0 {
			return err
		}
		promoted = remaining[0].ID
		return repo.SetDefault(userID, promoted)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError(ErrAddressNotFound, "Address not found.")
		}
		logger.Error("Failed to delete address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return unavailableError("Failed to delete your address. Please try again.", err)
	}

	logger.Info("Address deleted", map[string]interface{}{
		"address_id":          addressID,
		"promoted_address_id": promoted,
	})
	return nil
}

func (s *addressService) SetDefaultAddress(userID, addressID uint) (*model.Address, error) {
	logger.Info("Setting default address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	address, err := s.findOwnedAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	if err := s.addressRepo.SetDefault(userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(ErrAddressNotFound, "Address not found.")
		}
		return nil, unavailableError(addressFailedMessage, err)
	}
	address.IsDefault = true
	return address, nil
}

// findOwnedAddress treats another user's address as not found.
func (s *addressService) findOwnedAddress(userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found", map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return nil, notFoundError(ErrAddressNotFound, "Address not found.")
		}
		logger.Error("Failed to fetch address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return nil, unavailableError("Failed to load your address. Please try again.", err)
	}

	if address.UserID != userID {
		logger.Warn("Address belongs to another user", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return nil, notFoundError(ErrAddressNotFound, "Address not found.")
	}
	return address, nil
}
