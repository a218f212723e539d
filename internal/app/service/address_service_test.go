package service

import (
	"testing"

	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAddressServiceTest(t *testing.T) (AddressService, *shopFixture) {
	f := setupShopFixture(t)
	return NewAddressService(f.db, repository.NewAddressRepository(f.db)), f
}

func homeAddress() AddressInput {
	return AddressInput{
		Label:     " Home ",
		Recipient: " Test User ",
		Phone:     "0300-1234567",
		Address:   "12 Mall Road, Lahore",
	}
}

func TestAddressService_AddAddress(t *testing.T) {
	addressService, f := setupAddressServiceTest(t)

	first, err := addressService.AddAddress(f.user.ID, homeAddress())
	require.NoError(t, err)
	assert.Equal(t, "Home", first.Label)
	assert.Equal(t, "Test User", first.Recipient)
	// the first address is the default even when not asked for
	assert.True(t, first.IsDefault)

	office := homeAddress()
	office.Label = "Office"
	office.Address = "4 Canal Bank"
	second, err := addressService.AddAddress(f.user.ID, office)
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	office.Label = "Parents"
	office.IsDefault = true
	third, err := addressService.AddAddress(f.user.ID, office)
	require.NoError(t, err)
	assert.True(t, third.IsDefault)

	addresses, err := addressService.GetUserAddresses(f.user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 3)
	assert.Equal(t, third.ID, addresses[0].ID)
	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	others, err := addressService.GetUserAddresses(f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestAddressService_AddAddress_Validation(t *testing.T) {
	addressService, f := setupAddressServiceTest(t)

	tests := []struct {
		name  string
		edit  func(*AddressInput)
		field string
	}{
		{"missing recipient", func(in *AddressInput) { in.Recipient = "  " }, "recipient"},
		{"missing phone", func(in *AddressInput) { in.Phone = "" }, "phone"},
		{"missing address", func(in *AddressInput) { in.Address = "\t" }, "address"},
		{"phone too long", func(in *AddressInput) { in.Phone = "0300-1234567-0300-1234567-03001" }, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := homeAddress()
			tt.edit(&in)
			_, err := addressService.AddAddress(f.user.ID, in)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
			opErr := err.(*OperationError)
			assert.Equal(t, tt.field, opErr.Field)
		})
	}

	addresses, err := addressService.GetUserAddresses(f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, addresses)
}

func TestAddressService_OtherUsersAddress(t *testing.T) {
	addressService, f := setupAddressServiceTest(t)

	theirs, err := addressService.AddAddress(f.other.ID, homeAddress())
	require.NoError(t, err)

	_, err = addressService.UpdateAddress(f.user.ID, theirs.ID, homeAddress())
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = addressService.SetDefaultAddress(f.user.ID, theirs.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	err = addressService.DeleteAddress(f.user.ID, theirs.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	err = addressService.DeleteAddress(f.user.ID, 9999)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	still, err := addressService.GetUserAddresses(f.other.ID)
	require.NoError(t, err)
	require.Len(t, still, 1)
	assert.Equal(t, "12 Mall Road, Lahore", still[0].Address)
}

func TestAddressService_UpdateAndSetDefault(t *testing.T) {
	addressService, f := setupAddressServiceTest(t)

	home, err := addressService.AddAddress(f.user.ID, homeAddress())
	require.NoError(t, err)
	office := homeAddress()
	office.Label = "Office"
	work, err := addressService.AddAddress(f.user.ID, office)
	require.NoError(t, err)

	edit := homeAddress()
	edit.DetailAddress = "Flat 3"
	// clearing the flag does not leave the user without a default
	edit.IsDefault = false
	updated, err := addressService.UpdateAddress(f.user.ID, home.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Flat 3", updated.DetailAddress)
	assert.True(t, updated.IsDefault)

	edit.IsDefault = true
	promoted, err := addressService.UpdateAddress(f.user.ID, work.ID, edit)
	require.NoError(t, err)
	assert.True(t, promoted.IsDefault)

	addresses, err := addressService.GetUserAddresses(f.user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, work.ID, addresses[0].ID)
	assert.False(t, addresses[1].IsDefault)

	back, err := addressService.SetDefaultAddress(f.user.ID, home.ID)
	require.NoError(t, err)
	assert.True(t, back.IsDefault)

	addresses, err = addressService.GetUserAddresses(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, home.ID, addresses[0].ID)
	assert.False(t, addresses[1].IsDefault)
}

func TestAddressService_DeleteDefaultPromotesNext(t *testing.T) {
	addressService, f := setupAddressServiceTest(t)

	home, err := addressService.AddAddress(f.user.ID, homeAddress())
	require.NoError(t, err)
	office := homeAddress()
	office.Label = "Office"
	work, err := addressService.AddAddress(f.user.ID, office)
	require.NoError(t, err)

	require.NoError(t, addressService.DeleteAddress(f.user.ID, home.ID))

	addresses, err := addressService.GetUserAddresses(f.user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, work.ID, addresses[0].ID)
	assert.True(t, addresses[0].IsDefault)

	require.NoError(t, addressService.DeleteAddress(f.user.ID, work.ID))
	addresses, err = addressService.GetUserAddresses(f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, addresses)
}
