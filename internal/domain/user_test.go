package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_CanEditCityRates(t *testing.T) {
	t.Parallel()
	admin := User{Role: RoleAdmin}
	require.True(t, admin.CanEditCityRates("Худжанд"))

	worker := User{Role: RoleCityWorker, CityName: "Душанбе", WorkerActive: true}
	require.True(t, worker.CanEditCityRates("Душанбе"))
	require.False(t, worker.CanEditCityRates("Худжанд"))

	inactive := User{Role: RoleCityWorker, CityName: "Душанбе", WorkerActive: false}
	require.False(t, inactive.CanEditCityRates("Душанбе"))

	plain := User{Role: RoleUser, CityName: "Душанбе", WorkerActive: true}
	require.False(t, plain.CanEditCityRates("Душанбе"))
}

func Test_ValidateSpread(t *testing.T) {
	t.Parallel()
	require.NoError(t, ValidateSpread(dec(t, "10.5"), dec(t, "10.8")))
	require.ErrorIs(t, ValidateSpread(dec(t, "10.8"), dec(t, "10.5")), ErrBuyNotBelowSell)
	require.ErrorIs(t, ValidateSpread(dec(t, "10.5"), dec(t, "10.5")), ErrBuyNotBelowSell)
	require.ErrorIs(t, ValidateSpread(dec(t, "0"), dec(t, "10.5")), ErrRateNotPositive)
	require.ErrorIs(t, ValidateSpread(dec(t, "-1"), dec(t, "10.5")), ErrRateNotPositive)
}
