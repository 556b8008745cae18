package domain

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleCityWorker Role = "city_worker"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CityName     string
	WorkerActive bool
	Phone        string
	CreatedAt    time.Time
}

// CanEditCityRates reports whether the user may write market rates for the
// given city: admins anywhere, active workers only for their assigned city.
func (u User) CanEditCityRates(city string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == RoleCityWorker && u.WorkerActive && u.CityName == city && city != ""
}
