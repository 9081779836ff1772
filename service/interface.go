package service

import (
	"errors"

	"github.com/fulldump/lockerdesk/database"
	"github.com/fulldump/lockerdesk/facility"
)

var (
	ErrorFacilityNotFound      = database.ErrorFacilityNotFound
	ErrorFacilityAlreadyExists = database.ErrorFacilityAlreadyExists
	ErrorInvalidFacilityName   = errors.New("invalid facility name")
)

type Servicer interface {
	CreateFacility(name string, min, max int) (*facility.Facility, error)
	GetFacility(name string) (*facility.Facility, error)
	ListFacilities() map[string]*facility.Facility
	DeleteFacility(name string) error
}
