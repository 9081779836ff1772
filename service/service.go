package service

import (
	"fmt"
	"regexp"

	"github.com/fulldump/lockerdesk/database"
	"github.com/fulldump/lockerdesk/facility"
)

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{
		db: db,
	}
}

var validFacilityName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]{0,127}$`)

func (s *Service) CreateFacility(name string, min, max int) (*facility.Facility, error) {

	if !validFacilityName.MatchString(name) {
		return nil, fmt.Errorf("%w: '%s'", ErrorInvalidFacilityName, name)
	}

	return s.db.CreateFacility(name, min, max)
}

func (s *Service) GetFacility(name string) (*facility.Facility, error) {
	return s.db.GetFacility(name)
}

func (s *Service) ListFacilities() map[string]*facility.Facility {
	return s.db.ListFacilities()
}

func (s *Service) DeleteFacility(name string) error {
	return s.db.DropFacility(name)
}
