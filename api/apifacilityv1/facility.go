package apifacilityv1

import (
	"github.com/fulldump/lockerdesk/allocator"
	"github.com/fulldump/lockerdesk/facility"
)

type FacilityResponse struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
	allocator.Stats
}

func newFacilityResponse(name string, f *facility.Facility) *FacilityResponse {
	return &FacilityResponse{
		Name:  name,
		Min:   f.Min(),
		Max:   f.Max(),
		Stats: f.Stats(),
	}
}
