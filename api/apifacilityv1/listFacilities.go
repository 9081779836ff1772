package apifacilityv1

import (
	"context"

	"github.com/fulldump/lockerdesk/utils"
)

func listFacilities(ctx context.Context) ([]*FacilityResponse, error) {

	s, err := GetServicer(ctx)
	if err != nil {
		return nil, err
	}
	facilities := s.ListFacilities()

	result := []*FacilityResponse{}
	for _, name := range utils.GetKeys(facilities) {
		result = append(result, newFacilityResponse(name, facilities[name]))
	}

	return result, nil
}
