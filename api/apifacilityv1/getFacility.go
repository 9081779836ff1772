package apifacilityv1

import (
	"context"

	"github.com/fulldump/box"
)

func getFacility(ctx context.Context) (*FacilityResponse, error) {

	f, err := getFacilityFromURL(ctx)
	if err != nil {
		return nil, err
	}

	return newFacilityResponse(box.GetUrlParameter(ctx, "facilityName"), f), nil
}
