package apifacilityv1

import (
	"context"

	"github.com/fulldump/box"
)

func outOfCommission(ctx context.Context, input *lockerRequest) (*FacilityResponse, error) {
	return toggleCommission(ctx, input, true)
}

func operational(ctx context.Context, input *lockerRequest) (*FacilityResponse, error) {
	return toggleCommission(ctx, input, false)
}

func toggleCommission(ctx context.Context, input *lockerRequest, withdraw bool) (*FacilityResponse, error) {

	f, err := getFacilityFromURL(ctx)
	if err != nil {
		return nil, err
	}

	if withdraw {
		err = f.MarkOutOfCommission(input.ID)
	} else {
		err = f.MarkOperational(input.ID)
	}
	if err != nil {
		return nil, err
	}

	return newFacilityResponse(box.GetUrlParameter(ctx, "facilityName"), f), nil
}
