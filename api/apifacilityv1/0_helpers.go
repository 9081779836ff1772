package apifacilityv1

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fulldump/box"

	"github.com/fulldump/lockerdesk/facility"
)

var ErrorMalformedLockerID = errors.New("malformed locker id")

type lockerRequest struct {
	ID int `json:"id"`
}

func getFacilityFromURL(ctx context.Context) (*facility.Facility, error) {
	s, err := GetServicer(ctx)
	if err != nil {
		return nil, err
	}
	facilityName := box.GetUrlParameter(ctx, "facilityName")
	return s.GetFacility(facilityName)
}

func parseLockerID(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s'", ErrorMalformedLockerID, value)
	}
	return id, nil
}
