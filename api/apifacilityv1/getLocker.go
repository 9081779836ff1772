package apifacilityv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/lockerdesk/facility"
)

func getLocker(ctx context.Context) (*facility.Locker, error) {

	f, err := getFacilityFromURL(ctx)
	if err != nil {
		return nil, err
	}

	id, err := parseLockerID(box.GetUrlParameter(ctx, "lockerId"))
	if err != nil {
		return nil, err
	}

	return f.Locker(id)
}
