package apifacilityv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func dropFacility(ctx context.Context, w http.ResponseWriter) error {

	s, err := GetServicer(ctx)
	if err != nil {
		return err
	}

	facilityName := box.GetUrlParameter(ctx, "facilityName")

	return s.DeleteFacility(facilityName)
}
