package apifacilityv1

import (
	"context"
	"net/http"
)

func free(ctx context.Context, w http.ResponseWriter, input *lockerRequest) error {

	f, err := getFacilityFromURL(ctx)
	if err != nil {
		return err
	}

	err = f.Free(input.ID)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
