package apifacilityv1

import (
	"context"
	"encoding/json"
	"net/http"
)

type depositRequest struct {
	ID      int             `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

func deposit(ctx context.Context, w http.ResponseWriter, input *depositRequest) error {

	f, err := getFacilityFromURL(ctx)
	if err != nil {
		return err
	}

	err = f.Deposit(input.ID, input.Payload)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
