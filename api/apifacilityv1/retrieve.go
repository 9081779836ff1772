package apifacilityv1

import (
	"context"
	"encoding/json"
)

type retrieveResponse struct {
	ID      int             `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

func retrieve(ctx context.Context, input *lockerRequest) (*retrieveResponse, error) {

	f, err := getFacilityFromURL(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := f.Retrieve(input.ID)
	if err != nil {
		return nil, err
	}

	return &retrieveResponse{
		ID:      input.ID,
		Payload: payload,
	}, nil
}
