package apifacilityv1

import (
	"context"
	"net/http"
)

type rentResponse struct {
	ID int `json:"id"`
}

func rent(ctx context.Context, w http.ResponseWriter) (*rentResponse, error) {

	f, err := getFacilityFromURL(ctx)
	if err != nil {
		return nil, err
	}

	id, err := f.Rent()
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return &rentResponse{ID: id}, nil
}
