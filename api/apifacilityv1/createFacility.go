package apifacilityv1

import (
	"context"
	"net/http"
)

type createFacilityRequest struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

func createFacility(ctx context.Context, w http.ResponseWriter, input *createFacilityRequest) (*FacilityResponse, error) {

	s, err := GetServicer(ctx)
	if err != nil {
		return nil, err
	}

	f, err := s.CreateFacility(input.Name, input.Min, input.Max)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newFacilityResponse(input.Name, f), nil
}
