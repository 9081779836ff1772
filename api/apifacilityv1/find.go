package apifacilityv1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SierraSoftworks/connor"

	"github.com/fulldump/lockerdesk/facility"
	"github.com/fulldump/lockerdesk/utils"
)

type findRequest struct {
	Filter map[string]interface{} `json:"filter"`
	Skip   int64                  `json:"skip"`
	Limit  int64                  `json:"limit"`
}

func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	params := &findRequest{
		Filter: map[string]interface{}{},
		Skip:   0,
		Limit:  1,
	}
	err := json.NewDecoder(r.Body).Decode(params)
	if err != nil && err != io.EOF {
		return err
	}

	f, err := getFacilityFromURL(ctx)
	if err != nil {
		return err
	}

	e := json.NewEncoder(w)
	return traverseLockers(params, f, func(locker *facility.Locker) {
		e.Encode(locker)
	})
}

func traverseLockers(params *findRequest, f *facility.Facility, fn func(locker *facility.Locker)) (err error) {

	hasFilter := len(params.Filter) > 0

	skip := params.Skip
	limit := params.Limit

	f.Traverse(func(locker *facility.Locker) bool {

		if limit == 0 {
			return false
		}

		if hasFilter {
			lockerData := map[string]interface{}{}
			err = utils.Remarshal(locker, &lockerData)
			if err != nil {
				return false
			}

			match, matchErr := connor.Match(params.Filter, lockerData)
			if matchErr != nil {
				err = fmt.Errorf("match: %w", matchErr)
				return false
			}
			if !match {
				return true
			}
		}

		if skip > 0 {
			skip--
			return true
		}

		limit--
		fn(locker)
		return true
	})

	return
}
