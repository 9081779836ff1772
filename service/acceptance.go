package service

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Create facility", func(a *biff.A) {
		resp := apiRequest("POST", "/facilities").
			WithBodyJson(JSON{
				"name": "lobby",
				"min":  1,
				"max":  3,
			}).Do()
		Save(resp, "Create facility", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		expectedBody := JSON{
			"name":              "lobby",
			"min":               1,
			"max":               3,
			"total":             3,
			"rented":            0,
			"out_of_commission": 0,
			"occupied":          0,
			"available":         3,
		}
		biff.AssertEqualJson(resp.BodyJson(), expectedBody)

		a.Alternative("Retrieve facility", func(a *biff.A) {
			resp := apiRequest("GET", "/facilities/lobby").Do()
			Save(resp, "Retrieve facility", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), expectedBody)
		})

		a.Alternative("List facilities", func(a *biff.A) {
			resp := apiRequest("GET", "/facilities").Do()
			Save(resp, "List facilities", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{expectedBody})
		})

		a.Alternative("Create facility twice", func(a *biff.A) {
			resp := apiRequest("POST", "/facilities").
				WithBodyJson(JSON{"name": "lobby", "min": 1, "max": 3}).Do()
			Save(resp, "Create facility - already exists", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"error": JSON{
					"message":     "facility already exists: 'lobby'",
					"description": "facility already exists",
				},
			})
		})

		a.Alternative("Drop facility", func(a *biff.A) {
			resp := apiRequest("POST", "/facilities/lobby:dropFacility").Do()
			Save(resp, "Drop facility", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			a.Alternative("Get dropped facility", func(a *biff.A) {
				resp := apiRequest("GET", "/facilities/lobby").Do()
				Save(resp, "Get facility - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"error": JSON{
						"message":     "facility not found: 'lobby'",
						"description": "facility does not exist",
					},
				})
			})
		})

		a.Alternative("Rent until exhausted", func(a *biff.A) {
			for _, id := range []int{1, 2, 3} {
				resp := apiRequest("POST", "/facilities/lobby:rent").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusCreated)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": id})
			}

			resp := apiRequest("POST", "/facilities/lobby:rent").Do()
			Save(resp, "Rent - no available locker", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"error": JSON{
					"message":     "no available slot in [1, 3]",
					"description": "every locker is rented or out of commission",
				},
			})

			a.Alternative("Free one and rent again", func(a *biff.A) {
				resp := apiRequest("POST", "/facilities/lobby:free").
					WithBodyJson(JSON{"id": 2}).Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

				resp = apiRequest("POST", "/facilities/lobby:rent").Do()
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 2})

				resp = apiRequest("POST", "/facilities/lobby:rent").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusConflict)
			})
		})

		a.Alternative("Rent one", func(a *biff.A) {
			resp := apiRequest("POST", "/facilities/lobby:rent").Do()
			Save(resp, "Rent", `
				Rents the lowest available locker, starting the search where the
				last rental left off.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 1})

			a.Alternative("Deposit and retrieve", func(a *biff.A) {
				contents := JSON{"owner": "Fulanez", "items": []string{"coat", "umbrella"}}

				resp := apiRequest("POST", "/facilities/lobby:deposit").
					WithBodyJson(JSON{"id": 1, "payload": contents}).Do()
				Save(resp, "Deposit", ``)
				biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

				resp = apiRequest("POST", "/facilities/lobby:retrieve").
					WithBodyJson(JSON{"id": 1}).Do()
				Save(resp, "Retrieve", ``)
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 1, "payload": contents})

				a.Alternative("Get locker", func(a *biff.A) {
					resp := apiRequest("GET", "/facilities/lobby/lockers/1").Do()
					Save(resp, "Get locker", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), JSON{
						"id":                1,
						"allocated":         true,
						"out_of_commission": false,
						"occupied":          true,
						"payload":           contents,
					})
				})

				a.Alternative("Free and retrieve", func(a *biff.A) {
					resp := apiRequest("POST", "/facilities/lobby:free").
						WithBodyJson(JSON{"id": 1}).Do()
					Save(resp, "Free", ``)
					biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

					resp = apiRequest("POST", "/facilities/lobby:retrieve").
						WithBodyJson(JSON{"id": 1}).Do()
					Save(resp, "Retrieve - not rented", ``)
					biff.AssertEqual(resp.StatusCode, http.StatusConflict)
					biff.AssertEqualJson(resp.BodyJson(), JSON{
						"error": JSON{
							"message":     "not allocated: slot 1",
							"description": "locker is not rented",
						},
					})

					a.Alternative("Rent again gets the freed locker", func(a *biff.A) {
						resp := apiRequest("POST", "/facilities/lobby:rent").Do()
						biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 1})

						resp = apiRequest("POST", "/facilities/lobby:retrieve").
							WithBodyJson(JSON{"id": 1}).Do()
						biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 1, "payload": nil})
					})
				})
			})

			a.Alternative("Deposit without payload", func(a *biff.A) {
				resp := apiRequest("POST", "/facilities/lobby:deposit").
					WithBodyJson(JSON{"id": 1}).Do()
				Save(resp, "Deposit - empty payload", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"error": JSON{
						"message":     "payload is empty",
						"description": "payload is required",
					},
				})
			})

			a.Alternative("Deposit on a free locker", func(a *biff.A) {
				resp := apiRequest("POST", "/facilities/lobby:deposit").
					WithBodyJson(JSON{"id": 2, "payload": "keys"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusConflict)
			})

			a.Alternative("Out of commission is skipped", func(a *biff.A) {
				resp := apiRequest("POST", "/facilities/lobby:outOfCommission").
					WithBodyJson(JSON{"id": 2}).Do()
				Save(resp, "Out of commission", `
					Withdraws a locker for maintenance. A current renter keeps it,
					it is just never handed out again until it is operational.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"name":              "lobby",
					"min":               1,
					"max":               3,
					"total":             3,
					"rented":            1,
					"out_of_commission": 1,
					"occupied":          0,
					"available":         1,
				})

				resp = apiRequest("POST", "/facilities/lobby:rent").Do()
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 3})

				resp = apiRequest("POST", "/facilities/lobby:rent").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusConflict)

				a.Alternative("Operational again", func(a *biff.A) {
					resp := apiRequest("POST", "/facilities/lobby:operational").
						WithBodyJson(JSON{"id": 2}).Do()
					Save(resp, "Operational", ``)
					biff.AssertEqual(resp.StatusCode, http.StatusOK)

					resp = apiRequest("POST", "/facilities/lobby:rent").Do()
					biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 2})
				})
			})

			a.Alternative("Find lockers", func(a *biff.A) {
				resp := apiRequest("POST", "/facilities/lobby:find").
					WithBodyJson(JSON{"limit": 10}).Do()
				Save(resp, "Find - all lockers", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				lines := readLines(resp.BodyString())
				biff.AssertEqual(len(lines), 3)
				biff.AssertEqualJson(lines[0], JSON{"id": 1, "allocated": true, "out_of_commission": false, "occupied": false})
				biff.AssertEqualJson(lines[2], JSON{"id": 3, "allocated": false, "out_of_commission": false, "occupied": false})

				resp = apiRequest("POST", "/facilities/lobby:find").
					WithBodyJson(JSON{"limit": 10, "filter": JSON{"id": 2}}).Do()
				Save(resp, "Find - with filter", ``)

				lines = readLines(resp.BodyString())
				biff.AssertEqual(len(lines), 1)
				biff.AssertEqualJson(lines[0], JSON{"id": 2, "allocated": false, "out_of_commission": false, "occupied": false})

				resp = apiRequest("POST", "/facilities/lobby:find").
					WithBodyJson(JSON{"skip": 1, "limit": 1}).Do()

				lines = readLines(resp.BodyString())
				biff.AssertEqual(len(lines), 1)
				biff.AssertEqualJson(lines[0], JSON{"id": 2, "allocated": false, "out_of_commission": false, "occupied": false})
			})
		})

		a.Alternative("Invalid locker id", func(a *biff.A) {
			resp := apiRequest("POST", "/facilities/lobby:free").
				WithBodyJson(JSON{"id": 99}).Do()
			Save(resp, "Free - invalid locker", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"error": JSON{
					"message":     "invalid id: 99 is outside [1, 3]",
					"description": "locker does not belong to this facility",
				},
			})

			resp = apiRequest("GET", "/facilities/lobby/lockers/0").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)

			resp = apiRequest("GET", "/facilities/lobby/lockers/first").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Free a locker nobody rented", func(a *biff.A) {
			resp := apiRequest("POST", "/facilities/lobby:free").
				WithBodyJson(JSON{"id": 1}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})
	})

	a.Alternative("Create facility with invalid range", func(a *biff.A) {
		resp := apiRequest("POST", "/facilities").
			WithBodyJson(JSON{"name": "basement", "min": 5, "max": 5}).Do()
		Save(resp, "Create facility - invalid range", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"error": JSON{
				"message":     "invalid range: max must be greater than min, got [5, 5]",
				"description": "bounds must satisfy 0 < min < max within the locker limit",
			},
		})

		resp = apiRequest("GET", "/facilities").Do()
		biff.AssertEqualJson(resp.BodyJson(), []JSON{})
	})

	a.Alternative("Create facility too large", func(a *biff.A) {
		resp := apiRequest("POST", "/facilities").
			WithBodyJson(JSON{"name": "warehouse", "min": 1, "max": 1000000000}).Do()
		Save(resp, "Create facility - too many lockers", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"error": JSON{
				"message":     "invalid range: at most 1048576 slots, got [1, 1000000000]",
				"description": "bounds must satisfy 0 < min < max within the locker limit",
			},
		})

		resp = apiRequest("GET", "/facilities").Do()
		biff.AssertEqualJson(resp.BodyJson(), []JSON{})
	})

	a.Alternative("Create facility with valid adjacent range", func(a *biff.A) {
		resp := apiRequest("POST", "/facilities").
			WithBodyJson(JSON{"name": "basement", "min": 5, "max": 6}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
	})

	a.Alternative("Create facility with invalid name", func(a *biff.A) {
		resp := apiRequest("POST", "/facilities").
			WithBodyJson(JSON{"name": "../etc", "min": 1, "max": 2}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Rent on not existing facility", func(a *biff.A) {
		resp := apiRequest("POST", "/facilities/ghost:rent").Do()
		Save(resp, "Rent - facility not found", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})
}

func readLines(body string) []interface{} {
	lines := []interface{}{}
	s := bufio.NewScanner(strings.NewReader(body))
	for s.Scan() {
		var line interface{}
		if json.Unmarshal(s.Bytes(), &line) == nil {
			lines = append(lines, line)
		}
	}
	return lines
}
