package api

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"

	"github.com/fulldump/lockerdesk/database"
	"github.com/fulldump/lockerdesk/service"
)

func TestCompression(t *testing.T) {

	biff.Alternative("Compressed api", func(a *biff.A) {

		db := database.NewDatabase(&database.Config{
			Dir: t.TempDir(),
		})
		biff.AssertNil(db.Load())
		defer db.Stop()

		f, err := db.CreateFacility("lobby", 1, 4)
		biff.AssertNil(err)
		f.Rent()

		b := Build(service.NewService(db), "", "test", "", "", false)
		b.WithInterceptors(
			Compression,
			PrettyErrorInterceptor,
		)

		api := apitest.NewWithHandler(b)

		expectedBody := map[string]any{
			"name":              "lobby",
			"min":               1,
			"max":               4,
			"total":             4,
			"rented":            1,
			"out_of_commission": 0,
			"occupied":          0,
			"available":         3,
		}

		a.Alternative("Client accepts gzip", func(a *biff.A) {
			resp := api.Request("GET", "/v1/facilities/lobby").
				WithHeader("Accept-Encoding", "gzip").
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.Header.Get("Content-Encoding"), "gzip")
			biff.AssertEqual(resp.Header.Get("Vary"), "Accept-Encoding")

			gz, err := gzip.NewReader(bytes.NewReader(resp.BodyBytes()))
			biff.AssertNil(err)
			body, err := io.ReadAll(gz)
			biff.AssertNil(err)

			var facility any
			biff.AssertNil(json.Unmarshal(body, &facility))
			biff.AssertEqualJson(facility, expectedBody)
		})

		a.Alternative("Client does not accept gzip", func(a *biff.A) {
			resp := api.Request("GET", "/v1/facilities/lobby").
				WithHeader("Accept-Encoding", "identity").
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.Header.Get("Content-Encoding"), "")
			biff.AssertEqual(resp.Header.Get("Vary"), "Accept-Encoding")
			biff.AssertEqualJson(resp.BodyJson(), expectedBody)
		})

		a.Alternative("Images are not compressed", func(a *biff.A) {
			resp := api.Request("GET", "/favicon.png").
				WithHeader("Accept-Encoding", "gzip").
				Do()

			biff.AssertEqual(resp.Header.Get("Content-Encoding"), "")
		})
	})
}
