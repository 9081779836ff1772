package database

import (
	"errors"
	"os"
	"path"
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/lockerdesk/allocator"
)

func TestDatabase(t *testing.T) {

	Alternative("Empty database", func(a *A) {

		dir := t.TempDir()
		db := NewDatabase(&Config{Dir: dir})
		AssertEqual(db.GetStatus(), StatusOpening)
		AssertNil(db.Load())
		AssertEqual(db.GetStatus(), StatusOperating)

		a.Alternative("Create facility", func(a *A) {
			f, err := db.CreateFacility("north-wing", 1, 10)
			AssertNil(err)
			id, _ := f.Rent()
			AssertEqual(id, 1)

			a.Alternative("Create twice", func(a *A) {
				_, err := db.CreateFacility("north-wing", 1, 10)
				AssertTrue(errors.Is(err, ErrorFacilityAlreadyExists))
			})

			a.Alternative("Reload from disk", func(a *A) {
				db.Stop()

				db2 := NewDatabase(&Config{Dir: dir})
				AssertNil(db2.Load())
				f2, err := db2.GetFacility("north-wing")
				AssertNil(err)
				AssertEqual(f2.Stats(), allocator.Stats{Total: 10, Rented: 1, Available: 9})
				db2.Stop()
			})

			a.Alternative("Drop", func(a *A) {
				AssertNil(db.DropFacility("north-wing"))
				_, err := db.GetFacility("north-wing")
				AssertTrue(errors.Is(err, ErrorFacilityNotFound))
				AssertEqual(len(db.ListFacilities()), 0)
			})
		})

		a.Alternative("Invalid range", func(a *A) {
			_, err := db.CreateFacility("broken", 3, 1)
			AssertTrue(errors.Is(err, allocator.ErrorInvalidRange))
			AssertEqual(len(db.ListFacilities()), 0)
		})

		a.Alternative("Drop missing", func(a *A) {
			err := db.DropFacility("ghost")
			AssertTrue(errors.Is(err, ErrorFacilityNotFound))
		})
	})
}

func TestDatabase_LoadPartialJournal(t *testing.T) {

	dir := t.TempDir()
	os.WriteFile(path.Join(dir, "east-wing"), []byte(
		`{"name":"create","uuid":"a","timestamp":1,"payload":{"min":1,"max":5}}`+"\n"+
			`{"name":"rent","uuid":"b","timestamp":2,"payload":{"id":1}}`+"\n"+
			`{"name":"rent","uuid":"c","tim`,
	), 0666)

	db := NewDatabase(&Config{Dir: dir})
	AssertNil(db.Load())
	defer db.Stop()
	AssertEqual(db.GetStatus(), StatusOperating)

	f, err := db.GetFacility("east-wing")
	AssertNil(err)
	AssertEqual(f.Stats().Rented, 1)
}
