package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fulldump/lockerdesk/facility"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

var (
	ErrorFacilityNotFound      = errors.New("facility not found")
	ErrorFacilityAlreadyExists = errors.New("facility already exists")
)

type Config struct {
	Dir string
}

type Database struct {
	Config     *Config
	status     string
	facilities map[string]*facility.Facility
	mutex      *sync.RWMutex
	exit       chan struct{}
}

func NewDatabase(config *Config) *Database {
	s := &Database{
		Config:     config,
		status:     StatusOpening,
		facilities: map[string]*facility.Facility{},
		mutex:      &sync.RWMutex{},
		exit:       make(chan struct{}),
	}

	return s
}

func (db *Database) GetStatus() string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	return db.status
}

func (db *Database) setStatus(status string) {
	db.mutex.Lock()
	db.status = status
	db.mutex.Unlock()
}

func (db *Database) CreateFacility(name string, min, max int) (*facility.Facility, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	_, exists := db.facilities[name]
	if exists {
		return nil, fmt.Errorf("%w: '%s'", ErrorFacilityAlreadyExists, name)
	}

	filename := path.Join(db.Config.Dir, name)
	f, err := facility.CreateFacility(filename, min, max)
	if err != nil {
		return nil, err
	}

	db.facilities[name] = f

	return f, nil
}

func (db *Database) GetFacility(name string) (*facility.Facility, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	f, exists := db.facilities[name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrorFacilityNotFound, name)
	}

	return f, nil
}

// ListFacilities returns a copy of the facilities index.
func (db *Database) ListFacilities() map[string]*facility.Facility {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	result := make(map[string]*facility.Facility, len(db.facilities))
	for name, f := range db.facilities {
		result[name] = f
	}

	return result
}

func (db *Database) DropFacility(name string) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	f, exists := db.facilities[name]
	if !exists {
		return fmt.Errorf("%w: '%s'", ErrorFacilityNotFound, name)
	}

	err := f.Drop()
	if err != nil {
		return fmt.Errorf("drop facility '%s': %w", name, err)
	}

	delete(db.facilities, name)

	return nil
}

func (db *Database) Load() error {

	fmt.Printf("Loading database %s...\n", db.Config.Dir)
	dir := db.Config.Dir
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	err = filepath.WalkDir(dir, func(filename string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := filename
		name = strings.TrimPrefix(name, dir)
		name = strings.TrimPrefix(name, "/")

		t0 := time.Now()
		f, err := facility.OpenFacility(filename)
		if err != nil {
			fmt.Printf("ERROR: open facility '%s': %s\n", filename, err.Error())
			return err
		}
		fmt.Println(name, f.Stats().Rented, time.Since(t0))

		db.mutex.Lock()
		db.facilities[name] = f
		db.mutex.Unlock()

		return nil
	})

	if err != nil {
		db.setStatus(StatusClosing)
		return err
	}

	db.setStatus(StatusOperating)

	return nil
}

func (db *Database) Start() error {

	go db.Load()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	defer close(db.exit)

	db.setStatus(StatusClosing)

	var lastErr error
	for name, f := range db.ListFacilities() {
		fmt.Printf("Closing '%s'...\n", name)
		err := f.Close()
		if err != nil {
			fmt.Printf("ERROR: close(%s): %s", name, err.Error())
			lastErr = err
		}
	}

	return lastErr
}
