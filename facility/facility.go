package facility

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/google/uuid"

	"github.com/fulldump/lockerdesk/allocator"
)

var (
	ErrorEmptyPayload     = errors.New("payload is empty")
	ErrorAlreadyExists    = errors.New("facility already exists")
	ErrorJournalDiverged  = errors.New("journal diverged")
	ErrorMissingCreate    = errors.New("journal does not start with a create command")
	ErrorFacilityIsClosed = errors.New("facility is closed")
)

// Facility is a bank of lockers backed by an append-only journal. All
// operations are serialized, the underlying allocator is never shared.
type Facility struct {
	Filename string
	file     *os.File
	mutex    *sync.Mutex
	lockers  *allocator.RangeAllocator[json.RawMessage]
}

// Locker is the public view of a single locker.
type Locker struct {
	allocator.Slot
	Payload json.RawMessage `json:"payload,omitempty"`
}

func CreateFacility(filename string, min, max int) (*Facility, error) {

	lockers, err := allocator.New[json.RawMessage](min, max)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filename)
	if err == nil && info.Size() > 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrorAlreadyExists, filename)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for write: %w", err)
	}

	f := &Facility{
		Filename: filename,
		file:     file,
		mutex:    &sync.Mutex{},
		lockers:  lockers,
	}

	err = f.persist(CommandCreate, CreateCommand{Min: min, Max: max})
	if err != nil {
		file.Close()
		return nil, err
	}

	return f, nil
}

func OpenFacility(filename string) (*Facility, error) {

	r, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open file for read: %w", err)
	}
	defer r.Close()

	lockers, truncateAt, err := replay(r)
	if err != nil {
		return nil, err
	}

	if truncateAt > 0 {
		fmt.Printf("WARNING: facility '%s' ends with a partial command, truncating at byte %d\n", filename, truncateAt)
		err = os.Truncate(filename, truncateAt)
		if err != nil {
			return nil, fmt.Errorf("truncate partial command: %w", err)
		}
	}

	// Open file for append only
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for write: %w", err)
	}

	if truncateAt > 0 {
		_, err = file.WriteString("\n")
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("open file for write: %w", err)
		}
	}

	return &Facility{
		Filename: filename,
		file:     file,
		mutex:    &sync.Mutex{},
		lockers:  lockers,
	}, nil
}

// replay rebuilds the allocator from a journal. A command cut short by the
// end of the input (a crash in the middle of a write) ends the replay, and
// truncateAt reports the size of the journal without it.
func replay(r io.Reader) (lockers *allocator.RangeAllocator[json.RawMessage], truncateAt int64, err error) {

	j := json.NewDecoder(r)
	offset := int64(0)
	for n := 0; ; n++ {
		command := &Command{}
		err = j.Decode(command)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF && lockers != nil {
			truncateAt = offset
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decode json: %w", err)
		}
		offset = j.InputOffset()

		if n == 0 {
			if command.Name != CommandCreate {
				return nil, 0, ErrorMissingCreate
			}
			params := CreateCommand{}
			err = jsonv2.Unmarshal(command.Payload, &params)
			if err != nil {
				return nil, 0, fmt.Errorf("decode create: %w", err)
			}
			lockers, err = allocator.New[json.RawMessage](params.Min, params.Max)
			if err != nil {
				return nil, 0, err
			}
			continue
		}

		err = apply(lockers, command)
		if err != nil {
			return nil, 0, fmt.Errorf("command %d '%s' (%s): %w", n, command.Name, command.Uuid, err)
		}
	}

	if lockers == nil {
		return nil, 0, ErrorMissingCreate
	}

	return lockers, truncateAt, nil
}

func apply(lockers *allocator.RangeAllocator[json.RawMessage], command *Command) error {

	if command.Name == CommandDeposit {
		params := DepositCommand{}
		err := json.Unmarshal(command.Payload, &params)
		if err != nil {
			return err
		}
		return lockers.Deposit(params.ID, params.Payload)
	}

	params := LockerCommand{}
	err := jsonv2.Unmarshal(command.Payload, &params)
	if err != nil {
		return err
	}

	switch command.Name {
	case CommandRent:
		id, err := lockers.Rent()
		if err != nil {
			return err
		}
		if id != params.ID {
			return fmt.Errorf("%w: rented %d, journal says %d", ErrorJournalDiverged, id, params.ID)
		}
		return nil
	case CommandFree:
		return lockers.Free(params.ID)
	case CommandOutOfCommission:
		return lockers.MarkOutOfCommission(params.ID)
	case CommandOperational:
		return lockers.MarkOperational(params.ID)
	}

	return fmt.Errorf("unknown command '%s'", command.Name)
}

func (f *Facility) persist(name string, payload interface{}) error {

	if f.file == nil {
		return ErrorFacilityIsClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json encode payload: %w", err)
	}

	command := &Command{
		Name:      name,
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
		Payload:   data,
	}

	err = json.NewEncoder(f.file).Encode(command)
	if err != nil {
		return fmt.Errorf("json encode command: %w", err)
	}

	return nil
}

func (f *Facility) Min() int {
	return f.lockers.Min()
}

func (f *Facility) Max() int {
	return f.lockers.Max()
}

// Rent takes a locker and journals it. A rent that cannot be journaled is
// undone so memory never runs ahead of the file.
func (f *Facility) Rent() (int, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.file == nil {
		return 0, ErrorFacilityIsClosed
	}

	id, err := f.lockers.Rent()
	if err != nil {
		return 0, err
	}

	err = f.persist(CommandRent, LockerCommand{ID: id})
	if err != nil {
		f.lockers.Free(id)
		return 0, err
	}

	return id, nil
}

// The remaining mutations are validated against the allocator first, then
// journaled and only then applied, so a failed write changes nothing.

func (f *Facility) Free(id int) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.file == nil {
		return ErrorFacilityIsClosed
	}

	_, err := f.lockers.Get(id)
	if err != nil {
		return err
	}

	err = f.persist(CommandFree, LockerCommand{ID: id})
	if err != nil {
		return err
	}

	return f.lockers.Free(id)
}

func (f *Facility) Deposit(id int, payload json.RawMessage) error {

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return ErrorEmptyPayload
	}
	if !json.Valid(payload) {
		return fmt.Errorf("invalid json payload for locker %d", id)
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.file == nil {
		return ErrorFacilityIsClosed
	}

	_, err := f.lockers.Get(id)
	if err != nil {
		return err
	}

	err = f.persist(CommandDeposit, DepositCommand{ID: id, Payload: payload})
	if err != nil {
		return err
	}

	return f.lockers.Deposit(id, payload)
}

// Retrieve returns the contents of a rented locker without removing them.
func (f *Facility) Retrieve(id int) (json.RawMessage, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.lockers.Get(id)
}

func (f *Facility) MarkOutOfCommission(id int) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.file == nil {
		return ErrorFacilityIsClosed
	}

	_, err := f.lockers.Inspect(id)
	if err != nil {
		return err
	}

	err = f.persist(CommandOutOfCommission, LockerCommand{ID: id})
	if err != nil {
		return err
	}

	return f.lockers.MarkOutOfCommission(id)
}

func (f *Facility) MarkOperational(id int) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.file == nil {
		return ErrorFacilityIsClosed
	}

	_, err := f.lockers.Inspect(id)
	if err != nil {
		return err
	}

	err = f.persist(CommandOperational, LockerCommand{ID: id})
	if err != nil {
		return err
	}

	return f.lockers.MarkOperational(id)
}

func (f *Facility) Locker(id int) (*Locker, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.locker(id)
}

func (f *Facility) locker(id int) (*Locker, error) {

	slot, err := f.lockers.Inspect(id)
	if err != nil {
		return nil, err
	}

	locker := &Locker{Slot: slot}
	if slot.Allocated {
		locker.Payload, _ = f.lockers.Get(id)
	}

	return locker, nil
}

// Traverse visits lockers in ascending id order until fn returns false. The
// facility stays locked during the whole traversal.
func (f *Facility) Traverse(fn func(locker *Locker) bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.lockers.Traverse(func(s allocator.Slot) bool {
		locker, _ := f.locker(s.ID)
		return fn(locker)
	})
}

func (f *Facility) Stats() allocator.Stats {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.lockers.Stats()
}

func (f *Facility) Close() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.file == nil {
		return nil
	}

	err := f.file.Close()
	f.file = nil
	return err
}

func (f *Facility) Drop() error {

	err := f.Close()
	if err != nil {
		return err
	}

	return os.Remove(f.Filename)
}
