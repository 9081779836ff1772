package facility

import "encoding/json"

type Command struct {
	Name      string          `json:"name"`
	Uuid      string          `json:"uuid"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	CommandCreate          = "create"
	CommandRent            = "rent"
	CommandFree            = "free"
	CommandDeposit         = "deposit"
	CommandOutOfCommission = "out_of_commission"
	CommandOperational     = "operational"
)

type CreateCommand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type LockerCommand struct {
	ID int `json:"id"`
}

type DepositCommand struct {
	ID      int             `json:"id"`
	Payload json.RawMessage `json:"payload"`
}
