package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// TestCycle runs rent, deposit, retrieve and free loops against a facility
// smaller than the number of operations, so lockers get reused.
func TestCycle(c Config) {

	size := int64(c.Workers) * 4
	facility := CreateFacility(c.Base, size)
	base := c.Base + "/v1/facilities/" + facility

	pending := c.N
	cycles := int64(0)

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for {
			n := atomic.AddInt64(&pending, -1)
			if n < 0 {
				break
			}

			status, body := Post(base+":rent", nil)
			if status != http.StatusCreated {
				fmt.Println("ERROR: rent:", status, string(body))
				continue
			}
			locker := struct {
				ID int `json:"id"`
			}{}
			json.Unmarshal(body, &locker)

			Post(base+":deposit", JSON{"id": locker.ID, "payload": JSON{"cycle": n}})
			Post(base+":retrieve", JSON{"id": locker.ID})

			status, body = Post(base+":free", JSON{"id": locker.ID})
			if status != http.StatusNoContent {
				fmt.Println("ERROR: free:", status, string(body))
				continue
			}
			atomic.AddInt64(&cycles, 1)
		}
	})
	took := time.Since(t0)

	fmt.Println("cycles:", cycles, "over", size, "lockers")
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f cycles/sec\n", float64(cycles)/took.Seconds())
}
