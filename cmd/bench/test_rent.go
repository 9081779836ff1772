package main

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// TestRent rents every locker of a fresh facility and checks exhaustion.
func TestRent(c Config) {

	facility := CreateFacility(c.Base, c.N)
	url := c.Base + "/v1/facilities/" + facility + ":rent"

	pending := c.N
	rented := int64(0)

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for atomic.AddInt64(&pending, -1) >= 0 {
			status, body := Post(url, nil)
			if status != http.StatusCreated {
				fmt.Println("ERROR: rent:", status, string(body))
				continue
			}
			atomic.AddInt64(&rented, 1)
		}
	})
	took := time.Since(t0)

	status, _ := Post(url, nil)
	fmt.Println("rented:", rented, "of", c.N)
	fmt.Println("exhausted:", status == http.StatusConflict)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rents/sec\n", float64(rented)/took.Seconds())
}
