package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test    string `usage:"name of the test: ALL | RENT | CYCLE"`
	Base    string `usage:"base URL, empty to start an embedded server"`
	N       int64  `usage:"number of lockers"`
	Workers int    `usage:"number of workers"`
}

var cleanups []func()

func main() {

	defer func() {
		fmt.Println("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:    "cycle",
		Base:    "",
		N:       100_000,
		Workers: 16,
	}
	goconfig.Read(&c)

	if c.Base == "" {
		start, stop := CreateServer(&c)
		defer stop()
		go start()
		WaitReady(c.Base)
	}

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestRent(c)
		TestCycle(c)
	case "RENT":
		TestRent(c)
	case "CYCLE":
		TestCycle(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
