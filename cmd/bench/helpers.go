package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/fulldump/lockerdesk/bootstrap"
	"github.com/fulldump/lockerdesk/configuration"
)

type JSON = map[string]any

var client = &http.Client{
	Transport: &http.Transport{
		MaxConnsPerHost:     1024,
		MaxIdleConnsPerHost: 1024,
		MaxIdleConns:        1024,
	},
	Timeout: 10 * time.Second,
}

func Parallel(workers int, f func()) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	wg.Wait()
}

func TempDir() (string, func()) {
	dir, err := os.MkdirTemp("", "lockerdesk_bench_*")
	if err != nil {
		panic("Could not create temp directory: " + err.Error())
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return dir, cleanup
}

func CreateServer(c *Config) (start, stop func()) {
	dir, cleanup := TempDir()
	cleanups = append(cleanups, cleanup)

	conf := configuration.Default()
	conf.Dir = dir
	conf.ShowBanner = false
	conf.EnableCompression = false
	c.Base = "http://" + conf.HttpAddr

	return bootstrap.Bootstrap(conf)
}

// WaitReady polls until the database finished loading.
func WaitReady(base string) {
	for i := 0; i < 100; i++ {
		resp, err := client.Get(base + "/v1/facilities")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	panic("server not ready at " + base)
}

func CreateFacility(base string, n int64) string {

	name := "facility-" + strconv.FormatInt(time.Now().UnixNano(), 10)

	status, body := Post(base+"/v1/facilities", JSON{"name": name, "min": 1, "max": n})
	if status != http.StatusCreated {
		panic(fmt.Sprintf("create facility: %d %s", status, body))
	}

	return name
}

func Post(url string, payload any) (int, []byte) {

	var body io.Reader = http.NoBody
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}

	resp, err := client.Post(url, "application/json", body)
	if err != nil {
		fmt.Println("ERROR: do request:", err.Error())
		os.Exit(4)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}
