package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type clockRequest struct {
	ID     string    `json:"id"`
	Worker string    `json:"worker"`
	Type   string    `json:"type"`
	Time   time.Time `json:"time"`
}

func main() {
	url := flag.String("url", "http://localhost:8080/api/v1/clock-entries", "clock entry endpoint")
	secret := flag.String("secret", "", "JWT_SECRET of the API; empty when verification is off")
	numWorkers := flag.Int("workers", 5000, "simulated workers, each clocking in and out")
	concurrency := flag.Int("concurrency", 50, "concurrent requests, kept low to avoid local port exhaustion")
	flag.Parse()

	totalRequests := *numWorkers * 2
	fmt.Printf("Starting load test: %d workers (2 requests each) to %s with concurrency %d\n", *numWorkers, *url, *concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, *concurrency) // Semaphore to limit concurrency

	var successCount int64
	var failCount int64

	startTime := time.Now()

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		sem <- struct{}{} // Acquire token

		worker := fmt.Sprintf("loadtest%d", i)

		go func(worker string) {
			defer wg.Done()
			defer func() { <-sem }() // Release token

			token, err := signToken(worker, *secret)
			if err != nil {
				atomic.AddInt64(&failCount, 2)
				return
			}

			at := time.Now().Add(-8 * time.Hour)
			for _, typ := range []string{"clock-in", "clock-out"} {
				payload, _ := json.Marshal(clockRequest{ID: uuid.NewString(), Worker: worker, Type: typ, Time: at})
				at = at.Add(8 * time.Hour)

				req, _ := http.NewRequest(http.MethodPost, *url, bytes.NewReader(payload))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("Authorization", "Bearer "+token)

				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					atomic.AddInt64(&failCount, 1)
					continue
				}
				if resp.StatusCode >= 200 && resp.StatusCode < 300 {
					atomic.AddInt64(&successCount, 1)
				} else {
					atomic.AddInt64(&failCount, 1)
				}
				resp.Body.Close()
			}
		}(worker)
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Load Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Requests: %d\n", totalRequests)
	fmt.Printf("Successful:     %d\n", successCount)
	fmt.Printf("Failed:         %d\n", failCount)
	fmt.Printf("Requests/Sec:   %.2f\n", float64(totalRequests)/duration.Seconds())
}

// signToken issues a token whose email claim maps back to worker, so the
// API's self-clocking check passes.
func signToken(worker, secret string) (string, error) {
	claims := jwt.MapClaims{
		"email": worker + "@loadtest.local",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	if secret == "" {
		secret = "unverified" // the API only decodes the claims
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
