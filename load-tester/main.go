package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	PaymentsEndpoint string
	ReportEndpoint   string
	Total            int
	Rate             int
	Concurrency      int
	ReportPercent    int
}

func parseFlags() *Config {
	c := &Config{}
	flag.StringVar(&c.PaymentsEndpoint, "payments-endpoint", "", "Payments ingest URL (required)")
	flag.StringVar(&c.ReportEndpoint, "report-endpoint", "", "Report query URL (optional)")
	flag.IntVar(&c.Total, "total", 10000, "Total requests")
	flag.IntVar(&c.Rate, "rate", 2000, "Requests per second")
	flag.IntVar(&c.Concurrency, "concurrency", 0, "Worker count (0=auto)")
	flag.IntVar(&c.ReportPercent, "report-percent", 0, "Share of requests that run report queries")
	flag.Parse()

	if c.PaymentsEndpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: -payments-endpoint is required")
		flag.Usage()
		os.Exit(1)
	}

	if c.Concurrency == 0 {
		c.Concurrency = c.Rate / 20
		if c.Concurrency < 50 {
			c.Concurrency = 50
		}
	}

	if c.ReportPercent > 100 {
		c.ReportPercent = 100
	} else if c.ReportPercent < 0 {
		c.ReportPercent = 0
	}
	if c.ReportEndpoint == "" {
		c.ReportPercent = 0
	}

	return c
}

type Stats struct {
	ok      uint64
	errors  uint64
	latency int64 // microseconds
}

func (s *Stats) AddOK(duration time.Duration) {
	atomic.AddUint64(&s.ok, 1)
	atomic.AddInt64(&s.latency, duration.Microseconds())
}

func (s *Stats) AddError() {
	atomic.AddUint64(&s.errors, 1)
}

func (s *Stats) StartLogger(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	var lastOK, lastErr uint64

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok := atomic.LoadUint64(&s.ok)
			errs := atomic.LoadUint64(&s.errors)

			log.Printf("ok=%d (+%d) errors=%d (+%d)", ok, ok-lastOK, errs, errs-lastErr)
			lastOK, lastErr = ok, errs
		}
	}
}

var (
	methods   = []string{"cash", "card", "online", "transfer"}
	statuses  = []string{"paid", "pending", "refunded", "failed"}
	operators = []string{"Northline Express", "Blue Coach", "Transmeridian", "City Shuttle"}
)

func randomPayment(rng *rand.Rand) map[string]any {
	amount := float64(rng.Intn(20000)+500) / 100
	items := rng.Intn(4) + 1
	ref := fmt.Sprintf("%d%02d%06d", rng.Intn(3)+1, rng.Intn(12)+1, rng.Intn(1000000))

	return map[string]any{
		"timestamp": time.Now().Add(-time.Duration(rng.Intn(72)) * time.Hour).Unix(),
		"amount":    amount,
		"method":    methods[rng.Intn(len(methods))],
		"status":    statuses[rng.Intn(len(statuses))],
		"reference": ref,
		"rawPayload": map[string]any{
			"items": makeItems(rng, items),
			"summary": map[string]any{
				"charge": map[string]any{"total": int(amount*100) - rng.Intn(300)},
			},
		},
	}
}

func makeItems(rng *rand.Rand, n int) []map[string]any {
	items := make([]map[string]any, n)
	for i := range items {
		items[i] = map[string]any{"operator_name": operators[rng.Intn(len(operators))]}
	}
	return items
}

func randomReport(rng *rand.Rand) map[string]any {
	dims := [][]string{{"branch"}, {"operator", "day"}, {"paymentType"}, {"status"}}
	return map[string]any{
		"range":      "7d",
		"dimensions": dims[rng.Intn(len(dims))],
		"metrics":    []string{"payments", "revenue", "profit", "margin"},
		"limit":      50,
	}
}

func main() {
	cfg := parseFlags()

	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        cfg.Concurrency * 2,
			MaxIdleConnsPerHost: cfg.Concurrency * 2,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
		Timeout: 10 * time.Second,
	}

	stats := &Stats{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stats.StartLogger(ctx)

	interval := time.Second / time.Duration(cfg.Rate)
	jobs := make(chan int, cfg.Concurrency)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for range jobs {
				runOne(client, cfg, rng, stats)
			}
		}(int64(i) + time.Now().UnixNano())
	}

	start := time.Now()
	ticker := time.NewTicker(interval)
	for i := 0; i < cfg.Total; i++ {
		<-ticker.C
		jobs <- i
	}
	ticker.Stop()
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	ok := atomic.LoadUint64(&stats.ok)
	errs := atomic.LoadUint64(&stats.errors)
	latTotal := atomic.LoadInt64(&stats.latency)

	log.Printf("done in %s: ok=%d errors=%d avg_latency=%dµs rps=%.0f",
		elapsed, ok, errs, safeDiv(latTotal, int64(ok)), float64(ok)/elapsed.Seconds())
}

func runOne(client *http.Client, cfg *Config, rng *rand.Rand, stats *Stats) {
	var (
		endpoint string
		body     map[string]any
	)
	if rng.Intn(100) < cfg.ReportPercent {
		endpoint = cfg.ReportEndpoint
		body = randomReport(rng)
	} else {
		endpoint = cfg.PaymentsEndpoint
		body = randomPayment(rng)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		stats.AddError()
		return
	}

	start := time.Now()
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		stats.AddError()
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		stats.AddOK(time.Since(start))
	} else {
		stats.AddError()
	}
}

func safeDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return a / b
}
