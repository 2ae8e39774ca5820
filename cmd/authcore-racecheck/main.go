// Command authcore-racecheck submits many incorrect codes for one identity
// at once and compares how many the attempt counter recorded, first with the
// default read-then-write counter and then with atomic increments.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/digital-identity/authcore/internal/limiters"
	"github.com/digital-identity/authcore/internal/logging"
	"github.com/digital-identity/authcore/internal/stores"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run returns the process exit code so deferred cleanup runs before exit.
func run(args []string, logOut io.Writer) int {
	fs := flag.NewFlagSet("authcore-racecheck", flag.ContinueOnError)
	fs.SetOutput(logOut)
	var (
		submissions = fs.Int("submissions", 1000, "incorrect submissions per mode")
		concurrency = fs.Int("concurrency", 64, "number of concurrent workers")
		redisAddr   = fs.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		identity    = fs.String("identity", "racecheck@example.com", "identity whose counter is exercised")
		method      = fs.String("method", "SMS", "method tag of the scoped counter")
		logLevel    = fs.String("log-level", "info", "log level")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := logging.NewWithWriter(logging.Config{Level: *logLevel, Format: "console"}, logOut)
	defer func() { _ = log.Sync() }()

	if *submissions <= 0 || *concurrency <= 0 {
		log.Error("submissions and concurrency must be > 0")
		return 2
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			log.Error("failed to start miniredis", zap.Error(err))
			return 1
		}
		defer mr.Close()
		addr = mr.Addr()
		log.Info("using miniredis", zap.String("addr", addr))
	} else {
		log.Info("using redis", zap.String("addr", addr))
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{addr},
	})
	defer func() { _ = client.Close() }()

	store := stores.NewRedisCodeStore(client)

	fmt.Println("---- results ----")
	for _, atomicMode := range []bool{false, true} {
		tracker := limiters.NewAttemptTracker(store, limiters.AttemptConfig{AtomicIncrements: atomicMode})
		if err := tracker.Reset(ctx, *identity, *method); err != nil {
			log.Error("reset failed", zap.Error(err))
			return 1
		}

		stats := runPhase(ctx, tracker, *identity, *method, *submissions, *concurrency)
		counted, err := tracker.Count(ctx, *identity, *method)
		if err != nil {
			log.Error("count failed", zap.Error(err))
			return 1
		}

		name := "read-then-write"
		if atomicMode {
			name = "atomic"
		}
		printStats(name, stats, counted)
	}
	return 0
}

func runPhase(ctx context.Context, tracker *limiters.AttemptTracker, identity, method string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				_, err := tracker.Increment(ctx, identity, method)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p99      time.Duration
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p99:      percentile(samples, 99),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats, counted int) {
	lost := int64(s.ops) - s.failures - int64(counted)
	fmt.Printf("%s: submitted=%d failures=%d counted=%d lost=%d total=%s p50=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		counted,
		lost,
		s.total.Round(time.Millisecond),
		s.p50.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
