package cli

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/spf13/cobra"

	"github.com/reqpipe/reqpipe/pipeline"
)

var benchCmd = &cobra.Command{
	Use:   "bench URL",
	Short: "Issue repeated GET requests and report latency percentiles",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		count, _ := cmd.Flags().GetInt("requests")
		workers, _ := cmd.Flags().GetInt("concurrency")
		if count <= 0 || workers <= 0 {
			fail(fmt.Errorf("requests[%d] and concurrency[%d] must be greater than zero", count, workers))
		}

		desc, err := pipeline.NewDescriptor(http.MethodGet, args[0],
			pipeline.WithTimeout(flagTimeout),
		)
		if err != nil {
			fail(err)
		}

		client, err := newClient(newLogger())
		if err != nil {
			fail(err)
		}

		// Latencies recorded in microseconds, up to one minute.
		hist := hdrhistogram.New(1, int64(time.Minute/time.Microsecond), 3)
		var histMu sync.Mutex
		var failures atomic.Int64

		jobs := make(chan struct{})
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range jobs {
					start := time.Now()
					r, err := pipeline.Await(cmd.Context(), client, desc, pipeline.Bytes())
					elapsed := time.Since(start)

					if err != nil {
						failures.Add(1)
						continue
					}
					if _, _, ok := r.Succeeded(); !ok {
						failures.Add(1)
						continue
					}

					histMu.Lock()
					hist.RecordValue(elapsed.Microseconds())
					histMu.Unlock()
				}
			}()
		}

		started := time.Now()
		for i := 0; i < count; i++ {
			jobs <- struct{}{}
		}
		close(jobs)
		wg.Wait()
		total := time.Since(started)

		quantile := func(q float64) time.Duration {
			return time.Duration(hist.ValueAtQuantile(q)) * time.Microsecond
		}

		fmt.Printf("Requests:    %d (%d failed)\n", count, failures.Load())
		fmt.Printf("Duration:    %s\n", total.Round(time.Millisecond))
		fmt.Printf("Latency p50: %s\n", quantile(50))
		fmt.Printf("Latency p90: %s\n", quantile(90))
		fmt.Printf("Latency p99: %s\n", quantile(99))
		fmt.Printf("Latency max: %s\n", time.Duration(hist.Max())*time.Microsecond)
	},
}

func init() {
	benchCmd.Flags().IntP("requests", "n", 100, "Total number of requests")
	benchCmd.Flags().IntP("concurrency", "c", 5, "Concurrent workers")
}
