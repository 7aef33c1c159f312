package objects

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/snnfw/neurostore/cmd/util"
	"github.com/snnfw/neurostore/lib/model"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the object store",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfIDOffset   = model.NeuronIDStart + 90_000_000_000_000 // keep clear of real data
	perfNumObjects = 1000
	perfNumOps     = 10000
	perfSkip       = make([]string, 0)
)

func init() {
	// add flags
	key := "objects"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How many test objects to use (more objects than cache slots forces database loads)"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 10000, util.WrapString("Number of operations per benchmark"))
	key = "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get-hit)"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumObjects = viper.GetInt("objects")
	perfNumOps = viper.GetInt("ops")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for the object store")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Engine: %s\n", viper.GetString("engine"))
	fmt.Printf("Serializer: %s\n", viper.GetString("serializer"))
	fmt.Printf("Cache size: %d\n", viper.GetInt("cache-size"))
	fmt.Printf("Objects: %d, Ops: %d\n", perfNumObjects, perfNumOps)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]metrics.Timer)

	testID := func(i int) uint64 {
		return perfIDOffset + uint64(i%perfNumObjects)
	}

	// Put: insert and overwrite objects in the cache
	putTimer := metrics.NewTimer()
	if !shouldSkip("put") {
		for i := 0; i < perfNumOps; i++ {
			n := model.NewNeuron(testID(i), 50.0, 0.95, 20)
			putTimer.Time(func() {
				if err := objStore.Put(n); err != nil {
					fmt.Printf("(put) - error storing object: %v\n", err)
				}
			})
		}
	}
	results["put"] = putTimer
	printResult("put", putTimer)

	// Flush everything once so the get benchmarks can hit the database
	if _, err := objStore.FlushAll(); err != nil {
		return fmt.Errorf("flush before read benchmarks failed: %v", err)
	}

	// Get-hit: repeated reads of a working set smaller than the cache
	getHitTimer := metrics.NewTimer()
	if !shouldSkip("get-hit") {
		hot := perfNumObjects
		if capacity := objStore.Capacity(); capacity < hot {
			hot = capacity
		}
		for i := 0; i < perfNumOps; i++ {
			id := perfIDOffset + uint64(i%hot)
			getHitTimer.Time(func() {
				if _, _, err := objStore.Get(id); err != nil {
					fmt.Printf("(get-hit) - error reading object: %v\n", err)
				}
			})
		}
	}
	results["get-hit"] = getHitTimer
	printResult("get-hit", getHitTimer)

	// Get-miss: reads of IDs that are not in the store at all
	getMissTimer := metrics.NewTimer()
	if !shouldSkip("get-miss") {
		for i := 0; i < perfNumOps; i++ {
			id := perfIDOffset + uint64(perfNumObjects+i)
			getMissTimer.Time(func() {
				if _, _, err := objStore.Get(id); err != nil {
					fmt.Printf("(get-miss) - error reading object: %v\n", err)
				}
			})
		}
	}
	results["get-miss"] = getMissTimer
	printResult("get-miss", getMissTimer)

	// Flush: mark objects dirty and write them back one by one
	flushTimer := metrics.NewTimer()
	if !shouldSkip("flush") {
		for i := 0; i < perfNumOps; i++ {
			id := testID(i)
			objStore.MarkDirty(id)
			flushTimer.Time(func() {
				if _, err := objStore.Flush(id); err != nil {
					fmt.Printf("(flush) - error flushing object: %v\n", err)
				}
			})
		}
	}
	results["flush"] = flushTimer
	printResult("flush", flushTimer)

	// Mixed: interleaved puts, reads and flushes
	mixedTimer := metrics.NewTimer()
	if !shouldSkip("mixed") {
		for i := 0; i < perfNumOps; i++ {
			id := testID(i)
			mixedTimer.Time(func() {
				var err error
				switch i % 4 {
				case 0: // put
					err = objStore.Put(model.NewNeuron(id, 50.0, 0.95, 20))
				case 1, 2: // get
					_, _, err = objStore.Get(id)
				case 3: // flush
					_, err = objStore.Flush(id)
				}

				if err != nil {
					fmt.Printf("(mixed) - error performing operation (%d): %v\n", i%4, err)
				}
			})
		}
	}
	results["mixed"] = mixedTimer
	printResult("mixed", mixedTimer)

	// Cleanup the test objects
	for i := 0; i < perfNumObjects; i++ {
		if _, err := objStore.Remove(testID(i)); err != nil {
			fmt.Printf("(cleanup) - error removing object: %v\n", err)
		}
	}

	// Print the hit/miss counters accumulated during the run
	stats := objStore.GetStats()
	fmt.Printf("\ncache stats: %d hits, %d misses (%.2f%% hit rate)\n",
		stats.Hits, stats.Misses, stats.HitRate()*100)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer metrics.Timer) {
	if timer.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	mean := timer.Mean()
	p50 := timer.Percentile(0.50)
	p95 := timer.Percentile(0.95)
	p99 := timer.Percentile(0.99)

	fmt.Printf("%-20s%.0fns/op (%s/op)\tp50=%s p95=%s p99=%s\t%.0f ops/sec\n",
		test, mean, time.Duration(int64(mean)),
		time.Duration(int64(p50)), time.Duration(int64(p95)), time.Duration(int64(p99)),
		timer.RateMean())
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]metrics.Timer) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P50Ns", "P95Ns", "P99Ns", "OpsPerSec", "Skipped",
		"Engine", "Serializer", "CacheSize", "Objects", "Ops",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, timer := range results {
		skipped := timer.Count() == 0

		record := []string{
			test,
			strconv.FormatInt(timer.Count(), 10),
			strconv.FormatFloat(timer.Mean(), 'f', 0, 64),
			strconv.FormatFloat(timer.Percentile(0.50), 'f', 0, 64),
			strconv.FormatFloat(timer.Percentile(0.95), 'f', 0, 64),
			strconv.FormatFloat(timer.Percentile(0.99), 'f', 0, 64),
			strconv.FormatFloat(timer.RateMean(), 'f', 2, 64),
			strconv.FormatBool(skipped),
			viper.GetString("engine"),
			viper.GetString("serializer"),
			strconv.Itoa(viper.GetInt("cache-size")),
			strconv.Itoa(perfNumObjects),
			strconv.Itoa(perfNumOps),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %v", err)
		}
	}

	return nil
}
