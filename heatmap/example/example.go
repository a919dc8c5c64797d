// Package main demonstrates the use of the heatmap package to generate SVG contribution graphs.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/stsysd/axisgraph/graph"
	"github.com/stsysd/axisgraph/heatmap"
)

func main() {
	now := time.Now()
	cfg := graph.DefaultConfig(now)
	if len(os.Args) > 1 && os.Args[1] == "vertical" {
		cfg.Axis = graph.Vertical
	}

	store := graph.NewStore()
	if _, err := store.Configure(cfg, graph.Input{Dates: generateYearDates(now)}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Output to stdout
	fmt.Println(heatmap.RenderStore(store, nil))
}

// generateYearDates creates random activity timestamps for the past year
func generateYearDates(now time.Time) []time.Time {
	var dates []time.Time

	for current := now.AddDate(-1, 0, 0); !current.After(now); current = current.AddDate(0, 0, 1) {
		// Higher probability of activity on weekends
		var count int
		if current.Weekday() == time.Saturday || current.Weekday() == time.Sunday {
			count = rand.Intn(10) // 0-9
		} else {
			count = rand.Intn(6) // 0-5
		}

		// Add occasional spikes of activity
		if rand.Intn(20) == 0 {
			count += rand.Intn(20)
		}

		for range count {
			dates = append(dates, current.Add(time.Duration(rand.Intn(24*60))*time.Minute))
		}
	}

	return dates
}
