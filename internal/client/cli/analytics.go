package cli

import (
	"context"
	"fmt"
	"sort"
)

// analytics fetches the aggregated counters. Only admins are allowed to,
// so a refusal is reported rather than treated as a failure.
func (a *App) analytics(ctx context.Context) {
	byRole, err := a.gateway.UserAnalytics(ctx)
	if err != nil {
		fmt.Println("User analytics unavailable:", err)
		return
	}
	byStatus, err := a.gateway.SessionAnalytics(ctx)
	if err != nil {
		fmt.Println("Session analytics unavailable:", err)
		return
	}

	fmt.Println("Users by role:")
	printCounters(byRole)
	fmt.Println("Sessions by status:")
	printCounters(byStatus)
}

func printCounters(counters map[string]int64) {
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s\t%d\n", k, counters[k])
	}
}
