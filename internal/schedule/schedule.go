// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package schedule runs a job at a fixed interval. It exists so the relay
// can be deployed as a long-lived process without an external cron entry:
// the job runs once immediately, then repeats every interval until the
// context is canceled.
package schedule

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Job is a single unit of scheduled work. A non-nil error marks the run
// as failed but does not stop the schedule.
type Job func(ctx context.Context) error

// Run executes job immediately, then again every interval until ctx is
// canceled. A failed run is logged to errOut and the schedule continues;
// transient Jira or network outages should not kill a long-lived process.
// Run returns ctx.Err() once the context is canceled.
func Run(ctx context.Context, interval time.Duration, errOut io.Writer, job Job) error {
	if interval <= 0 {
		return fmt.Errorf("invalid schedule interval: %v", interval)
	}

	runOnce := func() {
		if err := job(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(errOut, "scheduled run failed: %v\n", err)
		}
	}

	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			runOnce()
		}
	}
}
