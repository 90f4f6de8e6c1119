// Command jobsctl inspects the background job queue and triggers jobs by hand.
//
//	jobsctl [-redis addr] trigger comments:purge [-retention 720h]
//	jobsctl [-redis addr] queue
//	jobsctl [-redis addr] scheduled [-n 10]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var errUsage = errors.New("usage: jobsctl [-redis addr] trigger <job> | queue | scheduled")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("jobsctl", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	redisAddr := global.String("redis", getenv("REDIS_ADDR", "127.0.0.1:6379"), "redis address")
	if err := global.Parse(args); err != nil {
		return err
	}
	rest := global.Args()
	if len(rest) == 0 {
		return errUsage
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "trigger", "queue", "scheduled":
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}

	cli := NewJobsCLI(*redisAddr)
	defer cli.Close()

	switch cmd {
	case "trigger":
		fs := flag.NewFlagSet("trigger", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		retention := fs.Duration("retention", 0, "override purge retention")
		if len(cmdArgs) == 0 {
			return errUsage
		}
		if err := fs.Parse(cmdArgs[1:]); err != nil {
			return err
		}
		info, err := cli.Trigger(ctx, cmdArgs[0], *retention)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	case "queue":
		stats, err := cli.InspectQueue()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s pending=%d active=%d scheduled=%d retry=%d failed=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Failed)
	case "scheduled":
		fs := flag.NewFlagSet("scheduled", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		size := fs.Int("n", 10, "page size")
		if err := fs.Parse(cmdArgs); err != nil {
			return err
		}
		tasks, err := cli.ListScheduled(*size)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			fmt.Fprintf(out, "%s %s next=%s\n", t.ID, t.Type, t.NextProcessAt.Format(time.RFC3339))
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
