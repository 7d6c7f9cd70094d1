package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"

	"github.com/sarchlab/userkernel/config"
	"github.com/sarchlab/userkernel/datarecording"
	"github.com/sarchlab/userkernel/kernel"
	"github.com/sarchlab/userkernel/machine"
	"github.com/sarchlab/userkernel/monitoring"
	"github.com/sarchlab/userkernel/sim"
	"github.com/sarchlab/userkernel/tracing"
	"github.com/sarchlab/userkernel/userprog"
	"github.com/spf13/cobra"
)

// exitCode is the exit status of the last program run.
var exitCode int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the built-in demo program as a user process.",
	Long: "`run` boots the kernel and runs a program that writes one byte " +
		"to each of --touch pages, reads them back and exits. The exit " +
		"status of the program becomes the exit status of the command.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := runOptions{
			touch:   mustGetInt(cmd, "touch"),
			verbose: mustGetBool(cmd, "verbose"),
			monitor: mustGetBool(cmd, "monitor"),
		}

		status, err := runDemo(c, opts, args, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		exitCode = status

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("touch", 8, "The number of pages the program touches.")
	runCmd.Flags().String("trace-db", "",
		"Record frame and exception events into this SQLite database.")
	runCmd.Flags().Int("monitor-port", 0,
		"The port of the monitoring server.")
	runCmd.Flags().Bool("monitor", false,
		"Serve the kernel state over HTTP and wait for Ctrl-C after the run.")
	runCmd.Flags().BoolP("verbose", "v", false,
		"Log every frame and exception event.")
}

type runOptions struct {
	touch   int
	verbose bool
	monitor bool
}

func runDemo(
	c config.Config,
	opts runOptions,
	args []string,
	out io.Writer,
) (int, error) {
	processor := machine.MakeBuilder().
		WithPageSize(c.PageSize).
		WithNumPhysPages(c.NumPhysPages).
		Build("CPU")

	counter := tracing.NewCountingTracer()
	hooks := []sim.Hook{tracing.NewHook(counter)}
	var recorders []kernel.Recorder

	if opts.verbose {
		hooks = append(hooks, tracing.NewLogTracer(out))
	}

	if c.TraceDB != "" {
		if _, err := os.Stat(c.TraceDB + ".sqlite3"); err == nil {
			return 0, fmt.Errorf("trace database %s.sqlite3 already exists",
				c.TraceDB)
		}

		recorder := datarecording.New(c.TraceDB)
		defer recorder.Close()

		dbTracer := tracing.NewDBTracer(recorder)
		hooks = append(hooks, tracing.NewHook(dbTracer))
		recorders = append(recorders, dbTracer)
	}

	k := kernel.MakeBuilder().
		WithProcessor(processor).
		WithHooks(hooks...).
		WithRecorders(recorders...).
		WithLogger(log.New(out, "", 0)).
		Build("Kernel")

	if err := k.Initialize(args); err != nil {
		return 0, err
	}
	defer k.Terminate()

	status, err := k.Run(userprog.TouchPages(opts.touch, c.PageSize))
	if err != nil {
		return 0, err
	}

	fmt.Fprintf(out, "program exited with status %d\n", status)
	counts := counter.Counts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(out, "  %s: %d\n", name, counts[name])
	}

	// The monitor reads components without their locks, so it only serves a
	// kernel that has finished running.
	if opts.monitor {
		url, err := startMonitor(c, k, counter)
		if err != nil {
			return 0, err
		}

		waitForExit(out, url)
	}

	return status, nil
}

func startMonitor(
	c config.Config,
	k *kernel.Kernel,
	counter *tracing.CountingTracer,
) (string, error) {
	m := monitoring.NewMonitor().
		WithPortNumber(c.MonitorPort).
		WithBrowser(c.OpenBrowser)

	m.RegisterComponent(k.Processor())
	m.RegisterComponent(k.Frames())
	m.RegisterComponent(k.Router())
	m.RegisterFrameCounter(k.Frames())
	m.RegisterEventCounter(k.Name(), counter)

	return m.StartServer()
}

// waitForExit blocks until the user is done with the monitor at url.
var waitForExit = waitForInterrupt

func waitForInterrupt(out io.Writer, url string) {
	fmt.Fprintf(out, "kernel state served at %s, press Ctrl-C to exit\n", url)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	signal.Stop(sig)
}

func mustGetInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(err)
	}

	return v
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(err)
	}

	return v
}
