// Package cmd provides the command-line interface of the user kernel.
package cmd

import (
	"fmt"
	"os"

	"github.com/sarchlab/userkernel/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "userkernel",
	Short: "userkernel boots a paged user kernel and runs programs on it.",
	Long: `userkernel boots a paged user kernel on a simulated processor. ` +
		`Settings come from a .env file, USERKERNEL_* environment ` +
		`variables and flags, in that order.`,
	SilenceUsage: true,
}

var envFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "",
		"The .env file to read settings from (default .env if present).")
	rootCmd.PersistentFlags().Uint64("page-size", 0,
		"The number of bytes in a page.")
	rootCmd.PersistentFlags().Int("num-phys-pages", 0,
		"The number of physical page frames.")
}

// loadConfig reads the settings and applies the flags that are set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	c, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()

	if flags.Changed("page-size") {
		c.PageSize, _ = flags.GetUint64("page-size")
	}

	if flags.Changed("num-phys-pages") {
		c.NumPhysPages, _ = flags.GetInt("num-phys-pages")
	}

	if flags.Lookup("trace-db") != nil && flags.Changed("trace-db") {
		c.TraceDB, _ = flags.GetString("trace-db")
	}

	if flags.Lookup("monitor-port") != nil && flags.Changed("monitor-port") {
		c.MonitorPort, _ = flags.GetInt("monitor-port")
	}

	if err := c.Validate(); err != nil {
		return config.Config{}, err
	}

	return c, nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(exitCode)
}
