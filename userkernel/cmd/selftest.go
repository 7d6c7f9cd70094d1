package cmd

import (
	"log"

	"github.com/sarchlab/userkernel/kernel"
	"github.com/sarchlab/userkernel/machine"
	"github.com/spf13/cobra"
)

var selfTestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Echo what is typed on the terminal until q is typed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		console, err := machine.OpenTTYConsole()
		if err != nil {
			return err
		}
		defer console.Close()

		processor := machine.MakeBuilder().
			WithPageSize(c.PageSize).
			WithNumPhysPages(c.NumPhysPages).
			Build("CPU")

		k := kernel.MakeBuilder().
			WithProcessor(processor).
			WithConsole(console).
			WithLogger(log.New(cmd.ErrOrStderr(), "", 0)).
			Build("Kernel")

		if err := k.Initialize(args); err != nil {
			return err
		}
		defer k.Terminate()

		return k.SelfTest()
	},
}

func init() {
	rootCmd.AddCommand(selfTestCmd)
}
