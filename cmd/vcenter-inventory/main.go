package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/virtops/vcenter-inventory/internal/cli"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	command := newInventoryCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func newInventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vcenter-inventory [flags] [options]",
		Short: "vcenter-inventory reports the virtual machines of a vCenter endpoint.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdCollect())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
