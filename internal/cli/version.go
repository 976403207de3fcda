package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/virtops/vcenter-inventory/pkg/version"
)

func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print vcenter-inventory version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("vcenter-inventory Version: %s\n", version.Get().String())
			return nil
		},
	}
}
