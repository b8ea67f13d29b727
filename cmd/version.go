package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var build bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the admitad CLI version",
		Long: `Print the release of this admitad binary. Include it when reporting
problems with token handling or API calls. Pass --build to also print the
Go toolchain and platform the binary was compiled for.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "admitad version %s\n", cmd.Root().Version)
			if build {
				fmt.Fprintf(out, "go: %s\nplatform: %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}

	cmd.Flags().BoolVar(&build, "build", false, "Also print Go toolchain and platform")
	return cmd
}
