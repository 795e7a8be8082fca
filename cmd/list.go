package cmd

import (
	"github.com/spf13/cobra"

	"spvbuild.dev/pkg/spvbuild/internal/controller"
	"spvbuild.dev/pkg/spvbuild/internal/domain"
)

const listLongDescription = `List the shader sources spvbuild would compile and the artifact each one
produces, without running the compiler or creating the output directory.

Use it to check which files the directory filter picks up: every regular
file that does not end in an excluded suffix is treated as a shader.`

var listFormatFlag string

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shaders and their artifacts",
		Long:  listLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := controller.ParsePlanFormat(listFormatFlag)
			if err != nil {
				return err
			}

			return workflow.List(cmd.Context(), domain.ListArgs{
				ScanArgs: scanArgsFromConfig(),
				Format:   format,
			})
		},
	}

	cmd.Flags().StringVarP(&listFormatFlag, formatFlagName, "f", string(controller.PlanTable), "output format: table or yaml")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
