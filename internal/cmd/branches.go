package cmd

import (
	"fmt"

	"github.com/tvandinther/gitvault/internal/util"
	"github.com/tvandinther/gitvault/pkg/vbranch"

	"github.com/spf13/cobra"
)

func newBranchesCmd() *cobra.Command {
	branchesCmd := &cobra.Command{
		Use:   "branches",
		Short: "Inspect branch metadata in the store",
	}

	branchesCmd.AddCommand(newBranchesListCmd())

	return branchesCmd
}

func newBranchesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List branches with recorded metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}

			branches, err := vbranch.NewReader(s).List()
			if err != nil {
				return fmt.Errorf("failed to list branches: %w", err)
			}

			if len(branches) == 0 {
				fmt.Println("no branches recorded")
				return nil
			}

			rows := util.Map(branches, func(b *vbranch.Branch) string {
				applied := " "
				if b.Applied {
					applied = "*"
				}
				return fmt.Sprintf("%s %-24s %-32s %s", applied, b.ID, b.Name, b.Upstream)
			})

			for _, row := range rows {
				fmt.Println(row)
			}

			return nil
		},
	}
}
