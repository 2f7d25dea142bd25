package cmd

import (
	"fmt"

	"github.com/tvandinther/gitvault/pkg/forge"
	"github.com/tvandinther/gitvault/pkg/vbranch"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newTargetCmd() *cobra.Command {
	targetCmd := &cobra.Command{
		Use:   "target",
		Short: "Manage upstream tracking targets",
	}

	targetCmd.AddCommand(newTargetSetCmd(), newTargetShowCmd())

	return targetCmd
}

func newTargetSetCmd() *cobra.Command {
	var (
		branchID   string
		branchName string
		remoteName string
		remoteURL  string
		sha        string
	)

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Record the upstream target for a branch, or the default target",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sha == "" {
				resolved, err := resolveBranchHead(remoteURL, branchName)
				if err != nil {
					return err
				}
				sha = resolved
			}

			hash, err := parseCommitID(sha)
			if err != nil {
				return err
			}

			target := &vbranch.Target{
				BranchName: branchName,
				RemoteName: remoteName,
				RemoteURL:  remoteURL,
				SHA:        hash,
			}

			s, err := openStore()
			if err != nil {
				return err
			}

			writer := vbranch.NewTargetWriter(s)
			if branchID == "" {
				err = writer.WriteDefault(target)
			} else {
				err = writer.Write(branchID, target)
			}
			if err != nil {
				return err
			}

			printTarget("Recorded target", target)

			return nil
		},
	}

	setCmd.Flags().StringVar(&branchID, "branch", "", "branch identifier (omit for the default target)")
	setCmd.Flags().StringVar(&branchName, "branch-name", "", "upstream branch name")
	setCmd.Flags().StringVar(&remoteName, "remote", "origin", "remote name")
	setCmd.Flags().StringVar(&remoteURL, "url", "", "remote URL")
	setCmd.Flags().StringVar(&sha, "sha", "", "upstream commit id (resolved from the forge when omitted)")
	setCmd.MarkFlagRequired("branch-name")
	setCmd.MarkFlagRequired("url")

	return setCmd
}

func newTargetShowCmd() *cobra.Command {
	var (
		branchID string
		template string
	)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the recorded target for a branch, or the default target",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}

			reader := vbranch.NewTargetReader(s)

			var target *vbranch.Target
			if branchID == "" {
				target, err = reader.ReadDefault()
			} else {
				target, err = reader.Read(branchID)
			}
			if err != nil {
				return fmt.Errorf("failed to read target: %w", err)
			}

			if template != "" {
				rendered, err := renderTarget(template, target)
				if err != nil {
					return err
				}
				fmt.Println(rendered)
				return nil
			}

			printTarget("Target", target)

			return nil
		},
	}

	showCmd.Flags().StringVar(&branchID, "branch", "", "branch identifier (omit for the default target)")
	showCmd.Flags().StringVar(&template, "template", "", "mustache template for the output")

	return showCmd
}

func parseCommitID(sha string) (plumbing.Hash, error) {
	if !plumbing.IsHash(sha) {
		return plumbing.ZeroHash, fmt.Errorf("invalid commit id %q: expected a 40-character hex sha", sha)
	}

	return plumbing.NewHash(sha), nil
}

func resolveBranchHead(remoteURL, branchName string) (string, error) {
	host := viper.GetString("forge.host")
	if host == "" {
		return "", fmt.Errorf("no sha given and no forge host configured to resolve it from")
	}

	client, err := forge.NewGiteaClient(&forge.GiteaClientOptions{
		Host: host,
		AccessTokenAuth: forge.AccessTokenAuth{
			Username:    viper.GetString("forge.username"),
			AccessToken: viper.GetString("forge.access_token"),
		},
	})
	if err != nil {
		return "", err
	}

	owner, repository, err := forge.OwnerRepoFromURL(remoteURL)
	if err != nil {
		return "", err
	}

	return client.BranchHead(owner, repository, branchName)
}
