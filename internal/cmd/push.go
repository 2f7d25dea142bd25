package cmd

import (
	"fmt"

	"github.com/tvandinther/gitvault/pkg/forge"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newPushCmd() *cobra.Command {
	var (
		remoteName    string
		authenticated bool
	)

	pushCmd := &cobra.Command{
		Use:   "push <remote-url>",
		Short: "Replicate the store's history to a remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remoteURL := args[0]

			if authenticated {
				resolved, err := authenticatedRemoteURL(remoteURL)
				if err != nil {
					return err
				}
				remoteURL = resolved
			}

			s, err := openStore()
			if err != nil {
				return err
			}

			return s.Push(remoteName, remoteURL)
		},
	}

	pushCmd.Flags().StringVar(&remoteName, "remote", "backup", "name for the remote")
	pushCmd.Flags().BoolVar(&authenticated, "authenticated", false, "embed the configured forge credentials in the remote URL")

	return pushCmd
}

func authenticatedRemoteURL(remoteURL string) (string, error) {
	host := viper.GetString("forge.host")
	if host == "" {
		return "", fmt.Errorf("no forge host configured to authenticate against")
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

	parsed, err := client.GetAuthenticatedCloneURL(remoteURL)
	if err != nil {
		return "", err
	}

	return parsed.String(), nil
}
