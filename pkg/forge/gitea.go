package forge

import (
	"fmt"
	"net/url"
	"strings"

	"code.gitea.io/sdk/gitea"
)

// HeadResolver resolves the current head commit of a branch on a remote
// forge, used to refresh a tracking target without fetching the repository.
type HeadResolver interface {
	BranchHead(owner, repository, branch string) (string, error)
}

type GiteaClient struct {
	Client          *gitea.Client
	Host            string
	accessTokenAuth AccessTokenAuth
}

type AccessTokenAuth struct {
	Username    string
	AccessToken string
}

type GiteaClientOptions struct {
	Host            string
	AccessTokenAuth AccessTokenAuth
}

func NewGiteaClient(opts *GiteaClientOptions) (*GiteaClient, error) {
	giteaClient, err := gitea.NewClient(opts.Host, gitea.SetBasicAuth(opts.AccessTokenAuth.Username, opts.AccessTokenAuth.AccessToken))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gitea client: %w", err)
	}

	return &GiteaClient{
		Client:          giteaClient,
		Host:            opts.Host,
		accessTokenAuth: opts.AccessTokenAuth,
	}, nil
}

// BranchHead returns the commit id at the tip of the named branch.
func (c *GiteaClient) BranchHead(owner, repository, branch string) (string, error) {
	b, _, err := c.Client.GetRepoBranch(owner, repository, branch)
	if err != nil {
		return "", fmt.Errorf("failed to get branch %s/%s#%s: %w", owner, repository, branch, err)
	}

	return b.Commit.ID, nil
}

func (c *GiteaClient) GetAuthenticatedCloneURL(repositoryURL string) (*url.URL, error) {
	parsed, err := url.Parse(repositoryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository URL: %w", err)
	}

	parsed.User = url.UserPassword(c.accessTokenAuth.Username, c.accessTokenAuth.AccessToken)

	return parsed, nil
}

// OwnerRepoFromURL extracts the owner and repository names from a forge clone
// URL such as https://example.com/owner/repo.git.
func OwnerRepoFromURL(remoteURL string) (string, string, error) {
	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse remote URL: %w", err)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 {
		return "", "", fmt.Errorf("remote URL %s has no owner/repository path", remoteURL)
	}

	owner := segments[len(segments)-2]
	repository := strings.TrimSuffix(segments[len(segments)-1], ".git")

	return owner, repository, nil
}
