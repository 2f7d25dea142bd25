package cmd

import (
	"testing"

	"github.com/tvandinther/gitvault/pkg/vbranch"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTarget(t *testing.T) {
	target := &vbranch.Target{
		BranchName: "main",
		RemoteName: "origin",
		RemoteURL:  "https://example.com/repo.git",
		SHA:        plumbing.NewHash("0123456789abcdef0123456789abcdef01234567"),
	}

	rendered, err := renderTarget("{{remote_name}}/{{branch_name}}@{{sha}}", target)
	require.NoError(t, err)
	assert.Equal(t, "origin/main@0123456789abcdef0123456789abcdef01234567", rendered)
}

func TestRenderTargetInvalidTemplate(t *testing.T) {
	_, err := renderTarget("{{#unclosed}}", &vbranch.Target{})
	assert.Error(t, err)
}
