package cmd

import (
	"fmt"
	"strings"

	"github.com/tvandinther/gitvault/pkg/vbranch"

	"github.com/cbroglie/mustache"
)

func printKV(indent int, label, value string) {
	padding := strings.Repeat("  ", indent)
	fmt.Printf("%s%-18s : %s\n", padding, label, value)
}

func printTarget(title string, target *vbranch.Target) {
	fmt.Printf("%s:\n", title)
	printKV(1, "Branch", target.BranchName)
	printKV(1, "Remote", target.RemoteName)
	printKV(1, "Remote URL", target.RemoteURL)
	printKV(1, "SHA", target.SHA.String())
}

// renderTarget renders a target through a mustache template, e.g.
// "{{remote_name}}/{{branch_name}}@{{sha}}".
func renderTarget(template string, target *vbranch.Target) (string, error) {
	data := map[string]string{
		"branch_name": target.BranchName,
		"remote_name": target.RemoteName,
		"remote_url":  target.RemoteURL,
		"sha":         target.SHA.String(),
	}

	rendered, err := mustache.Render(template, data)
	if err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return rendered, nil
}
