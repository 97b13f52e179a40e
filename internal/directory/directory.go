package directory

import (
	"context"
	"fmt"
	"strings"

	herderrors "github.com/opsdrift/dnsherd/pkg/errors"
)

// Client resolves an organizational unit to the computers it contains. The
// concrete directory transport lives behind this interface.
type Client interface {
	// ListComputers returns the hostnames found under the distinguished name.
	ListComputers(ctx context.Context, dn string) ([]string, error)
}

// PathToDN converts a human organizational path such as
// "example.com\Servers\Web" into its distinguished-name query form:
// OU segments reversed innermost-first, then the domain split on dots into
// DC components ("OU=Web,OU=Servers,DC=example,DC=com").
func PathToDN(path string) (string, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return "", herderrors.NewConfigurationError("ou", "organizational path is empty", nil)
	}

	domain := segments[0]
	if domain == "" || strings.Trim(domain, ".") == "" {
		return "", herderrors.NewConfigurationError("ou",
			fmt.Sprintf("organizational path %q has no domain segment", path), nil)
	}

	var parts []string
	for i := len(segments) - 1; i >= 1; i-- {
		if segments[i] == "" {
			return "", herderrors.NewConfigurationError("ou",
				fmt.Sprintf("organizational path %q has an empty segment", path), nil)
		}
		parts = append(parts, "OU="+segments[i])
	}
	for _, dc := range strings.Split(domain, ".") {
		if dc == "" {
			return "", herderrors.NewConfigurationError("ou",
				fmt.Sprintf("domain %q has an empty component", domain), nil)
		}
		parts = append(parts, "DC="+dc)
	}

	return strings.Join(parts, ","), nil
}

func splitPath(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return strings.Split(path, `\`)
}
