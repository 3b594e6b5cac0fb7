package llm

import (
	"errors"
	"net"
	"net/url"

	"github.com/xhad/qagen/internal/types"
)

// transportError reports whether err came from the network rather than the provider.
func transportError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify maps errors without a provider-specific shape onto the shared taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if transportError(err) {
		return &types.NetworkError{Op: op, Err: err}
	}
	return &types.ProviderError{Message: err.Error()}
}
