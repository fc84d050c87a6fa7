// Package clipboard copies rendered diagrams to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
	"github.com/cockroachdb/errors"
)

// ErrUnsupported is returned when the platform offers no clipboard utility.
var ErrUnsupported = errors.New("clipboard is not supported on this system")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard Service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if copyError := clipboard.WriteAll(text); copyError != nil {
		return errors.Wrap(copyError, "copy to clipboard")
	}
	return nil
}

var _ Copier = (*Service)(nil)
