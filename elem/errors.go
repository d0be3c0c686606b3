package elem

import (
	"github.com/vango-dev/elemkit/internal/errors"
)

// Sentinel errors. Returned errors carry occurrence details and match these
// with errors.Is.
var (
	ErrUnknownNodeType = errors.New("E201")
	ErrDuplicateID     = errors.New("E202")
	ErrInvalidID       = errors.New("E203")
	ErrNilNode         = errors.New("E204")
	ErrUnknownHandler  = errors.New("E205")
	ErrMalformed       = errors.New("E206")
	ErrAlreadyRendered = errors.New("E210")
	ErrRendered        = errors.New("E211")
	ErrReentrant       = errors.New("E212")
	ErrUnknownID       = errors.New("E220")
	ErrNotTag          = errors.New("E230")
	ErrNotComponent    = errors.New("E231")
	ErrMarkup          = errors.New("E240")
	ErrComponentRender = errors.New("E241")
)
