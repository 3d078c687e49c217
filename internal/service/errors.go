package service

import (
	"errors"
	"fmt"
)

var (
	ErrNestedSubproject  = errors.New("a subproject cannot own subprojects")
	ErrHasSubprojects    = errors.New("project has subprojects and cannot become a subproject")
	ErrSelfParent        = errors.New("project cannot be its own parent")
	ErrCrossOrganization = errors.New("projects belong to different organizations")
	ErrInvalidInput      = errors.New("invalid input")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
