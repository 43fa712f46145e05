package command

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/Awatif2003/marinesafe/core"
)

func commandDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.ClientErrorInternal)
}
