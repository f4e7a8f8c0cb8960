package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/ecolista-api/internal/domain"
)

// remoteError clasifica una falla del almacén. Los errores de dominio que el adaptador ya
// reconoce (no encontrado, entrada inválida, duplicado) pasan sin cambios; todo lo demás
// se envuelve como domain.ErrRemote conservando la causa.
func remoteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrRemote, op, err)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
}

// blank indica si s es vacío tras recortar espacios. Solo valida; el valor se guarda sin recortar.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
