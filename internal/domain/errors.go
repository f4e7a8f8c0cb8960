package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	// ErrRemote envuelve cualquier falla del almacén remoto. No se reintenta automáticamente.
	ErrRemote = errors.New("falla del almacén remoto")
	// ErrUnavailable indica que un colaborador opcional (p. ej. el asesor IA) no está configurado.
	ErrUnavailable = errors.New("servicio no disponible")
)
