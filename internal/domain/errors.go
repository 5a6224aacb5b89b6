package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound   = errors.New("recurso no encontrado")
	ErrValidation = errors.New("entrada inválida")
)
