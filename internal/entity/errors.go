package entity

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden             = errors.New("forbidden: access denied")
	ErrTaskNotFound          = errors.New("task not found")
	ErrJustificationNotFound = errors.New("justification not found")
	ErrEvidenceNotFound      = errors.New("evidence not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrNoFieldsToUpdate      = errors.New("no fields to update")
	ErrSubtaskBlocked        = errors.New("task has incomplete subtasks")
	ErrJustificationConflict = errors.New("an active justification already exists for this task")
	ErrInvalidTransition     = errors.New("justification is not in a reviewable state")
	ErrInvalidCredentials    = errors.New("invalid email or password")
)

// ValidationError - campo obrigatório ausente ou valor inválido. Carrega o campo
// ofensor para a camada de API montar a mensagem; nada é aplicado parcialmente.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// RuleViolationError - recorrência fora do conjunto permitido da área
type RuleViolationError struct {
	Area        string
	Recorrencia string
}

func (e *RuleViolationError) Error() string {
	return fmt.Sprintf("recorrência %q não permitida para a área %q", e.Recorrencia, e.Area)
}
