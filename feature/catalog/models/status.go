package models

import "strings"

// WorkflowStatus is the closed lifecycle state of a part. It is decoded once
// at the input boundary; internal logic never compares raw display strings.
type WorkflowStatus string

const (
	StatusActive   WorkflowStatus = "ACTIVE"
	StatusInactive WorkflowStatus = "INACTIVE"
	StatusDelete   WorkflowStatus = "DELETE"
)

// ParseWorkflowStatus decodes a status cell into the internal enum. The
// reader delivers localized display strings ("Activo"/"Inactivo"/"Eliminar");
// an already-normalized enum value is accepted directly. An empty cell
// defaults to ACTIVE. ok is false for any other value.
func ParseWorkflowStatus(raw string) (WorkflowStatus, bool) {
	switch strings.ToUpper(Normalize(raw)) {
	case "", "ACTIVO", "ACTIVE":
		return StatusActive, true
	case "INACTIVO", "INACTIVE":
		return StatusInactive, true
	case "ELIMINAR", "DELETE":
		return StatusDelete, true
	default:
		return "", false
	}
}
