package entity

import "time"

// Evidence - metadados de um arquivo anexado. Os bytes ficam no colaborador
// externo de armazenamento; aqui persistimos apenas a referência opaca.
type Evidence struct {
	ID              string    `json:"id"`
	TenantID        int       `json:"tenant_id"`
	TaskID          *int      `json:"task_id,omitempty"`
	JustificationID *int      `json:"justification_id,omitempty"`
	FileName        string    `json:"file_name"`
	MimeType        string    `json:"mime_type"`
	FileSize        int64     `json:"file_size"`
	StorageRef      string    `json:"storage_ref"`
	UploadedBy      int       `json:"uploaded_by"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

type UploadEvidenceRequest struct {
	TaskID          *int   `json:"task_id"`
	JustificationID *int   `json:"justification_id"`
	FileName        string `json:"file_name" validate:"required"`
	MimeType        string `json:"mime_type" validate:"required"`
	Data            []byte `json:"-"`
}
