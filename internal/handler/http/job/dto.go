// Package job provides HTTP handlers for the pipeline job endpoints:
// status polling, run listing, and pause/resume control.
package job

import (
	"time"

	"newsreel/internal/domain/entity"
)

// DTO represents the JSON structure for job data transfer.
type DTO struct {
	ID                string            `json:"id" example:"3f2a8c1e-9b6d-4f70-8a21-0c5e7d9b1a34"`
	Name              string            `json:"name" example:"news video assembly"`
	Mode              string            `json:"mode" example:"balanced"`
	Status            string            `json:"status" example:"processing"`
	ProgressPercent   int               `json:"progress_percent" example:"75"`
	CurrentStep       string            `json:"current_step" example:"media"`
	TotalSegments     int               `json:"total_segments" example:"14"`
	ProcessedSegments int               `json:"processed_segments" example:"9"`
	ErrorLog          []entity.JobError `json:"error_log,omitempty"`
	Metrics           map[string]int64  `json:"metrics,omitempty"`
	OutputPath        string            `json:"output_path,omitempty"`
	StartedAt         time.Time         `json:"started_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
}

func toDTO(j *entity.Job) DTO {
	return DTO{
		ID:                j.ID,
		Name:              j.Name,
		Mode:              j.Mode,
		Status:            string(j.Status),
		ProgressPercent:   j.ProgressPercent,
		CurrentStep:       j.CurrentStep,
		TotalSegments:     j.TotalSegments,
		ProcessedSegments: j.ProcessedSegments,
		ErrorLog:          j.ErrorLog,
		Metrics:           j.Metrics,
		OutputPath:        j.OutputPath,
		StartedAt:         j.StartedAt,
		UpdatedAt:         j.UpdatedAt,
		CompletedAt:       j.CompletedAt,
	}
}
