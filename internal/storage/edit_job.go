package storage

import (
	"errors"

	"clipforge/internal/types"

	"gorm.io/gorm"
)

func SaveJob(job *types.EditJob) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	// Upsert by JobId: Id is the primary key but callers address jobs by
	// their public JobId.
	var existing types.EditJob
	result := DB.Where("job_id = ?", job.JobId).First(&existing)

	if result.Error == nil {
		job.Id = existing.Id // Preserve ID
		return DB.Save(job).Error
	} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return DB.Create(job).Error
	}
	return result.Error
}

func GetJob(jobId string) (*types.EditJob, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	var job types.EditJob
	if err := DB.Where("job_id = ?", jobId).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func GetJobHistory(limit int) ([]types.EditJob, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	var jobs []types.EditJob
	if err := DB.Order("create_time desc").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func DeleteJob(jobId string) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	return DB.Where("job_id = ?", jobId).Delete(&types.EditJob{}).Error
}

// UpdateJobProgress persists the render percent without rewriting the row.
func UpdateJobProgress(jobId string, pct uint8) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	return DB.Model(&types.EditJob{}).
		Where("job_id = ?", jobId).
		Update("process_percent", pct).Error
}

// MarkStaleJobs flips every job still marked running to failed. Called on
// server startup to clean up jobs orphaned by a crash or restart.
func MarkStaleJobs() (int64, error) {
	if DB == nil {
		return 0, errors.New("database not initialized")
	}
	result := DB.Model(&types.EditJob{}).
		Where("status = ?", types.EditJobStatusRunning).
		Updates(map[string]interface{}{
			"status":      types.EditJobStatusFailed,
			"fail_reason": "Job interrupted by server restart",
		})
	return result.RowsAffected, result.Error
}
