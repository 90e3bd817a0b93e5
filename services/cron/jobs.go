package cron

import (
	"fmt"
	"time"

	"labexams/model"
)

// SweepOrphanAssociations removes laboratory_exams rows whose laboratory or
// exam has been soft-deleted. The single delete path flips the status flag
// and clears associations in two separate statements, so a crash in between
// can leave join rows behind; this sweep restores the invariant that a
// soft-deleted entity holds no associations.
func (m *CronManager) SweepOrphanAssociations() {
	jobName := "sweep_orphan_associations"

	result := m.db.Exec(`
		DELETE FROM laboratory_exams
		WHERE laboratory_id IN (SELECT id FROM laboratories WHERE status = false)
		   OR exam_id IN (SELECT id FROM exams WHERE status = false)
	`)

	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to sweep orphan associations: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d orphan association rows", result.RowsAffected))
}

// CleanupOldJobLogs prunes cron job log rows older than 30 days
func (m *CronManager) CleanupOldJobLogs() {
	jobName := "cleanup_old_job_logs"
	cutoff := time.Now().AddDate(0, 0, -30)

	result := m.db.Where("started_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to prune job logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Pruned %d old job log rows", result.RowsAffected))
}
