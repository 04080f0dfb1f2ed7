package remotesync

import (
	"context"
	"errors"
	"fmt"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/leave"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
)

// HostAdapter exposes the application's repositories to the manager through
// the narrow Host surface it expects.
type HostAdapter struct {
	settingsRepo remotesync.SettingsRepository
	studentRepo  student.StudentRepository
	attendance   AttendanceSource
	applier      leave.Applier
	schoolCode   string
}

// AttendanceSource is the slice of the arrival repository the payload
// builder needs.
type AttendanceSource interface {
	DayMap(ctx context.Context, days []string, schoolCode string) (map[string]map[string]string, error)
}

// NewHostAdapter builds the default Host. applier may be nil when inbound
// leave requests should be ignored.
func NewHostAdapter(
	settingsRepo remotesync.SettingsRepository,
	studentRepo student.StudentRepository,
	attendance AttendanceSource,
	applier leave.Applier,
	schoolCode string,
) *HostAdapter {
	return &HostAdapter{
		settingsRepo: settingsRepo,
		studentRepo:  studentRepo,
		attendance:   attendance,
		applier:      applier,
		schoolCode:   schoolCode,
	}
}

// Settings implements remotesync.Host. A school with no stored settings row
// gets the normalized defaults (sync disabled) rather than an error.
func (h *HostAdapter) Settings(ctx context.Context) (remotesync.Settings, error) {
	raw, err := h.settingsRepo.Get(ctx, h.schoolCode)
	if err != nil {
		if errors.Is(err, remotesync.ErrSettingsNotFound) {
			return NormalizeSettings(remotesync.RawSettings{SchoolCode: h.schoolCode}), nil
		}
		return remotesync.Settings{}, fmt.Errorf("load sync settings: %w", err)
	}
	settings := NormalizeSettings(raw)
	if settings.SchoolCode == "" {
		settings.SchoolCode = h.schoolCode
	}
	return settings, nil
}

// Students implements remotesync.Host.
func (h *HostAdapter) Students(ctx context.Context) ([]student.Student, error) {
	students, err := h.studentRepo.ListAll(ctx, h.schoolCode)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return students, nil
}

// Attendance implements remotesync.Host.
func (h *HostAdapter) Attendance(ctx context.Context, days []string) (map[string]map[string]string, error) {
	snapshot, err := h.attendance.DayMap(ctx, days, h.schoolCode)
	if err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}
	return snapshot, nil
}

// LeaveApplier implements remotesync.Host.
func (h *HostAdapter) LeaveApplier() leave.Applier {
	return h.applier
}
