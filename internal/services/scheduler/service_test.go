package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/arbor"
)

func TestRegisterJobAcceptsDefaultMaintenanceSchedules(t *testing.T) {
	service := NewService(arbor.NewLogger())
	maintenance := common.NewDefaultConfig().Maintenance

	require.NoError(t, service.RegisterJob("session-sweep", maintenance.SessionSweep, func() error { return nil }))
	require.NoError(t, service.RegisterJob("upload-cleanup", maintenance.UploadCleanup, func() error { return nil }))
}

func TestRegisterJobRejectsDuplicates(t *testing.T) {
	service := NewService(arbor.NewLogger())

	require.NoError(t, service.RegisterJob("sweep", "@hourly", func() error { return nil }))
	err := service.RegisterJob("sweep", "@hourly", func() error { return nil })
	assert.Error(t, err)
}

func TestRegisterJobRejectsBadSchedule(t *testing.T) {
	service := NewService(arbor.NewLogger())

	err := service.RegisterJob("bad", "not-a-schedule", func() error { return nil })
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	service := NewService(arbor.NewLogger())
	require.NoError(t, service.RegisterJob("sweep", "@hourly", func() error { return nil }))

	require.NoError(t, service.Start())
	assert.True(t, service.IsRunning())

	// Starting twice is an error
	assert.Error(t, service.Start())

	require.NoError(t, service.Stop())
	assert.False(t, service.IsRunning())

	// Stopping a stopped scheduler is a no-op
	assert.NoError(t, service.Stop())
}

func TestTriggerJob(t *testing.T) {
	service := NewService(arbor.NewLogger())

	done := make(chan struct{})
	require.NoError(t, service.RegisterJob("sweep", "@hourly", func() error {
		close(done)
		return nil
	}))

	require.NoError(t, service.TriggerJob("sweep"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	assert.Error(t, service.TriggerJob("missing"))
}

func TestTriggerJobRecordsFailure(t *testing.T) {
	service := NewService(arbor.NewLogger())

	done := make(chan struct{})
	require.NoError(t, service.RegisterJob("failing", "@hourly", func() error {
		defer close(done)
		return fmt.Errorf("boom")
	}))

	require.NoError(t, service.TriggerJob("failing"))
	<-done

	// Give the status update a moment to land after the handler returns
	deadline := time.Now().Add(2 * time.Second)
	for {
		statuses := service.JobStatuses()
		require.Len(t, statuses, 1)
		if statuses[0].LastError == "boom" && statuses[0].LastRun != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job status not updated: %+v", statuses[0])
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTriggerJobSurvivesPanic(t *testing.T) {
	service := NewService(arbor.NewLogger())

	require.NoError(t, service.RegisterJob("panicky", "@hourly", func() error {
		panic("oops")
	}))

	require.NoError(t, service.TriggerJob("panicky"))

	deadline := time.Now().Add(2 * time.Second)
	for {
		statuses := service.JobStatuses()
		require.Len(t, statuses, 1)
		if !statuses[0].IsRunning && statuses[0].LastError != "" {
			assert.Contains(t, statuses[0].LastError, "panic")
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("panic was not recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestUploadCleanupJobMissingDir(t *testing.T) {
	job := UploadCleanupJob(nil, filepath.Join(os.TempDir(), "adhyayan-does-not-exist"), arbor.NewLogger())
	assert.NoError(t, job())
}
