package service

import (
	"sync"
	"testing"

	"rewardly/internal/domain"
	"rewardly/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStartTask(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(db)
	user := createUser(t, db, "alice", 0)
	task := createTask(t, db, 25, false, domain.VerificationManual)

	a, err := svc.StartTask(user.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AssignmentPending, a.Status)

	// A second start while the first attempt is open is a conflict.
	_, err = svc.StartTask(user.ID, task.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyStarted)
}

func TestStartTask_ConcurrentSingleWinner(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(db)
	user := createUser(t, db, "alice", 0)
	task := createTask(t, db, 25, false, domain.VerificationManual)

	start := make(chan struct{})
	errs := make([]error, 8)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.StartTask(user.ID, task.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, domain.ErrAlreadyStarted)
	}
	require.Equal(t, 1, successes)

	var count int64
	require.NoError(t, db.Model(&models.TaskAssignment{}).
		Where("user_id = ? AND task_id = ?", user.ID, task.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestStartTask_OpenAssignmentUniqueAtStore(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice", 0)
	task := createTask(t, db, 25, false, domain.VerificationManual)

	// Even with the service's pre-check bypassed, a second open row for the
	// same (user, task) pair is rejected by the store itself.
	open := true
	first := models.TaskAssignment{
		UserID: user.ID, TaskID: task.ID,
		Status: domain.AssignmentPending, Open: &open,
	}
	require.NoError(t, db.Create(&first).Error)

	dup := true
	second := models.TaskAssignment{
		UserID: user.ID, TaskID: task.ID,
		Status: domain.AssignmentPending, Open: &dup,
	}
	require.ErrorIs(t, db.Create(&second).Error, gorm.ErrDuplicatedKey)
}

func TestStartTask_InactiveTask(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(db)
	user := createUser(t, db, "alice", 0)
	task := createTask(t, db, 25, false, domain.VerificationManual)
	require.NoError(t, db.Model(task).Update("active", false).Error)

	_, err := svc.StartTask(user.ID, task.ID)
	require.ErrorIs(t, err, domain.ErrTaskInactive)
}

func TestSubmitTask_RequiredMedia(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(db)
	user := createUser(t, db, "alice", 0)
	task := createTask(t, db, 25, true, domain.VerificationManual)

	a, err := svc.StartTask(user.ID, task.ID)
	require.NoError(t, err)

	_, err = svc.SubmitTask(a.ID, "", "did the thing")
	require.ErrorIs(t, err, domain.ErrMissingRequiredMedia)

	sub, err := svc.SubmitTask(a.ID, "https://img.example/proof.png", "did the thing")
	require.NoError(t, err)
	require.NotZero(t, sub.ID)

	// Already SUBMITTED; a second submit is out of order.
	_, err = svc.SubmitTask(a.ID, "https://img.example/proof2.png", "")
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReviewSubmission_ApproveCreditsExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(db)
	admin := createUser(t, db, "admin", 0)
	user := createUser(t, db, "alice", 0)
	task := createTask(t, db, 25, false, domain.VerificationManual)

	a, err := svc.StartTask(user.ID, task.ID)
	require.NoError(t, err)
	sub, err := svc.SubmitTask(a.ID, "", "proof")
	require.NoError(t, err)

	out, err := svc.ReviewSubmission(sub.ID, domain.DecisionApprove, admin.ID, "looks good")
	require.NoError(t, err)
	require.Equal(t, domain.AssignmentCompleted, out.State)
	require.NotNil(t, out.PointsEarned)
	require.EqualValues(t, 25, *out.PointsEarned)
	require.EqualValues(t, 25, balanceOf(t, db, user.ID))

	var reloaded models.TaskAssignment
	require.NoError(t, db.First(&reloaded, a.ID).Error)
	require.Equal(t, domain.AssignmentCompleted, reloaded.Status)
	require.NotNil(t, reloaded.PointsEarned)
	require.EqualValues(t, 25, *reloaded.PointsEarned)

	// A duplicate review call, same or different decision, changes nothing.
	_, err = svc.ReviewSubmission(sub.ID, domain.DecisionApprove, admin.ID, "again")
	require.ErrorIs(t, err, domain.ErrAlreadyReviewed)
	_, err = svc.ReviewSubmission(sub.ID, domain.DecisionReject, admin.ID, "changed my mind")
	require.ErrorIs(t, err, domain.ErrAlreadyReviewed)
	require.EqualValues(t, 25, balanceOf(t, db, user.ID))

	var reviewed models.Submission
	require.NoError(t, db.First(&reviewed, sub.ID).Error)
	require.NotNil(t, reviewed.ReviewedAt)
	require.NotNil(t, reviewed.ReviewedBy)
	require.Equal(t, admin.ID, *reviewed.ReviewedBy)
	require.Equal(t, domain.DecisionApprove, reviewed.Decision)
}

func TestReviewSubmission_RejectIsTerminalAndFreesTask(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(db)
	admin := createUser(t, db, "admin", 0)
	user := createUser(t, db, "alice", 0)
	task := createTask(t, db, 25, false, domain.VerificationManual)

	a, err := svc.StartTask(user.ID, task.ID)
	require.NoError(t, err)
	sub, err := svc.SubmitTask(a.ID, "", "proof")
	require.NoError(t, err)

	out, err := svc.ReviewSubmission(sub.ID, domain.DecisionReject, admin.ID, "blurry screenshot")
	require.NoError(t, err)
	require.Equal(t, domain.AssignmentRejected, out.State)
	require.Nil(t, out.PointsEarned)
	require.EqualValues(t, 0, balanceOf(t, db, user.ID))

	// Rejection is terminal for the assignment, but the user may start over.
	fresh, err := svc.StartTask(user.ID, task.ID)
	require.NoError(t, err)
	require.NotEqual(t, a.ID, fresh.ID)
}

func TestReviewSubmission_UnknownDecision(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(db)
	admin := createUser(t, db, "admin", 0)
	user := createUser(t, db, "alice", 0)
	task := createTask(t, db, 25, false, domain.VerificationManual)

	a, err := svc.StartTask(user.ID, task.ID)
	require.NoError(t, err)
	sub, err := svc.SubmitTask(a.ID, "", "")
	require.NoError(t, err)

	_, err = svc.ReviewSubmission(sub.ID, "MAYBE", admin.ID, "")
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCompleteTask_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(db)
	user := createUser(t, db, "alice", 0)
	task := createTask(t, db, 15, false, domain.VerificationAutomatic)

	a, err := svc.StartTask(user.ID, task.ID)
	require.NoError(t, err)

	earned, err := svc.CompleteTask(a.ID)
	require.NoError(t, err)
	require.EqualValues(t, 15, earned)
	require.EqualValues(t, 15, balanceOf(t, db, user.ID))

	// A retried call reports the prior outcome without a second credit.
	earned, err = svc.CompleteTask(a.ID)
	require.NoError(t, err)
	require.EqualValues(t, 15, earned)
	require.EqualValues(t, 15, balanceOf(t, db, user.ID))

	var txCount int64
	require.NoError(t, db.Model(&models.PointsTransaction{}).
		Where("user_id = ?", user.ID).Count(&txCount).Error)
	require.EqualValues(t, 1, txCount)
}

func TestCompleteTask_ManualTaskRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(db)
	user := createUser(t, db, "alice", 0)
	task := createTask(t, db, 25, false, domain.VerificationManual)

	a, err := svc.StartTask(user.ID, task.ID)
	require.NoError(t, err)

	_, err = svc.CompleteTask(a.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)
	require.EqualValues(t, 0, balanceOf(t, db, user.ID))
}
