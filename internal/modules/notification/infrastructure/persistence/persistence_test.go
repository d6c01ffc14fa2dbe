package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ReviewHub/internal/modules/notification/domain/delivery"
	"ReviewHub/internal/modules/notification/domain/notification"
	"ReviewHub/internal/modules/notification/domain/pause"
	"ReviewHub/internal/modules/notification/domain/preference"
	"ReviewHub/internal/modules/notification/domain/reminder"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reviewhub.db")), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&preference.NotificationPreferences{},
		&pause.PauseWindow{},
		&notification.Notification{},
		&reminder.Reminder{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func at(t time.Time) *time.Time { return &t }
func str(s string) *string      { return &s }

func TestPreferenceCreateIfAbsentKeepsFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(newTestDB(t))

	got, err := repo.GetByUserID(ctx, "u1")
	if err != nil || got != nil {
		t.Fatalf("GetByUserID(missing) = %v, %v; want nil, nil", got, err)
	}

	first := preference.Default("u1")
	first.MinimumUrgency = preference.UrgencyHigh
	if _, err := repo.CreateIfAbsent(ctx, first); err != nil {
		t.Fatalf("CreateIfAbsent() error = %v", err)
	}
	stored, err := repo.CreateIfAbsent(ctx, preference.Default("u1"))
	if err != nil {
		t.Fatalf("second CreateIfAbsent() error = %v", err)
	}
	if stored.MinimumUrgency != preference.UrgencyHigh {
		t.Errorf("MinimumUrgency = %q, want high from the first insert", stored.MinimumUrgency)
	}
	if !stored.TypeSettings.PendingReview.Enabled || stored.TypeSettings.ReviewDueSoon.LeadDays == nil {
		t.Errorf("type settings not round-tripped: %+v", stored.TypeSettings)
	}
}

func TestPreferenceSaveOptimistic(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(newTestDB(t))

	cur, err := repo.CreateIfAbsent(ctx, preference.Default("u1"))
	if err != nil {
		t.Fatalf("CreateIfAbsent() error = %v", err)
	}

	next := cur.Clone()
	next.Active = false
	next.TypeSettings.ReviewCompleted.Enabled = false
	ok, err := repo.Save(ctx, next, cur.Version)
	if err != nil || !ok {
		t.Fatalf("Save() = %v, %v; want true, nil", ok, err)
	}
	if next.Version != cur.Version+1 {
		t.Errorf("Version = %d, want %d", next.Version, cur.Version+1)
	}

	// 旧版本号写入失败
	stale := cur.Clone()
	stale.EmailEnabled = false
	ok, err = repo.Save(ctx, stale, cur.Version)
	if err != nil || ok {
		t.Fatalf("stale Save() = %v, %v; want false, nil", ok, err)
	}

	stored, _ := repo.GetByUserID(ctx, "u1")
	if stored.Active || stored.TypeSettings.ReviewCompleted.Enabled {
		t.Errorf("stored = %+v, want active=false and review-completed disabled", stored)
	}
	if !stored.EmailEnabled {
		t.Error("stale write leaked into the stored row")
	}
}

func TestPauseUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPauseRepository(db)

	w1, _ := pause.NewWindow("u1", t0, at(t0.Add(7*24*time.Hour)), str("vacation"))
	if err := repo.Upsert(ctx, w1); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	w2, _ := pause.NewWindow("u1", t0, at(t0.Add(14*24*time.Hour)), str("extended"))
	if err := repo.Upsert(ctx, w2); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	var rows int64
	db.Model(&pause.PauseWindow{}).Where("user_id = ?", "u1").Count(&rows)
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}
	got, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.EndAt == nil || !got.EndAt.Equal(t0.Add(14*24*time.Hour)) {
		t.Errorf("EndAt = %v, want %v", got.EndAt, t0.Add(14*24*time.Hour))
	}
	if got.Reason == nil || *got.Reason != "extended" {
		t.Errorf("Reason = %v, want extended", got.Reason)
	}

	// 无限期暂停覆盖时旧的结束时间与原因也要清掉
	w3, _ := pause.NewWindow("u1", t0, nil, nil)
	if err := repo.Upsert(ctx, w3); err != nil {
		t.Fatalf("third Upsert() error = %v", err)
	}
	got, _ = repo.Get(ctx, "u1")
	if got.EndAt != nil || got.Reason != nil {
		t.Errorf("indefinite pause kept old fields: endAt=%v reason=%v", got.EndAt, got.Reason)
	}
}

func TestPauseDeactivateTwice(t *testing.T) {
	ctx := context.Background()
	repo := NewPauseRepository(newTestDB(t))

	ok, err := repo.Deactivate(ctx, "nobody")
	if err != nil || ok {
		t.Fatalf("Deactivate(no row) = %v, %v", ok, err)
	}

	w, _ := pause.NewWindow("u1", t0, nil, nil)
	_ = repo.Upsert(ctx, w)
	if ok, err := repo.Deactivate(ctx, "u1"); err != nil || !ok {
		t.Fatalf("first Deactivate() = %v, %v; want true", ok, err)
	}
	if ok, err := repo.Deactivate(ctx, "u1"); err != nil || ok {
		t.Fatalf("second Deactivate() = %v, %v; want false", ok, err)
	}
}

func TestPauseDeactivateExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewPauseRepository(newTestDB(t))

	w, _ := pause.NewWindow("u1", t0.Add(-48*time.Hour), at(t0.Add(-time.Hour)), nil)
	_ = repo.Upsert(ctx, w)
	live, _ := pause.NewWindow("u2", t0.Add(-time.Hour), at(t0.Add(time.Hour)), nil)
	_ = repo.Upsert(ctx, live)

	if ok, err := repo.DeactivateExpired(ctx, "u1", t0); err != nil || !ok {
		t.Fatalf("DeactivateExpired() = %v, %v; want true", ok, err)
	}
	if ok, _ := repo.DeactivateExpired(ctx, "u1", t0); ok {
		t.Error("DeactivateExpired() changed rows twice")
	}
	if ok, _ := repo.DeactivateExpired(ctx, "u2", t0); ok {
		t.Error("DeactivateExpired() expired a live window")
	}
	got, _ := repo.Get(ctx, "u2")
	if !got.Active {
		t.Error("live window lost active flag")
	}
}

func TestNotificationLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(newTestDB(t))

	for i, id := range []string{"n1", "n2", "n3"} {
		err := repo.CreateNotification(ctx, &notification.Notification{
			NotificationId: id,
			UserId:         "u1",
			Type:           string(preference.TypePendingReview),
			Urgency:        string(preference.UrgencyHigh),
			Title:          "review " + id,
			Status:         notification.StatusPending,
			CreatedAt:      t0.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateNotification(%s) error = %v", id, err)
		}
	}

	pending, err := repo.GetPendingNotifications(ctx, 10)
	if err != nil || len(pending) != 3 || pending[0].NotificationId != "n1" {
		t.Fatalf("GetPendingNotifications() = %d items, err %v", len(pending), err)
	}

	sent := t0.Add(time.Hour)
	if ok, _ := repo.UpdateNotificationStatus(ctx, "n1", notification.StatusSent, "", &sent); !ok {
		t.Fatal("UpdateNotificationStatus(n1) did not claim pending row")
	}
	if ok, _ := repo.UpdateNotificationStatus(ctx, "n1", notification.StatusSuppressed, "PAUSED", nil); ok {
		t.Error("UpdateNotificationStatus() overwrote a sent notification")
	}
	_, _ = repo.UpdateNotificationStatus(ctx, "n2", notification.StatusSuppressed, "PAUSED", nil)
	_, _ = repo.UpdateNotificationStatus(ctx, "n3", notification.StatusSent, "", &sent)

	list, err := repo.ListByUser(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(list) != 2 || list[0].NotificationId != "n3" {
		t.Fatalf("ListByUser() = %d items, want n3 first and suppressed hidden", len(list))
	}
	if n, _ := repo.CountUnread(ctx, "u1"); n != 2 {
		t.Errorf("CountUnread() = %d, want 2", n)
	}

	if ok, _ := repo.MarkRead(ctx, "other", "n1", t0); ok {
		t.Error("MarkRead() allowed another user")
	}
	if ok, _ := repo.MarkRead(ctx, "u1", "n1", t0); !ok {
		t.Error("MarkRead() failed")
	}
	if ok, _ := repo.MarkRead(ctx, "u1", "n2", t0); ok {
		t.Error("MarkRead() marked a suppressed notification")
	}
	if n, _ := repo.CountUnread(ctx, "u1"); n != 1 {
		t.Errorf("CountUnread() = %d, want 1", n)
	}
}

func newReminder(id, user string, scheduled time.Time) *reminder.Reminder {
	return &reminder.Reminder{
		ReminderId:       id,
		UserId:           user,
		Title:            "check review " + id,
		NotificationType: string(preference.TypeCustomReminder),
		Urgency:          string(preference.UrgencyMedium),
		Delivery:         delivery.State{ScheduledFor: scheduled},
		CreatedAt:        t0,
		UpdatedAt:        t0,
	}
}

func TestReminderListDueAndSaveDelivery(t *testing.T) {
	ctx := context.Background()
	repo := NewReminderRepository(newTestDB(t))

	_ = repo.Create(ctx, newReminder("r-due", "u1", t0.Add(-time.Hour)))
	_ = repo.Create(ctx, newReminder("r-future", "u1", t0.Add(time.Hour)))
	exhausted := newReminder("r-exhausted", "u1", t0.Add(-time.Hour))
	exhausted.Delivery.Attempts = 3
	_ = repo.Create(ctx, exhausted)

	due, err := repo.ListDue(ctx, t0, 3, 10)
	if err != nil {
		t.Fatalf("ListDue() error = %v", err)
	}
	if len(due) != 1 || due[0].ReminderId != "r-due" {
		t.Fatalf("ListDue() = %d items, want only r-due", len(due))
	}

	r := due[0]
	next := delivery.RecordAttempt(r.Delivery, delivery.Succeeded(), t0)
	if ok, err := repo.SaveDelivery(ctx, r.ReminderId, r.Delivery.Attempts, next); err != nil || !ok {
		t.Fatalf("SaveDelivery() = %v, %v", ok, err)
	}
	// 同一轮的第二次写入以旧的 attempts 为条件，必须失败
	if ok, _ := repo.SaveDelivery(ctx, r.ReminderId, r.Delivery.Attempts, next); ok {
		t.Error("SaveDelivery() accepted a stale attempts count")
	}

	got, _ := repo.GetByReminderID(ctx, "r-due")
	if got.Delivery.Attempts != 1 || got.Delivery.SentAt == nil {
		t.Errorf("stored delivery = %+v", got.Delivery)
	}
	if due, _ := repo.ListDue(ctx, t0, 3, 10); len(due) != 0 {
		t.Errorf("ListDue() after send = %d items, want 0", len(due))
	}
}

func TestReminderDeferHidesUntilNextCheck(t *testing.T) {
	ctx := context.Background()
	repo := NewReminderRepository(newTestDB(t))
	_ = repo.Create(ctx, newReminder("r-held", "u1", t0.Add(-time.Hour)))
	_ = repo.Create(ctx, newReminder("r-other", "u2", t0.Add(-time.Minute)))

	until := t0.Add(5 * time.Minute)
	if ok, err := repo.Defer(ctx, "r-held", 0, until); err != nil || !ok {
		t.Fatalf("Defer() = %v, %v", ok, err)
	}
	if ok, _ := repo.Defer(ctx, "r-held", 1, until); ok {
		t.Error("Defer() accepted a stale attempts count")
	}

	due, _ := repo.ListDue(ctx, t0, 3, 10)
	if len(due) != 1 || due[0].ReminderId != "r-other" {
		t.Fatalf("ListDue() during deferral = %d items, want only r-other", len(due))
	}
	due, _ = repo.ListDue(ctx, until, 3, 10)
	if len(due) != 2 || due[0].ReminderId != "r-held" {
		t.Fatalf("ListDue() at next check = %d items, want both", len(due))
	}

	// 一次投递尝试会清除延后时间
	next := delivery.RecordAttempt(due[0].Delivery, delivery.Failed(errors.New("timeout")), until)
	if ok, _ := repo.SaveDelivery(ctx, "r-held", 0, next); !ok {
		t.Fatal("SaveDelivery() failed")
	}
	got, _ := repo.GetByReminderID(ctx, "r-held")
	if got.NextCheckAt != nil || got.Delivery.Attempts != 1 {
		t.Errorf("after attempt NextCheckAt = %v, attempts = %d", got.NextCheckAt, got.Delivery.Attempts)
	}
}

func TestReminderDeleteOwnOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewReminderRepository(newTestDB(t))
	_ = repo.Create(ctx, newReminder("r1", "u1", t0))

	if ok, _ := repo.Delete(ctx, "u2", "r1"); ok {
		t.Error("Delete() removed another user's reminder")
	}
	if ok, _ := repo.Delete(ctx, "u1", "r1"); !ok {
		t.Error("Delete() failed for owner")
	}
	if got, err := repo.GetByReminderID(ctx, "r1"); err != nil || got != nil {
		t.Errorf("GetByReminderID() after delete = %v, %v", got, err)
	}
}
