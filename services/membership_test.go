package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/anywhere-app/backend/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}

	// A single connection keeps concurrent transactions serialized instead
	// of tripping SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Pin{},
		&models.PinCategory{},
		&models.Wishlist{},
		&models.Visit{},
		&models.Hangout{},
		&models.HangoutParticipant{},
	); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db
}

func seedPin(t *testing.T, db *gorm.DB) models.Pin {
	t.Helper()
	pin := models.Pin{Title: "Devin Castle", Lat: 48.1736, Lon: 16.9779}
	if err := db.Create(&pin).Error; err != nil {
		t.Fatalf("seeding pin: %v", err)
	}
	return pin
}

func seedUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			Username: fmt.Sprintf("user%d", i),
			Email:    fmt.Sprintf("user%d@example.com", i),
			IsActive: true,
		}
		if err := db.Create(&user).Error; err != nil {
			t.Fatalf("seeding user: %v", err)
		}
		users = append(users, user)
	}
	return users
}

func seedHangout(t *testing.T, db *gorm.DB, ownerID, pinID uint, maxParticipants *int) models.Hangout {
	t.Helper()
	hangout, err := CreateHangout(db, ownerID, CreateHangoutInput{
		PinID:           pinID,
		Title:           "Sunset picnic",
		Description:     "Bring snacks",
		MaxParticipants: maxParticipants,
		StartTime:       time.Now().Add(24 * time.Hour),
		DurationMinutes: 120,
	})
	if err != nil {
		t.Fatalf("creating hangout: %v", err)
	}
	return *hangout
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestJoinLeaveEndToEnd(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 4)
	owner, a, b, c := users[0], users[1], users[2], users[3]

	hangout := seedHangout(t, db, owner.ID, pin.ID, intPtr(2))

	if _, err := JoinHangout(db, hangout.ID, a.ID); err != nil {
		t.Fatalf("user A join: %v", err)
	}
	if _, err := JoinHangout(db, hangout.ID, b.ID); err != nil {
		t.Fatalf("user B join: %v", err)
	}
	if _, err := JoinHangout(db, hangout.ID, c.ID); !errors.Is(err, ErrHangoutFull) {
		t.Fatalf("user C join: want ErrHangoutFull, got %v", err)
	}

	if err := LeaveHangout(db, hangout.ID, a.ID); err != nil {
		t.Fatalf("user A leave: %v", err)
	}
	if _, err := JoinHangout(db, hangout.ID, c.ID); err != nil {
		t.Fatalf("user C join after A left: %v", err)
	}

	participants, err := ListParticipants(db, hangout.ID)
	if err != nil {
		t.Fatalf("listing participants: %v", err)
	}
	if len(participants) != 2 {
		t.Fatalf("want 2 participants, got %d", len(participants))
	}
}

func TestJoinTwiceRejected(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 2)

	hangout := seedHangout(t, db, users[0].ID, pin.ID, intPtr(5))

	if _, err := JoinHangout(db, hangout.ID, users[1].ID); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := JoinHangout(db, hangout.ID, users[1].ID); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("second join: want ErrAlreadyMember, got %v", err)
	}

	var count int64
	db.Model(&models.HangoutParticipant{}).
		Where("hangout_id = ? AND user_id = ?", hangout.ID, users[1].ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("want exactly one participant row, got %d", count)
	}
}

func TestLeaveWithoutJoin(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 2)

	hangout := seedHangout(t, db, users[0].ID, pin.ID, nil)

	if err := LeaveHangout(db, hangout.ID, users[1].ID); !errors.Is(err, ErrNotMember) {
		t.Fatalf("want ErrNotMember, got %v", err)
	}
}

func TestJoinLeaveOscillation(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 2)

	hangout := seedHangout(t, db, users[0].ID, pin.ID, intPtr(1))

	for i := 0; i < 3; i++ {
		if _, err := JoinHangout(db, hangout.ID, users[1].ID); err != nil {
			t.Fatalf("join round %d: %v", i, err)
		}
		if err := LeaveHangout(db, hangout.ID, users[1].ID); err != nil {
			t.Fatalf("leave round %d: %v", i, err)
		}
	}
}

func TestJoinUnknownHangout(t *testing.T) {
	db := openTestDB(t)
	users := seedUsers(t, db, 1)

	if _, err := JoinHangout(db, 9999, users[0].ID); !errors.Is(err, ErrHangoutNotFound) {
		t.Fatalf("join: want ErrHangoutNotFound, got %v", err)
	}
	if err := LeaveHangout(db, 9999, users[0].ID); !errors.Is(err, ErrHangoutNotFound) {
		t.Fatalf("leave: want ErrHangoutNotFound, got %v", err)
	}
}

func TestUncappedHangout(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 8)

	hangout := seedHangout(t, db, users[0].ID, pin.ID, nil)

	for _, user := range users[1:] {
		if _, err := JoinHangout(db, hangout.ID, user.ID); err != nil {
			t.Fatalf("join with no cap: %v", err)
		}
	}
}

func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)

	const capacity = 3
	users := seedUsers(t, db, capacity+2)
	hangout := seedHangout(t, db, users[0].ID, pin.ID, intPtr(capacity))

	var wg sync.WaitGroup
	results := make(chan error, capacity+1)
	for _, user := range users[1:] {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := JoinHangout(db, hangout.ID, userID)
			results <- err
		}(user.ID)
	}
	wg.Wait()
	close(results)

	successes, fulls := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrHangoutFull):
			fulls++
		default:
			t.Fatalf("unexpected join error: %v", err)
		}
	}

	if successes != capacity {
		t.Fatalf("want exactly %d successful joins, got %d", capacity, successes)
	}
	if fulls == 0 {
		t.Fatal("want at least one ErrHangoutFull rejection")
	}

	var count int64
	db.Model(&models.HangoutParticipant{}).Where("hangout_id = ?", hangout.ID).Count(&count)
	if count != capacity {
		t.Fatalf("want %d participant rows, got %d", capacity, count)
	}
}

func TestUpdateHangoutOwnerOnly(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 2)

	hangout := seedHangout(t, db, users[0].ID, pin.ID, intPtr(4))

	if _, err := UpdateHangout(db, hangout.ID, users[1].ID, HangoutPatch{Title: strPtr("hijacked")}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("want ErrNotOwner, got %v", err)
	}
	if _, err := UpdateHangout(db, 9999, users[0].ID, HangoutPatch{}); !errors.Is(err, ErrHangoutNotFound) {
		t.Fatalf("want ErrHangoutNotFound, got %v", err)
	}
}

func TestUpdateHangoutPatchSemantics(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 1)

	hangout := seedHangout(t, db, users[0].ID, pin.ID, intPtr(4))

	// Absent fields stay untouched, provided empty string is a real clear.
	if _, err := UpdateHangout(db, hangout.ID, users[0].ID, HangoutPatch{
		Description: strPtr(""),
	}); err != nil {
		t.Fatalf("clearing description: %v", err)
	}

	var got models.Hangout
	if err := db.First(&got, hangout.ID).Error; err != nil {
		t.Fatalf("reloading hangout: %v", err)
	}
	if got.Description != "" {
		t.Fatalf("description not cleared, got %q", got.Description)
	}
	if got.Title != hangout.Title {
		t.Fatalf("title changed unexpectedly: %q -> %q", hangout.Title, got.Title)
	}
	if got.MaxParticipants == nil || *got.MaxParticipants != 4 {
		t.Fatalf("max participants changed unexpectedly: %v", got.MaxParticipants)
	}

	// Zero lifts the cap entirely.
	if _, err := UpdateHangout(db, hangout.ID, users[0].ID, HangoutPatch{
		MaxParticipants: intPtr(0),
	}); err != nil {
		t.Fatalf("lifting cap: %v", err)
	}
	if err := db.First(&got, hangout.ID).Error; err != nil {
		t.Fatalf("reloading hangout: %v", err)
	}
	if got.MaxParticipants != nil {
		t.Fatalf("cap not lifted, got %v", *got.MaxParticipants)
	}
}

func TestUpdateHangoutRejectsUnknownPin(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 1)

	hangout := seedHangout(t, db, users[0].ID, pin.ID, nil)

	unknown := uint(9999)
	if _, err := UpdateHangout(db, hangout.ID, users[0].ID, HangoutPatch{PinID: &unknown}); !errors.Is(err, ErrPinNotFound) {
		t.Fatalf("want ErrPinNotFound, got %v", err)
	}
}

func TestDeleteHangoutCascadesParticipants(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 3)

	hangout := seedHangout(t, db, users[0].ID, pin.ID, nil)
	for _, user := range users[1:] {
		if _, err := JoinHangout(db, hangout.ID, user.ID); err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	if err := DeleteHangout(db, hangout.ID, users[1].ID, false); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("non-owner delete: want ErrNotOwner, got %v", err)
	}
	if err := DeleteHangout(db, hangout.ID, users[0].ID, false); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	var count int64
	db.Model(&models.HangoutParticipant{}).Where("hangout_id = ?", hangout.ID).Count(&count)
	if count != 0 {
		t.Fatalf("participant rows not cascaded, %d left", count)
	}
}
