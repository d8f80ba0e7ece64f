package services

import (
	"errors"
	"time"

	"github.com/anywhere-app/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrHangoutNotFound = errors.New("hangout not found")
	ErrAlreadyMember   = errors.New("already a participant of this hangout")
	ErrHangoutFull     = errors.New("hangout is full")
	ErrNotMember       = errors.New("not a participant of this hangout")
	ErrNotOwner        = errors.New("only the owner may modify this hangout")
)

// lockForUpdate takes a row lock where the dialect supports it. SQLite (used
// by the tests) has no FOR UPDATE and serializes writers at the database
// level, which preserves the same invariant.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

type CreateHangoutInput struct {
	PinID                uint
	Title                string
	Description          string
	ExpectedParticipants *int
	MaxParticipants      *int
	StartTime            time.Time
	DurationMinutes      int
}

func CreateHangout(db *gorm.DB, ownerID uint, input CreateHangoutInput) (*models.Hangout, error) {
	var pinCount int64
	if err := db.Model(&models.Pin{}).Where("id = ?", input.PinID).Count(&pinCount).Error; err != nil {
		return nil, err
	}
	if pinCount == 0 {
		return nil, ErrPinNotFound
	}

	hangout := models.Hangout{
		OwnerID:              ownerID,
		PinID:                input.PinID,
		Title:                input.Title,
		Description:          input.Description,
		ExpectedParticipants: input.ExpectedParticipants,
		MaxParticipants:      input.MaxParticipants,
		StartTime:            input.StartTime,
		DurationMinutes:      input.DurationMinutes,
	}
	if err := db.Create(&hangout).Error; err != nil {
		return nil, err
	}
	return &hangout, nil
}

// JoinHangout inserts a participant row for (hangoutID, userID). The capacity
// check and the insert run in one transaction under a lock on the hangout
// row, so two concurrent joins against the same hangout cannot both observe
// room below capacity. Unrelated hangouts lock different rows and never
// contend.
func JoinHangout(db *gorm.DB, hangoutID, userID uint) (*models.HangoutParticipant, error) {
	var participant models.HangoutParticipant

	err := db.Transaction(func(tx *gorm.DB) error {
		var hangout models.Hangout
		if err := lockForUpdate(tx).First(&hangout, hangoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHangoutNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.HangoutParticipant{}).
			Where("hangout_id = ? AND user_id = ?", hangoutID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyMember
		}

		if hangout.MaxParticipants != nil {
			var count int64
			if err := tx.Model(&models.HangoutParticipant{}).
				Where("hangout_id = ?", hangoutID).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(*hangout.MaxParticipants) {
				return ErrHangoutFull
			}
		}

		participant = models.HangoutParticipant{
			HangoutID: hangoutID,
			UserID:    userID,
			JoinedAt:  time.Now(),
		}
		return tx.Create(&participant).Error
	})
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func LeaveHangout(db *gorm.DB, hangoutID, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var hangoutCount int64
		if err := tx.Model(&models.Hangout{}).Where("id = ?", hangoutID).Count(&hangoutCount).Error; err != nil {
			return err
		}
		if hangoutCount == 0 {
			return ErrHangoutNotFound
		}

		res := tx.Where("hangout_id = ? AND user_id = ?", hangoutID, userID).
			Delete(&models.HangoutParticipant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotMember
		}
		return nil
	})
}

// HangoutPatch distinguishes "field absent" (nil pointer, leave untouched)
// from an explicit value. For the nullable integer fields a provided value
// <= 0 clears the column, so a capped hangout can be made unlimited.
type HangoutPatch struct {
	Title                *string    `json:"title"`
	Description          *string    `json:"description"`
	PinID                *uint      `json:"pinID"`
	ExpectedParticipants *int       `json:"expectedParticipants"`
	MaxParticipants      *int       `json:"maxParticipants"`
	StartTime            *time.Time `json:"startTime"`
	DurationMinutes      *int       `json:"durationMinutes"`
}

func UpdateHangout(db *gorm.DB, hangoutID, callerID uint, patch HangoutPatch) (*models.Hangout, error) {
	var hangout models.Hangout
	if err := db.First(&hangout, hangoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHangoutNotFound
		}
		return nil, err
	}
	if hangout.OwnerID != callerID {
		return nil, ErrNotOwner
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.PinID != nil {
		var pinCount int64
		if err := db.Model(&models.Pin{}).Where("id = ?", *patch.PinID).Count(&pinCount).Error; err != nil {
			return nil, err
		}
		if pinCount == 0 {
			return nil, ErrPinNotFound
		}
		updates["pin_id"] = *patch.PinID
	}
	if patch.ExpectedParticipants != nil {
		if *patch.ExpectedParticipants <= 0 {
			updates["expected_participants"] = nil
		} else {
			updates["expected_participants"] = *patch.ExpectedParticipants
		}
	}
	if patch.MaxParticipants != nil {
		if *patch.MaxParticipants <= 0 {
			updates["max_participants"] = nil
		} else {
			updates["max_participants"] = *patch.MaxParticipants
		}
	}
	if patch.StartTime != nil {
		updates["start_time"] = *patch.StartTime
	}
	if patch.DurationMinutes != nil {
		updates["duration_minutes"] = *patch.DurationMinutes
	}

	if len(updates) > 0 {
		if err := db.Model(&hangout).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := db.First(&hangout, hangoutID).Error; err != nil {
			return nil, err
		}
	}
	return &hangout, nil
}

func GetHangout(db *gorm.DB, hangoutID uint) (*models.Hangout, error) {
	var hangout models.Hangout
	if err := db.Preload("Participants").Preload("Pin").First(&hangout, hangoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHangoutNotFound
		}
		return nil, err
	}
	return &hangout, nil
}

func ListHangouts(db *gorm.DB) ([]models.Hangout, error) {
	var hangouts []models.Hangout
	if err := db.Preload("Participants").Preload("Pin").Find(&hangouts).Error; err != nil {
		return nil, err
	}
	return hangouts, nil
}

func ListParticipants(db *gorm.DB, hangoutID uint) ([]models.HangoutParticipant, error) {
	var hangoutCount int64
	if err := db.Model(&models.Hangout{}).Where("id = ?", hangoutID).Count(&hangoutCount).Error; err != nil {
		return nil, err
	}
	if hangoutCount == 0 {
		return nil, ErrHangoutNotFound
	}

	var participants []models.HangoutParticipant
	if err := db.Where("hangout_id = ?", hangoutID).Preload("User").Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

// DeleteHangout removes the hangout and its participant rows. Owner or admin
// only.
func DeleteHangout(db *gorm.DB, hangoutID, callerID uint, isAdmin bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var hangout models.Hangout
		if err := tx.First(&hangout, hangoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHangoutNotFound
			}
			return err
		}
		if hangout.OwnerID != callerID && !isAdmin {
			return ErrNotOwner
		}

		if err := tx.Where("hangout_id = ?", hangoutID).Delete(&models.HangoutParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&hangout).Error
	})
}
