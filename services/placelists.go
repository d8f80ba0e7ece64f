package services

import (
	"errors"
	"time"

	"github.com/anywhere-app/backend/models"
	"gorm.io/gorm"
)

var (
	ErrPinNotFound   = errors.New("pin not found")
	ErrAlreadyListed = errors.New("pin already in this list")
	ErrNotListed     = errors.New("pin not in this list")
)

// ListKind selects one of the two independent per-user pin sets.
type ListKind string

const (
	KindWishlist ListKind = "wishlist"
	KindVisited  ListKind = "visited"
)

// PlaceEntry is a ledger row annotated with CrossRef: whether the same
// (user, pin) pair also sits in the other list. Adding a wishlisted pin to
// visited does not touch the wishlist row, and vice versa.
type PlaceEntry struct {
	PinID    uint       `json:"pinID"`
	AddedAt  time.Time  `json:"addedAt"`
	CrossRef bool       `json:"crossRef"`
	Pin      models.Pin `json:"pin"`
}

func (k ListKind) model() interface{} {
	if k == KindVisited {
		return &models.Visit{}
	}
	return &models.Wishlist{}
}

func (k ListKind) other() ListKind {
	if k == KindVisited {
		return KindWishlist
	}
	return KindVisited
}

func (k ListKind) counterColumn() string {
	if k == KindVisited {
		return "visit_count"
	}
	return "wishlist_count"
}

// inOtherList is the single-pair cross-reference check. Always hits the
// store; existence must never be answered from a prior read.
func inOtherList(tx *gorm.DB, kind ListKind, pinID, userID uint) (bool, error) {
	var count int64
	err := tx.Model(kind.other().model()).
		Where("user_id = ? AND pin_id = ?", userID, pinID).
		Count(&count).Error
	return count > 0, err
}

// AddToList inserts (userID, pinID) into the given list and bumps the pin's
// denormalized counter. Duplicate entries in the same list are rejected, not
// silently absorbed.
func AddToList(db *gorm.DB, kind ListKind, pinID, userID uint) (*PlaceEntry, error) {
	var entry PlaceEntry

	err := db.Transaction(func(tx *gorm.DB) error {
		var pin models.Pin
		if err := tx.First(&pin, pinID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPinNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(kind.model()).
			Where("user_id = ? AND pin_id = ?", userID, pinID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyListed
		}

		now := time.Now()
		switch kind {
		case KindVisited:
			if err := tx.Create(&models.Visit{UserID: userID, PinID: pinID, VisitedAt: now}).Error; err != nil {
				return err
			}
		default:
			if err := tx.Create(&models.Wishlist{UserID: userID, PinID: pinID, AddedAt: now}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Pin{}).Where("id = ?", pinID).
			Update(kind.counterColumn(), gorm.Expr(kind.counterColumn()+" + 1")).Error; err != nil {
			return err
		}

		crossRef, err := inOtherList(tx, kind, pinID, userID)
		if err != nil {
			return err
		}

		entry = PlaceEntry{PinID: pinID, AddedAt: now, CrossRef: crossRef, Pin: pin}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func RemoveFromList(db *gorm.DB, kind ListKind, pinID, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND pin_id = ?", userID, pinID).Delete(kind.model())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotListed
		}

		return tx.Model(&models.Pin{}).Where("id = ?", pinID).
			Update(kind.counterColumn(), gorm.Expr(kind.counterColumn()+" - 1")).Error
	})
}

// ListEntries returns the user's entries in the given list. Cross-reference
// flags come from one batched membership query against the other list, not
// one query per row.
func ListEntries(db *gorm.DB, kind ListKind, userID uint) ([]PlaceEntry, error) {
	entries := []PlaceEntry{}
	pinIDs := []uint{}

	switch kind {
	case KindVisited:
		var rows []models.Visit
		if err := db.Where("user_id = ?", userID).Preload("Pin").Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			entries = append(entries, PlaceEntry{PinID: row.PinID, AddedAt: row.VisitedAt, Pin: row.Pin})
			pinIDs = append(pinIDs, row.PinID)
		}
	default:
		var rows []models.Wishlist
		if err := db.Where("user_id = ?", userID).Preload("Pin").Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			entries = append(entries, PlaceEntry{PinID: row.PinID, AddedAt: row.AddedAt, Pin: row.Pin})
			pinIDs = append(pinIDs, row.PinID)
		}
	}

	if len(pinIDs) == 0 {
		return entries, nil
	}

	var otherPinIDs []uint
	if err := db.Model(kind.other().model()).
		Where("user_id = ? AND pin_id IN ?", userID, pinIDs).
		Pluck("pin_id", &otherPinIDs).Error; err != nil {
		return nil, err
	}

	inOther := make(map[uint]bool, len(otherPinIDs))
	for _, id := range otherPinIDs {
		inOther[id] = true
	}
	for i := range entries {
		entries[i].CrossRef = inOther[entries[i].PinID]
	}
	return entries, nil
}
