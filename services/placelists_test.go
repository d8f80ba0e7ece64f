package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anywhere-app/backend/models"
)

func TestAddToListAndCrossRef(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 1)
	user := users[0]

	entry, err := AddToList(db, KindWishlist, pin.ID, user.ID)
	if err != nil {
		t.Fatalf("adding to wishlist: %v", err)
	}
	if entry.CrossRef {
		t.Fatal("wishlist add: crossRef should be false before any visit")
	}

	entry, err = AddToList(db, KindVisited, pin.ID, user.ID)
	if err != nil {
		t.Fatalf("adding to visited: %v", err)
	}
	if !entry.CrossRef {
		t.Fatal("visited add: crossRef should report the wishlist entry")
	}

	wishlist, err := ListEntries(db, KindWishlist, user.ID)
	if err != nil {
		t.Fatalf("listing wishlist: %v", err)
	}
	if len(wishlist) != 1 || !wishlist[0].CrossRef {
		t.Fatalf("wishlist listing: want one entry with crossRef=true, got %+v", wishlist)
	}

	visited, err := ListEntries(db, KindVisited, user.ID)
	if err != nil {
		t.Fatalf("listing visited: %v", err)
	}
	if len(visited) != 1 || !visited[0].CrossRef {
		t.Fatalf("visited listing: want one entry with crossRef=true, got %+v", visited)
	}
}

func TestListsAreIndependent(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 1)
	user := users[0]

	if _, err := AddToList(db, KindWishlist, pin.ID, user.ID); err != nil {
		t.Fatalf("adding to wishlist: %v", err)
	}
	if _, err := AddToList(db, KindVisited, pin.ID, user.ID); err != nil {
		t.Fatalf("adding to visited: %v", err)
	}

	if err := RemoveFromList(db, KindWishlist, pin.ID, user.ID); err != nil {
		t.Fatalf("removing from wishlist: %v", err)
	}

	visited, err := ListEntries(db, KindVisited, user.ID)
	if err != nil {
		t.Fatalf("listing visited: %v", err)
	}
	if len(visited) != 1 {
		t.Fatalf("visit entry should survive wishlist removal, got %d entries", len(visited))
	}
	if visited[0].CrossRef {
		t.Fatal("crossRef should drop once the wishlist entry is gone")
	}
}

func TestDuplicateAddRejected(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 1)

	if _, err := AddToList(db, KindWishlist, pin.ID, users[0].ID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := AddToList(db, KindWishlist, pin.ID, users[0].ID); !errors.Is(err, ErrAlreadyListed) {
		t.Fatalf("second add: want ErrAlreadyListed, got %v", err)
	}
}

func TestAddUnknownPin(t *testing.T) {
	db := openTestDB(t)
	users := seedUsers(t, db, 1)

	if _, err := AddToList(db, KindVisited, 9999, users[0].ID); !errors.Is(err, ErrPinNotFound) {
		t.Fatalf("want ErrPinNotFound, got %v", err)
	}
}

func TestRemoveMissingEntry(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 1)

	if err := RemoveFromList(db, KindVisited, pin.ID, users[0].ID); !errors.Is(err, ErrNotListed) {
		t.Fatalf("want ErrNotListed, got %v", err)
	}
}

func TestPinCountersTrackLists(t *testing.T) {
	db := openTestDB(t)
	pin := seedPin(t, db)
	users := seedUsers(t, db, 1)
	user := users[0]

	if _, err := AddToList(db, KindWishlist, pin.ID, user.ID); err != nil {
		t.Fatalf("adding to wishlist: %v", err)
	}

	var got models.Pin
	db.First(&got, pin.ID)
	if got.WishlistCount != 1 {
		t.Fatalf("want wishlist_count 1, got %d", got.WishlistCount)
	}

	if err := RemoveFromList(db, KindWishlist, pin.ID, user.ID); err != nil {
		t.Fatalf("removing from wishlist: %v", err)
	}
	db.First(&got, pin.ID)
	if got.WishlistCount != 0 {
		t.Fatalf("want wishlist_count 0, got %d", got.WishlistCount)
	}
}

func TestListEntriesBatchedCrossRef(t *testing.T) {
	db := openTestDB(t)
	users := seedUsers(t, db, 1)
	user := users[0]

	pins := make([]models.Pin, 0, 5)
	for i := 0; i < 5; i++ {
		pin := models.Pin{
			Title: fmt.Sprintf("Pin %d", i),
			Lat:   48.1 + float64(i)*0.01,
			Lon:   17.1 + float64(i)*0.01,
		}
		if err := db.Create(&pin).Error; err != nil {
			t.Fatalf("seeding pin %d: %v", i, err)
		}
		pins = append(pins, pin)
	}

	for _, pin := range pins {
		if _, err := AddToList(db, KindWishlist, pin.ID, user.ID); err != nil {
			t.Fatalf("wishlist add: %v", err)
		}
	}
	// Only even-indexed pins get visited.
	for i, pin := range pins {
		if i%2 == 0 {
			if _, err := AddToList(db, KindVisited, pin.ID, user.ID); err != nil {
				t.Fatalf("visited add: %v", err)
			}
		}
	}

	entries, err := ListEntries(db, KindWishlist, user.ID)
	if err != nil {
		t.Fatalf("listing wishlist: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("want 5 wishlist entries, got %d", len(entries))
	}

	visitedByPin := map[uint]bool{}
	for i, pin := range pins {
		visitedByPin[pin.ID] = i%2 == 0
	}
	for _, entry := range entries {
		if entry.CrossRef != visitedByPin[entry.PinID] {
			t.Fatalf("pin %d: want crossRef=%v, got %v", entry.PinID, visitedByPin[entry.PinID], entry.CrossRef)
		}
	}
}
