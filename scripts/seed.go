package main

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/anywhere-app/backend/models"
	"github.com/anywhere-app/backend/storage"
)

// Seeds demo categories and pins clustered around the Bratislava city center.

var bratislavaBounds = struct {
	minLat, maxLat, minLon, maxLon float64
}{48.05, 48.22, 17.0, 17.20}

const (
	centerLat = 48.1486
	centerLon = 17.1077
)

func randomCoordinates() (float64, float64) {
	lat := centerLat + rand.NormFloat64()*0.04
	lon := centerLon + rand.NormFloat64()*0.05

	lat = max(bratislavaBounds.minLat, min(lat, bratislavaBounds.maxLat))
	lon = max(bratislavaBounds.minLon, min(lon, bratislavaBounds.maxLon))
	return lat, lon
}

func randomString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

func main() {
	db := storage.InitializeDB()

	costs := []string{"$", "$$", "$$$", "$$$$", ""}

	for i := 0; i < 15; i++ {
		if err := db.Create(&models.Category{
			Name:        randomString(8),
			Description: randomString(70),
		}).Error; err != nil {
			log.Fatalf("seeding categories: %v", err)
		}
	}

	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		log.Fatalf("loading categories: %v", err)
	}

	for i := 0; i < 15; i++ {
		title := randomString(10)
		lat, lon := randomCoordinates()

		pin := models.Pin{
			Slug:          strings.ToLower(title),
			Title:         title,
			Description:   randomString(100),
			Cost:          costs[rand.Intn(len(costs))],
			Lat:           lat,
			Lon:           lon,
			WishlistCount: rand.Intn(100),
			VisitCount:    rand.Intn(50),
			PostsCount:    rand.Intn(20),
			ViewCount:     rand.Intn(500),
		}
		if err := db.Create(&pin).Error; err != nil {
			log.Fatalf("seeding pins: %v", err)
		}

		numCategories := 1 + rand.Intn(3)
		perm := rand.Perm(len(categories))
		for j := 0; j < numCategories && j < len(perm); j++ {
			db.Create(&models.PinCategory{
				PinID:      pin.ID,
				CategoryID: categories[perm[j]].ID,
			})
		}
	}

	fmt.Println("Seeding completed successfully!")
}
