// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"tasteid/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	ShouldClean bool
}

// sample carries the fields an item copies from a search result.
type sample struct {
	externalID string
	mediaType  models.MediaType
	title      string
	image      string
	year       string
	rating     float64
}

var (
	textures = []models.Texture{
		models.TextureGrain, models.TexturePaper, models.TextureGlass,
	}

	accentColors = []string{
		"#6366f1", "#ec4899", "#f59e0b", "#10b981", "#ef4444", "#8b5cf6",
	}

	movieSamples = []sample{
		{"603", models.MediaTypeMovie, "The Matrix", "https://image.tmdb.org/t/p/w500/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg", "1999", 8.2},
		{"27205", models.MediaTypeMovie, "Inception", "https://image.tmdb.org/t/p/w500/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg", "2010", 8.4},
		{"157336", models.MediaTypeMovie, "Interstellar", "https://image.tmdb.org/t/p/w500/gEU2QniE6E77NI6lCU6MxlNBvIx.jpg", "2014", 8.4},
		{"335984", models.MediaTypeMovie, "Blade Runner 2049", "https://image.tmdb.org/t/p/w500/gajva2L0rPYkEWjzgFlBXCAVBE5.jpg", "2017", 7.5},
		{"62", models.MediaTypeMovie, "2001: A Space Odyssey", "https://image.tmdb.org/t/p/w500/ve72VxNqjGM69Uky4WTo2bK6rfq.jpg", "1968", 8.1},
		{"78", models.MediaTypeMovie, "Blade Runner", "https://image.tmdb.org/t/p/w500/63N9uy8nd9j7Eog2axPQ8lbr3Wj.jpg", "1982", 7.9},
	}

	animeSamples = []sample{
		{"1", models.MediaTypeAnime, "Cowboy Bebop", "https://s4.anilist.co/file/anilistcdn/media/anime/cover/medium/bx1-CXtrrkMpJ8Zq.png", "1998", 8.6},
		{"21", models.MediaTypeAnime, "One Piece", "https://s4.anilist.co/file/anilistcdn/media/anime/cover/medium/bx21-tXMN3Y20PIL9.jpg", "1999", 8.7},
		{"5114", models.MediaTypeAnime, "Fullmetal Alchemist: Brotherhood", "https://s4.anilist.co/file/anilistcdn/media/anime/cover/medium/bx5114-KJTQz9AIm6Wk.jpg", "2009", 9.0},
		{"16498", models.MediaTypeAnime, "Attack on Titan", "https://s4.anilist.co/file/anilistcdn/media/anime/cover/medium/bx16498-73IhOXpJZiMF.jpg", "2013", 8.5},
	}

	gameSamples = []sample{
		{"1030", models.MediaTypeGame, "Limbo", "https://media.rawg.io/media/games/942/9424d6bb763dc38d9378b488603c87fa.jpg", "2010", 7.8},
		{"3328", models.MediaTypeGame, "The Witcher 3: Wild Hunt", "https://media.rawg.io/media/games/618/618c2031a07bbff6b4f611f10b6bcdbc.jpg", "2015", 9.2},
		{"22511", models.MediaTypeGame, "The Legend of Zelda: Breath of the Wild", "https://media.rawg.io/media/games/cc1/cc196a5ad763955d6532cdba236f730c.jpg", "2017", 9.7},
	}
)

// Seed populates the database with demo profiles, each carrying a small grid
// of collections with items.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users...", opts.NumUsers)

	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers, r)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d demo users created", len(users))

	for _, user := range users {
		if err := createGrid(db, user, r); err != nil {
			return fmt.Errorf("failed to create collections for %s: %w", user.Username, err)
		}
	}
	log.Println("Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	for _, model := range []any{
		&models.SavedItem{}, &models.Item{}, &models.Collection{}, &models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int, r *rand.Rand) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		bio := gofakeit.Sentence(10)
		user := &models.User{
			Email:               gofakeit.Email(),
			Password:            string(hashed),
			Username:            fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Name:                gofakeit.Name(),
			Bio:                 &bio,
			AccentColor:         accentColors[r.Intn(len(accentColors))],
			BgTexture:           textures[r.Intn(len(textures))],
			OnboardingCompleted: true,
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// createGrid builds three collections per user and fills them from the sample
// pools. Item positions are dense per collection and the first item's image
// becomes the cover.
func createGrid(db *gorm.DB, user *models.User, r *rand.Rand) error {
	type grid struct {
		name      string
		mediaType models.MediaType
		pool      []sample
	}
	grids := []grid{
		{"Favorites", models.MediaTypeMovie, movieSamples},
		{"Sci-Fi", models.MediaTypeMovie, movieSamples},
		{"Anime", models.MediaTypeAnime, animeSamples},
	}
	if r.Intn(2) == 0 {
		grids[2] = grid{"Playing", models.MediaTypeGame, gameSamples}
	}

	for position, g := range grids {
		collection := &models.Collection{
			UserID:   user.ID,
			Name:     g.name,
			Type:     g.mediaType,
			Position: position,
		}
		if err := db.Create(collection).Error; err != nil {
			return err
		}

		picks := r.Perm(len(g.pool))[:2+r.Intn(len(g.pool)-1)]
		for i, pick := range picks {
			s := g.pool[pick]
			image, year, rating := s.image, s.year, s.rating
			item := &models.Item{
				CollectionID: collection.ID,
				ExternalID:   s.externalID,
				Type:         s.mediaType,
				Title:        s.title,
				Image:        &image,
				Year:         &year,
				Rating:       &rating,
				Position:     i,
			}
			if err := db.Create(item).Error; err != nil {
				return err
			}
			if i == 0 {
				if err := db.Model(collection).Update("cover_image", &image).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}
