// Command seed fills the catalog with sample data for local development:
// ten admin accounts, ten user accounts, and a batch of generated images
// per account mapped to random categories. Categories themselves ship with
// the migrations.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math/rand/v2"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/imagehub/image-hub/internal/config"
	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/internal/store"
	"github.com/imagehub/image-hub/models"
)

// Every seeded account gets the same throwaway password.
const seedPassword = "asdf"

const (
	seedAdminCount = 10
	seedUserCount  = 10
)

func main() {
	var (
		dsn           string
		imageDir      string
		thumbnailSize uint
	)

	flag.StringVar(&dsn, "d", os.Getenv("DATABASE_URI"), "Database DSN")
	flag.StringVar(&imageDir, "image-dir", os.Getenv("IMAGE_DIR"), "Image file storage directory")
	flag.UintVar(&thumbnailSize, "thumbnail-size", 128, "Thumbnail bounding box in pixels")
	flag.Parse()

	log := logger.NewLogger("image-hub-seed")

	ctx := context.Background()
	db, err := store.NewConnectPostgres(ctx, config.DB{DSN: dsn}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	storages, err := store.NewStorages(db, config.Files{ImageDir: imageDir, ThumbnailSize: thumbnailSize}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	categoryIDs, err := seedCategoryIDs(ctx, storages)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading seeded categories")
	}

	adminIDs := seedUsers(ctx, storages, "admin", seedAdminCount, true, log)
	userIDs := seedUsers(ctx, storages, "user", seedUserCount, false, log)

	for _, adminID := range adminIDs {
		seedImages(ctx, storages, models.Identity{UserID: adminID, IsAdmin: true}, categoryIDs, log)
	}
	for _, userID := range userIDs {
		seedImages(ctx, storages, models.Identity{UserID: userID}, categoryIDs, log)
	}

	log.Info().
		Int("admins", len(adminIDs)).
		Int("users", len(userIDs)).
		Str("password", seedPassword).
		Msg("sample data created")
}

// seedCategoryIDs returns the ids of the categories installed by the
// migrations, which the seeded images are mapped against.
func seedCategoryIDs(ctx context.Context, storages *store.Storages) ([]int64, error) {
	categories, err := storages.CategoryRepository.ListCategories(ctx, nil, models.MaxPageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(categories))
	for i, category := range categories {
		ids[i] = category.ID
	}
	return ids, nil
}

// seedUsers creates numbered accounts ("admin1".."adminN" or "user1".."userN")
// sharing the seed password. Accounts left over from a previous run are
// reused rather than treated as a failure.
func seedUsers(ctx context.Context, storages *store.Storages, prefix string, count int, isAdmin bool, log *logger.Logger) []int64 {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("error hashing seed password")
	}

	ids := make([]int64, 0, count)
	for i := 1; i <= count; i++ {
		user := models.User{
			UserName:     fmt.Sprintf("%s%d", prefix, i),
			PasswordHash: string(hash),
			IsAdmin:      isAdmin,
		}

		created, err := storages.UserRepository.CreateUser(ctx, user)
		if errors.Is(err, store.ErrUserNameAlreadyExists) {
			created, err = storages.UserRepository.FindUserByUserName(ctx, user.UserName)
		}
		if err != nil {
			log.Fatal().Err(err).Str("user_name", user.UserName).Msg("error seeding account")
		}

		ids = append(ids, created.ID)
	}

	log.Info().Str("prefix", prefix).Int("count", count).Msg("seeded accounts")
	return ids
}

// seedImages uploads between 1 and 12 generated images for one account,
// each mapped to up to five random categories.
func seedImages(ctx context.Context, storages *store.Storages, uploader models.Identity, categoryIDs []int64, log *logger.Logger) {
	numImages := 1 + rand.IntN(12)

	for i := 0; i < numImages; i++ {
		fileName := fmt.Sprintf("image_%d.jpg", i)
		description := fmt.Sprintf("Image %d of user %d", i, uploader.UserID)

		img, err := models.NewImageInfo(fileName, &description, uploader)
		if err != nil {
			log.Fatal().Err(err).Msg("error building image record")
		}

		data := sampleJPEG()
		stored, err := storages.ImageRepository.CreateImage(ctx, img, pickCategories(categoryIDs), func(record models.ImageInfo) error {
			return storages.ImageFileStorage.SaveImageFiles(ctx, record.ID, record.FileName, data)
		})
		if err != nil {
			log.Fatal().Err(err).Int64("uploader_id", uploader.UserID).Msg("error seeding image")
		}

		log.Debug().Int64("image_id", stored.ID).Int64("uploader_id", uploader.UserID).Msg("seeded image")
	}
}

// pickCategories samples up to five distinct category ids.
func pickCategories(categoryIDs []int64) []int64 {
	n := rand.IntN(6)
	if n > len(categoryIDs) {
		n = len(categoryIDs)
	}

	picked := make([]int64, 0, n)
	for _, idx := range rand.Perm(len(categoryIDs))[:n] {
		picked = append(picked, categoryIDs[idx])
	}
	return picked
}

// sampleJPEG renders a 256x256 solid-color JPEG.
func sampleJPEG() []byte {
	fill := color.RGBA{
		R: uint8(rand.IntN(256)),
		G: uint8(rand.IntN(256)),
		B: uint8(rand.IntN(256)),
		A: 255,
	}

	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		// a solid RGBA image always encodes
		panic(err)
	}
	return buf.Bytes()
}
