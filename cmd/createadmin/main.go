// Command createadmin provisions an administrator account. Public
// registration always creates regular users, so admins are created
// out-of-band with this tool.
package main

import (
	"context"
	"flag"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/imagehub/image-hub/internal/config"
	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/internal/store"
	"github.com/imagehub/image-hub/models"
)

func main() {
	var (
		userName string
		password string
		dsn      string
	)

	flag.StringVar(&userName, "name", "", "Admin user name")
	flag.StringVar(&password, "password", "", "Admin password")
	flag.StringVar(&dsn, "d", os.Getenv("DATABASE_URI"), "Database DSN")
	flag.Parse()

	log := logger.NewLogger("image-hub-createadmin")

	user := models.User{UserName: userName, IsAdmin: true}
	credentials := models.Credentials{UserName: userName, Password: password}
	if err := credentials.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid admin credentials")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("error hashing password")
	}
	user.PasswordHash = string(hash)

	ctx := context.Background()
	db, err := store.NewConnectPostgres(ctx, config.DB{DSN: dsn}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	created, err := store.NewUserRepository(db, log).CreateUser(ctx, user)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating admin user")
	}

	log.Info().Int64("id", created.ID).Str("user_name", created.UserName).Msg("admin user created")
}
