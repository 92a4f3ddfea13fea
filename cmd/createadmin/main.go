// Command createadmin provisions a staff account directly in the store. It is
// how the first administrator is created.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"OdontoSystem/config"
	"OdontoSystem/database"
	"OdontoSystem/logger"
	"OdontoSystem/models"
	"OdontoSystem/repositories"
	"OdontoSystem/services"
)

func main() {
	name := flag.String("name", "", "display name")
	email := flag.String("email", "", "login e-mail")
	password := flag.String("password", "", "initial password")
	role := flag.String("role", models.RoleAdmin, "admin, dentist, receptionist or finance")
	flag.Parse()

	log := logger.New(logger.Options{ServiceName: "odonto-createadmin", Format: "console"})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadStore()
	if err != nil {
		log.Error(ctx, "failed to load configuration", err)
		os.Exit(1)
	}
	store, err := database.Open(ctx, *cfg, false)
	if err != nil {
		log.Error(ctx, "failed to open store", err)
		os.Exit(1)
	}

	// No sessions exist yet, so nothing needs revoking.
	users := services.NewUserService(repositories.NewUserRepository(store), nil)
	profile, err := users.Create(ctx, models.NewUserInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     *role,
	})
	if err != nil {
		log.Error(ctx, "failed to create user", err)
		os.Exit(1)
	}

	log.Info(log.WithFields(ctx, map[string]any{
		"user_id": profile.ID,
		"email":   profile.Email,
		"role":    profile.Role,
	}), "user created")
}
