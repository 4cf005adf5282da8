// Command create-admin provisions an operator account. Admins cannot be
// registered through the HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tourplatform/tour-booking-backend/internal/config"
	"github.com/tourplatform/tour-booking-backend/internal/database"
	"github.com/tourplatform/tour-booking-backend/internal/services"
	"github.com/tourplatform/tour-booking-backend/pkg/jwt"
	"github.com/tourplatform/tour-booking-backend/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

var errMissingFields = errors.New("name, email and password are required")

type options struct {
	dbURL    string
	name     string
	email    string
	password string
	cost     int
}

func main() {
	// Optional .env keeps secrets off the command line
	_ = godotenv.Load()

	opts, err := parseOptions(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Printf("%v", err)
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func parseOptions(args []string, getenv func(string) string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.dbURL, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	fs.StringVar(&opts.name, "name", "", "admin display name")
	fs.StringVar(&opts.email, "email", "", "admin login email")
	fs.StringVar(&opts.password, "password", "", "admin password (falls back to ADMIN_PASSWORD)")
	fs.IntVar(&opts.cost, "bcrypt-cost", bcrypt.DefaultCost, "bcrypt cost factor")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.dbURL == "" {
		opts.dbURL = getenv("DATABASE_URL")
	}
	if opts.dbURL == "" {
		return opts, errors.New("DATABASE_URL is not set and -database-url was not provided")
	}
	if opts.password == "" {
		opts.password = getenv("ADMIN_PASSWORD")
	}
	if opts.name == "" || opts.email == "" || opts.password == "" {
		fs.Usage()
		return opts, errMissingFields
	}

	return opts, nil
}

func run(opts options, out io.Writer) error {
	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                opts.dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	logger := logrus.New()
	authService, err := services.NewAuthService(
		database.NewUserRepository(db),
		database.NewAdminRepository(db),
		// Tokens are never issued here; the signing service is unused.
		jwt.NewService("", "", time.Hour),
		validator.NewPhoneValidator(),
		opts.cost,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := authService.CreateAdmin(ctx, opts.name, opts.email, opts.password)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Fprintf(out, "Admin created: %s <%s> (id %s)\n", admin.Name, admin.Email, admin.ID)
	return nil
}
