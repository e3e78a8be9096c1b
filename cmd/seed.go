package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/smoradi/customer-api/internal/auth"
	"github.com/smoradi/customer-api/internal/config"
	"github.com/smoradi/customer-api/internal/db"
	"github.com/smoradi/customer-api/internal/model"
	"github.com/smoradi/customer-api/internal/util"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo customers...")

		if err := seedCustomers(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type seedAccount struct {
	email    string
	username string
	password string // plaintext, hashed below; demo accounts only
	isAdmin  bool
}

// seedCustomers inserts deterministic demo customers (idempotent on email).
func seedCustomers(dbx *sqlx.DB) error {
	accounts := []seedAccount{
		{email: "admin@example.com", username: "admin", password: "admin-password", isAdmin: true},
		{email: "alice@example.com", username: "alice", password: "alice-password"},
		{email: "bob@example.com", username: "bob", password: "bob-password"},
	}

	// idempotent upsert based on email (UNIQUE); id/password only set on insert
	const q = `
INSERT INTO customers
    (id, email, username, password, phone, image, is_admin, created_at, updated_at)
VALUES
    (?, ?, ?, ?, NULL, NULL, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    is_admin   = VALUES(is_admin),
    updated_at = VALUES(updated_at)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return fmt.Errorf("hash password for %q: %w", a.username, err)
		}
		c := model.Customer{
			ID:       util.NewID(),
			Email:    a.email,
			Username: a.username,
			Password: hash,
			IsAdmin:  a.isAdmin,
		}
		if _, err := tx.Exec(q, c.ID, c.Email, c.Username, c.Password, c.IsAdmin, now, now); err != nil {
			return fmt.Errorf("insert customer %q: %w", c.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit customers: %w", err)
	}
	return nil
}
