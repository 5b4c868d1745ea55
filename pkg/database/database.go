package database

import (
	"biokuiz/internal/config"
	"biokuiz/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case "sqlite", "":
		return sqlite.Open(cfg.Path), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// InitDB opens the configured database. Schema migration is left to Migrate.
func InitDB(cfg *config.DatabaseConfig, verbose bool) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	mode := gormlogger.Warn
	if verbose {
		mode = gormlogger.Info
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: gormlogger.Default.LogMode(mode),
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Database connection established (%s)", d.Name())
	return db, nil
}

// Migrate creates or updates the tables of all persisted models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Material{},
		&model.Question{},
		&model.Score{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}
