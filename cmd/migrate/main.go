package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"strings"

	_ "github.com/lib/pq"

	"labexams/config"
)

// Raw-SQL schema, kept in step with the GORM models. AutoMigrate covers the
// normal path; this runner exists for environments where the app user has
// no DDL rights and migrations run separately.

var upStatements = []string{
	`CREATE TABLE IF NOT EXISTS laboratories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address TEXT NOT NULL,
		status BOOLEAN NOT NULL DEFAULT TRUE
	);`,

	`CREATE TABLE IF NOT EXISTS exams (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		type VARCHAR(255) NOT NULL,
		status BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ
	);`,

	`CREATE TABLE IF NOT EXISTS laboratory_exams (
		laboratory_id INTEGER NOT NULL REFERENCES laboratories(id) ON UPDATE CASCADE ON DELETE CASCADE,
		exam_id INTEGER NOT NULL REFERENCES exams(id) ON UPDATE CASCADE ON DELETE CASCADE,
		PRIMARY KEY (laboratory_id, exam_id)
	);`,

	`CREATE TABLE IF NOT EXISTS cron_job_logs (
		id SERIAL PRIMARY KEY,
		job_name VARCHAR(100) NOT NULL,
		status VARCHAR(20) NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		message TEXT,
		error_msg TEXT,
		created_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ
	);`,

	`CREATE INDEX IF NOT EXISTS idx_cron_job_logs_job_name ON cron_job_logs (job_name);`,
}

var downStatements = []string{
	`DROP TABLE IF EXISTS cron_job_logs;`,
	`DROP TABLE IF EXISTS laboratory_exams;`,
	`DROP TABLE IF EXISTS exams;`,
	`DROP TABLE IF EXISTS laboratories;`,
}

func main() {
	down := flag.Bool("down", false, "drop all tables instead of creating them")
	flag.Parse()

	if err := config.LoadENV(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	connectStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv.DB_HOST,
		getEnv.DB_PORT,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_SSL_MODE,
	)

	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		log.Fatal("Unable to connect to PostgreSQL:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("PostgreSQL is not reachable:", err)
	}

	statements := upStatements
	direction := "up"
	if *down {
		statements = downStatements
		direction = "down"
	}

	if _, err := db.Exec(strings.Join(statements, "\n")); err != nil {
		log.Fatalf("Migration (%s) failed: %v", direction, err)
	}

	log.Printf("Migration (%s) completed successfully", direction)
}
