// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite (default) or postgres
  - EnvFile: Env file loaded before the environment fallback

# CLI Flags

	-p  Server port
	-d  Database URL
	-t  Database type
	-e  Env file (default .env, may be absent)

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t

Precedence is CLI flags, then the process environment, then the env file.
The env file is read with github.com/joho/godotenv and never overrides a
variable that is already set.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - PORT is not a number
  - DATABASE_TYPE is not sqlite or postgres
  - an env file named with -e cannot be read

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := sql.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(db.NewStore(conn, cfg.DatabaseType))
*/
package cliparse
