// Package config loads application configuration from environment variables
// into tagged structs, wrapping github.com/joho/godotenv for local .env files
// and github.com/caarlos0/env/v11 for parsing.
//
// Each configuration type is parsed once per process and cached, so separate
// components loading the same type always agree:
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
package config
