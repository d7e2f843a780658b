package config

import (
	"os"
	"strings"
)

// Settings holds everything the process reads from its environment.
type Settings struct {
	Port           string
	AllowedOrigins []string
	StaticDir      string
	Release        bool
}

// Load reads the environment once, applying development defaults.
func Load() Settings {
	s := Settings{
		Port:           "10000",
		AllowedOrigins: []string{"http://localhost:5173"},
		StaticDir:      os.Getenv("STATIC_DIR"),
		Release:        os.Getenv("GIN_MODE") == "release",
	}
	if port, ok := os.LookupEnv("PORT"); ok {
		s.Port = port
	}
	if origins, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		s.AllowedOrigins = strings.Split(origins, ",")
	}
	return s
}
