package config

import (
	"os"
	"strconv"

	"bauernschach/meta"
)

// Settings are the process-level knobs. Environment variables seed them;
// command-line flags in main override them.
type Settings struct {
	GameDataPath string // empty means the built-in game
	HTTPAddr     string
	Games        int
	MaxTurns     int
	Seed         uint64
	OutDir       string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvUint(key string, def uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseUint(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

// LoadSettings reads Settings from the environment.
func LoadSettings() Settings {
	return Settings{
		GameDataPath: getenv("BAUERNSCHACH_CONFIG", ""),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		Games:        getenvInt("SELFPLAY_GAMES", meta.GAMES),
		MaxTurns:     getenvInt("MAX_TURNS", meta.MAX_TURNS),
		Seed:         getenvUint("AI_SEED", 0),
		OutDir:       getenv("EXPERIMENTS_DIR", "experiments"),
	}
}

// GameData loads the configured document, or the built-in one.
func (s Settings) GameData() (*GameData, error) {
	if s.GameDataPath == "" {
		return Default(), nil
	}
	return Load(s.GameDataPath)
}
