package helper

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv loads the given dotenv files into the process environment. With no
// arguments it loads ".env". A missing file is not an error so the same
// binary can run in environments configured entirely through real env vars.
func LoadEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func GetEnvOrDefault(key string, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func GetEnvAsInt(name string, fallback int) int {
	if val, ok := os.LookupEnv(name); ok {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return fallback
}
