package utils

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnvFile copies variables from .env files into the environment without
// overriding ones already set. Missing files are ignored.
func LoadEnvFile(filenames ...string) {
	err := godotenv.Load(filenames...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to load env file: %s", err.Error())
	}
}

func GetEnvVar(envVar string) string {
	value, found := os.LookupEnv(envVar)
	if !found {
		panic("Env var '" + envVar + "' not specified")
	}
	return value
}

func GetEnvVarWithDefault(envVar, defaultValue string) string {
	value, found := os.LookupEnv(envVar)
	if !found {
		return defaultValue
	}
	return value
}

func GetEnvDurationWithDefault(envVar string, defaultValue time.Duration) time.Duration {
	value, found := os.LookupEnv(envVar)
	if !found {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		panic("Env var '" + envVar + "' is not a positive duration: " + value)
	}
	return duration
}
