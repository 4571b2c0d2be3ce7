package envvar

import (
	"os"

	"github.com/cockroachdb/errors"
)

const (
	RABBITMQ_URL                     = "RABBITMQ_URL"
	RABBITMQ_QUEUE_NAME              = "RABBITMQ_QUEUE_NAME"
	GOOGLE_CLOUD_KEY                 = "GOOGLE_CLOUD_KEY"
	GOOGLE_CLOUD_STORAGE_BUCKET_NAME = "GOOGLE_CLOUD_STORAGE_BUCKET_NAME"
	GOOGLE_STORAGE_HOST              = "GOOGLE_STORAGE_HOST"
	UNTRACKER_ENV                    = "UNTRACKER_ENV"
)

var Missing = errors.New("Env variable is not set")

// Get returns the value of key, failing with Missing when it is unset or empty.
func Get(key string) (string, error) {
	val, isSet := os.LookupEnv(key)
	if !isSet || val == "" {
		return "", errors.Wrapf(Missing, "No value for env variable %s", key)
	}

	return val, nil
}

// GetOr returns fallback when key is unset or empty.
func GetOr(key string, fallback string) string {
	val, err := Get(key)
	if err != nil {
		return fallback
	}

	return val
}
