// Package envx loads dotenv files and reads typed environment overrides.
package envx

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads explicit when it is set, otherwise .env.local and .env
// from the working directory if they exist. Variables already present in
// the environment are never overwritten.
func LoadDotEnv(explicit string) ([]string, error) {
	if explicit != "" {
		if err := godotenv.Load(explicit); err != nil {
			return nil, fmt.Errorf("load %s: %w", explicit, err)
		}
		return []string{explicit}, nil
	}

	var loaded []string
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		if err := godotenv.Load(loaded...); err != nil {
			return nil, err
		}
	}
	return loaded, nil
}

// String sets *dst when key is present and non-empty.
func String(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Duration accepts Go duration strings ("3s") or bare integers of seconds.
func Duration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(n) * time.Second
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// List splits a comma separated value, dropping blanks.
func List(dst *[]string, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	*dst = SplitList(v)
}

func SplitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
