// MIT License

// Copyright (c) 2018 Akhil Indurti

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package config loads the tyxgen settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// Engine is the typesetting command line. {output} is replaced by
	// the output path.
	Engine string `validate:"required"`

	// Logging
	LogFile  string
	LogLevel string `validate:"oneof=debug info warn error"`

	// HTTP service
	Addr string `validate:"required"`
	Env  string `validate:"oneof=development production"`

	// Timeout bounds a single conversion or engine run. Zero means none.
	Timeout time.Duration `validate:"gte=0"`
}

// Load reads a .env file from the working directory, if there is one,
// and then the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Engine:   envOr("TYXGEN_ENGINE", "typst compile - {output}"),
		LogFile:  os.Getenv("TYXGEN_LOG_FILE"),
		LogLevel: strings.ToLower(envOr("TYXGEN_LOG_LEVEL", "info")),
		Addr:     envOr("TYXGEN_ADDR", ":8090"),
		Env:      envOr("TYXGEN_ENV", "development"),
		Timeout:  envDuration("TYXGEN_TIMEOUT", 0),
	}
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
