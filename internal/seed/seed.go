// filepath: internal/seed/seed.go

// Package seed creates accounts listed in a TOML file on startup. It is
// idempotent: accounts that already exist are skipped, so the same file
// can stay configured across restarts.
package seed

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"medialocker/internal/logging"
	"medialocker/internal/models"
	"medialocker/internal/repository"
	"medialocker/internal/shared"
)

// Account is one entry of the seed file's [[users]] list.
type Account struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Role     string `mapstructure:"role"`
}

// File is the full seed file layout.
type File struct {
	Users []Account `mapstructure:"users"`
}

// Parse reads and validates a seed file.
func Parse(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i := range f.Users {
		if f.Users[i].Username == "" || f.Users[i].Password == "" {
			return nil, fmt.Errorf("seed entry %d: username and password are required", i)
		}
		if f.Users[i].Role == "" {
			f.Users[i].Role = models.RoleUser
		}
		if !models.ValidRole(f.Users[i].Role) {
			return nil, fmt.Errorf("seed entry %d: invalid role '%s'", i, f.Users[i].Role)
		}
	}
	return &f, nil
}

// Run creates every account from the seed file that does not exist yet.
func Run(repo *repository.Repository, path string) error {
	f, err := Parse(path)
	if err != nil {
		return err
	}

	created := 0
	for _, acc := range f.Users {
		if _, err := repo.CreateUser(acc.Username, acc.Password, acc.Role); err != nil {
			if errors.Is(err, shared.ErrDuplicateUsername) {
				logging.Log.Debugf("seed: account '%s' already exists, skipping", acc.Username)
				continue
			}
			return fmt.Errorf("seed: failed to create '%s': %w", acc.Username, err)
		}
		created++
	}

	logging.Log.Infof("seed: %d of %d accounts created", created, len(f.Users))
	return nil
}
