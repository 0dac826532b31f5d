package kaggle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ytengage/internal/core/domain"
)

// Environment variables read during credential resolution.
const (
	EnvUsername  = "KAGGLE_USERNAME"
	EnvKey       = "KAGGLE_KEY"
	EnvAPIToken  = "KAGGLE_API_TOKEN"
	EnvConfigDir = "KAGGLE_CONFIG_DIR"
)

// credentialsFile is the name of the key file the Kaggle tooling writes.
const credentialsFile = "kaggle.json"

// Credentials authenticate requests to the Kaggle API.
// Token takes precedence over Username and Key.
type Credentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
	Token    string `json:"-"`
}

// IsBearer reports whether the credentials use a bearer token.
func (c Credentials) IsBearer() bool {
	return c.Token != ""
}

// IsComplete reports whether the credentials can authenticate a request.
func (c Credentials) IsComplete() bool {
	return c.IsBearer() || (c.Username != "" && c.Key != "")
}

// CredentialsFunc resolves credentials on first use.
type CredentialsFunc func() (Credentials, error)

// StaticCredentials returns a CredentialsFunc that always yields creds.
func StaticCredentials(creds Credentials) CredentialsFunc {
	return func() (Credentials, error) {
		return creds, nil
	}
}

// LoadEnvFiles loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
// With no arguments, ".env" in the working directory is loaded.
func LoadEnvFiles(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// LoadCredentials resolves credentials from the environment, then from
// kaggle.json. Returns domain.ErrAuthRequired when neither source has them.
func LoadCredentials() (Credentials, error) {
	if token := os.Getenv(EnvAPIToken); token != "" {
		return Credentials{Token: token}, nil
	}

	env := Credentials{
		Username: os.Getenv(EnvUsername),
		Key:      os.Getenv(EnvKey),
	}
	if env.IsComplete() {
		return env, nil
	}

	path, err := credentialsPath()
	if err != nil {
		return Credentials{}, err
	}
	creds, err := readCredentialsFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, fmt.Errorf("%w: set %s and %s or create %s",
			domain.ErrAuthRequired, EnvUsername, EnvKey, path)
	}
	if err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// credentialsPath returns the kaggle.json location.
func credentialsPath() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, credentialsFile), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".kaggle", credentialsFile), nil
}

func readCredentialsFile(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: parse %s: %w", domain.ErrAuthInvalid, path, err)
	}
	if !creds.IsComplete() {
		return Credentials{}, fmt.Errorf("%w: %s needs username and key", domain.ErrAuthRequired, path)
	}
	return creds, nil
}
