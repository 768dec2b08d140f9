package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// gitignoreEntry keeps the local session, journal and log out of version
// control.
const gitignoreEntry = ".storefront/"

// InitFile writes a default storefront.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	if err := os.WriteFile(path, []byte(template), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

// Scaffold creates storefront.toml in dir and adds the storage directory to
// .gitignore. Files that already exist are left untouched, apart from the
// .gitignore entry being appended. Returns the list of created or changed
// paths.
func Scaffold(dir string) ([]string, error) {
	var created []string

	tomlPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		if _, initErr := InitFile(dir); initErr != nil {
			return created, initErr
		}
		created = append(created, tomlPath)
	}

	gitignorePath := filepath.Join(dir, ".gitignore")
	existing, err := os.ReadFile(gitignorePath)
	if os.IsNotExist(err) {
		if writeErr := os.WriteFile(gitignorePath, []byte(gitignoreEntry+"\n"), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	} else if err != nil {
		return created, fmt.Errorf("scaffold: read %s: %w", gitignorePath, err)
	} else if !strings.Contains(string(existing), gitignoreEntry) {
		content := string(existing)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content += "\n"
		}
		content += gitignoreEntry + "\n"
		if writeErr := os.WriteFile(gitignorePath, []byte(content), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	}

	return created, nil
}

const template = `# storefront.toml, storefront client configuration.
# Every value can be overridden with STOREFRONT_<SECTION>_<KEY>,
# e.g. STOREFRONT_CART_MODE=remote.

[storage]
dir = ".storefront"  # session files (user, cart) and the journal

[catalog]
source = "http"  # "http" or "sample"
url = "https://amazonebackend-b1ma.onrender.com/api/products"
timeout_seconds = 15

[cart]
mode = "local"   # "local" keeps the cart on disk; "remote" uses a cart service
remote_url = ""  # e.g. "http://localhost:8080" (see storefront serve-cart)
timeout_seconds = 10

[tui]
accent_color = "#FF9900"

[journal]
enabled = true
retention = 20  # journal files to keep; 0 = unlimited

[notifications]
url = ""               # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_login = true        # notify on sign in and sign out
on_cart_change = false # notify on every cart change

[log]
level = "info"
file = ".storefront/storefront.log"  # used while the terminal UI is running

[server]
addr = ":8080"
dsn = ""  # Postgres DSN for serve-cart; empty keeps lines in memory
`
