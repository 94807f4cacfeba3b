package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-ini/ini"
)

// ClientConfig is read by the terminal client before any call to the store
type ClientConfig struct {
	ServerURL     string
	ApplicationID string
	ClientKey     string
	Timeout       time.Duration
	SessionFile   string
	PhotoDir      string
}

// LoadClientConfig reads an ini file (missing file is not an error) and applies env overrides.
//
//	[server]
//	url = http://localhost:8080
//	application_id = instaclone
//	client_key = ...
//	timeout = 15s
//
//	[storage]
//	session_file = ~/.instaclone/session.yaml
//	photo_dir = ~/.instaclone/photos
func LoadClientConfig(path string) (*ClientConfig, error) {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации клиента %s: %w", path, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".instaclone")

	server := file.Section("server")
	storage := file.Section("storage")

	cfg := &ClientConfig{
		ServerURL:     server.Key("url").MustString("http://localhost:8080"),
		ApplicationID: server.Key("application_id").MustString("instaclone"),
		ClientKey:     server.Key("client_key").String(),
		Timeout:       server.Key("timeout").MustDuration(15 * time.Second),
		SessionFile:   expandHome(storage.Key("session_file").MustString(filepath.Join(base, "session.yaml")), home),
		PhotoDir:      expandHome(storage.Key("photo_dir").MustString(filepath.Join(base, "photos")), home),
	}

	cfg.ServerURL = getEnv("INSTACLONE_SERVER_URL", cfg.ServerURL)
	cfg.ApplicationID = getEnv("INSTACLONE_APP_ID", cfg.ApplicationID)
	cfg.ClientKey = getEnv("INSTACLONE_CLIENT_KEY", cfg.ClientKey)

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("не указан адрес сервера")
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(home, path[2:])
	}
	return path
}
