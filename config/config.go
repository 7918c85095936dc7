package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipforge/internal/appdirs"
	"clipforge/log"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

type App struct {
	DataDir     string `toml:"data_dir" json:"data_dir"`
	OutputDir   string `toml:"output_dir" json:"output_dir"`
	TempDir     string `toml:"temp_dir" json:"temp_dir"`
	Proxy       string `toml:"proxy" json:"proxy"`
	MaxJobAgeHr int    `toml:"max_job_age_hr" json:"max_job_age_hr"`
}

type Server struct {
	Host string `toml:"host" json:"host"`
	Port int    `toml:"port" json:"port"`
}

type Ffmpeg struct {
	FfmpegPath  string `toml:"ffmpeg_path" json:"ffmpeg_path"`
	FfprobePath string `toml:"ffprobe_path" json:"ffprobe_path"`
}

type Preview struct {
	CloudName     string `toml:"cloud_name" json:"cloud_name"`
	BaseURL       string `toml:"base_url" json:"base_url"`
	Secure        bool   `toml:"secure" json:"secure"`
	WarmOnPreview bool   `toml:"warm_on_preview" json:"warm_on_preview"`
}

type Queue struct {
	RedisAddr     string `toml:"redis_addr" json:"redis_addr"`
	RedisPassword string `toml:"redis_password" json:"redis_password"`
	RedisDB       int    `toml:"redis_db" json:"redis_db"`
	Concurrency   int    `toml:"concurrency" json:"concurrency"`
}

type Captions struct {
	BaseUrl string `toml:"base_url" json:"base_url"`
	ApiKey  string `toml:"api_key" json:"api_key"`
	Model   string `toml:"model" json:"model"`
}

type Config struct {
	App      App      `toml:"app" json:"app"`
	Server   Server   `toml:"server" json:"server"`
	Ffmpeg   Ffmpeg   `toml:"ffmpeg" json:"ffmpeg"`
	Preview  Preview  `toml:"preview" json:"preview"`
	Queue    Queue    `toml:"queue" json:"queue"`
	Captions Captions `toml:"captions" json:"captions"`
}

var Conf Config

var resolveConfigPath = func() (string, error) {
	if p := strings.TrimSpace(os.Getenv("CLIPFORGE_CONFIG")); p != "" {
		return p, nil
	}
	paths, err := appdirs.Resolve()
	if err != nil {
		return "", err
	}
	return paths.ConfigFile, nil
}

// ResolveConfigPath returns the path of the active config file.
func ResolveConfigPath() (string, error) {
	return resolveConfigPath()
}

func defaultConfig() Config {
	return Config{
		App: App{
			DataDir:     "data",
			OutputDir:   filepath.Join("data", "output"),
			TempDir:     filepath.Join("data", "temp"),
			MaxJobAgeHr: 72,
		},
		Server: Server{
			Host: "127.0.0.1",
			Port: 8888,
		},
		Preview: Preview{
			BaseURL: "https://res.cloudinary.com",
			Secure:  true,
		},
		Queue: Queue{
			Concurrency: 2,
		},
		Captions: Captions{
			BaseUrl: "https://api.openai.com/v1",
			Model:   "whisper-1",
		},
	}
}

// LoadOrCreateConfig loads the config file, generating a default one when it
// is missing. Returns created=true when a new file was written.
func LoadOrCreateConfig() (bool, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return false, fmt.Errorf("resolve config path error: %w", err)
	}

	if _, err = os.Stat(path); os.IsNotExist(err) {
		Conf = defaultConfig()
		if err = SaveConfig(); err != nil {
			return false, fmt.Errorf("write default config error: %w", err)
		}
		loadFromEnv()
		return true, nil
	}

	if _, err = toml.DecodeFile(path, &Conf); err != nil {
		return false, fmt.Errorf("decode config file error: %w", err)
	}
	loadFromEnv()
	return false, nil
}

// LoadConfig is the boot-time wrapper: it loads or creates the config and
// logs the outcome, returning false when the service cannot start.
func LoadConfig() bool {
	created, err := LoadOrCreateConfig()
	if err != nil {
		log.GetLogger().Error("failed to load config", zap.Error(err))
		return false
	}
	if created {
		path, _ := ResolveConfigPath()
		log.GetLogger().Info("generated default config", zap.String("path", path))
	}
	return true
}

// SaveConfig writes the current Conf to the resolved config path, creating
// parent directories as needed.
func SaveConfig() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(Conf)
}

// env overrides, applied after file load so deployments can keep secrets
// out of the config file
func loadFromEnv() {
	if v := os.Getenv("CLIPFORGE_REDIS_ADDR"); v != "" {
		Conf.Queue.RedisAddr = v
	}
	if v := os.Getenv("CLIPFORGE_REDIS_PASSWORD"); v != "" {
		Conf.Queue.RedisPassword = v
	}
	if v := os.Getenv("CLIPFORGE_CAPTIONS_API_KEY"); v != "" {
		Conf.Captions.ApiKey = v
	}
	if v := os.Getenv("CLIPFORGE_PREVIEW_CLOUD"); v != "" {
		Conf.Preview.CloudName = v
	}
}

// CheckConfig validates the loaded config and fills derivable defaults.
func CheckConfig() error {
	if Conf.Server.Port <= 0 || Conf.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", Conf.Server.Port)
	}
	if Conf.App.DataDir == "" {
		if paths, err := appdirs.Resolve(); err == nil {
			Conf.App.DataDir = paths.DataDir
		} else {
			Conf.App.DataDir = "data"
		}
	}
	if Conf.App.OutputDir == "" {
		Conf.App.OutputDir = filepath.Join(Conf.App.DataDir, "output")
	}
	if Conf.App.TempDir == "" {
		Conf.App.TempDir = filepath.Join(Conf.App.DataDir, "temp")
	}
	for _, dir := range []string{Conf.App.DataDir, Conf.App.OutputDir, Conf.App.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s error: %w", dir, err)
		}
	}
	if Conf.Queue.RedisAddr != "" && Conf.Queue.Concurrency <= 0 {
		Conf.Queue.Concurrency = 2
	}
	if Conf.Preview.BaseURL == "" {
		Conf.Preview.BaseURL = "https://res.cloudinary.com"
	}
	if Conf.Captions.ApiKey == "" {
		log.GetLogger().Info("captions api key not configured, caption generation disabled")
	}
	return nil
}
