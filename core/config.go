package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "COLLEGEDESK"

type (
	ServerConfig struct {
		Address            string
		Host               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	BackendConfig struct {
		BaseURL string
		Token   string
		Timeout time.Duration
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	NotifyConfig struct {
		SendgridKey string
		FromEmail   string
		Recipients  []string
	}

	Config struct {
		AppName      string
		Build        string
		Env          string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string
		WorkDir      string

		Server    ServerConfig
		Backend   BackendConfig
		Database  DatabaseConfig
		Notify    NotifyConfig
		Documents struct {
			BaseURL string
		}
	}
)

// Address returns the "host:port" of the database server.
func (dc DatabaseConfig) Address() string {
	return dc.Host + ":" + dc.Port
}

// Enabled reports whether an audit database was configured at all.
func (dc DatabaseConfig) Enabled() bool {
	return dc.Name != ""
}

// NewConfig loads the configuration for the current ENV (DEV by default).
// Values come from the environment, optionally seeded by config/.env.<env>.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "collegedesk")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "x8s!pl2#dq0=mf7+c4&w9e(kz)bv*r1o$hna6^t3u5yj")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("backend.baseURL", "http://localhost:8080/api")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("documents.baseURL", "http://localhost:8080")
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("notify.fromEmail", "noreply@localhost")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}

	wd := os.Getenv(envPrefix + "_WORKDIR")
	if wd == "" {
		var err error
		if wd, err = os.Getwd(); err != nil {
			log.Fatalf("config.os.Getwd: %v", err)
		}
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		WorkDir:      wd,
		Server: ServerConfig{
			Address:            v.GetString("server.address"),
			Host:               v.GetString("server.host"),
			DebugHost:          v.GetString("server.debugHost"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("backend.baseURL"), "/"),
			Token:   v.GetString("backend.token"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetString("database.port"),
			Name:       v.GetString("database.name"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Notify: NotifyConfig{
			SendgridKey: v.GetString("notify.sendgridKey"),
			FromEmail:   v.GetString("notify.fromEmail"),
			Recipients:  splitList(v.GetString("notify.recipients")),
		},
	}
	conf.Documents.BaseURL = strings.TrimRight(v.GetString("documents.baseURL"), "/")
	return conf
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = CleanString(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
