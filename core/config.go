package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env              string
		Build            string
		AppName          string
		Debug            bool
		TestMode         bool
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		StaffEmail       mail.Address
		RollbarToken     string
		SendgridApiKey   string
		NatsURL          string

		Server      ServerConfig
		Database    DatabaseConfig
		Preferences PreferencesConfig
		I18n        I18nConfig
		Admin       AdminConfig
	}

	ServerConfig struct {
		Host               string
		Address            string
		DebugHost          string
		ReadTimeout        time.Duration
		WriteTimeout       time.Duration
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		DisableReqLogs     bool
	}

	DatabaseConfig struct {
		Engine        string // postgres | sqlite | memory
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		SQLitePath    string
	}

	PreferencesConfig struct {
		ThemeSettleDelay     time.Duration
		LocalePreCommitDelay time.Duration
		LocaleSettleDelay    time.Duration
		VisitorIdleTTL       time.Duration
		StoreTimeout         time.Duration
		CookieName           string
	}

	I18nConfig struct {
		WatchDir string // reload translation tables from this dir when set
	}

	AdminConfig struct {
		Username     string
		PasswordHash string // bcrypt
	}
)

func (db DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", db.Host, db.Port)
}

// NewConfig loads the configuration for the current ENV (DEV by default).
// `config/.env.<env>` is loaded first if it exists; real env vars prefixed by the ENV win.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	setDefaults(v, env)
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:             env,
		Build:           v.GetString("build"),
		AppName:         v.GetString("appName"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		SecretKey:       v.GetString("secretKey"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("appName"),
			Address: v.GetString("defaultFromEmail"),
		},
		StaffEmail: mail.Address{
			Name:    v.GetString("appName") + " Team",
			Address: v.GetString("staffEmail"),
		},
		RollbarToken:   v.GetString("rollbarToken"),
		SendgridApiKey: v.GetString("sendgridApiKey"),
		NatsURL:        v.GetString("natsURL"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Address:            v.GetString("server.address"),
			DebugHost:          v.GetString("server.debugHost"),
			ReadTimeout:        v.GetDuration("server.readTimeout"),
			WriteTimeout:       v.GetDuration("server.writeTimeout"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			DisableReqLogs:     v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			SQLitePath:    v.GetString("database.sqlitePath"),
		},
		Preferences: PreferencesConfig{
			ThemeSettleDelay:     v.GetDuration("preferences.themeSettleDelay"),
			LocalePreCommitDelay: v.GetDuration("preferences.localePreCommitDelay"),
			LocaleSettleDelay:    v.GetDuration("preferences.localeSettleDelay"),
			VisitorIdleTTL:       v.GetDuration("preferences.visitorIdleTTL"),
			StoreTimeout:         v.GetDuration("preferences.storeTimeout"),
			CookieName:           v.GetString("preferences.cookieName"),
		},
		I18n: I18nConfig{
			WatchDir: v.GetString("i18n.watchDir"),
		},
		Admin: AdminConfig{
			Username:     v.GetString("admin.username"),
			PasswordHash: v.GetString("admin.passwordHash"),
		},
	}
}

func setDefaults(v *viper.Viper, env string) {
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Speakyz")
	v.SetDefault("secretKey", "x7b$+1vq)9fk2=ns&lmp4(c!e)#*r8(#aw3^$gtu6dzh")
	v.SetDefault("frontendBaseURL", "http://localhost:8000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("staffEmail", "hello@localhost")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 8*time.Hour)

	v.SetDefault("database.engine", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "speakyz")
	v.SetDefault("database.user", "speakyz")
	v.SetDefault("database.disableTLS", env == "DEV" || env == "TEST")
	v.SetDefault("database.sqlitePath", "speakyz.db")

	v.SetDefault("preferences.themeSettleDelay", 150*time.Millisecond)
	v.SetDefault("preferences.localePreCommitDelay", 200*time.Millisecond)
	v.SetDefault("preferences.localeSettleDelay", 300*time.Millisecond)
	v.SetDefault("preferences.visitorIdleTTL", 30*time.Minute)
	v.SetDefault("preferences.storeTimeout", 2*time.Second)
	v.SetDefault("preferences.cookieName", "speakyz-visitor")

	v.SetDefault("admin.username", "admin")
}
