package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf holds the application configuration. It is loaded once at start-up from
// defaults, an optional .env file and the environment.
var Conf *Config

type (
	ServerConfig struct {
		Host               string
		Port               int
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// StorageConfig points at the S3-compatible bucket holding registration documents.
	StorageConfig struct {
		Endpoint  string
		Region    string
		Bucket    string
		AccessKey string
		SecretKey string
	}

	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string
		Build            string
		WorkDir          string

		Server   ServerConfig
		Database DatabaseConfig
		Storage  StorageConfig
	}
)

func init() {
	Conf = loadConfig()
}

func loadConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Academia Danas")
	v.SetDefault("secretKey", "h2(h!x)#*c2(#yg4h^$cegm2emypoq5-wer)enb$+57=dz&uox")
	v.SetDefault("frontendBaseURL", "https://www.academiadanas.com")
	v.SetDefault("defaultFromEmail", "academia@academiadanas.com")
	v.SetDefault("serverHost", "")
	v.SetDefault("serverPort", 8000)
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "inscripciones")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseDisableTLS", true)
	v.SetDefault("storageRegion", "us-east-1")
	v.SetDefault("storageBucket", "documentos")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	appName := v.GetString("appName")
	return &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		Env:              env,
		AppName:          appName,
		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{Name: appName, Address: v.GetString("defaultFromEmail")},
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Build:            v.GetString("build"),
		WorkDir:          wd,
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Port:               v.GetInt("serverPort"),
			ShutdownTimeout:    v.GetDuration("shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Name:          v.GetString("databaseName"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetString("databasePort"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("storageEndpoint"),
			Region:    v.GetString("storageRegion"),
			Bucket:    v.GetString("storageBucket"),
			AccessKey: v.GetString("storageAccessKey"),
			SecretKey: v.GetString("storageSecretKey"),
		},
	}
}

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}
