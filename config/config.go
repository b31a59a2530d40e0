package config

import (
	"database/sql"
	"strings"

	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
)

type Config struct {
	MinIOBucket string        `yaml:"minio_bucket"`
	App         App           `yaml:"app"`
	Auth        Auth          `yaml:"auth"`
	DB          *sql.DB       `yaml:"db"`
	Queue       *RabbitMQ     `yaml:"rabbitmq"`
	Storage     *minio.Client `yaml:"storage"`
	Server      Server        `yaml:"server"`
}

type App struct {
	Environment string `yaml:"environment"`
}

type Auth struct {
	AccessKey      string   `yaml:"access_key"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
	// DisableListener skips ListenAndServe so an embedding host can mount
	// the router itself.
	DisableListener bool `yaml:"disable_listener"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, deployments set everything through env.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	db, err := sql.Open("postgres", viper.GetString("postgresql_host"))
	if err != nil {
		return nil, err
	}

	rabbitmq := &RabbitMQ{
		Host:         viper.GetString("rabbitmq_host"),
		Port:         viper.GetInt("rabbitmq_port"),
		User:         viper.GetString("rabbitmq_user"),
		Pass:         viper.GetString("rabbitmq_pass"),
		ExchangeName: viper.GetString("rabbitmq_exchange"),
		Kind:         viper.GetString("rabbitmq_kind"),
	}

	minioClient, err := minio.New(viper.GetString("minio.url"), &minio.Options{
		Creds:  credentials.NewStaticV4(viper.GetString("minio.access_id"), viper.GetString("minio.secret_access_key"), ""),
		Region: viper.GetString("minio.region"),
		Secure: viper.GetBool("minio.secure"),
	})
	if err != nil {
		return nil, err
	}

	return &Config{
		MinIOBucket: viper.GetString("minio.bucket"),
		App: App{
			Environment: viper.GetString("app.environment"),
		},
		Auth: Auth{
			AccessKey:      viper.GetString("auth.access_key"),
			AllowedOrigins: viper.GetStringSlice("auth.allowed_origins"),
		},
		Server: Server{
			HttpPort:        viper.GetString("server.port"),
			DisableListener: viper.GetBool("server.disable_listener"),
		},
		DB:      db,
		Queue:   rabbitmq,
		Storage: minioClient,
	}, nil
}
