package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"applytrack"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
	// URI is only read by the mongodb store.
	URI                    string        `envconfig:"DB_URI" default:""`
	OperationTimeout       time.Duration `envconfig:"DB_OPERATION_TIMEOUT" default:"10s"`
	ServerSelectionTimeout time.Duration `envconfig:"DB_SERVER_SELECTION_TIMEOUT" default:"5s"`
	ConnectTimeout         time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`
	SocketTimeout          time.Duration `envconfig:"DB_SOCKET_TIMEOUT" default:"45s"`
}

type svcConfig struct {
	Address         string        `envconfig:"APPLYTRACK_ADDRESS" default:":3443"`
	MetricsAddress  string        `envconfig:"APPLYTRACK_METRICS_ADDRESS" default:":8080"`
	MetricsInterval time.Duration `envconfig:"APPLYTRACK_METRICS_INTERVAL" default:"1m"`
	LogLevel        string        `envconfig:"APPLYTRACK_LOG_LEVEL" default:"info"`
	EventsWriter    string        `envconfig:"APPLYTRACK_EVENTS_WRITER" default:"none"`
	CorsOrigins     []string      `envconfig:"APPLYTRACK_CORS_ORIGINS" default:"http://localhost:5173"`
	Auth            Auth
	MigrationFolder string `envconfig:"APPLYTRACK_MIGRATIONS_FOLDER" default:""`
}

type Auth struct {
	AuthenticationType string `envconfig:"APPLYTRACK_AUTH" default:"jwks"`
	JwkCertURL         string `envconfig:"APPLYTRACK_JWK_URL" default:""`
	LocalPrivateKey    string `envconfig:"APPLYTRACK_PRIVATE_KEY" default:""`
	// AllowUnverified accepts identities read from tokens that could not be
	// verified. Never enable it outside local development.
	AllowUnverified bool `envconfig:"APPLYTRACK_AUTH_ALLOW_UNVERIFIED" default:"false"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a new configuration built from the environment, bypassing the shared instance.
func NewDefault() *Config {
	c := new(Config)
	if err := envconfig.Process("", c); err != nil {
		panic(err)
	}
	return c
}
