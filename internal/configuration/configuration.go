package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/kelseyhightower/envconfig"
)

type Settings struct {
	Database    DatabaseSettings    `yaml:"database"`
	Application ApplicationSettings `yaml:"application"`
	Websocket   WebsocketSettings   `yaml:"websocket"`
}

type DatabaseSettings struct {
	Username   string `yaml:"username" envconfig:"DB_USERNAME"`
	Password   string `yaml:"password" envconfig:"DB_PASSWORD"`
	Host       string `yaml:"host" envconfig:"DB_HOST"`
	Port       uint16 `yaml:"port" envconfig:"DB_PORT"`
	DbName     string `yaml:"db_name" envconfig:"DB_NAME"`
	RequireSsl bool   `yaml:"require_ssl" envconfig:"DB_REQUIRE_SSL"`
}

type ApplicationSettings struct {
	Port             uint16   `yaml:"port" envconfig:"PORT"`
	CorsOrigins      []string `yaml:"cors_origins" envconfig:"CORS_ORIGINS"`
	RequireKnownRoom bool     `yaml:"require_known_room" envconfig:"REQUIRE_KNOWN_ROOM"`
	MigrationsPath   string   `yaml:"migrations_path" envconfig:"MIGRATIONS_PATH"`
	KafkaEndpoint    string   `yaml:"kafka_endpoint" envconfig:"KAFKA_ENDPOINT"`
	RoomEventsTopic  string   `yaml:"room_events_topic" envconfig:"ROOM_EVENTS_TOPIC"`
}

type WebsocketSettings struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"WS_READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WS_WRITE_BUFFER_SIZE"`
	MaxMessageBytes int64         `yaml:"max_message_bytes" envconfig:"WS_MAX_MESSAGE_BYTES"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WS_WRITE_TIMEOUT"`
	PongTimeout     time.Duration `yaml:"pong_timeout" envconfig:"WS_PONG_TIMEOUT"`
	PingInterval    time.Duration `yaml:"ping_interval" envconfig:"WS_PING_INTERVAL"`
}

// ReadConfiguration reads base.yml and <ENVIRONMENT>.yml from dir and then
// applies environment overrides on top.
func ReadConfiguration(dir string) (Settings, error) {
	settings := Default()

	if err := readFile(dir, &settings, "base"); err != nil {
		return settings, err
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "local"
	}

	if err := readFile(dir, &settings, environment); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return settings, err
	}

	if err := envconfig.Process("", &settings); err != nil {
		return settings, fmt.Errorf("reading environment: %w", err)
	}

	// Writes without a deadline can block forever on a peer that stopped
	// reading.
	if settings.Websocket.WriteTimeout <= 0 {
		settings.Websocket.WriteTimeout = Default().Websocket.WriteTimeout
	}

	return settings, nil
}

// Default returns the settings used when a key is absent from every source.
func Default() Settings {
	return Settings{
		Database: DatabaseSettings{
			Host:   "localhost",
			Port:   5432,
			DbName: "collab",
		},
		Application: ApplicationSettings{
			Port:            8080,
			CorsOrigins:     []string{"*"},
			MigrationsPath:  "db/migrations",
			RoomEventsTopic: "room-events",
		},
		Websocket: WebsocketSettings{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			MaxMessageBytes: 1 << 20,
			WriteTimeout:    10 * time.Second,
			PongTimeout:     60 * time.Second,
			PingInterval:    54 * time.Second,
		},
	}
}

func readFile(dir string, settings *Settings, name string) error {
	f, err := os.Open(fmt.Sprintf("%s/%s.yml", dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err = decoder.Decode(settings); err != nil {
		return fmt.Errorf("decoding %s.yml: %w", name, err)
	}
	return nil
}
