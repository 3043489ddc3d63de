package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageDynamoDB = "dynamodb"

	GatewayMock        = "mock"
	GatewayMercadoPago = "mercadopago"
)

// Config is resolved in three layers: DefaultConfig, then the TOML file named
// by CONFIG_FILE, then environment variables (a .env file is loaded first if
// present).
type Config struct {
	HTTPPort string `toml:"http_port"`
	LogLevel string `toml:"log_level"`

	StorageBackend string `toml:"storage_backend"`

	DBHost     string `toml:"db_host"`
	DBPort     string `toml:"db_port"`
	DBUser     string `toml:"db_user"`
	DBPassword string `toml:"db_password"`
	DBName     string `toml:"db_name"`
	DBSslMode  string `toml:"db_sslmode"`

	DynamoRegion          string `toml:"dynamo_region"`
	DynamoEndpoint        string `toml:"dynamo_endpoint"`
	DynamoTable           string `toml:"dynamo_table"`
	DynamoAccessKeyID     string `toml:"dynamo_access_key_id"`
	DynamoSecretAccessKey string `toml:"dynamo_secret_access_key"`
	DynamoCreateTable     bool   `toml:"dynamo_create_table"`

	PaymentGateway         string        `toml:"payment_gateway"`
	PaymentTimeout         time.Duration `toml:"payment_timeout"`
	PaymentMockLatency     time.Duration `toml:"payment_mock_latency"`
	PaymentDeclineRate     float64       `toml:"payment_decline_rate"`
	MercadoPagoAccessToken string        `toml:"mercadopago_access_token"`

	// Zero disables the corresponding follow-up.
	AutoStartAfter    time.Duration `toml:"auto_start_after"`
	AutoCompleteAfter time.Duration `toml:"auto_complete_after"`
}

func DefaultConfig() Config {
	return Config{
		HTTPPort:           "8082",
		LogLevel:           "info",
		StorageBackend:     StorageMemory,
		DBPort:             "5432",
		DBSslMode:          "disable",
		DynamoRegion:       "us-east-1",
		DynamoTable:        "service_orders",
		PaymentGateway:     GatewayMock,
		PaymentTimeout:     5 * time.Second,
		PaymentMockLatency: 150 * time.Millisecond,
		PaymentDeclineRate: 0.1,
	}
}

// LoadConfig builds the configuration. A missing .env file is not an error; a
// missing CONFIG_FILE is.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	texts := map[string]*string{
		"HTTP_PORT":                &c.HTTPPort,
		"LOG_LEVEL":                &c.LogLevel,
		"STORAGE_BACKEND":          &c.StorageBackend,
		"DB_HOST":                  &c.DBHost,
		"DB_PORT":                  &c.DBPort,
		"DB_USER":                  &c.DBUser,
		"DB_PASSWORD":              &c.DBPassword,
		"DB_NAME":                  &c.DBName,
		"DB_SSLMODE":               &c.DBSslMode,
		"DYNAMODB_REGION":          &c.DynamoRegion,
		"DYNAMODB_ENDPOINT":        &c.DynamoEndpoint,
		"DYNAMODB_TABLE":           &c.DynamoTable,
		"AWS_ACCESS_KEY_ID":        &c.DynamoAccessKeyID,
		"AWS_SECRET_ACCESS_KEY":    &c.DynamoSecretAccessKey,
		"PAYMENT_GATEWAY":          &c.PaymentGateway,
		"MERCADOPAGO_ACCESS_TOKEN": &c.MercadoPagoAccessToken,
	}
	for key, dst := range texts {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"PAYMENT_TIMEOUT":      &c.PaymentTimeout,
		"PAYMENT_MOCK_LATENCY": &c.PaymentMockLatency,
		"AUTO_START_AFTER":     &c.AutoStartAfter,
		"AUTO_COMPLETE_AFTER":  &c.AutoCompleteAfter,
	}
	for key, dst := range durations {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	if v, ok := os.LookupEnv("PAYMENT_DECLINE_RATE"); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PAYMENT_DECLINE_RATE: %w", err)
		}
		c.PaymentDeclineRate = rate
	}

	if v, ok := os.LookupEnv("DYNAMODB_CREATE_TABLE"); ok {
		create, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DYNAMODB_CREATE_TABLE: %w", err)
		}
		c.DynamoCreateTable = create
	}
	return nil
}

// Validate reports every setting that cannot start the service.
func (c Config) Validate() error {
	var problems []error

	switch c.StorageBackend {
	case StorageMemory, StorageDynamoDB:
	case StoragePostgres:
		if c.DBHost == "" || c.DBName == "" {
			problems = append(problems, errors.New("postgres storage needs DB_HOST and DB_NAME"))
		}
	default:
		problems = append(problems, fmt.Errorf("unknown storage backend %q", c.StorageBackend))
	}

	switch c.PaymentGateway {
	case GatewayMock:
		if c.PaymentDeclineRate < 0 || c.PaymentDeclineRate > 1 {
			problems = append(problems, fmt.Errorf("payment decline rate %v is outside [0, 1]", c.PaymentDeclineRate))
		}
	case GatewayMercadoPago:
		if c.MercadoPagoAccessToken == "" {
			problems = append(problems, errors.New("mercadopago gateway needs MERCADOPAGO_ACCESS_TOKEN"))
		}
	default:
		problems = append(problems, fmt.Errorf("unknown payment gateway %q", c.PaymentGateway))
	}

	if c.PaymentTimeout <= 0 {
		problems = append(problems, errors.New("payment timeout must be positive"))
	}
	if c.AutoStartAfter < 0 || c.AutoCompleteAfter < 0 {
		problems = append(problems, errors.New("follow-up delays must not be negative"))
	}

	return errors.Join(problems...)
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
