package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"

	AdviceProviderRules  = "rules"
	AdviceProviderOllama = "ollama"
	AdviceProviderOpenAI = "openai"
)

type Config struct {
	Port     string
	LogLevel string

	StorageBackend string
	StorageKey     string
	FileStorageDir string
	SQLiteDBPath   string

	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	MongoURI        string
	MongoDB         string
	MongoCollection string

	AdviceProvider        string
	AdviceRefreshSchedule string
	OllamaURL             string
	OllamaModel           string
	OpenAIAPIKey          string
	OpenAIModel           string
	OpenAIBaseURL         string
}

// ProcessEnvironmentVariables builds the configuration from the environment.
// A .env file in the working directory is loaded first when present; values
// already set in the environment win over it.
func ProcessEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("config.ProcessEnvironmentVariables.dotenv")
	}

	// Defaults run the service standalone against a local data directory.
	env := Config{
		Port:     "9446",
		LogLevel: "info",

		StorageBackend: BackendFile,
		StorageKey:     "financas_pro_transactions",
		FileStorageDir: "./data",
		SQLiteDBPath:   "./data/financas.db",

		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",

		MongoURI:        "mongodb://localhost:27017",
		MongoDB:         "financas",
		MongoCollection: "kv_entries",

		AdviceProvider: AdviceProviderRules,
		OllamaURL:      "http://localhost:11434",
		OllamaModel:    "llama3.1",
		OpenAIModel:    "gpt-4o-mini",
	}

	overrides := map[string]*string{
		"PORT":                    &env.Port,
		"LOG_LEVEL":               &env.LogLevel,
		"STORAGE_BACKEND":         &env.StorageBackend,
		"STORAGE_KEY":             &env.StorageKey,
		"FILE_STORAGE_DIR":        &env.FileStorageDir,
		"SQLITE_DB_PATH":          &env.SQLiteDBPath,
		"POSTGRES_ADDRESS":        &env.PostgresAddress,
		"POSTGRES_PORT":           &env.PostgresPort,
		"POSTGRES_DB":             &env.PostgresDB,
		"POSTGRES_USERNAME":       &env.PostgresUsername,
		"POSTGRES_PASSWORD":       &env.PostgresPassword,
		"MONGODB_URI":             &env.MongoURI,
		"MONGODB_DB":              &env.MongoDB,
		"MONGODB_COLLECTION":      &env.MongoCollection,
		"ADVICE_PROVIDER":         &env.AdviceProvider,
		"ADVICE_REFRESH_SCHEDULE": &env.AdviceRefreshSchedule,
		"OLLAMA_URL":              &env.OllamaURL,
		"OLLAMA_MODEL":            &env.OllamaModel,
		"OPENAI_API_KEY":          &env.OpenAIAPIKey,
		"OPENAI_MODEL":            &env.OpenAIModel,
		"OPENAI_BASE_URL":         &env.OpenAIBaseURL,
	}
	for key, field := range overrides {
		if value := os.Getenv(key); len(value) != 0 {
			*field = value
		}
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}

	return &env, nil
}

// PostgresConnectionString returns the lib/pq DSN for the configured server.
func (c *Config) PostgresConnectionString() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     net.JoinHostPort(c.PostgresAddress, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return dsn.String()
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if strings.TrimSpace(c.StorageKey) == "" {
		problems = append(problems, "storage key cannot be empty")
	}

	switch c.StorageBackend {
	case BackendMemory:
	case BackendFile:
		if c.FileStorageDir == "" {
			problems = append(problems, "FILE_STORAGE_DIR is required for the file backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLITE_DB_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.PostgresAddress == "" || c.PostgresDB == "" {
			problems = append(problems, "POSTGRES_ADDRESS and POSTGRES_DB are required for the postgres backend")
		}
	case BackendMongo:
		if c.MongoURI == "" || c.MongoDB == "" || c.MongoCollection == "" {
			problems = append(problems, "MONGODB_URI, MONGODB_DB and MONGODB_COLLECTION are required for the mongo backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid storage backend '%s': must be one of %v",
			c.StorageBackend, []string{BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendMongo}))
	}

	switch c.AdviceProvider {
	case AdviceProviderRules:
	case AdviceProviderOllama:
		if c.OllamaURL == "" {
			problems = append(problems, "OLLAMA_URL is required for the ollama advice provider")
		}
	case AdviceProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			problems = append(problems, "OPENAI_API_KEY is required for the openai advice provider")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid advice provider '%s': must be one of %v",
			c.AdviceProvider, []string{AdviceProviderRules, AdviceProviderOllama, AdviceProviderOpenAI}))
	}

	if c.AdviceRefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.AdviceRefreshSchedule); err != nil {
			problems = append(problems, fmt.Sprintf("invalid advice refresh schedule '%s': %v", c.AdviceRefreshSchedule, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}
