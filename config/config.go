package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "APPROVAL_CONFIG_FILE"

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	StoragePath    string     `mapstructure:"storage_path"`
	DataLakePath   string     `mapstructure:"data_lake_path"`
	JWTSigningKey  string     `mapstructure:"jwt_signing_key"`
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())
	viper.SetDefault("http_server_addr", ":8080")
	viper.SetDefault("storage_path", "products.db")
	viper.SetDefault("data_lake_path", "data_lake.json")

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	StoragePath=%q
	DataLakePath=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.StoragePath,
		c.DataLakePath,
	)
}
