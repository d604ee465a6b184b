package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量可覆盖同名配置项
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	// LLM_API_KEY -> llm.api_key
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("llm.timeout", 60)
	viper.SetDefault("llm.thinking_mode", "disabled")
	viper.SetDefault("llm.prompts_path.slip_scan", "./prompts/slip-scan.txt")
	viper.SetDefault("llm.prompts_path.slip_generate", "./prompts/slip-generate.txt")
	viper.SetDefault("bookmaker.sportybet.base_url", "https://www.sportybet.com")
	viper.SetDefault("bookmaker.sportybet.country", "ng")
	viper.SetDefault("bookmaker.sportybet.timeout", 10)
	viper.SetDefault("bookmaker.sportybet.rate_limit", 5.0)
	viper.SetDefault("bookmaker.sportybet.burst", 5)
	viper.SetDefault("fixture.timeout", 10)
	viper.SetDefault("fixture.cache_ttl", 600)
	viper.SetDefault("slip.max_fixture_sample", 40)
	viper.SetDefault("slip.enforce_fixtures", true)
	viper.SetDefault("slip.max_image_size", 10<<20)
	viper.SetDefault("slip.recount_cron", "0 */5 * * * *")
	viper.SetDefault("live.gap_timeout", 2)
	viper.SetDefault("live.max_pending", 64)
	viper.SetDefault("live.max_docs", 50)
}
