package config

// Config 配置主体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	LLM       LLMConfig       `mapstructure:"llm"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Bookmaker BookmakerConfig `mapstructure:"bookmaker"`
	Fixture   FixtureConfig   `mapstructure:"fixture"`
	Slip      SlipConfig      `mapstructure:"slip"`
	Live      LiveConfig      `mapstructure:"live"`
	Logstash  LogstashConfig  `mapstructure:"logstash"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`

	KafkaSlipEventConsumer  KafkaConsumerTopic `mapstructure:"kafka_slip_event_consumer"`
	KafkaSlipActionConsumer KafkaConsumerTopic `mapstructure:"kafka_slip_action_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type LLMConfig struct {
	URL          string           `mapstructure:"url"`
	TextModel    string           `mapstructure:"text_model"`
	VisionModel  string           `mapstructure:"vision_model"`
	ApiKey       string           `mapstructure:"api_key"`
	ThinkingMode string           `mapstructure:"thinking_mode"`
	Timeout      int              `mapstructure:"timeout"`
	PromptsPath  PromptPathConfig `mapstructure:"prompts_path"`
}

type PromptPathConfig struct {
	SlipScan     string `mapstructure:"slip_scan"`
	SlipGenerate string `mapstructure:"slip_generate"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	TempBucket       string `mapstructure:"temp_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	UsePublicLink    bool   `mapstructure:"use_public_link"`
}

// BookmakerConfig 博彩公司分享码查询
type BookmakerConfig struct {
	SportyBet SportyBetConfig `mapstructure:"sportybet"`
}

type SportyBetConfig struct {
	BaseURL   string  `mapstructure:"base_url"`
	Country   string  `mapstructure:"country"`
	Timeout   int     `mapstructure:"timeout"`
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

// FixtureConfig 赛程数据源
type FixtureConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	ApiKey   string `mapstructure:"api_key"`
	Timeout  int    `mapstructure:"timeout"`
	CacheTTL int    `mapstructure:"cache_ttl"`
}

// SlipConfig 注单业务配置
type SlipConfig struct {
	MaxFixtureSample   int    `mapstructure:"max_fixture_sample"`
	EnforceFixtures    bool   `mapstructure:"enforce_fixtures"`
	StrictCommentCount bool   `mapstructure:"strict_comment_count"`
	MaxImageSize       int64  `mapstructure:"max_image_size"`
	RecountCron        string `mapstructure:"recount_cron"`
}

// LiveConfig 实时订阅
type LiveConfig struct {
	GapTimeout int `mapstructure:"gap_timeout"`
	MaxPending int `mapstructure:"max_pending"`
	MaxDocs    int `mapstructure:"max_docs"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
	Producer ProducerConfig `mapstructure:"producer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type ProducerConfig struct {
	SlipEventTopic  string `mapstructure:"slip_event_topic"`
	SlipActionTopic string `mapstructure:"slip_action_topic"`
	RetryMax        int    `mapstructure:"retry_max"`
}

type KafkaConsumerTopic struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
