package wire

import (
	"Slipboard/internal/api"
	"Slipboard/internal/api/config"
	"Slipboard/internal/api/handler"
	"Slipboard/internal/job"
	"Slipboard/internal/pkg/bookmaker"
	"Slipboard/internal/pkg/cron"
	"Slipboard/internal/pkg/fixture"
	"Slipboard/internal/pkg/kafka"
	"Slipboard/internal/pkg/live"
	"Slipboard/internal/pkg/llm"
	"Slipboard/internal/pkg/metrics"
	"Slipboard/internal/pkg/minio"
	"Slipboard/internal/pkg/mongo"
	"Slipboard/internal/pkg/source"
	"Slipboard/internal/repository"
	"Slipboard/internal/service"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	Producer     kafka.EventProducer
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodrv.Database, cfg *config.Config) (*ApplicationContainer, error) {
	m := metrics.Default()

	// repository
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	slipRepo := repository.NewSlipRepo(db)
	slipActionRepo := repository.NewSlipActionRepo(db)
	sysBoxRepo := mongo.NewSysBoxRepo(mongoDB)

	// 数据源
	slipModel := llm.NewSlipModel()
	var vision source.VisionModel
	var text source.TextModel
	if slipModel.Configured() {
		vision, text = slipModel, slipModel
	}
	imageSrc := source.NewImageSource(vision, m)
	bookingSrc := source.NewBookingSource(m, newSportyBet(cfg.Bookmaker.SportyBet))
	generateSrc := source.NewGenerateSource(text, newFixtureProvider(cfg.Fixture), source.GenerateOptions{
		MaxFixtureSample: cfg.Slip.MaxFixtureSample,
		EnforceFixtures:  cfg.Slip.EnforceFixtures,
	}, m)

	producer, err := kafka.NewEventProducer(cfg)
	if err != nil {
		return nil, err
	}
	publisher := live.NewRedisPublisher()

	// service
	slipService := service.NewSlipService(slipRepo, imageSrc, bookingSrc, generateSrc, minio.NewScanStore(), producer, publisher, m)
	slipActionService := service.NewSlipActionService(slipRepo, slipActionRepo, service.NewRedisRepairQueue(), producer, publisher, m,
		service.SlipActionOptions{StrictCommentCount: cfg.Slip.StrictCommentCount})
	feedService := service.NewFeedService(slipRepo, slipActionRepo, service.NewRedisTimeline())
	userFollowService := service.NewUserFollowService(userFollowRepo, userRepo, producer, publisher)
	liveService := service.NewLiveService(slipRepo, userRepo, userFollowRepo)
	sysBoxService := service.NewSysBoxService(sysBoxRepo, userRepo)

	handlers := &api.HandlersGroup{
		SlipHandler:       handler.NewSlipHandler(slipService, feedService, cfg.Slip.MaxImageSize),
		SlipActionHandler: handler.NewSlipActionHandler(slipActionService, feedService),
		UserFollowHandler: handler.NewUserFollowHandler(userFollowService),
		SysBoxHandler:     handler.NewSysBoxHandler(sysBoxService),
		WSHandler:         handler.NewWsHandler(liveService, cfg.Live, m),
	}

	router := api.SetupRouter(handlers, m)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, sysBoxRepo)
	if err != nil {
		_ = producer.Close()
		return nil, err
	}

	cronMgr := cron.NewCronManager(job.NewSlipCommentJob(slipActionService), cfg.Slip.RecountCron)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		Producer:     producer,
		CronMgr:      cronMgr,
	}, nil
}

func newSportyBet(cfg config.SportyBetConfig) bookmaker.Client {
	return bookmaker.NewSportyBetClient(
		bookmaker.WithBaseURL(cfg.BaseURL),
		bookmaker.WithCountry(cfg.Country),
		bookmaker.WithTimeout(time.Duration(cfg.Timeout)*time.Second),
		bookmaker.WithRateLimit(cfg.RateLimit, cfg.Burst),
	)
}

// newFixtureProvider 未配置赛程 API 时 AI 生成不提供候选赛程
func newFixtureProvider(cfg config.FixtureConfig) source.FixtureProvider {
	if cfg.BaseURL == "" || cfg.ApiKey == "" {
		log.Warn("赛程数据源未配置，AI 生成将不参考当日赛程")
		return nil
	}
	client := fixture.NewClient(cfg.BaseURL, cfg.ApiKey, time.Duration(cfg.Timeout)*time.Second)
	return fixture.NewProvider(client, fixture.NewRedisCache(), time.Duration(cfg.CacheTTL)*time.Second)
}
