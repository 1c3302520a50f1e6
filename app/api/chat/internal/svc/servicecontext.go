// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package svc

import (
	"context"
	"time"

	"StyleMuse/app/api/chat/internal/config"
	"StyleMuse/app/api/chat/internal/session"
	"StyleMuse/app/common/middleware"
	"StyleMuse/app/common/snowflake"
	catalogdal "StyleMuse/app/dal/catalog"
	conversationdal "StyleMuse/app/dal/conversation"
	"StyleMuse/app/stylist/attr"
	"StyleMuse/app/stylist/clarify"
	"StyleMuse/app/stylist/dialogue"
	"StyleMuse/app/stylist/interpret"
	"StyleMuse/app/stylist/match"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/hibiken/asynq"
	"github.com/segmentio/kafka-go"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/rest"
)

// SessionStore is the live conversation state store. Satisfied by
// session.Store; kept as an interface so logic tests can run in memory.
type SessionStore interface {
	Load(ctx context.Context, conversationID int64) (*dialogue.State, error)
	Save(ctx context.Context, st *dialogue.State) error
	Drop(ctx context.Context, conversationID int64) error
}

type ServiceContext struct {
	Config config.Config

	AuthMiddleware rest.Middleware

	Apparels      catalogdal.ApparelsModel
	Conversations conversationdal.ConversationsModel

	Sessions     SessionStore
	Orchestrator *dialogue.Orchestrator

	KafkaWriter *kafka.Writer
	AsynqClient *asynq.Client

	RetentionTTL time.Duration
}

func NewServiceContext(c config.Config) *ServiceContext {
	logx.MustSetup(c.LogConf)

	if c.SnowflakeNode > 0 {
		if err := snowflake.SetNodeID(c.SnowflakeNode); err != nil {
			logx.Errorf("failed to set snowflake node id: %v", err)
		}
	}

	db := sqlx.NewMysql(c.MysqlConf.DataSource)
	apparels := catalogdal.NewApparelsModel(db, c.CacheConf)
	conversations := conversationdal.NewConversationsModel(db)

	rds := redis.MustNewRedis(c.RedisConf)
	sessionTTL := time.Duration(c.Stylist.SessionTTLSeconds) * time.Second
	sessions := session.NewStore(rds, sessionTTL)

	logger := logx.WithContext(context.Background())
	sch := attr.Default()

	cm, err := ark.NewChatModel(context.Background(), &ark.ChatModelConfig{
		BaseURL: c.ChatModel.BaseUrl,
		APIKey:  c.ChatModel.APIKey,
		Model:   c.ChatModel.Model,
	})
	if err != nil {
		logx.Errorw("init ark chat model failed", logx.Field("err", err))
		cm = nil
	} else {
		logx.Infow("ark chat model initialized")
	}

	fallback := interpret.NewKeywordExtractor(logger, sch)
	var extractor interpret.Extractor = fallback
	var voice dialogue.Voice = dialogue.NewModelVoice(logger, nil)
	if cm != nil {
		extractTimeout := time.Duration(c.Stylist.ExtractTimeoutMs) * time.Millisecond
		if llm, err := interpret.NewLLMExtractor(context.Background(), logger, sch, cm, extractTimeout); err != nil {
			logx.Errorw("init llm extractor failed, running on keyword fallback", logx.Field("err", err))
		} else {
			extractor = llm
		}
		voice = dialogue.NewModelVoice(logger, cm)
	}

	orchestrator := dialogue.NewOrchestrator(logger, dialogue.Config{
		Schema:         sch,
		Extractor:      extractor,
		Fallback:       fallback,
		Policy:         clarify.NewPolicy(sch, c.Stylist.MaxClarifications),
		Matcher:        match.NewMatcher(sch, c.Stylist.ScoreFloor, c.Stylist.ResultLimit),
		Catalog:        catalogdal.NewMatchSource(apparels, c.Stylist.CandidateLimit),
		Voice:          voice,
		CatalogTimeout: time.Duration(c.Stylist.CatalogTimeoutMs) * time.Millisecond,
	})

	var writer *kafka.Writer
	if len(c.KafkaConf.Broker) > 0 && c.KafkaConf.RecommendationTopic != "" {
		writer = &kafka.Writer{
			Addr:                   kafka.TCP(c.KafkaConf.Broker...),
			Topic:                  c.KafkaConf.RecommendationTopic,
			RequiredAcks:           kafka.RequireOne,
			Balancer:               &kafka.LeastBytes{},
			BatchTimeout:           5 * time.Millisecond,
			AllowAutoTopicCreation: true,
		}
	}

	asynqAddr := c.AsynqConf.Addr
	if asynqAddr == "" {
		asynqAddr = c.RedisConf.Host
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: asynqAddr})

	retention := time.Duration(c.Stylist.RetentionHours) * time.Hour
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	return &ServiceContext{
		Config:         c,
		AuthMiddleware: middleware.NewAuthMiddleware(c.JwtAuth.AccessSecret).Handle,
		Apparels:       apparels,
		Conversations:  conversations,
		Sessions:       sessions,
		Orchestrator:   orchestrator,
		KafkaWriter:    writer,
		AsynqClient:    asynqClient,
		RetentionTTL:   retention,
	}
}
