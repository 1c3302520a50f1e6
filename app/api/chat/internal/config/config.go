// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package config

import (
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/rest"
)

type Config struct {
	rest.RestConf

	MysqlConf sqlx.SqlConf
	RedisConf redis.RedisConf
	CacheConf cache.CacheConf

	KafkaConf       KafkaConf
	AsynqConf       AsynqRedisConf
	AsynqServerConf AsynqServerConf

	ChatModel ModelConf

	JwtAuth JwtAuthConf

	Stylist StylistConf

	LogConf logx.LogConf

	SnowflakeNode int64
}

type ModelConf struct {
	BaseUrl string
	APIKey  string
	Model   string
}

type KafkaConf struct {
	Broker              []string
	RecommendationTopic string
}

type AsynqRedisConf struct {
	Addr string
}

type AsynqServerConf struct {
	Concurrency int
	Queues      map[string]int
}

type JwtAuthConf struct {
	AccessSecret string `json:",optional"`
}

type StylistConf struct {
	MaxClarifications int
	ResultLimit       int
	ScoreFloor        float64
	CandidateLimit    int
	ExtractTimeoutMs  int
	CatalogTimeoutMs  int
	SessionTTLSeconds int
	RetentionHours    int
}
