package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

func baseConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = sarama.V2_6_0_0
	cfg.Net.DialTimeout = 5 * time.Second
	return cfg
}

func NewGroup(brokers []string, groupID string) (sarama.ConsumerGroup, error) {
	cfg := baseConfig("storefront-" + groupID)
	cfg.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRange
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	return sarama.NewConsumerGroup(brokers, groupID, cfg)
}

// NewSyncProducer waits for all in-sync replicas so a relayed outbox row is never lost.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := baseConfig("storefront-outbox")
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	return sarama.NewSyncProducer(brokers, cfg)
}
