package rabbitmq

import (
	"errors"
	"probe-wizard/config"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const dialAttempts = 5

func NewConnection(rmqCfg *config.RabbitMQConfig, log *zerolog.Logger) (*amqp091.Connection, error) {

	var conn *amqp091.Connection
	var err error
	for i := range dialAttempts {
		conn, err = amqp091.Dial(rmqCfg.BrokerLink)
		if err == nil {
			return conn, nil
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("rabbitmq connection attempt failed")
		time.Sleep(2 * time.Second)
	}
	log.Error().Err(err).Int("attempts", dialAttempts).Msg("failed to connect to rabbitmq")
	return nil, errors.New("failed to connect to rabbitmq")
}

// SetupTopology declares the exchange and binds the queue that receives config events.
func SetupTopology(conn *amqp091.Connection, rmqCfg *config.RabbitMQConfig) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	exchangeType := rmqCfg.ExchangeType
	if exchangeType == "" {
		exchangeType = amqp091.ExchangeDirect
	}

	if err := ch.ExchangeDeclare(
		rmqCfg.ExchangeName,
		exchangeType,
		true, false, false, false, nil,
	); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(
		rmqCfg.QueueName,
		true, false, false, false, nil,
	); err != nil {
		return err
	}

	if err = ch.QueueBind(
		rmqCfg.QueueName,
		rmqCfg.RoutingKey,
		rmqCfg.ExchangeName,
		false, nil,
	); err != nil {
		return err
	}

	return nil
}
