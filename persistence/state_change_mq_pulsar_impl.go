// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"context"
	"encoding/json"

	"github.com/apache/pulsar-client-go/pulsar"

	"github.com/premunia/automation/apis"
	"github.com/premunia/automation/common/log"
	"github.com/premunia/automation/common/log/tag"
	"github.com/premunia/automation/config"
)

// StateChangeMQ consumes prospect state-change events published by the CRM
// CRUD layer and feeds them into the automation engine. It is optional: the
// HTTP event endpoint covers deployments without a broker.
type StateChangeMQ interface {
	Start() error
	Stop() error
}

// StateChangeEventHandler is implemented by the trigger matcher
type StateChangeEventHandler func(ctx context.Context, event apis.StateChangeEvent) error

type stateChangeMQPulsar struct {
	cfg      config.Config
	handler  StateChangeEventHandler
	consumer pulsar.Consumer
	client   pulsar.Client
	stopCh   chan struct{}
	logger   log.Logger
}

func NewPulsarStateChangeMQ(cfg config.Config, handler StateChangeEventHandler, logger log.Logger) StateChangeMQ {
	return &stateChangeMQPulsar{
		cfg:     cfg,
		handler: handler,
		stopCh:  make(chan struct{}),
		logger:  logger,
	}
}

func (p *stateChangeMQPulsar) Start() error {
	pulsarCfg := p.cfg.AsyncService.MessageQueue.Pulsar
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarCfg.ServiceURL,
	})
	if err != nil {
		return err
	}
	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:            pulsarCfg.StateChangeTopic,
		SubscriptionName: pulsarCfg.Subscription,
		Type:             pulsar.Shared,
	})
	if err != nil {
		return err
	}
	p.client = client
	p.consumer = consumer
	go p.processMessages()
	return nil
}

func (p *stateChangeMQPulsar) Stop() error {
	close(p.stopCh)
	p.consumer.Close()
	p.client.Close()
	return nil
}

func (p *stateChangeMQPulsar) processMessages() {
	msgCh := p.consumer.Chan()
	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				p.logger.Info("message channel is closed")
				return
			}
			p.processMessage(msg)
		case <-p.stopCh:
			p.logger.Info("message processor is closed")
			return
		}
	}
}

func (p *stateChangeMQPulsar) processMessage(msg pulsar.ConsumerMessage) {
	var event apis.StateChangeEvent
	err := json.Unmarshal(msg.Message.Payload(), &event)
	if err != nil {
		// a malformed payload will never become parseable, ack and drop
		p.logger.Error("failed to decode state change event, dropping the message",
			tag.Error(err),
			tag.ID(msg.Message.ID().String()),
			tag.Value(string(msg.Message.Payload())))
		p.ack(msg)
		return
	}

	err = p.handler(context.Background(), event)
	if err != nil {
		// leave unacked so the broker redelivers
		p.logger.Error("failed to process state change event",
			tag.Error(err),
			tag.ProspectId(event.ProspectId),
			tag.ProspectStatus(event.NewStatus))
		p.consumer.Nack(msg)
		return
	}
	p.ack(msg)
}

func (p *stateChangeMQPulsar) ack(msg pulsar.ConsumerMessage) {
	err := p.consumer.Ack(msg)
	if err != nil {
		p.logger.Error("failed to ack the message after processing",
			tag.Error(err),
			tag.ID(msg.Message.ID().String()))
	}
}
