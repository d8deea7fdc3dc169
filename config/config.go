// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	Config struct {
		// Log is the logging config
		Log Logger `yaml:"log"`

		// Database is the database that holds sequence definitions,
		// scheduled actions and the CRM projections
		Database DatabaseConfig `yaml:"database"`

		// ApiService is the API service config
		ApiService ApiServiceConfig `yaml:"apiService"`

		// AsyncService is config for the async sweep service
		AsyncService AsyncServiceConfig `yaml:"asyncService"`
	}

	DatabaseConfig struct {
		// SQL is the SQL database config
		SQL *SQL `yaml:"sql"`
	}

	ApiServiceConfig struct {
		// HttpServer is the config for starting http.Server
		HttpServer HttpServerConfig `yaml:"httpServer"`
	}

	AsyncServiceConfig struct {
		// Mode is the mode of async service. Currently only standalone mode is supported
		Mode AsyncServiceMode `yaml:"mode"`
		// Sweep is the config for the due-action sweep queue
		Sweep SweepConfig `yaml:"sweep"`
		// Retry is the retry policy applied on transient delivery failures
		Retry RetryConfig `yaml:"retry"`
		// MessageQueue is the optional inbound message queue for state-change events
		MessageQueue MessageQueueConfig `yaml:"messageQueue"`
		// InternalHttpServer is the config for starting a http.Server
		// to serve some internal APIs (e.g. the sweep notify endpoint)
		InternalHttpServer HttpServerConfig `yaml:"internalHttpServer"`
		// ClientAddress is the address for API service to call AsyncService's internal API
		ClientAddress string `yaml:"clientAddress"`
	}

	// HttpServerConfig is the config that will be mapped into http.Server
	HttpServerConfig struct {
		// Address optionally specifies the TCP address for the server to listen on,
		// in the form "host:port". If empty, ":http" (port 80) is used.
		Address string `yaml:"address"`
		// ReadTimeout is the maximum duration for reading the entire
		// request, including the body.
		// For more details, see https://blog.cloudflare.com/the-complete-guide-to-golang-net-http-timeouts/
		ReadTimeout time.Duration `yaml:"readTimeout"`
		// WriteTimeout is the maximum duration before timing out
		// writes of the response.
		WriteTimeout time.Duration `yaml:"writeTimeout"`
		// TLSConfig optionally provides a TLS configuration for use
		// by ServeTLS and ListenAndServeTLS
		TLSConfig *tls.Config `yaml:"tlsConfig"`
		// the rest are less frequently used
		ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
		IdleTimeout       time.Duration `yaml:"idleTimeout"`
		MaxHeaderBytes    int           `yaml:"maxHeaderBytes"`
	}

	SweepConfig struct {
		// MaxPollInterval is the maximum interval that the sweep will wait between
		// polls for due actions. The sweep always polls immediately when it receives
		// a notification that new due actions exist, but there is no
		// atomicity/transaction guarantee for the notification. Polling with this
		// interval ensures no action is missed; at worst an action is delayed up to
		// MaxPollInterval past its due time.
		// If not specified then the default value of 1 minute is used.
		MaxPollInterval time.Duration `yaml:"maxPollInterval"`
		// IntervalJitter is the jitter added to each poll interval so that multiple
		// instances do not sweep in lockstep.
		// Default value is 5 seconds.
		IntervalJitter time.Duration `yaml:"intervalJitter"`
		// PollPageSize is the page size used by the sweep to fetch due actions.
		// If not specified then the default value of 1000 is used.
		PollPageSize int32 `yaml:"pollPageSize"`
		// ProcessorConcurrency is the number of goroutines that will be created to
		// execute due actions. If not specified then the default value of 10 is used.
		ProcessorConcurrency int `yaml:"processorConcurrency"`
		// ProcessorBufferSize is the size of the buffer between the sweep queue and
		// the processor workers. The sweep stops dispatching when the buffer is full.
		// If not specified then the default value of 1000 is used.
		ProcessorBufferSize int `yaml:"processorBufferSize"`
	}

	RetryConfig struct {
		// BackoffInterval is the fixed interval a failed delivery is pushed forward
		// before the next attempt. Default is 1 hour.
		BackoffInterval time.Duration `yaml:"backoffInterval"`
		// MaximumAttempts is the attempt count after which a transiently failing
		// action becomes FAILED and is never retried again. Default is 3.
		MaximumAttempts int32 `yaml:"maximumAttempts"`
	}

	MessageQueueConfig struct {
		// Pulsar enables consuming prospect state-change events from a Pulsar topic
		// in addition to the HTTP event endpoint. Optional.
		Pulsar *PulsarMQConfig `yaml:"pulsar"`
	}

	PulsarMQConfig struct {
		// ServiceURL is the pulsar broker URL, e.g. pulsar://localhost:6650
		ServiceURL string `yaml:"serviceURL"`
		// StateChangeTopic is the topic the CRM layer publishes prospect
		// state-change events to
		StateChangeTopic string `yaml:"stateChangeTopic"`
		// Subscription is the subscription name of this consumer group
		Subscription string `yaml:"subscription"`
	}

	AsyncServiceMode string
)

const (
	// AsyncServiceModeStandalone means there is only one node for async service
	// This is the only supported mode now
	AsyncServiceModeStandalone = "standalone"
)

// NewConfig returns a new decoded Config struct
func NewConfig(configPath string) (*Config, error) {
	log.Printf("Loading configFile=%v\n", configPath)

	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)

	if err := d.Decode(&config); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) ValidateAndSetDefaults() error {
	if c.Database.SQL == nil {
		return fmt.Errorf("sql config is required")
	}
	sql := c.Database.SQL
	if anyAbsent(sql.DatabaseName, sql.DBExtensionName, sql.ConnectAddr, sql.User) {
		return fmt.Errorf("some required configs are missing: sql.DatabaseName, sql.DBExtensionName, sql.ConnectAddr, sql.User")
	}
	if c.AsyncService.Mode == "" {
		return fmt.Errorf("must set async service mode")
	}
	if c.AsyncService.Mode != AsyncServiceModeStandalone {
		return fmt.Errorf("currently only standalone mode is supported")
	}
	sweepConfig := &c.AsyncService.Sweep
	if sweepConfig.MaxPollInterval == 0 {
		sweepConfig.MaxPollInterval = time.Minute
	}
	if sweepConfig.IntervalJitter == 0 {
		sweepConfig.IntervalJitter = time.Second * 5
	}
	if sweepConfig.PollPageSize == 0 {
		sweepConfig.PollPageSize = 1000
	}
	if sweepConfig.ProcessorConcurrency == 0 {
		sweepConfig.ProcessorConcurrency = 10
	}
	if sweepConfig.ProcessorBufferSize == 0 {
		sweepConfig.ProcessorBufferSize = 1000
	}
	retryConfig := &c.AsyncService.Retry
	if retryConfig.BackoffInterval == 0 {
		retryConfig.BackoffInterval = time.Hour
	}
	if retryConfig.MaximumAttempts == 0 {
		retryConfig.MaximumAttempts = 3
	}
	if c.AsyncService.MessageQueue.Pulsar != nil {
		pulsarCfg := c.AsyncService.MessageQueue.Pulsar
		if anyAbsent(pulsarCfg.ServiceURL, pulsarCfg.StateChangeTopic, pulsarCfg.Subscription) {
			return fmt.Errorf("some required configs are missing: pulsar.ServiceURL, pulsar.StateChangeTopic, pulsar.Subscription")
		}
	}
	if c.AsyncService.ClientAddress == "" {
		if c.AsyncService.InternalHttpServer.Address == "" {
			return fmt.Errorf("AsyncService.InternalHttpServer.Address cannot be empty")
		}
		c.AsyncService.ClientAddress = "http://" + c.AsyncService.InternalHttpServer.Address
	}
	return nil
}

func anyAbsent(strs ...string) bool {
	for _, s := range strs {
		if s == "" {
			return true
		}
	}
	return false
}

// String converts the config object into a string
func (c *Config) String() string {
	out, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		panic(err)
	}
	return string(out)
}
