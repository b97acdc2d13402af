// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package nats wraps nats.go with the connection management and singleton
// accessor cc-backend uses for its own job-event publisher, trimmed to the
// publish-only surface internal/eventbus actually drives: a state-store
// update is mirrored here in addition to in-process subscribers whenever
// --nats-address is set, so a second process ("nats sub wirlwind.>") can
// observe the same poll cycle without touching the device session.
//
// # Usage
//
//	natsclient.Init(natsclient.NatsConfig{Address: cfg.NatsAddress})
//	natsclient.Connect()
//	client := natsclient.GetClient()
//	client.Publish("wirlwind.cpu", envelopeJSON)
//
// All Client methods are safe for concurrent use.
package nats

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	cclog "github.com/scottpeterman/wirlwind/internal/log"
)

var (
	clientOnce     sync.Once
	clientInstance *Client
)

// Client wraps a NATS connection for publishing.
type Client struct {
	conn *nats.Conn
	mu   sync.Mutex
}

// Connect initializes the singleton NATS client using the global Keys config.
func Connect() {
	clientOnce.Do(func() {
		if Keys.Address == "" {
			cclog.Warn("NATS: no address configured, skipping connection")
			return
		}

		client, err := NewClient(nil)
		if err != nil {
			cclog.Warnf("NATS connection failed: %v", err)
			return
		}

		clientInstance = client
	})
}

// GetClient returns the singleton NATS client instance, or nil if Connect
// was never called or the connection attempt failed.
func GetClient() *Client {
	return clientInstance
}

// NewClient creates a new NATS client. If cfg is nil, uses the global Keys config.
func NewClient(cfg *NatsConfig) (*Client, error) {
	if cfg == nil {
		cfg = &Keys
	}

	if cfg.Address == "" {
		return nil, fmt.Errorf("NATS address is required")
	}

	var opts []nats.Option

	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	opts = append(opts, nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
		if err != nil {
			cclog.Warnf("NATS disconnected: %v", err)
		}
	}))

	opts = append(opts, nats.ReconnectHandler(func(nc *nats.Conn) {
		cclog.Infof("NATS reconnected to %s", nc.ConnectedUrl())
	}))

	opts = append(opts, nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
		cclog.Errorf("NATS error: %v", err)
	}))

	nc, err := nats.Connect(cfg.Address, opts...)
	if err != nil {
		return nil, fmt.Errorf("NATS connect failed: %w", err)
	}

	cclog.Infof("NATS connected to %s", cfg.Address)

	return &Client{conn: nc}, nil
}

// Publish sends data to the specified subject.
func (c *Client) Publish(subject string, data []byte) error {
	if err := c.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("NATS publish to '%s' failed: %w", subject, err)
	}
	return nil
}

// Flush blocks until the connection's outbound publish buffer is drained,
// so a caller shutting down can be sure every mirrored envelope made it to
// the server before the process exits. Close performs the same flush
// before closing; eventbus.Bus.Close goes through Close, not Flush.
func (c *Client) Flush() error {
	return c.conn.Flush()
}

// Close flushes then closes the NATS connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		if err := c.conn.Flush(); err != nil {
			cclog.Warnf("NATS flush on close failed: %v", err)
		}
		c.conn.Close()
		cclog.Info("NATS connection closed")
	}
}

// IsConnected returns true if the client has an active connection.
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}
