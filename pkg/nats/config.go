// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nats

// NatsConfig holds the connection settings for the optional NATS mirror
// (spec.md 9, "State store event fan-out"). Unlike cc-backend, wirlwind has
// no JSON config file for this: Keys is populated directly from the parsed
// CLI flags in cmd/wirlwind (config.Config.Nats*), so there is no
// credentials-file path or JSON schema to validate here.
type NatsConfig struct {
	Address  string // NATS server address (e.g. "nats://localhost:4222")
	Username string // optional
	Password string // optional
}

// Keys holds the global NATS configuration set by Init.
var Keys NatsConfig

// Init populates the global Keys from the given settings. Called once at
// startup, before Connect; a zero Address leaves the NATS mirror disabled.
func Init(cfg NatsConfig) {
	Keys = cfg
}
