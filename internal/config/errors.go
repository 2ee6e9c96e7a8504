package config

import "errors"

var errAlertsWithoutNATS = errors.New("alerts subscriber requires nats.enabled")
