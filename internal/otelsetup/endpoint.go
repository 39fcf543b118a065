// Package otelsetup provides the internal construction of OpenTelemetry
// trace, metric, and log providers from aegis configuration.
package otelsetup

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// processEndpoint normalizes an endpoint for the OTLP exporters, which expect
// host:port without a scheme. When a scheme is present it also decides the
// TLS mode: https forces secure, http forces insecure, regardless of the
// configured flag. Schemeless endpoints pass through with the configured flag.
func processEndpoint(endpoint string, configInsecure bool) (string, bool, error) {
	if endpoint == "" {
		return "", configInsecure, nil
	}

	if !strings.Contains(endpoint, "://") {
		return endpoint, configInsecure, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}

	switch u.Scheme {
	case "https":
		host := u.Host
		if u.Port() == "" {
			host += ":443"
		}
		return host, false, nil
	case "http":
		host := u.Host
		if u.Port() == "" {
			host += ":80"
		}
		return host, true, nil
	default:
		return "", false, fmt.Errorf("unsupported endpoint scheme %q in %q", u.Scheme, endpoint)
	}
}

// injectBasicAuth returns headers with an Authorization header added when both
// username and password are set. The input map is never modified.
func injectBasicAuth(headers map[string]string, username, password string) map[string]string {
	if username == "" || password == "" {
		return headers
	}

	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}

	auth := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	out["Authorization"] = "Basic " + auth
	return out
}
