// Package api holds the OpenAPI document of the public HTTP API.
package api

import _ "embed"

// Spec is my-registry.openapi.yaml, used for request validation.
//
//go:embed my-registry.openapi.yaml
var Spec []byte
