// Package openapi embeds the API description served at GET /openapi.yaml.
package openapi

import _ "embed"

// Document is the OpenAPI 3 document for the Trip Board API.
//
//go:embed openapi.yaml
var Document []byte
