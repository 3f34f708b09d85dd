// Package swagger embeds the OpenAPI document of the HTTP API.
package swagger

import _ "embed"

// RegistrySpec is the OpenAPI 2.0 document served at /openapi.json.
//
//go:embed registry.swagger.json
var RegistrySpec []byte
