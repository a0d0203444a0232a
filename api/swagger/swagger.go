// Package swagger embeds the OpenAPI document of the HTTP API.
package swagger

import _ "embed"

// DocPath is where the document is served under the swagger route.
const DocPath = "/users.swagger.json"

//go:embed users.swagger.json
var Doc []byte
