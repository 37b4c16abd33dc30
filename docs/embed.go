// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package docs

import "embed"

// SwaggerFS holds the generated OpenAPI document served by redoc
//
//go:embed swagger.json
var SwaggerFS embed.FS
