// Package docs registers the OpenAPI description served under /v1/swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["system"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Password login", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.LoginInput"}}], "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}, "403": {"description": "Role mismatch"}, "404": {"description": "No account"}}}},
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Email signup", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.SignUpInput"}}], "responses": {"201": {"description": "Created"}, "202": {"description": "Confirmation pending"}, "409": {"description": "Already registered"}}}},
        "/auth/callback": {"post": {"tags": ["auth"], "summary": "Auth callback", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid session"}, "403": {"description": "Role mismatch"}, "404": {"description": "No account"}, "500": {"description": "Provisioning failed"}}}},
        "/auth/oauth/url": {"get": {"tags": ["auth"], "summary": "OAuth authorize URL", "parameters": [{"in": "query", "name": "role", "type": "string", "required": true}, {"in": "query", "name": "mode", "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/auth/forgot-password": {"post": {"tags": ["auth"], "summary": "Request password reset", "responses": {"200": {"description": "OK"}}}},
        "/auth/reset-password": {"post": {"tags": ["auth"], "summary": "Set a new password", "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}}},
        "/auth/role-selection": {"post": {"tags": ["auth"], "summary": "Role selection", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Logout", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/auth/me": {"get": {"tags": ["auth"], "summary": "Current account", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/saas/onboarding": {
            "get": {"tags": ["onboarding"], "summary": "SaaS onboarding state", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["onboarding"], "summary": "Complete SaaS onboarding", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.SaasOnboardingInput"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}}
        },
        "/affiliate/onboarding": {
            "get": {"tags": ["onboarding"], "summary": "Affiliate onboarding state", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["onboarding"], "summary": "Complete affiliate onboarding", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}}
        },
        "/saas/settings": {
            "get": {"tags": ["settings"], "summary": "SaaS program settings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["settings"], "summary": "Save SaaS program settings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}}
        },
        "/saas/settings/logo": {"post": {"tags": ["settings"], "summary": "Upload company logo", "consumes": ["multipart/form-data"], "security": [{"BearerAuth": []}], "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid image"}, "429": {"description": "Too many uploads"}}}},
        "/affiliate/settings": {
            "get": {"tags": ["settings"], "summary": "Affiliate settings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["settings"], "summary": "Save affiliate settings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}}
        },
        "/affiliate/settings/avatar": {"post": {"tags": ["settings"], "summary": "Upload affiliate avatar", "consumes": ["multipart/form-data"], "security": [{"BearerAuth": []}], "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid image"}, "429": {"description": "Too many uploads"}}}},
        "/saas/dashboard": {"get": {"tags": ["dashboard"], "summary": "Dashboard summary", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/affiliate/dashboard": {"get": {"tags": ["dashboard"], "summary": "Dashboard summary", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/saas/marketplace": {"get": {"tags": ["marketplace"], "summary": "Partner marketplace", "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "q", "type": "string"}, {"in": "query", "name": "niche", "type": "string"}, {"in": "query", "name": "platform", "type": "string"}, {"in": "query", "name": "country", "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/saas/marketplace/{partnerId}/connect": {"post": {"tags": ["marketplace"], "summary": "Request a partnership with a partner", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "partnerId", "type": "string", "required": true}], "responses": {"201": {"description": "Created"}, "404": {"description": "Partner not found"}, "409": {"description": "Already requested"}}}},
        "/saas/partners/export": {"get": {"tags": ["marketplace"], "summary": "Export partners", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Workbook"}}}},
        "/affiliate/marketplace": {"get": {"tags": ["marketplace"], "summary": "Program marketplace", "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "q", "type": "string"}, {"in": "query", "name": "category", "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/affiliate/marketplace/{saasId}/connect": {"post": {"tags": ["marketplace"], "summary": "Apply to a partner program", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "saasId", "type": "string", "required": true}], "responses": {"201": {"description": "Created"}, "404": {"description": "Program not found"}, "409": {"description": "Already requested"}}}},
        "/partnerships/{id}": {"patch": {"tags": ["marketplace"], "summary": "Accept or reject a partnership request", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not allowed"}, "409": {"description": "Already answered"}}}},
        "/conversations": {"get": {"tags": ["chat"], "summary": "Conversations", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/partnerships/{id}/messages": {
            "get": {"tags": ["chat"], "summary": "Messages of a partnership", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "query", "name": "limit", "type": "integer"}, {"in": "query", "name": "before", "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not a member"}}},
            "post": {"tags": ["chat"], "summary": "Send a message", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid message"}, "403": {"description": "Not allowed"}}}
        },
        "/ws": {"get": {"tags": ["chat"], "summary": "Realtime channel", "parameters": [{"in": "query", "name": "token", "type": "string"}], "responses": {"101": {"description": "Switching protocols"}, "401": {"description": "Invalid session"}}}}
    },
    "definitions": {
        "domain.LoginInput": {"type": "object", "required": ["email", "password", "role"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "role": {"type": "string", "enum": ["saas", "affiliate"]}}},
        "domain.SignUpInput": {"type": "object", "required": ["email", "password", "role"], "properties": {"email": {"type": "string"}, "password": {"type": "string", "minLength": 6}, "role": {"type": "string", "enum": ["saas", "affiliate"]}, "marketing_consent": {"type": "boolean"}}},
        "domain.SaasOnboardingInput": {"type": "object", "required": ["name", "description", "website"], "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "website": {"type": "string"}, "commission_rate": {"type": "number"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Partnerz.ai API",
	Description:      "Backend for the Partnerz.ai partner marketplace.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
