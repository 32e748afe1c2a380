// Package docs holds the swag registration for the Swagger UI at /swagger/*.
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
        "/api/generate-docx": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/vnd.openxmlformats-officedocument.wordprocessingml.document"],
                "summary": "Generate the registration document",
                "parameters": [
                    {
                        "description": "Member record",
                        "name": "record",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.MemberRecord"}
                    }
                ],
                "responses": {
                    "200": {"description": "Merged document", "schema": {"type": "file"}},
                    "500": {"description": "Error envelope", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/preview-doc": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/pdf"],
                "summary": "Render the registration document as PDF",
                "parameters": [
                    {
                        "description": "Member record",
                        "name": "record",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.MemberRecord"}
                    }
                ],
                "responses": {
                    "200": {"description": "Converted PDF", "schema": {"type": "file"}},
                    "500": {"description": "Error envelope", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/generation-events": {
            "get": {
                "produces": ["application/json"],
                "summary": "List anonymous generation events",
                "parameters": [
                    {"type": "integer", "default": 10, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.EventListResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "model.GenerationEvent": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "duration_ms": {"type": "integer"},
                "error_kind": {"type": "string"},
                "id": {"type": "string"},
                "kind": {"type": "string"},
                "request_id": {"type": "string"},
                "size_bytes": {"type": "integer"},
                "status": {"type": "string"}
            }
        },
        "model.MemberRecord": {
            "type": "object",
            "required": ["address", "email", "idCardNumber", "name", "phone"],
            "properties": {
                "address": {"type": "string"},
                "email": {"type": "string"},
                "idCardNumber": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "service.EventListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.GenerationEvent"}},
                "total": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Member Document API",
	Description:      "Generates member registration documents from a fixed template.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
