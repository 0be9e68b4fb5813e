package api

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
        "/health": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/sniff": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["containers"],
                "summary": "Identify a container",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dbc.Info"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/convert": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/octet-stream"],
                "produces": ["application/octet-stream"],
                "tags": ["containers"],
                "summary": "Convert a container",
                "parameters": [
                    {"type": "string", "description": "Target format (text or binary)", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string", "format": "binary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/hash": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["names"],
                "summary": "Hash an asset path",
                "parameters": [
                    {"type": "string", "description": "Asset path", "name": "path", "in": "query", "required": true},
                    {"type": "boolean", "description": "Record the path in the name index", "name": "index", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.HashResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/names/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["names"],
                "summary": "Reverse lookup",
                "parameters": [
                    {"type": "string", "description": "NameHash id, decimal or 0x hex", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.NamesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"}
            }
        },
        "api.HashResponse": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "normalized": {"type": "string"},
                "id": {"type": "integer"},
                "hex": {"type": "string"},
                "indexed": {"type": "boolean"}
            }
        },
        "api.NamesResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "hex": {"type": "string"},
                "names": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dbc.Info": {
            "type": "object",
            "properties": {
                "binary": {"type": "boolean"},
                "schema": {"type": "string"},
                "amount": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds the exported Swagger info of the dbckit API
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "dbckit API",
	Description:      "Sniff and convert dbc asset containers and look up NameHash ids.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
