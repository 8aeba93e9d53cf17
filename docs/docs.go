// Package docs registers the OpenAPI description served under /swagger.
// Keep it in sync with the godoc annotations in internal/controller.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List and filter log entries",
                "parameters": [
                    {"type": "string", "description": "Filename glob inside the log directory", "name": "filename", "in": "query"},
                    {"type": "string", "description": "Environment name", "name": "environment", "in": "query"},
                    {"type": "string", "description": "Comma-separated list of levels", "name": "levels", "in": "query"},
                    {"type": "string", "description": "Exact class marker", "name": "class", "in": "query"},
                    {"type": "boolean", "description": "Include entries already marked as read", "name": "withRead", "in": "query"},
                    {"enum": ["id", "date", "level", "class", "environment", "file_path"], "type": "string", "description": "Field to order by", "name": "orderBy", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "description": "Order direction", "name": "direction", "in": "query"},
                    {"minimum": 1, "type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 1000, "minimum": 1, "type": "integer", "description": "Entries per page", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LogListResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.Response"}},
                    "503": {"description": "Log files unavailable", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Delete every matching log entry",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CountResponse"}}}
            }
        },
        "/api/v1/logs/read": {
            "post": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Mark every matching log entry as read",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CountResponse"}}}
            }
        },
        "/api/v1/logs/collapse": {
            "post": {
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Collapse continuation entries",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PathsResponse"}}}
            }
        },
        "/api/v1/logs/files": {
            "get": {
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "List log files",
                "parameters": [{"type": "string", "description": "Filename glob", "name": "pattern", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FilesResponse"}}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Remove log files",
                "parameters": [{"type": "string", "description": "Filename glob", "name": "filename", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PathsResponse"}}}
            }
        },
        "/api/v1/logs/classes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List distinct class markers",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ClassesResponse"}}}
            }
        },
        "/api/v1/logs/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Get one log entry",
                "parameters": [{"type": "string", "description": "Entry ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LogEntryResponse"}},
                    "404": {"description": "Log entry not found", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Delete one log entry from its file",
                "parameters": [{"type": "string", "description": "Entry ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CountResponse"}},
                    "404": {"description": "Log entry not found", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/logs/{id}/read": {
            "post": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Mark one log entry as read",
                "parameters": [{"type": "string", "description": "Entry ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CountResponse"}},
                    "404": {"description": "Log entry not found", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ClassesResponse": {"type": "object", "properties": {"classes": {"type": "array", "items": {"type": "string"}}}},
        "dto.CountResponse": {"type": "object", "properties": {"count": {"type": "integer"}}},
        "dto.FilesResponse": {"type": "object", "properties": {"files": {"type": "object", "additionalProperties": {"type": "string"}}}},
        "dto.PathsResponse": {"type": "object", "properties": {"count": {"type": "integer"}, "paths": {"type": "array", "items": {"type": "string"}}}},
        "dto.LogEntryResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "environment": {"type": "string"},
                "level": {"type": "string"},
                "class": {"type": "string"},
                "date": {"type": "string"},
                "timestamp": {"type": "string"},
                "header": {"type": "string"},
                "body": {"type": "string"},
                "context": {"$ref": "#/definitions/model.LogContext"},
                "stack_trace": {"type": "array", "items": {"$ref": "#/definitions/model.StackFrame"}},
                "file_path": {"type": "string"},
                "read": {"type": "boolean"}
            }
        },
        "dto.LogListResponse": {
            "type": "object",
            "properties": {
                "logs": {"type": "array", "items": {"$ref": "#/definitions/dto.LogEntryResponse"}},
                "totalCount": {"type": "integer"},
                "page": {"type": "integer"},
                "size": {"type": "integer"},
                "lastPage": {"type": "integer"}
            }
        },
        "model.LogContext": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "exception": {"type": "string"},
                "in": {"type": "string"},
                "line": {"type": "integer"}
            }
        },
        "model.StackFrame": {
            "type": "object",
            "properties": {"file": {"type": "string"}, "line": {"type": "integer"}, "call": {"type": "string"}}
        },
        "model.Response": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "data": {}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Log Reader API",
	Description:      "Query, mark as read and delete entries of application log files.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
