// Package docs holds the OpenAPI document served under /swagger.
// Keep it in step with the @Router annotations on the handlers.
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
        "/exchanges": {
            "get": {
                "description": "Get a paginated list of exchanges the current user participates in",
                "produces": ["application/json"],
                "tags": ["exchanges"],
                "summary": "List my exchanges",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Items per page", "name": "per_page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            },
            "post": {
                "description": "Create a gift exchange; the caller becomes organizer and first participant",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["exchanges"],
                "summary": "Create a new exchange",
                "parameters": [
                    {"description": "Exchange creation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/exchange.CreateExchangeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/exchanges/{id}": {
            "get": {
                "description": "Get an exchange with its participants and pending requests",
                "produces": ["application/json"],
                "tags": ["exchanges"],
                "summary": "Get exchange by ID",
                "parameters": [{"type": "string", "description": "Exchange ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            },
            "delete": {
                "description": "Organizer only. Removes participants, requests and assignments too",
                "produces": ["application/json"],
                "tags": ["exchanges"],
                "summary": "Delete an exchange",
                "parameters": [{"type": "string", "description": "Exchange ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/exchanges/{id}/can-generate": {
            "get": {
                "description": "True while the exchange is open and has at least 3 participants",
                "produces": ["application/json"],
                "tags": ["exchanges"],
                "summary": "Check whether assignments can be generated",
                "parameters": [{"type": "string", "description": "Exchange ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/exchanges/{id}/participants/{userId}": {
            "delete": {
                "description": "The organizer may remove anyone; other participants may only remove themselves",
                "produces": ["application/json"],
                "tags": ["exchanges"],
                "summary": "Remove a participant",
                "parameters": [
                    {"type": "string", "description": "Exchange ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Participant user ID", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/exchanges/{id}/requests": {
            "post": {
                "description": "The caller asks the organizer to be admitted to the exchange",
                "produces": ["application/json"],
                "tags": ["exchanges"],
                "summary": "Request to join",
                "parameters": [{"type": "string", "description": "Exchange ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/exchanges/{id}/requests/{userId}/approve": {
            "post": {
                "produces": ["application/json"],
                "tags": ["exchanges"],
                "summary": "Approve a join request",
                "parameters": [
                    {"type": "string", "description": "Exchange ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Requesting user ID", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/exchanges/{id}/requests/{userId}/decline": {
            "post": {
                "produces": ["application/json"],
                "tags": ["exchanges"],
                "summary": "Decline a join request",
                "parameters": [
                    {"type": "string", "description": "Exchange ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Requesting user ID", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/exchanges/{id}/assignments": {
            "post": {
                "description": "Organizer only. Pairs every participant with a recipient, exactly once per exchange",
                "produces": ["application/json"],
                "tags": ["assignments"],
                "summary": "Generate assignments",
                "parameters": [{"type": "string", "description": "Exchange ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/exchanges/{id}/assignments/me": {
            "get": {
                "description": "Returns the recipient the caller gives to. Nobody else's pairing is visible",
                "produces": ["application/json"],
                "tags": ["assignments"],
                "summary": "Get my assignment",
                "parameters": [{"type": "string", "description": "Exchange ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/exchanges/{id}/assignments/summary": {
            "get": {
                "description": "Organizer only. Aggregate counts without recipient details",
                "produces": ["application/json"],
                "tags": ["assignments"],
                "summary": "Assignment summary",
                "parameters": [{"type": "string", "description": "Exchange ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get the current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "description": "Get a paginated list of all users",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List all users",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            },
            "post": {
                "description": "Create a new user with name, email and an optional wishlist",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a new user",
                "parameters": [
                    {"description": "User creation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/user.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "exchange.CreateExchangeRequest": {
            "type": "object",
            "required": ["gift_budget", "name"],
            "properties": {
                "gift_budget": {"type": "string", "maxLength": 100},
                "name": {"type": "string", "maxLength": 100}
            }
        },
        "user.CreateUserRequest": {
            "type": "object",
            "required": ["email", "name"],
            "properties": {
                "email": {"type": "string", "maxLength": 255},
                "name": {"type": "string", "maxLength": 100},
                "wishlist": {"type": "string", "maxLength": 2000}
            }
        },
        "response.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "response.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/response.APIError"},
                "meta": {"$ref": "#/definitions/response.Meta"},
                "success": {"type": "boolean"}
            }
        },
        "response.Meta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "per_page": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Gift Exchange API",
	Description:      "Organize gift exchanges: admit participants, then draw secret assignments once.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
