package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/api/v1/catalogs": {
            "get": {
                "tags": ["catalogs"],
                "summary": "List catalogs",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/api.CatalogDTO"}}}}
            }
        },
        "/api/v1/catalogs/{key}": {
            "get": {
                "tags": ["catalogs"],
                "summary": "Get a catalog",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Catalog key", "name": "key", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.Catalog"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/catalogs/refresh": {
            "post": {
                "tags": ["catalogs"],
                "summary": "Refresh catalogs",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}}}
            }
        },
        "/api/v1/estimate": {
            "post": {
                "tags": ["estimate"],
                "summary": "Estimate a quote",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"description": "Selection", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.EstimateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pricing.Breakdown"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions": {
            "post": {
                "tags": ["sessions"],
                "summary": "Create a session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"description": "Catalog", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CreateSessionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/session.View"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}": {
            "get": {
                "tags": ["sessions"],
                "summary": "Get a session",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.View"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["sessions"],
                "summary": "Delete a session",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/geographic/{code}": {
            "post": {
                "tags": ["sessions"],
                "summary": "Toggle a geographic unit",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Geographic code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.View"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/activities/{activityID}": {
            "post": {
                "tags": ["sessions"],
                "summary": "Toggle an activity",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Activity ID", "name": "activityID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.View"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/bundles/{bundleID}": {
            "post": {
                "tags": ["sessions"],
                "summary": "Toggle a bundle",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Bundle ID", "name": "bundleID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.View"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/term": {
            "put": {
                "tags": ["sessions"],
                "summary": "Set the billing term",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "monthly or annual", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.TermRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.View"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/review": {
            "post": {
                "tags": ["sessions"],
                "summary": "Review the quote",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.View"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/modify": {
            "post": {
                "tags": ["sessions"],
                "summary": "Modify the selection",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.View"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/submit": {
            "post": {
                "tags": ["sessions"],
                "summary": "Submit the quote",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Contact", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/session.Contact"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.SubmissionDTO"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/submissions": {
            "get": {
                "tags": ["submissions"],
                "summary": "List submissions",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "default": 50, "description": "Maximum number of rows", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/api.SubmissionDTO"}}}}
            }
        },
        "/api/v1/submissions/{id}": {
            "get": {
                "tags": ["submissions"],
                "summary": "Get a submission",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Submission ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.SubmissionDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/settings/refresh-interval": {
            "get": {
                "tags": ["settings"],
                "summary": "Get the catalog refresh interval",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.RefreshIntervalRequest"}}}
            },
            "put": {
                "tags": ["settings"],
                "summary": "Set the catalog refresh interval",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"description": "Seconds or cron expression", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.RefreshIntervalRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.RefreshIntervalRequest"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/settings/email": {
            "get": {
                "tags": ["settings"],
                "summary": "Get email settings",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/storage.EmailConfig"}}}
            },
            "put": {
                "tags": ["settings"],
                "summary": "Update email settings",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"description": "Email settings", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.EmailConfigRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storage.EmailConfig"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/settings/email/test": {
            "post": {
                "tags": ["settings"],
                "summary": "Send a test email",
                "consumes": ["application/json"],
                "parameters": [{"description": "Settings and recipient", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.EmailTestRequest"}}],
                "responses": {
                    "204": {"description": "No Content"},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.CatalogDTO": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "name": {"type": "string"},
                "vertical": {"type": "string"},
                "currency": {"type": "string"},
                "geographic": {"type": "integer"},
                "activities": {"type": "integer"},
                "bundles": {"type": "integer"}
            }
        },
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "missing_geographic": {"type": "boolean"},
                "missing_activity": {"type": "boolean"}
            }
        },
        "api.EstimateRequest": {
            "type": "object",
            "properties": {
                "catalog": {"type": "string", "example": "construction-idf"},
                "geographic": {"type": "array", "items": {"type": "string"}, "example": ["75", "92", "93", "94"]},
                "activities": {"type": "array", "items": {"type": "string"}, "example": ["gros-oeuvre"]},
                "term": {"type": "string", "enum": ["monthly", "annual"]}
            }
        },
        "api.CreateSessionRequest": {
            "type": "object",
            "properties": {"catalog": {"type": "string", "example": "construction-idf"}}
        },
        "api.TermRequest": {
            "type": "object",
            "properties": {"term": {"type": "string", "enum": ["monthly", "annual"]}}
        },
        "api.RefreshIntervalRequest": {
            "type": "object",
            "properties": {"interval": {"type": "string", "example": "3600"}}
        },
        "api.EmailConfigRequest": {
            "type": "object",
            "properties": {
                "provider": {"type": "string", "enum": ["smtp", "sendgrid"]},
                "host": {"type": "string"},
                "port": {"type": "integer"},
                "username": {"type": "string"},
                "password": {"type": "string"},
                "from_address": {"type": "string"},
                "from_name": {"type": "string"},
                "api_key": {"type": "string"},
                "enabled": {"type": "boolean"}
            }
        },
        "api.EmailTestRequest": {
            "allOf": [
                {"$ref": "#/definitions/api.EmailConfigRequest"},
                {"type": "object", "properties": {"to": {"type": "string"}}}
            ]
        },
        "api.SubmissionDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "session_id": {"type": "string"},
                "catalog_key": {"type": "string"},
                "term": {"type": "string"},
                "total": {"type": "string"},
                "contact_name": {"type": "string"},
                "contact_email": {"type": "string"},
                "submitted_at": {"type": "string", "format": "date-time"},
                "summary": {"$ref": "#/definitions/session.Summary"}
            }
        },
        "catalog.Catalog": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "name": {"type": "string"},
                "vertical": {"type": "string"},
                "currency": {"type": "string"},
                "geographic": {"type": "array", "items": {"$ref": "#/definitions/catalog.GeographicUnit"}},
                "activities": {"type": "array", "items": {"$ref": "#/definitions/catalog.ActivityUnit"}},
                "bundles": {"type": "array", "items": {"$ref": "#/definitions/catalog.Bundle"}}
            }
        },
        "catalog.GeographicUnit": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "code": {"type": "string"},
                "base_price": {"type": "string"},
                "bundle_id": {"type": "string"}
            }
        },
        "catalog.ActivityUnit": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "base_price": {"type": "string"}
            }
        },
        "catalog.Bundle": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "codes": {"type": "array", "items": {"type": "string"}}
            }
        },
        "pricing.Line": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["geographic", "activity", "bundle"]},
                "ref": {"type": "string"},
                "name": {"type": "string"},
                "base_price": {"type": "string"},
                "amount": {"type": "string"}
            }
        },
        "pricing.Breakdown": {
            "type": "object",
            "properties": {
                "geographic_subtotal": {"type": "string"},
                "activity_subtotal": {"type": "string"},
                "bundle_discount": {"type": "string"},
                "term_discount": {"type": "string"},
                "total": {"type": "string"},
                "activity_multiplier": {"type": "integer"},
                "geographic_multiplier": {"type": "integer"},
                "term": {"type": "string"},
                "lines": {"type": "array", "items": {"$ref": "#/definitions/pricing.Line"}},
                "completed_bundles": {"type": "array", "items": {"type": "string"}},
                "unresolved": {"type": "array", "items": {"type": "string"}}
            }
        },
        "session.Contact": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "session.Summary": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "catalog_key": {"type": "string"},
                "catalog_name": {"type": "string"},
                "currency": {"type": "string"},
                "geographic": {"type": "array", "items": {"type": "string"}},
                "activities": {"type": "array", "items": {"type": "string"}},
                "term": {"type": "string"},
                "breakdown": {"$ref": "#/definitions/pricing.Breakdown"},
                "generated_at": {"type": "string", "format": "date-time"}
            }
        },
        "session.View": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "state": {"type": "string", "enum": ["editing", "reviewing", "submitted"]},
                "catalog_key": {"type": "string"},
                "geographic": {"type": "array", "items": {"type": "string"}},
                "activities": {"type": "array", "items": {"type": "string"}},
                "term": {"type": "string"},
                "breakdown": {"$ref": "#/definitions/pricing.Breakdown"},
                "summary": {"$ref": "#/definitions/session.Summary"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "storage.EmailConfig": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "provider": {"type": "string"},
                "host": {"type": "string"},
                "port": {"type": "integer"},
                "username": {"type": "string"},
                "from_address": {"type": "string"},
                "from_name": {"type": "string"},
                "enabled": {"type": "boolean"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
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
	Title:            "Quote Manager API",
	Description:      "Subscription quote estimation for construction-platform catalogs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
