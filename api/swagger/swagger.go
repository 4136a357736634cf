package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutoring Sessions API",
        "description": "Booking, availability and session reports for the tutoring programme",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [
        {"BearerAuth": []}
    ],
    "tags": [
        {"name": "Sessions", "description": "Booking and listing advisory sessions"},
        {"name": "Availability", "description": "Student weekly availability"},
        {"name": "Directory", "description": "Counselor directory"},
        {"name": "Reports", "description": "Session counts per week, fortnight or month"}
    ],
    "paths": {
        "/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List the caller's sessions with participant names",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Book an advisory session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/BookSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Malformed payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Slot or role rule violated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Session store unreachable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/validate": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Check a candidate slot and derive its end time",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Slot rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}": {
            "delete": {
                "tags": ["Sessions"],
                "summary": "Delete a session",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Weekly availability of a student",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/counselors": {
            "get": {
                "tags": ["Directory"],
                "summary": "List counselors",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/groups/{id}/reports/sessions": {
            "get": {
                "tags": ["Reports"],
                "summary": "Session counts per period for a group",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "from", "type": "integer"},
                    {"in": "query", "name": "to", "type": "integer"},
                    {"in": "query", "name": "granularity", "type": "string", "enum": ["weekly", "biweekly", "monthly"]},
                    {"in": "query", "name": "categories", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/groups/{id}/reports/sessions/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download session counts as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]},
                    {"in": "query", "name": "from", "type": "integer"},
                    {"in": "query", "name": "to", "type": "integer"},
                    {"in": "query", "name": "granularity", "type": "string"},
                    {"in": "query", "name": "categories", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "404": {"description": "Export disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SlotRequest": {
            "type": "object",
            "required": ["date", "start_time"],
            "properties": {
                "date": {"type": "string", "example": "2025-11-10"},
                "start_time": {"type": "string", "example": "09:00"},
                "duration_minutes": {"type": "integer", "enum": [15, 30, 45, 60]}
            }
        },
        "BookSessionRequest": {
            "type": "object",
            "required": ["date", "start_time"],
            "properties": {
                "date": {"type": "string", "example": "2025-11-10"},
                "start_time": {"type": "string", "example": "09:00"},
                "duration_minutes": {"type": "integer", "enum": [15, 30, 45, 60]},
                "mode": {"type": "string", "enum": ["withTutor", "withCounselor"]},
                "student_id": {"type": "string"},
                "counselor_id": {"type": "string"},
                "category": {"type": "string", "enum": ["general", "academic-issue", "personal-issue", "follow-up", "tutor-change", "counseling"]},
                "group_id": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
