package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable Editor API",
        "description": "Interactive weekly timetable editing service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Editor", "description": "Interactive timetable editing"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/editor/sessions": {
            "post": {
                "tags": ["Editor"],
                "summary": "Open an editing session for an education level",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"}
                }
            }
        },
        "/editor/sessions/{level}": {
            "delete": {
                "tags": ["Editor"],
                "summary": "Close an editing session",
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Closed"},
                    "404": {"description": "No session"}
                }
            }
        },
        "/editor/{level}/grid": {
            "get": {
                "tags": ["Editor"],
                "summary": "Get the visible grid with editor state",
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No session"}
                }
            }
        },
        "/editor/{level}/cells": {
            "put": {
                "tags": ["Editor"],
                "summary": "Place a course into a cell, course ID 0 clears it",
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CellEditRequest"}}
                ],
                "responses": {
                    "200": {"description": "Edit outcome, accepted or rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Generation in flight"}
                }
            }
        },
        "/editor/{level}/swap": {
            "post": {
                "tags": ["Editor"],
                "summary": "Swap the contents of two cells",
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SwapRequest"}}
                ],
                "responses": {
                    "200": {"description": "Edit outcome, accepted or rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editor/{level}/undo": {
            "post": {
                "tags": ["Editor"],
                "summary": "Step the edit history back one snapshot",
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editor/{level}/redo": {
            "post": {
                "tags": ["Editor"],
                "summary": "Step the edit history forward one snapshot",
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editor/{level}/generate": {
            "post": {
                "tags": ["Editor"],
                "summary": "Request a fresh schedule variant from the generation service",
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Variant stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Generation already in flight"},
                    "502": {"description": "Generation service failed"}
                }
            }
        },
        "/editor/{level}/variants": {
            "get": {
                "tags": ["Editor"],
                "summary": "List stored schedule variants",
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editor/{level}/variants/{index}": {
            "put": {
                "tags": ["Editor"],
                "summary": "Switch the session to a stored variant",
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"},
                    {"name": "index", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No variant at index"}
                }
            }
        },
        "/editor/{level}/stats": {
            "get": {
                "tags": ["Editor"],
                "summary": "Completion statistics for the visible grid",
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editor/{level}/advice": {
            "get": {
                "tags": ["Editor"],
                "summary": "Courses legally insertable into an empty cell",
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "query", "required": true, "type": "integer"},
                    {"name": "block", "in": "query", "required": true, "type": "integer"},
                    {"name": "grade", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Cell is occupied or out of range"}
                }
            }
        },
        "/editor/{level}/export": {
            "get": {
                "tags": ["Editor"],
                "summary": "Download the visible grid as CSV or PDF",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "level", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered file"},
                    "400": {"description": "Unsupported format"}
                }
            }
        }
    },
    "definitions": {
        "OpenSessionRequest": {
            "type": "object",
            "required": ["level"],
            "properties": {
                "level": {"type": "string"}
            }
        },
        "CellEditRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "block": {"type": "integer"},
                "grade": {"type": "integer"},
                "course_id": {"type": "integer"}
            }
        },
        "CellRef": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "block": {"type": "integer"},
                "grade": {"type": "integer"}
            }
        },
        "SwapRequest": {
            "type": "object",
            "properties": {
                "source": {"$ref": "#/definitions/CellRef"},
                "destination": {"$ref": "#/definitions/CellRef"}
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
