package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SRA Panel API",
        "description": "Statistical aggregation service for student academic result sheets",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Uploads", "description": "Result sheet uploads and session lifecycle"},
        {"name": "Statistics", "description": "Course and cohort statistics"},
        {"name": "Insights", "description": "Narrative insight generation"},
        {"name": "Exports", "description": "CSV and PDF exports"},
        {"name": "System", "description": "Service observability"}
    ],
    "paths": {
        "/uploads": {
            "post": {
                "tags": ["Uploads"],
                "summary": "Upload a result spreadsheet",
                "description": "Parses a CSV or XLSX result sheet and installs it as the session's dataset. Omit X-Session-ID to start a new session.",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true, "description": "Result spreadsheet (.csv or .xlsx)"},
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": false, "description": "Existing session to replace"}
                ],
                "responses": {
                    "201": {"description": "Dataset installed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unsupported file, oversized upload, or no usable rows", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session": {
            "get": {
                "tags": ["Uploads"],
                "summary": "Session dataset summary",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Session not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Uploads"],
                "summary": "Delete the session and its data",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/statistics": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Per-course statistics and cohort metrics",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true},
                    {"name": "course", "in": "query", "type": "string", "required": false, "description": "Restrict to one course code"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Session not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/records": {
            "get": {
                "tags": ["Statistics"],
                "summary": "List normalised course records",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true},
                    {"name": "course", "in": "query", "type": "string", "required": false},
                    {"name": "page", "in": "query", "type": "integer", "required": false},
                    {"name": "page_size", "in": "query", "type": "integer", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Distinct course codes of the full dataset",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/insights": {
            "get": {
                "tags": ["Insights"],
                "summary": "Insight generation status and result",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Session not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/insights/derived": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Deterministic performance insights",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true},
                    {"name": "course", "in": "query", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/insights/generate": {
            "post": {
                "tags": ["Insights"],
                "summary": "Start insight generation for the session",
                "description": "Snapshots the session's records and generates narrative insights in the background. A later request supersedes an earlier one.",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Completed immediately (empty dataset)", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Generation started", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Insight generation disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/records": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export filtered records",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true},
                    {"name": "course", "in": "query", "type": "string", "required": false},
                    {"name": "format", "in": "query", "type": "string", "required": false, "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        },
        "/exports/statistics": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export per-course statistics",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true},
                    {"name": "course", "in": "query", "type": "string", "required": false},
                    {"name": "format", "in": "query", "type": "string", "required": false, "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        },
        "/system/metrics": {
            "get": {
                "tags": ["System"],
                "summary": "Aggregated service metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
