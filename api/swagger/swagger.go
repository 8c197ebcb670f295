package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ClassCover API",
        "description": "Substitute teacher arrangement service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Teachers", "description": "Teacher roster and free periods"},
        {"name": "Substitutions", "description": "Candidate ranking and the substitution log"},
        {"name": "Transfers", "description": "Bulk imports, exports and backups"}
    ],
    "paths": {
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Add a teacher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeacherRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{id}": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Remove teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/teachers/{id}/free-periods": {
            "patch": {
                "tags": ["Teachers"],
                "summary": "Toggle a manually maintained free period",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleFreePeriodRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/free-periods/refresh": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Recompute free periods from imported timetables",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions/candidates": {
            "get": {
                "tags": ["Substitutions"],
                "summary": "Rank substitute candidates for a slot",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "required": true, "type": "integer"},
                    {"name": "absentTeacherId", "in": "query", "required": true, "type": "string"},
                    {"name": "className", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions": {
            "post": {
                "tags": ["Substitutions"],
                "summary": "Record a substitution",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions/daily": {
            "get": {
                "tags": ["Substitutions"],
                "summary": "List substitutions recorded for one date",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions/log": {
            "get": {
                "tags": ["Substitutions"],
                "summary": "List the full substitution history",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions/{id}": {
            "delete": {
                "tags": ["Substitutions"],
                "summary": "Revoke a recorded substitution",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/imports/stats": {
            "post": {
                "tags": ["Transfers"],
                "summary": "Import teacher counters from CSV",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/imports/timetable": {
            "post": {
                "tags": ["Transfers"],
                "summary": "Import master timetables from CSV",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/stats.csv": {
            "get": {
                "tags": ["Transfers"],
                "summary": "Download teacher counters as CSV",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/exports/timetable-template.csv": {
            "get": {
                "tags": ["Transfers"],
                "summary": "Download the timetable upload template",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/exports/announcement.pdf": {
            "get": {
                "tags": ["Transfers"],
                "summary": "Download one day's substitution notice as PDF",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/exports/backup.json": {
            "get": {
                "tags": ["Transfers"],
                "summary": "Download the full state as JSON",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/backup/restore": {
            "post": {
                "tags": ["Transfers"],
                "summary": "Replace the full state from a backup file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Teacher": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "absences": {"type": "integer"},
                "substitutions": {"type": "integer"},
                "masterSchedule": {"type": "object"},
                "scheduleDetails": {"type": "object"},
                "freePeriods": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "Candidate": {
            "type": "object",
            "properties": {
                "teacher": {"$ref": "#/definitions/Teacher"},
                "actualFree": {"type": "array", "items": {"type": "integer"}},
                "isPriorityTarget": {"type": "boolean"},
                "isExtractable": {"type": "boolean"},
                "supportClass": {"type": "string"},
                "isCoreTeacher": {"type": "boolean"},
                "coreSubject": {"type": "string"}
            }
        },
        "SubLogEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "date": {"type": "string"},
                "period": {"type": "integer"},
                "className": {"type": "string"},
                "absentTeacherRef": {"$ref": "#/definitions/TeacherRef"},
                "substituteTeacherRef": {"$ref": "#/definitions/TeacherRef"},
                "timestamp": {"type": "string"}
            }
        },
        "TeacherRef": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "CreateTeacherRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            },
            "required": ["name"]
        },
        "ToggleFreePeriodRequest": {
            "type": "object",
            "properties": {
                "period": {"type": "integer"}
            },
            "required": ["period"]
        },
        "ApplyAssignmentRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "period": {"type": "integer"},
                "absentTeacherId": {"type": "string"},
                "substituteTeacherId": {"type": "string"},
                "className": {"type": "string"}
            },
            "required": ["date", "period", "absentTeacherId", "substituteTeacherId", "className"]
        },
        "ImportSummary": {
            "type": "object",
            "properties": {
                "imported": {"type": "integer"},
                "skipped": {"type": "integer"},
                "created": {"type": "integer"}
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
