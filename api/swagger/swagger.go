package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Rajbhasha Register API",
        "description": "Inward/outward correspondence register and the monthly Rajbhasha compliance report",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login and token introspection"},
        {"name": "Records", "description": "Inward and outward correspondence register"},
        {"name": "Counters", "description": "Monthly notings and email counts"},
        {"name": "Reports", "description": "Rajbhasha compliance report"},
        {"name": "Users", "description": "Account provisioning"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check (postgres, redis)",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Dependency down"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inward": {
            "post": {
                "tags": ["Records"],
                "summary": "Register an inward record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InwardRequest"}}
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/outward": {
            "post": {
                "tags": ["Records"],
                "summary": "Register an outward record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OutwardRequest"}}
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inward/search": {
            "get": {
                "tags": ["Records"],
                "summary": "Search inward records by number prefix",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inward/recent": {
            "get": {
                "tags": ["Records"],
                "summary": "Latest inward records of the caller's group",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/outward/recent": {
            "get": {
                "tags": ["Records"],
                "summary": "Latest outward records of the caller's group",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/regions/states": {
            "get": {
                "tags": ["Records"],
                "summary": "States grouped by language region",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notings": {
            "get": {
                "tags": ["Counters"],
                "summary": "List the notings saved for a month",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "month", "in": "query", "required": true, "type": "integer"},
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "group", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notings/save": {
            "post": {
                "tags": ["Counters"],
                "summary": "Save the monthly notings count",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/NotingsCountRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/emails": {
            "get": {
                "tags": ["Counters"],
                "summary": "List the email counters saved for a month",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "month", "in": "query", "required": true, "type": "integer"},
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "group", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/emails/save": {
            "post": {
                "tags": ["Counters"],
                "summary": "Save the monthly email count for a region",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EmailCountRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "group", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "sort_by", "in": "query", "type": "string"},
                    {"name": "sort_order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create user account",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Users"],
                "summary": "Update user",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Deactivate user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/report/data": {
            "post": {
                "tags": ["Reports"],
                "summary": "Aggregate the monthly compliance report",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportFilterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/report/view": {
            "post": {
                "tags": ["Reports"],
                "summary": "Render the compliance report as HTML",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportFilterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/report/pdf": {
            "post": {
                "tags": ["Reports"],
                "summary": "Export the compliance report as PDF",
                "produces": ["application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportFilterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/report/cache": {
            "delete": {
                "tags": ["Reports"],
                "summary": "Drop the caller's cached report render",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/report/groups": {
            "get": {
                "tags": ["Reports"],
                "summary": "List user groups for the report filter",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/reports/generate": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a report export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/reports/status/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report job status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download an exported report",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ReportFilterRequest": {
            "type": "object",
            "required": ["month", "year"],
            "properties": {
                "month": {"type": "integer"},
                "year": {"type": "integer"},
                "office": {"type": "string"},
                "group": {"type": "string"}
            }
        },
        "ReportRequest": {
            "type": "object",
            "required": ["month", "year", "format"],
            "properties": {
                "month": {"type": "integer"},
                "year": {"type": "integer"},
                "office": {"type": "string"},
                "group": {"type": "string"},
                "format": {"type": "string", "enum": ["pdf", "csv"]}
            }
        },
        "NotingsCountRequest": {
            "type": "object",
            "required": ["month", "year", "entry_type"],
            "properties": {
                "month": {"type": "integer"},
                "year": {"type": "integer"},
                "entry_type": {"type": "string", "enum": ["Noting", "Comment"]},
                "hindi": {"type": "integer"},
                "english": {"type": "integer"},
                "eoffice": {"type": "integer"},
                "group": {"type": "string"}
            }
        },
        "EmailCountRequest": {
            "type": "object",
            "required": ["month", "year", "entry_type", "region"],
            "properties": {
                "month": {"type": "integer"},
                "year": {"type": "integer"},
                "entry_type": {"type": "string", "enum": ["Received", "Replied"]},
                "region": {"type": "string", "enum": ["A", "B", "C"]},
                "total_english": {"type": "integer"},
                "total_hindi": {"type": "integer"},
                "group": {"type": "string"}
            }
        },
        "InwardRequest": {
            "type": "object",
            "required": ["date_of_receipt", "office", "name_of_sender", "sender_state", "type_of_document", "language_of_document", "reply_required"],
            "properties": {
                "date_of_receipt": {"type": "string", "format": "date"},
                "office": {"type": "string"},
                "name_of_sender": {"type": "string"},
                "address_of_sender": {"type": "string"},
                "sender_city": {"type": "string"},
                "sender_state": {"type": "string"},
                "sender_pin": {"type": "string"},
                "sender_org_type": {"type": "string"},
                "type_of_document": {"type": "string"},
                "other_document": {"type": "string"},
                "language_of_document": {"type": "string", "enum": ["Hindi", "English", "Bilingual"]},
                "count": {"type": "integer"},
                "remarks": {"type": "string"},
                "group": {"type": "string"},
                "reply_required": {"type": "string", "enum": ["Yes", "No"]},
                "reply_sent_date": {"type": "string", "format": "date"},
                "reply_ref_no": {"type": "string"},
                "reply_sent_by": {"type": "string"},
                "reply_sent_in": {"type": "string", "enum": ["Hindi", "English", "Bilingual"]},
                "reply_count": {"type": "integer"}
            }
        },
        "OutwardRequest": {
            "type": "object",
            "required": ["date_of_despatch", "office", "name_of_receiver", "receiver_state", "type_of_document", "language_of_document", "reply_issued_by", "reply_required"],
            "properties": {
                "date_of_despatch": {"type": "string", "format": "date"},
                "office": {"type": "string"},
                "name_of_receiver": {"type": "string"},
                "address_of_receiver": {"type": "string"},
                "receiver_city": {"type": "string"},
                "receiver_state": {"type": "string"},
                "receiver_pin": {"type": "string"},
                "receiver_org_type": {"type": "string"},
                "type_of_document": {"type": "string"},
                "other_document": {"type": "string"},
                "language_of_document": {"type": "string", "enum": ["Hindi", "English", "Bilingual"]},
                "count": {"type": "integer"},
                "remarks": {"type": "string"},
                "reply_issued_by": {"type": "string"},
                "inward_no": {"type": "string"},
                "group": {"type": "string"},
                "reply_required": {"type": "string", "enum": ["Yes", "No"]},
                "reply_sent_date": {"type": "string", "format": "date"},
                "reply_ref_no": {"type": "string"},
                "reply_sent_by": {"type": "string"},
                "reply_sent_in": {"type": "string", "enum": ["Hindi", "English", "Bilingual"]},
                "reply_count": {"type": "integer"}
            }
        },
        "CreateUserRequest": {
            "type": "object",
            "required": ["name", "email", "password", "group"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "mobile": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]},
                "group": {"type": "string"}
            }
        },
        "UpdateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "mobile": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]},
                "group": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
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
